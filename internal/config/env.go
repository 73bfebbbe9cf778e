package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Env holds process settings read from MLBSIM_* variables.
type Env struct {
	HTTPAddr       string        `envconfig:"HTTP_ADDR" default:":8080"`
	GRPCAddr       string        `envconfig:"GRPC_ADDR" default:":9090"`
	ConfigDir      string        `envconfig:"CONFIG_DIR" default:"./configs"`
	StatsDir       string        `envconfig:"STATS_DIR"`
	RedisURL       string        `envconfig:"REDIS_URL"`
	CORSOrigins    []string      `envconfig:"CORS_ORIGINS" default:"*"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	ReloadInterval time.Duration `envconfig:"RELOAD_INTERVAL" default:"2s"`
}

// LoadEnv loads .env files (missing ones are skipped) and then reads the
// environment. Variables already set take precedence over the files.
func LoadEnv(files ...string) (Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Env{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	var env Env
	if err := envconfig.Process("mlbsim", &env); err != nil {
		return Env{}, fmt.Errorf("read environment: %w", err)
	}
	if _, err := env.Level(); err != nil {
		return Env{}, err
	}
	return env, nil
}

// Level parses LogLevel.
func (e Env) Level() (log.Level, error) {
	lvl, err := log.ParseLevel(e.LogLevel)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("%w: MLBSIM_LOG_LEVEL %q", ErrInvalid, e.LogLevel)
	}
	return lvl, nil
}
