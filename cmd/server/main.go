// Command server exposes the simulator over HTTP and gRPC.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"

	"github.com/xtding233/mlbsim/internal/config"
	"github.com/xtding233/mlbsim/internal/handlers"
	"github.com/xtding233/mlbsim/internal/report"
	"github.com/xtding233/mlbsim/internal/rpc"
	"github.com/xtding233/mlbsim/internal/service"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "mlbsim"})

	env, err := config.LoadEnv()
	if err != nil {
		logger.Fatal("configuration", "err", err)
	}
	lvl, _ := env.Level()
	logger.SetLevel(lvl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := config.NewLoader(env.ConfigDir)
	opts := []service.Option{service.WithLogger(logger), service.WithStatsDir(env.StatsDir)}

	if env.RedisURL != "" {
		redisOpts, err := redis.ParseURL(env.RedisURL)
		if err != nil {
			logger.Fatal("parse redis url", "err", err)
		}
		client := redis.NewClient(redisOpts)
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatal("connect to redis", "err", err)
		}
		stream := report.NewRedisStream(client)
		stream.PerGame = true
		opts = append(opts, service.WithPublisher(stream))
		logger.Info("publishing plays to redis", "stream", stream.Stream)
	}
	svc := service.New(loader, opts...)

	watcher := config.NewFileWatcher(loader.Paths(), env.ReloadInterval, func(path string) {
		logger.Info("config changed", "path", path)
		loader.Invalidate()
		svc.Invalidate()
	})
	go watcher.Run(ctx)

	r := chi.NewRouter()
	r.Use(chimiddleware.Timeout(90 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: env.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Mount("/", handlers.NewHandler(svc, logger.WithPrefix("http")).Routes())

	httpSrv := &http.Server{
		Addr:              env.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcSrv := grpc.NewServer()
	rpc.Register(grpcSrv, rpc.NewServer(svc, logger.WithPrefix("grpc")))
	lis, err := net.Listen("tcp", env.GRPCAddr)
	if err != nil {
		logger.Fatal("listen grpc", "addr", env.GRPCAddr, "err", err)
	}

	errc := make(chan error, 2)
	go func() {
		logger.Info("http listening", "addr", env.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
	go func() {
		logger.Info("grpc listening", "addr", env.GRPCAddr)
		if err := grpcSrv.Serve(lis); err != nil {
			errc <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errc:
		logger.Error("server failed", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "err", err)
	}
	grpcSrv.GracefulStop()
}
