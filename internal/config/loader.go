package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Paths helper for default/matchup files.
type Paths struct {
	BaseDir string // e.g. ./configs
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "default.yaml")
}

func (p Paths) MatchupPath(name string) string {
	return filepath.Join(p.BaseDir, "matchups", name+".yaml")
}

// Files lists the default file and every matchup file currently on disk.
func (p Paths) Files() []string {
	files := []string{p.DefaultPath()}
	matches, _ := filepath.Glob(filepath.Join(p.BaseDir, "matchups", "*.yaml"))
	sort.Strings(matches)
	return append(files, matches...)
}

// Matchups returns the names of the matchup files on disk.
func (p Paths) Matchups() []string {
	var names []string
	for _, f := range p.Files()[1:] {
		names = append(names, strings.TrimSuffix(filepath.Base(f), ".yaml"))
	}
	return names
}

// Loader reads YAML configs and merges default → matchup.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: matchup name, "" for default only
}

// NewLoader creates a config loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged loads default.yaml and, when matchup is set, overlays
// matchups/<matchup>.yaml. A named matchup must exist.
func (l *Loader) LoadMerged(matchup string) (RawConfig, error) {
	l.mu.RLock()
	if cfg, ok := l.cache[matchup]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	defCfg, _, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	merged := defCfg
	if matchup != "" {
		mCfg, found, err := readYAML(l.paths.MatchupPath(matchup))
		if err != nil {
			return RawConfig{}, fmt.Errorf("read matchup %s: %w", matchup, err)
		}
		if !found {
			return RawConfig{}, fmt.Errorf("%w: no matchup named %q", ErrInvalid, matchup)
		}
		merged = mergeRaw(defCfg, mCfg)
	}

	l.mu.Lock()
	l.cache[matchup] = merged
	l.cache[""] = defCfg
	l.mu.Unlock()
	return merged, nil
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

// readYAML loads a YAML file. A missing file returns a zero config and
// found=false.
func readYAML(path string) (cfg RawConfig, found bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, false, nil
		}
		return RawConfig{}, false, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, true, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, true, nil
}

// mergeRaw overlays b on a: every field b sets wins. Lineup orders are
// replaced whole.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a
	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	// rules
	out.Rules.Innings = pick(a.Rules.Innings, b.Rules.Innings)
	out.Rules.PlacedRunner = pick(a.Rules.PlacedRunner, b.Rules.PlacedRunner)
	switch {
	case b.Rules.OutMix == nil:
	case a.Rules.OutMix == nil:
		c := *b.Rules.OutMix
		out.Rules.OutMix = &c
	default:
		out.Rules.OutMix = &OutMixConfig{
			Groundout: pick(a.Rules.OutMix.Groundout, b.Rules.OutMix.Groundout),
			Flyout:    pick(a.Rules.OutMix.Flyout, b.Rules.OutMix.Flyout),
			Lineout:   pick(a.Rules.OutMix.Lineout, b.Rules.OutMix.Lineout),
			Popout:    pick(a.Rules.OutMix.Popout, b.Rules.OutMix.Popout),
		}
	}
	switch {
	case b.Rules.StrikeoutMix == nil:
	case a.Rules.StrikeoutMix == nil:
		c := *b.Rules.StrikeoutMix
		out.Rules.StrikeoutMix = &c
	default:
		out.Rules.StrikeoutMix = &StrikeoutMixConfig{
			Swinging: pick(a.Rules.StrikeoutMix.Swinging, b.Rules.StrikeoutMix.Swinging),
			Looking:  pick(a.Rules.StrikeoutMix.Looking, b.Rules.StrikeoutMix.Looking),
			FoulTip:  pick(a.Rules.StrikeoutMix.FoulTip, b.Rules.StrikeoutMix.FoulTip),
		}
	}

	// run
	out.Run.Repetitions = pick(a.Run.Repetitions, b.Run.Repetitions)
	out.Run.Seed = pick(a.Run.Seed, b.Run.Seed)
	out.Run.Workers = pick(a.Run.Workers, b.Run.Workers)
	out.Run.Series = pick(a.Run.Series, b.Run.Series)

	// teams; a side's lineup only survives if its team did not change
	if b.Teams.Away != "" {
		out.Teams.Away = b.Teams.Away
	}
	if b.Teams.Home != "" {
		out.Teams.Home = b.Teams.Home
	}
	var lu LineupsConfig
	if a.Lineups != nil {
		if a.Teams.Away == out.Teams.Away {
			lu.Away = a.Lineups.Away
		}
		if a.Teams.Home == out.Teams.Home {
			lu.Home = a.Lineups.Home
		}
	}
	if b.Lineups != nil {
		if b.Lineups.Away != nil {
			lu.Away = b.Lineups.Away
		}
		if b.Lineups.Home != nil {
			lu.Home = b.Lineups.Home
		}
	}
	out.Lineups = nil
	if lu.Away != nil || lu.Home != nil {
		out.Lineups = &lu
	}

	if b.Stats.Dir != "" {
		out.Stats.Dir = b.Stats.Dir
	}
	return out
}

func pick[T any](a, b *T) *T {
	if b != nil {
		return b
	}
	return a
}
