package config

import (
	"context"
	"os"
	"time"
)

// FileWatcher polls modification times under a config directory and calls
// onChange when a file changes, appears, or disappears. Matchup files are
// re-listed on every scan.
type FileWatcher struct {
	paths     Paths
	Interval  time.Duration
	onChange  func(string) // called with path that changed
	lastMTime map[string]time.Time
}

// NewFileWatcher creates a watcher for the files under paths.
func NewFileWatcher(paths Paths, interval time.Duration, onChange func(string)) *FileWatcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &FileWatcher{
		paths:     paths,
		Interval:  interval,
		onChange:  onChange,
		lastMTime: make(map[string]time.Time),
	}
}

// Run polls until ctx is done.
func (w *FileWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	// prime cache
	w.scan(true)
	for {
		select {
		case <-ticker.C:
			w.scan(false)
		case <-ctx.Done():
			return
		}
	}
}

// scan checks mtimes and reports files that changed since the last scan.
func (w *FileWatcher) scan(prime bool) {
	seen := make(map[string]bool)
	for _, p := range w.paths.Files() {
		fi, err := os.Stat(p)
		if err != nil {
			continue
		}
		seen[p] = true
		mt := fi.ModTime()
		last, ok := w.lastMTime[p]
		w.lastMTime[p] = mt
		if prime || (ok && !mt.After(last)) {
			continue
		}
		w.notify(p)
	}
	for p := range w.lastMTime {
		if !seen[p] {
			delete(w.lastMTime, p)
			if !prime {
				w.notify(p)
			}
		}
	}
}

func (w *FileWatcher) notify(p string) {
	if w.onChange != nil {
		w.onChange(p)
	}
}
