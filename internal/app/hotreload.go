package app

import (
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// BinaryWatcher polls the running executable's mod time and fires a
// callback once a newer build lands on disk. Development convenience: edit,
// rebuild, get offered a restart without hunting for the window.
type BinaryWatcher struct {
	path     string
	baseline time.Time
	interval time.Duration
	stop     chan struct{}

	// OnRebuilt is called once from the watcher goroutine when a newer
	// binary appears. UI updates must hop back to the event loop.
	OnRebuilt func()
}

// WatchBinary creates a watcher over the current executable. Returns nil
// when the executable cannot be resolved; callers treat that as "no hot
// reload" and carry on.
func WatchBinary(interval time.Duration) *BinaryWatcher {
	path, err := os.Executable()
	if err != nil {
		return nil
	}
	// go build replaces the file behind the symlink; watch the target.
	if real, err := filepath.EvalSymlinks(path); err == nil {
		path = real
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	return &BinaryWatcher{
		path:     path,
		baseline: info.ModTime(),
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start begins polling in a background goroutine.
func (w *BinaryWatcher) Start() {
	w.stop = make(chan struct{})
	go w.loop()
}

// Stop ends the polling goroutine.
func (w *BinaryWatcher) Stop() {
	close(w.stop)
}

// Defer updates the baseline to the current binary so a declined restart
// is not re-offered every tick.
func (w *BinaryWatcher) Defer() {
	if info, err := os.Stat(w.path); err == nil {
		w.baseline = info.ModTime()
	}
}

// Restart replaces the current process with the watched binary, keeping
// arguments and environment. Does not return on success.
func (w *BinaryWatcher) Restart() error {
	return syscall.Exec(w.path, os.Args, os.Environ())
}

func (w *BinaryWatcher) loop() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				continue
			}
			if info.ModTime().After(w.baseline) {
				if w.OnRebuilt != nil {
					w.OnRebuilt()
				}
				return
			}
		}
	}
}
