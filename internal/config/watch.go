package config

import (
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the config file on write and publishes the new, merged
// Config on Changes. The daemon swaps its WmState.Config pointer atomically
// on each delivery; the container-tree core never touches the filesystem
// itself.
type Watcher struct {
	path    string
	log     *slog.Logger
	watcher *fsnotify.Watcher
	Changes chan *Config
}

// NewWatcher starts watching path's parent directory (editors commonly
// replace a file via rename-into-place, which fsnotify only sees as an
// event on the containing directory, not the original inode).
func NewWatcher(path string, log *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dirOf(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{path: path, log: log, watcher: fsw, Changes: make(chan *Config, 1)}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Name != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			cfg, err := LoadFromPath(w.path)
			if err != nil {
				w.log.Warn("config reload failed, keeping previous config", "error", err)
				continue
			}
			select {
			case w.Changes <- cfg:
			default:
				// Drain the stale pending reload and replace it with the
				// fresh one; only the latest matters.
				<-w.Changes
				w.Changes <- cfg
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher error", "error", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error { return w.watcher.Close() }

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}
