package tui

import (
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/julianstephens/ritual/internal/logger"
)

// StoreChangedMsg is sent when the store file was written by another process.
type StoreChangedMsg struct{}

const watchDebounce = 250 * time.Millisecond

// StoreWatcher reports writes to a file-backed store so the TUI can reload
// after a CLI command changes the data underneath it. The TUI's own saves
// are reported as well; reloading them is a no-op.
type StoreWatcher struct {
	watcher *fsnotify.Watcher
	dir     string
	base    string
}

// NewStoreWatcher watches the directory holding path. Sidecar files that
// share the store's name (sqlite -wal/-shm, json .tmp) count as writes too.
func NewStoreWatcher(path string) (*StoreWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}
	logger.Debug("Watching store for external changes", "dir", dir)
	return &StoreWatcher{watcher: w, dir: dir, base: filepath.Base(path)}, nil
}

func (s *StoreWatcher) matches(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return strings.HasPrefix(filepath.Base(ev.Name), s.base)
}

// Wait blocks until the next relevant write. It returns nil once the
// watcher is closed, which ends the command chain.
func (s *StoreWatcher) Wait() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-s.watcher.Events:
				if !ok {
					return nil
				}
				if !s.matches(ev) {
					continue
				}
				s.drain()
				return StoreChangedMsg{}
			case err, ok := <-s.watcher.Errors:
				if !ok {
					return nil
				}
				logger.Warn("Store watcher error", "error", err)
			}
		}
	}
}

// drain swallows the burst of events a single save produces.
func (s *StoreWatcher) drain() {
	timer := time.NewTimer(watchDebounce)
	defer timer.Stop()
	for {
		select {
		case _, ok := <-s.watcher.Events:
			if !ok {
				return
			}
		case <-timer.C:
			return
		}
	}
}

func (s *StoreWatcher) Close() error {
	return s.watcher.Close()
}
