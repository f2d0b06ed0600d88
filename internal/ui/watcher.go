package ui

import (
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// dbChangedMsg is sent when the database file is written by another process.
type dbChangedMsg struct{}

// Watcher reports writes to the sqlite database and its journal files.
type Watcher struct {
	watcher *fsnotify.Watcher
	base    string
}

// NewWatcher watches the directory holding dbPath so journal files are seen too.
func NewWatcher(dbPath string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(dbPath)); err != nil {
		w.Close()
		return nil, err
	}
	return &Watcher{watcher: w, base: filepath.Base(dbPath)}, nil
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !strings.HasPrefix(filepath.Base(event.Name), w.base) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove)
}

// WatchCmd blocks until the next relevant change. Re-issue it after each message.
func (w *Watcher) WatchCmd() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}
				if w.relevant(event) {
					return dbChangedMsg{}
				}
			case _, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
