package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher reports raw fsnotify changes to one file.
type FileWatcher struct {
	fsw  *fsnotify.Watcher
	path string

	events chan Event
	errors chan error

	done   chan struct{}
	exited chan struct{}
	once   sync.Once
}

// NewFileWatcher starts watching the file at path. It returns
// ErrPathNotExist for a missing file and ErrNotAFile for a directory.
// Only Config.BufferSize applies.
func NewFileWatcher(path string, opts ...Option) (*FileWatcher, error) {
	cfg := newConfig(opts)

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, ErrPathNotExist
	case err != nil:
		return nil, err
	case info.IsDir():
		return nil, ErrNotAFile
	}

	fsw, err := fsnotify.NewBufferedWatcher(uint(cfg.BufferSize))
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &FileWatcher{
		fsw:    fsw,
		path:   abs,
		events: make(chan Event, cfg.BufferSize),
		errors: make(chan error, cfg.BufferSize),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Path returns the absolute path of the watched file.
func (w *FileWatcher) Path() string { return w.path }

func (w *FileWatcher) Events() <-chan Event { return w.events }

func (w *FileWatcher) Errors() <-chan error { return w.errors }

// Close stops the watcher and waits for its channels to close.
func (w *FileWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		<-w.exited
	})
	return err
}

// loop owns events and errors and closes them on exit.
func (w *FileWatcher) loop() {
	defer close(w.exited)
	defer close(w.errors)
	defer close(w.events)

	for {
		select {
		case <-w.done:
			return

		case fe, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(fe.Name) != w.path {
				continue
			}
			if op := fromFSNotify(fe.Op); op != 0 {
				offer(w.events, Event{Path: w.path, Op: op, Timestamp: time.Now()})
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			offer(w.errors, err)
		}
	}
}

// offer sends v unless ch is full. A later change to the same file
// triggers the same reload, so a dropped event loses nothing.
func offer[T any](ch chan<- T, v T) {
	select {
	case ch <- v:
	default:
	}
}

func fromFSNotify(fop fsnotify.Op) Op {
	var op Op
	for _, m := range []struct {
		from fsnotify.Op
		to   Op
	}{
		{fsnotify.Create, OpCreate},
		{fsnotify.Write, OpWrite},
		{fsnotify.Remove, OpRemove},
		{fsnotify.Rename, OpRename},
		{fsnotify.Chmod, OpChmod},
	} {
		if fop.Has(m.from) {
			op |= m.to
		}
	}
	return op
}

var _ Watcher = (*FileWatcher)(nil)
