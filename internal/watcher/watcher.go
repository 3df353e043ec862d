// Package watcher reloads a collection file when it changes on disk.
//
// Editors often save by writing a temporary file and renaming it over the
// original, so a FileWatcher observes the parent directory and keeps only
// events naming the collection file. A Debouncer folds a burst of those
// events into one change, and a Reloader turns each settled change into a
// fresh collection handed to a search engine.
package watcher

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrWatcherClosed = errors.New("watcher is closed")
	ErrPathNotExist  = errors.New("path does not exist")
	ErrNotAFile      = errors.New("path is a directory")
)

// Op is a set of changes seen on the collection file.
type Op uint8

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

var opNames = []struct {
	op   Op
	name string
}{
	{OpCreate, "CREATE"},
	{OpWrite, "WRITE"},
	{OpRemove, "REMOVE"},
	{OpRename, "RENAME"},
	{OpChmod, "CHMOD"},
}

// String lists the changes in op joined by "|", or "NONE".
func (op Op) String() string {
	var names []string
	for _, n := range opNames {
		if op.Has(n.op) {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "NONE"
	}
	return strings.Join(names, "|")
}

// Has reports whether op includes every change in o.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Replaced reports whether the file left its path without new contents
// arriving in the same change.
func (op Op) Replaced() bool {
	gone := op.Has(OpRemove) || op.Has(OpRename)
	return gone && !op.Has(OpCreate) && !op.Has(OpWrite)
}

// Event is one change to the collection file.
type Event struct {
	Path      string
	Op        Op
	Timestamp time.Time
}

// Watcher delivers change events for the collection file. Both channels
// are closed once the watcher stops.
type Watcher interface {
	Events() <-chan Event
	Errors() <-chan error
	Close() error
}

// Config is shared by FileWatcher and Debouncer.
type Config struct {
	// DebounceDelay is the quiet period a Debouncer waits before
	// delivering a change. Zero delivers each change as soon as it is read.
	DebounceDelay time.Duration

	// BufferSize is the capacity of the event and error channels.
	BufferSize int
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: 100 * time.Millisecond,
		BufferSize:    16,
	}
}

// Option configures a FileWatcher or Debouncer.
type Option func(*Config)

// WithDebounceDelay sets Config.DebounceDelay. Negative delays are treated
// as zero.
func WithDebounceDelay(d time.Duration) Option {
	return func(c *Config) {
		c.DebounceDelay = max(d, 0)
	}
}

// WithBufferSize sets Config.BufferSize. Sizes below one keep the default.
func WithBufferSize(size int) Option {
	return func(c *Config) {
		if size > 0 {
			c.BufferSize = size
		}
	}
}

func newConfig(opts []Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Watch watches the file at path and debounces its changes. The options
// apply to both stages.
func Watch(path string, opts ...Option) (Watcher, error) {
	fw, err := NewFileWatcher(path, opts...)
	if err != nil {
		return nil, err
	}
	return NewDebouncer(fw, opts...), nil
}
