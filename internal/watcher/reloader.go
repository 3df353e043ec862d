package watcher

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/dshills/bitfuse/pkg/field"
)

// LoadFunc reads the current collection.
type LoadFunc func() ([]field.Value, error)

// Target receives reloaded collections. *fuse.Engine implements it.
type Target interface {
	SetCollection(collection []field.Value) []field.Value
}

// Reloader reloads a collection into a Target whenever its file changes.
type Reloader struct {
	watcher  Watcher
	load     LoadFunc
	target   Target
	log      *logrus.Entry
	onReload func(collection []field.Value)
	onError  func(err error)
}

// ReloaderOption configures a Reloader.
type ReloaderOption func(*Reloader)

// WithLogger sets the reloader's logger.
func WithLogger(log *logrus.Entry) ReloaderOption {
	return func(r *Reloader) {
		r.log = log
	}
}

// OnReload registers a callback run after each successful reload.
func OnReload(fn func(collection []field.Value)) ReloaderOption {
	return func(r *Reloader) {
		r.onReload = fn
	}
}

// OnError registers a callback for load and watcher errors.
func OnError(fn func(err error)) ReloaderOption {
	return func(r *Reloader) {
		r.onError = fn
	}
}

// NewReloader creates a Reloader. It does not start watching until Run.
func NewReloader(w Watcher, load LoadFunc, target Target, opts ...ReloaderOption) *Reloader {
	r := &Reloader{
		watcher: w,
		load:    load,
		target:  target,
		log:     logrus.WithField("component", "watcher"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes change events until ctx is cancelled or the watcher is
// closed. A collection that fails to load leaves the target unchanged.
// It returns nil when ctx is cancelled and ErrWatcherClosed when the
// watcher's channels close.
func (r *Reloader) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-r.watcher.Events():
			if !ok {
				return ErrWatcherClosed
			}
			r.handle(event)

		case err, ok := <-r.watcher.Errors():
			if !ok {
				return ErrWatcherClosed
			}
			r.log.WithError(err).Warn("watch error")
			r.fail(err)
		}
	}
}

func (r *Reloader) handle(event Event) {
	log := r.log.WithFields(logrus.Fields{
		"path": event.Path,
		"op":   event.Op,
	})

	if event.Op == OpChmod {
		return
	}
	if event.Op.Replaced() {
		log.Warn("collection moved away, keeping previous contents")
		return
	}

	collection, err := r.load()
	if err != nil {
		log.WithError(err).Error("reload failed")
		r.fail(err)
		return
	}

	r.target.SetCollection(collection)
	log.WithField("items", len(collection)).Info("collection reloaded")

	if r.onReload != nil {
		r.onReload(collection)
	}
}

func (r *Reloader) fail(err error) {
	if r.onError != nil {
		r.onError(err)
	}
}
