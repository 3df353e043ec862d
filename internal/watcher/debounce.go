package watcher

import (
	"sync"
	"time"
)

// Debouncer folds the changes an inner Watcher reports for one file into
// a single Event, delivered once Config.DebounceDelay passes without a
// further change. The delivered Event carries the union of the folded ops
// and the timestamp of the last one.
type Debouncer struct {
	inner Watcher
	delay time.Duration

	events chan Event
	errors chan error

	done   chan struct{}
	exited chan struct{}
	once   sync.Once
}

// NewDebouncer starts debouncing inner. Closing the Debouncer closes inner.
func NewDebouncer(inner Watcher, opts ...Option) *Debouncer {
	cfg := newConfig(opts)
	d := &Debouncer{
		inner:  inner,
		delay:  cfg.DebounceDelay,
		events: make(chan Event, cfg.BufferSize),
		errors: make(chan error, cfg.BufferSize),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go d.loop()
	return d
}

func (d *Debouncer) Events() <-chan Event { return d.events }

func (d *Debouncer) Errors() <-chan error { return d.errors }

// Close stops the Debouncer and its inner Watcher. A change still waiting
// out the delay is discarded.
func (d *Debouncer) Close() error {
	var err error
	d.once.Do(func() {
		close(d.done)
		err = d.inner.Close()
		<-d.exited
	})
	return err
}

// loop owns events and errors and closes them on exit.
func (d *Debouncer) loop() {
	defer close(d.exited)
	defer close(d.errors)
	defer close(d.events)

	timer := time.NewTimer(d.delay)
	timer.Stop()
	defer timer.Stop()

	var (
		pending Event
		waiting bool
		errs    = d.inner.Errors()
	)
	for {
		var fire <-chan time.Time
		if waiting {
			fire = timer.C
		}

		select {
		case <-d.done:
			return

		case ev, ok := <-d.inner.Events():
			if !ok {
				d.drain(pending, waiting)
				return
			}
			if waiting {
				pending.Op |= ev.Op
				pending.Timestamp = ev.Timestamp
			} else {
				pending, waiting = ev, true
			}
			timer.Reset(d.delay)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			select {
			case d.errors <- err:
			case <-d.done:
				return
			}

		case <-fire:
			waiting = false
			select {
			case d.events <- pending:
			case <-d.done:
				return
			}
		}
	}
}

// drain delivers a change still waiting out the delay when the inner
// watcher stopped on its own, if events has room for it.
func (d *Debouncer) drain(pending Event, waiting bool) {
	select {
	case <-d.done:
	default:
		if waiting {
			offer(d.events, pending)
		}
	}
}

var _ Watcher = (*Debouncer)(nil)
