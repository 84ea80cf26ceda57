package watcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ritzau/ecolink/pkg/logging"
)

// Debouncer collapses bursts of change events (an editor save is often
// create+write+rename) into one event per burst
type Debouncer struct {
	input       <-chan ChangeEvent
	output      chan ChangeEvent
	quietPeriod time.Duration
	maxWait     time.Duration
	logger      *slog.Logger
}

// NewDebouncer creates a new event debouncer. A burst is flushed after
// quietPeriod without events, or maxWait after its first event.
func NewDebouncer(input <-chan ChangeEvent, quietPeriod, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		input:       input,
		output:      make(chan ChangeEvent, 4),
		quietPeriod: quietPeriod,
		maxWait:     maxWait,
		logger:      logging.New("watcher"),
	}
}

// Start begins processing events with debouncing
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

func (d *Debouncer) run(ctx context.Context) {
	defer close(d.output)

	var (
		pending  *ChangeEvent
		quiet    = stoppedTimer()
		deadline = stoppedTimer()
	)

	flush := func() {
		quiet.Stop()
		deadline.Stop()
		if pending == nil {
			return
		}
		d.logger.Debug("flushing file changes", "path", pending.Path, "events", len(pending.Ops))
		d.output <- *pending
		pending = nil
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-d.input:
			if !ok {
				flush()
				return
			}
			if pending == nil {
				pending = &ChangeEvent{Path: event.Path}
				deadline.Reset(d.maxWait)
			}
			pending.Ops = append(pending.Ops, event.Ops...)
			pending.Timestamp = event.Timestamp
			quiet.Reset(d.quietPeriod)

		case <-quiet.C:
			flush()

		case <-deadline.C:
			flush()
		}
	}
}

// Output returns the channel of debounced events
func (d *Debouncer) Output() <-chan ChangeEvent {
	return d.output
}

// Removed reports whether the burst ended with the file gone
func (e ChangeEvent) Removed() bool {
	if len(e.Ops) == 0 {
		return false
	}
	last := e.Ops[len(e.Ops)-1]
	return last.Has(fsnotify.Remove) || last.Has(fsnotify.Rename)
}

func stoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	t.Stop()
	return t
}
