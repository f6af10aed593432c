// Package delivery fans an accepted goto file out to its consumers: a fixed
// path the dockserver watches, a timestamped archive, operator email, and
// the piloting API.
package delivery

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// Sink delivers one rendered goto document for a glider.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, glider, doc string) error
}

// Fanout delivers to every configured sink concurrently. A failing sink
// never blocks the others; all failures are joined into the returned error.
type Fanout struct {
	sinks  []Sink
	logger zerolog.Logger
}

// NewFanout creates a fanout over the given sinks.
func NewFanout(logger zerolog.Logger, sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks, logger: logger}
}

// Deliver sends the document to all sinks and waits for them to finish.
func (f *Fanout) Deliver(ctx context.Context, glider, doc string) error {
	var wg sync.WaitGroup
	errs := make([]error, len(f.sinks))

	for i, sink := range f.sinks {
		wg.Add(1)
		go func(i int, sink Sink) {
			defer wg.Done()
			if err := sink.Deliver(ctx, glider, doc); err != nil {
				f.logger.Error().Err(err).Str("sink", sink.Name()).
					Str("glider", glider).Msg("Delivery failed")
				errs[i] = err
				return
			}
			f.logger.Debug().Str("sink", sink.Name()).Str("glider", glider).
				Msg("Delivered goto file")
		}(i, sink)
	}

	wg.Wait()
	return errors.Join(errs...)
}
