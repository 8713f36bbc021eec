// Package lifecycle exposes the watch loop as a lifecycle.Source.
//
// The source reports conversion runs rather than raw watch events. A failure
// that repeats the previous one is counted instead of emitted again, and the
// next successful run reports how many failed runs it ended.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/lawnstrings/internal/platform"
)

// Converted is emitted for every successful run.
type Converted struct {
	Input, Output string
	// Recovered is the number of failed runs since the previous success.
	Recovered int
}

func (e Converted) String() string {
	switch {
	case e.Recovered == 1:
		return fmt.Sprintf("%s -> %s (recovered after 1 failed run)", e.Input, e.Output)
	case e.Recovered > 1:
		return fmt.Sprintf("%s -> %s (recovered after %d failed runs)", e.Input, e.Output, e.Recovered)
	}
	return fmt.Sprintf("%s -> %s", e.Input, e.Output)
}

// Failed is emitted for a failed run whose error differs from the previous one.
type Failed struct {
	Input string
	Err   error
}

func (e Failed) String() string {
	return fmt.Sprintf("%s: %v", e.Input, e.Err)
}

type runSource struct {
	runs <-chan platform.WatchEvent
	out  chan lifecycle.Event

	failures int
	lastErr  string
}

// NewSource creates a lifecycle.Source over the runs of a watch. The source
// closes once runs is closed or the context passed to Start is done.
func NewSource(runs <-chan platform.WatchEvent) lifecycle.Source {
	return &runSource{
		runs: runs,
		out:  make(chan lifecycle.Event),
	}
}

func (s *runSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *runSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			var run platform.WatchEvent
			select {
			case <-ctx.Done():
				return nil
			case r, ok := <-s.runs:
				if !ok {
					return nil
				}
				run = r
			}

			ev := s.summarize(run)
			if ev == nil {
				continue
			}
			select {
			case s.out <- ev:
			case <-ctx.Done():
				return nil
			}
		}
	})
	return nil
}

// summarize folds run into the failure streak and returns the event to emit, if any.
func (s *runSource) summarize(run platform.WatchEvent) lifecycle.Event {
	if run.Err == nil {
		ev := Converted{Input: run.Input, Output: run.Output, Recovered: s.failures}
		s.failures, s.lastErr = 0, ""
		return ev
	}

	s.failures++
	msg := run.Err.Error()
	if s.failures > 1 && msg == s.lastErr {
		return nil
	}
	s.lastErr = msg
	return Failed{Input: run.Input, Err: run.Err}
}
