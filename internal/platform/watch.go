package platform

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"slices"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/lawnstrings/pkg/core"
)

// WatchEvent reports one conversion run by Watch.
type WatchEvent struct {
	Input  string
	Output string
	Err    error
	Time   time.Time
}

func (ev WatchEvent) String() string {
	if ev.Err != nil {
		return fmt.Sprintf("%s: %v", ev.Input, ev.Err)
	}
	return fmt.Sprintf("%s -> %s", ev.Input, ev.Output)
}

// Watch converts src once and again after every change to it, until ctx is
// done. Each run overwrites the same output file. The returned channel
// receives one event per run and is closed when watching stops.
func (e *Engine) Watch(ctx context.Context, src string, from, to core.Format) (<-chan WatchEvent, error) {
	if from == to && (from != core.FormatPlainText || e.opts.encodingIn == e.opts.encodingOut) {
		return nil, &core.OpError{Op: "watch", From: from, To: to, Err: core.ErrRedundantConversion}
	}

	abs, err := filepath.Abs(src)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// Editors often replace files by rename, so watch the directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", src, err)
	}

	w := &watchLoop{
		engine:  e,
		watcher: watcher,
		input:   abs,
		output:  e.outputPath(src, SuffixConverted, to),
		req: core.ConvertRequest{
			From:        from,
			To:          to,
			EncodingIn:  e.opts.encodingIn,
			EncodingOut: e.opts.encodingOut,
		},
		events: make(chan WatchEvent, 1),
		logger: e.logger.With("op", "watch", "input", src),
	}

	e.setWatching(abs, true)
	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		if e.opts.errorHandler != nil {
			e.opts.errorHandler(err)
		} else {
			w.logger.Error("watcher stopped", "error", err)
		}
	}))

	return w.events, nil
}

type watchLoop struct {
	engine  *Engine
	watcher *fsnotify.Watcher
	input   string
	output  string
	req     core.ConvertRequest
	events  chan WatchEvent
	logger  *slog.Logger
}

func (w *watchLoop) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if w.logger.Enabled(ctx, slog.LevelDebug) {
				w.logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			}
		}
	}()
	defer close(w.events)
	defer w.engine.setWatching(w.input, false)
	defer w.watcher.Close()

	w.convert(ctx)

	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("change detected", "event", event.Op.String())
			debounce.Reset(w.engine.opts.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				continue
			}
			w.logger.Error("fsnotify error", "error", err)
			if h := w.engine.opts.errorHandler; h != nil {
				h(err)
			}

		case <-debounce.C:
			w.convert(ctx)
		}
	}
}

func (w *watchLoop) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.input {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func (w *watchLoop) convert(ctx context.Context) {
	ev := WatchEvent{Input: w.input, Output: w.output, Time: time.Now()}
	ev.Err = w.engine.transform(w.input, w.output, func(in io.Reader, out io.Writer) error {
		return w.engine.service.Convert(ctx, in, out, w.req)
	})

	if ev.Err != nil {
		w.logger.Error("conversion failed", "error", ev.Err)
	} else {
		w.logger.Info("converted", "output", w.output)
	}

	select {
	case w.events <- ev:
	case <-ctx.Done():
	}
}

func (e *Engine) setWatching(path string, active bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if active {
		e.watching = append(e.watching, path)
		return
	}
	if i := slices.Index(e.watching, path); i >= 0 {
		e.watching = slices.Delete(e.watching, i, i+1)
	}
}
