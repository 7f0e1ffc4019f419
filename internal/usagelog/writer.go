package usagelog

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/caravel-labs/caravel/pkg/lifecycle"
)

// Writer appends usage events to an NDJSON file through a buffered channel
// drained by a single goroutine. Submit never blocks and never errors to the
// caller: when the buffer is full the event is dropped with a warning, since
// usage capture is best-effort and must not degrade the request path.
type Writer struct {
	path     string
	logger   *slog.Logger
	ch       chan Event
	draining atomic.Bool
}

// NewWriter creates a Writer for the given file path with the given buffer size.
func NewWriter(path string, bufferSize int, logger *slog.Logger) *Writer {
	if bufferSize < 1 {
		bufferSize = 64
	}
	return &Writer{
		path:   path,
		logger: logger.With("system", "usagelog"),
		ch:     make(chan Event, bufferSize),
	}
}

// Submit queues an event for appending. Drops the event when the buffer is
// full or shutdown has begun. The channel is never closed, so a request
// racing shutdown degrades to a dropped event instead of a panic.
func (w *Writer) Submit(ev Event) {
	if w.draining.Load() {
		w.logger.Warn("usage log draining, dropping event", "id", ev.ID)
		return
	}
	select {
	case w.ch <- ev:
	default:
		w.logger.Warn("usage log buffer full, dropping event", "id", ev.ID)
	}
}

// Start registers the drain goroutine with the lifecycle coordinator.
// On shutdown the writer stops accepting events, flushes what is
// buffered, and closes the file.
func (w *Writer) Start(lc *lifecycle.Coordinator) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return err
	}

	file, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		enc := json.NewEncoder(file)
		write := func(ev Event) {
			if err := enc.Encode(ev); err != nil {
				w.logger.Error("usage event write failed", "error", err)
			}
		}

		for {
			select {
			case ev := <-w.ch:
				write(ev)
			case <-stop:
				for {
					select {
					case ev := <-w.ch:
						write(ev)
					default:
						return
					}
				}
			}
		}
	}()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		w.draining.Store(true)
		close(stop)
		<-done

		if err := file.Close(); err != nil {
			w.logger.Error("usage log close failed", "error", err)
			return
		}
		w.logger.Info("usage log closed")
	})

	w.logger.Info("usage log open", "path", w.path)
	return nil
}
