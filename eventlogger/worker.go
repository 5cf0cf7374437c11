package eventlogger

import (
	"context"
	"log/slog"
	"sync"
)

// Worker saves events in the background so request handlers never wait on
// the event store.
type Worker struct {
	eventCh chan Event
	logger  EventLogger
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	mu     sync.RWMutex
	closed bool
}

func NewWorker(logger EventLogger, bufferSize int) *Worker {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		eventCh: make(chan Event, bufferSize),
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (w *Worker) Start() {
	w.wg.Go(func() {
		for {
			select {
			case <-w.ctx.Done():
				slog.Info("draining events before shutdown", "remaining_events", len(w.eventCh))
				for len(w.eventCh) > 0 {
					event := <-w.eventCh
					if err := w.logger.Save(context.Background(), event); err != nil {
						slog.Error("failed to save event during shutdown", "error", err, "event_type", event.Type)
					}
				}
				return
			case event := <-w.eventCh:
				// w.ctx only signals shutdown, saves always run to completion
				if err := w.logger.Save(context.Background(), event); err != nil {
					slog.Error("failed to save event", "error", err, "event_type", event.Type)
				}
			}
		}
	})
}

// Log queues an event. It never blocks: when the buffer is full or the
// worker has shut down the event is dropped. It reports whether the event
// was queued.
func (w *Worker) Log(event Event) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		slog.Warn("event worker stopped, dropping event", "event_type", event.Type)
		return false
	}

	select {
	case w.eventCh <- event:
		return true
	default:
		slog.Warn("event channel full, dropping event", "event_type", event.Type)
		return false
	}
}

// Shutdown stops the worker after saving every queued event. It is safe to
// call more than once.
func (w *Worker) Shutdown() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()

	w.cancel()
	w.wg.Wait()
	close(w.eventCh)
}
