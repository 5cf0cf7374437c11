package eventlogger

import (
	"context"
	"sync"
)

type memoryEventLogger struct {
	mu     sync.RWMutex
	events []Event
}

// NewMemoryEventLogger keeps events in process memory. It is the default
// store when no database is configured.
func NewMemoryEventLogger() *memoryEventLogger {
	return &memoryEventLogger{}
}

func (el *memoryEventLogger) Save(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	el.mu.Lock()
	defer el.mu.Unlock()

	el.events = append(el.events, e)
	return nil
}

func (el *memoryEventLogger) GetByType(ctx context.Context, eventType string) ([]Event, error) {
	el.mu.RLock()
	defer el.mu.RUnlock()

	events := make([]Event, 0)
	for _, e := range el.events {
		if e.Type == eventType {
			events = append(events, e)
		}
	}
	return events, nil
}

func (el *memoryEventLogger) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()

	return len(el.events)
}
