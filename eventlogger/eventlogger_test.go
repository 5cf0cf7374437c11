package eventlogger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	e := NewEvent(
		WithType("expense.recorded"),
		WithData(map[string]string{"paid_by": "U1"}),
		WithRequestID("req-1"),
		WithMetadata(map[string]string{"request_id": "other", "source": "api"}),
	)

	assert.NotEmpty(t, e.ID)
	assert.False(t, e.CreatedAt.IsZero())
	assert.Equal(t, "expense.recorded", e.Type)
	assert.Equal(t, map[string]string{"paid_by": "U1"}, e.Data)
	assert.Equal(t, map[string]string{"request_id": "req-1", "source": "api"}, e.Metadata)
}

func TestMemoryEventLogger(t *testing.T) {
	ctx := context.Background()
	el := NewMemoryEventLogger()

	require.NoError(t, el.Save(ctx, NewEvent(WithType("a"))))
	require.NoError(t, el.Save(ctx, NewEvent(WithType("b"))))
	require.NoError(t, el.Save(ctx, NewEvent(WithType("a"))))

	events, err := el.GetByType(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, events, 2)

	events, err = el.GetByType(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, events)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, el.Save(cancelled, NewEvent()), context.Canceled)
	assert.Equal(t, 3, el.Len())
}

func TestWorkerDrainsOnShutdown(t *testing.T) {
	el := NewMemoryEventLogger()
	w := NewWorker(el, 100)
	w.Start()

	for range 20 {
		assert.True(t, w.Log(NewEvent(WithType("x"))))
	}
	w.Shutdown()

	assert.Equal(t, 20, el.Len())
}

func TestWorkerLogAfterShutdown(t *testing.T) {
	el := NewMemoryEventLogger()
	w := NewWorker(el, 1)
	w.Start()
	w.Shutdown()
	w.Shutdown()

	assert.False(t, w.Log(NewEvent(WithType("late"))))
	assert.Equal(t, 0, el.Len())
}

type blockingLogger struct {
	release chan struct{}
	once    sync.Once
	started chan struct{}
}

func (b *blockingLogger) Save(ctx context.Context, e Event) error {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return nil
}

func (b *blockingLogger) GetByType(ctx context.Context, eventType string) ([]Event, error) {
	return nil, errors.New("not implemented")
}

func TestWorkerDropsWhenFull(t *testing.T) {
	bl := &blockingLogger{release: make(chan struct{}), started: make(chan struct{})}
	w := NewWorker(bl, 1)
	w.Start()

	require.True(t, w.Log(NewEvent(WithType("first"))))
	<-bl.started // worker is now stuck saving the first event

	assert.True(t, w.Log(NewEvent(WithType("buffered"))))
	assert.False(t, w.Log(NewEvent(WithType("dropped"))))

	close(bl.release)
	w.Shutdown()
}
