package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/consuelo/flowbridge/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe(t *testing.T) {
	bus := NewInProcessForTests(nil)
	t.Cleanup(func() { _ = bus.Close() })

	var (
		mu       sync.Mutex
		received []*events.FlowCreated
	)

	bus.Handle(events.FlowCreatedEvent, func(_ context.Context, event any) error {
		created, ok := event.(*events.FlowCreated)
		require.True(t, ok)

		mu.Lock()
		received = append(received, created)
		mu.Unlock()

		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	require.NoError(t, bus.Subscribe(ctx))

	err := bus.Publish(ctx, "wf-1", events.FlowCreated{
		BaseEvent:   events.NewBaseEvent(events.FlowCreatedEvent, "wf-1"),
		DisplayName: "Order confirmation",
		StepCount:   3,
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return len(received) == 1
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "wf-1", received[0].FlowID)
	assert.Equal(t, "Order confirmation", received[0].DisplayName)
	assert.Equal(t, 3, received[0].StepCount)
}

func TestPublishSubscribe_UnhandledTypesAreAcked(t *testing.T) {
	bus := NewInProcessForTests(nil)
	t.Cleanup(func() { _ = bus.Close() })

	var (
		mu      sync.Mutex
		deleted int
	)

	bus.Handle(events.FlowDeletedEvent, func(_ context.Context, event any) error {
		mu.Lock()
		deleted++
		mu.Unlock()

		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	require.NoError(t, bus.Subscribe(ctx))

	// No handler registered for this one; it must be acked and dropped
	// without blocking later deliveries.
	require.NoError(t, bus.Publish(ctx, "wf-1", events.FlowActivated{
		BaseEvent: events.NewBaseEvent(events.FlowActivatedEvent, "wf-1"),
	}))

	require.NoError(t, bus.Publish(ctx, "wf-1", events.FlowDeleted{
		BaseEvent: events.NewBaseEvent(events.FlowDeletedEvent, "wf-1"),
	}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return deleted == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGenerateID(t *testing.T) {
	bus := NewInProcessForTests(nil)
	t.Cleanup(func() { _ = bus.Close() })

	a := bus.GenerateID()
	b := bus.GenerateID()

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
