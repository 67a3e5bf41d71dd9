package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Order", uuid.New(), uuid.New())}
}

type testHandler struct {
	eventTypes []string
	err        error
	panicWith  any
	delay      time.Duration

	mu      sync.Mutex
	handled []shared.DomainEvent
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.delay > 0 {
		time.Sleep(h.delay)
	}
	h.mu.Lock()
	h.handled = append(h.handled, event)
	h.mu.Unlock()
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.eventTypes }

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_SyncBeforeStart(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	paid := newTestHandler("OrderPaid")
	bus.Subscribe(paid)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPaid"), newTestEvent("BillPaid")))

	assert.Equal(t, 1, paid.count())
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newTestHandler("OrderPaid")
	bus.Subscribe(h, "BillPaid")

	_ = bus.Publish(context.Background(), newTestEvent("OrderPaid"), newTestEvent("BillPaid"))

	assert.Equal(t, 1, h.count())
	assert.Equal(t, "BillPaid", h.handled[0].EventType())
}

func TestInMemoryEventBus_Wildcard(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	all := newTestHandler()
	bus.Subscribe(all)

	_ = bus.Publish(context.Background(), newTestEvent("OrderPaid"), newTestEvent("JournalEntryPosted"))

	assert.Equal(t, 2, all.count())
}

func TestInMemoryEventBus_FailuresDoNotStopOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := newTestHandler("OrderPaid")
	failing.err = errors.New("smtp down")
	panicking := newTestHandler("OrderPaid")
	panicking.panicWith = "boom"
	ok := newTestHandler("OrderPaid")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(ok)

	err := bus.Publish(context.Background(), newTestEvent("OrderPaid"))

	assert.NoError(t, err)
	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, panicking.count())
	assert.Equal(t, 1, ok.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newTestHandler("OrderPaid")
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	_ = bus.Publish(context.Background(), newTestEvent("OrderPaid"))

	assert.Equal(t, 0, h.count())
	assert.Empty(t, bus.handlers)
}

func TestInMemoryEventBus_AsyncAfterStart(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	slow := newTestHandler("OrderPaid")
	slow.delay = 20 * time.Millisecond
	bus.Subscribe(slow)
	require.NoError(t, bus.Start(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, bus.Publish(ctx, newTestEvent("OrderPaid")))
	cancel()

	require.NoError(t, bus.Stop(context.Background()))
	assert.Equal(t, 1, slow.count())
}

func TestInMemoryEventBus_StopHonoursContext(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	slow := newTestHandler("OrderPaid")
	slow.delay = 200 * time.Millisecond
	bus.Subscribe(slow)
	require.NoError(t, bus.Start(context.Background()))
	_ = bus.Publish(context.Background(), newTestEvent("OrderPaid"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := bus.Stop(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.NoError(t, bus.Stop(context.Background()))
}
