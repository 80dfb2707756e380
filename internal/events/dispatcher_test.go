package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishReachesSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(zap.NewNop())
	received := make(chan Event, 1)

	dispatcher.Subscribe(EventTicketCreated, func(ctx context.Context, event Event) error {
		received <- event
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{
		Type:     EventTicketCreated,
		TicketID: "t-1",
	})
	require.NoError(t, err)

	select {
	case event := <-received:
		assert.Equal(t, "t-1", event.TicketID)
	case <-time.After(time.Second):
		t.Fatal("handler was never invoked")
	}
}

func TestPublishIgnoresUnsubscribedTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(zap.NewNop())
	received := make(chan Event, 1)

	dispatcher.Subscribe(EventTicketResolved, func(ctx context.Context, event Event) error {
		received <- event
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketCreated}))

	select {
	case <-received:
		t.Fatal("handler for a different event type fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHandlerErrorDoesNotStopOthers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(zap.NewNop())
	second := make(chan struct{}, 1)

	dispatcher.Subscribe(EventTicketCreated, func(ctx context.Context, event Event) error {
		return errors.New("boom")
	})
	dispatcher.Subscribe(EventTicketCreated, func(ctx context.Context, event Event) error {
		second <- struct{}{}
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketCreated}))

	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("second handler was never invoked")
	}
}
