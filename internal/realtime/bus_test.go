package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBusDeliversToTopicSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()

	ch, unsub := bus.Subscribe(RoomTopic("r1"))
	defer unsub()
	other, otherUnsub := bus.Subscribe(RoomTopic("r2"))
	defer otherUnsub()

	evt := Event{Topic: RoomTopic("r1"), Kind: "message_created", Data: json.RawMessage(`{"id":"m1"}`)}
	require.NoError(t, bus.Publish(ctx, evt))

	select {
	case got := <-ch:
		assert.Equal(t, evt.Kind, got.Kind)
		assert.JSONEq(t, string(evt.Data), string(got.Data))
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive event")
	}

	select {
	case got := <-other:
		t.Fatalf("event leaked to another topic: %+v", got)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := NewMemoryBus()

	ch, unsub := bus.Subscribe("users")
	unsub()

	_, ok := <-ch
	assert.False(t, ok, "channel must be closed after unsubscribe")

	// Publishing after unsubscribe is a no-op for this subscriber.
	require.NoError(t, bus.Publish(context.Background(), Event{Topic: "users", Kind: "profile_updated"}))
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	bus := NewMemoryBus()
	_, unsub := bus.Subscribe("calls")
	unsub()
	unsub()
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()

	_, unsub := bus.Subscribe("busy")
	defer unsub()

	// Overfill the subscriber buffer; publish must stay non-blocking.
	for i := 0; i < subscriberBuffer*2; i++ {
		require.NoError(t, bus.Publish(ctx, Event{Topic: "busy", Kind: "message_created"}))
	}
}

func TestRoomTopic(t *testing.T) {
	assert.Equal(t, "room:padmamangal-group", RoomTopic("padmamangal-group"))
}
