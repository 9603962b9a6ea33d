package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishReachesSubscribers(t *testing.T) {
	hub := NewHub()

	ch1, cleanup1 := hub.Subscribe("topic")
	defer cleanup1()
	ch2, cleanup2 := hub.Subscribe("topic")
	defer cleanup2()

	hub.Publish("topic", "payload")

	for _, ch := range []chan Event{ch1, ch2} {
		select {
		case event := <-ch:
			assert.Equal(t, "topic", event.Topic)
			assert.Equal(t, "payload", event.Data)
		case <-time.After(time.Second):
			t.Fatal("expected an event")
		}
	}
}

func TestHubTopicsAreIsolated(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe("a")
	defer cleanup()

	hub.Publish("b", "payload")

	select {
	case <-ch:
		t.Fatal("subscriber received an event from another topic")
	default:
	}
}

func TestHubCleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()

	_, cleanup := hub.Subscribe("topic")
	require.Equal(t, 1, hub.SubscriberCount("topic"))

	cleanup()
	assert.Equal(t, 0, hub.SubscriberCount("topic"))

	// Publishing to a topic with no subscribers is a no-op.
	hub.Publish("topic", "payload")
}

func TestHubPublishNeverBlocks(t *testing.T) {
	hub := NewHub()

	_, cleanup := hub.Subscribe("topic")
	defer cleanup()

	// Nobody drains the channel; publishing past its buffer must drop
	// rather than deadlock.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish("topic", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full subscriber channel")
	}
}
