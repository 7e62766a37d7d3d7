package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesTopicSubscribers(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("line_items")
	defer cleanup()
	other, cleanupOther := hub.Subscribe("employees")
	defer cleanupOther()

	hub.Publish("line_items", Event{Event: "update", Data: "item-1"})

	select {
	case ev := <-ch:
		assert.Equal(t, "line_items", ev.Topic)
		assert.Equal(t, "update", ev.Event)
	default:
		t.Fatal("expected event on line_items subscriber")
	}

	select {
	case ev := <-other:
		t.Fatalf("unexpected event on employees subscriber: %+v", ev)
	default:
	}
}

func TestHub_CleanupIsIdempotent(t *testing.T) {
	hub := NewHub()
	_, cleanup := hub.Subscribe("employees")
	require.Equal(t, 1, hub.SubscriberCount("employees"))

	cleanup()
	cleanup()

	assert.Equal(t, 0, hub.SubscriberCount("employees"))
	assert.Equal(t, 0, hub.TotalSubscribers())
}

func TestHub_FullBufferDoesNotBlock(t *testing.T) {
	hub := NewHub()
	_, cleanup := hub.Subscribe("attendances")
	defer cleanup()

	for i := 0; i < hub.bufferSize*3; i++ {
		hub.Publish("attendances", Event{Event: "insert"})
	}
	assert.Equal(t, 1, hub.SubscriberCount("attendances"))
}
