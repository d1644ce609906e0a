package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesOnlyRecipient(t *testing.T) {
	h := NewHub()
	a, cancelA := h.Subscribe("emp-a")
	defer cancelA()
	b, cancelB := h.Subscribe("emp-b")
	defer cancelB()

	n := h.Publish("emp-a", Event{Event: "notification", Data: "hello"})
	assert.Equal(t, 1, n)

	select {
	case ev := <-a:
		assert.Equal(t, "emp-a", ev.RecipientID)
		assert.Equal(t, "hello", ev.Data)
	default:
		t.Fatal("expected event for emp-a")
	}
	assert.Len(t, b, 0)
}

func TestHub_FullBufferDropsEvent(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("emp-a")
	defer cancel()

	for i := 0; i < h.bufferSize; i++ {
		require.Equal(t, 1, h.Publish("emp-a", Event{Event: "notification"}))
	}
	assert.Equal(t, 0, h.Publish("emp-a", Event{Event: "notification"}))
	assert.Len(t, ch, h.bufferSize)
}

func TestHub_CleanupUnsubscribes(t *testing.T) {
	h := NewHub()
	_, cancel1 := h.Subscribe("emp-a")
	ch2, cancel2 := h.Subscribe("emp-a")
	_, cancel3 := h.Subscribe("emp-b")
	defer cancel3()

	assert.Equal(t, 2, h.SubscriberCount("emp-a"))
	assert.Equal(t, 3, h.TotalSubscribers())

	cancel1()
	cancel1()
	assert.Equal(t, 1, h.SubscriberCount("emp-a"))

	cancel2()
	_, open := <-ch2
	assert.False(t, open)
	assert.Equal(t, 0, h.SubscriberCount("emp-a"))
	assert.Equal(t, 1, h.TotalSubscribers())
}
