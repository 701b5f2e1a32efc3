package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/farecast/core/metrics"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Publish(metrics.Event{ID: "1", Model: "random_forest"})

	select {
	case ev := <-sub:
		assert.Equal(t, "1", ev.ID)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Unsubscribe(sub)
	_, ok := <-sub
	assert.False(t, ok)
}

func TestPublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	b := New()
	b.Subscribe() // never drained
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(metrics.Event{ID: "x"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on full subscriber")
	}
}

func TestCloseStopsDelivery(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Close()
	_, ok := <-sub
	require.False(t, ok)
	// Publishing after close is a no-op.
	b.Publish(metrics.Event{ID: "late"})
	sub2 := b.Subscribe()
	_, ok = <-sub2
	assert.False(t, ok)
}
