package mission_test

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/neosentinel/neo-sentinel/internal/mission"
	"github.com/neosentinel/neo-sentinel/pkg/models"
)

func receiveAlert(t *testing.T, ch <-chan models.Alert) models.Alert {
	t.Helper()
	select {
	case alert := <-ch:
		return alert
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for alert")
		return models.Alert{}
	}
}

func TestHubDeliversToExistingSubscriber(t *testing.T) {
	hub := mission.NewHub(4, zap.NewNop())
	defer hub.Close()

	sub := hub.Subscribe(context.Background())
	hub.Publish(models.Alert{ID: 1, Message: "warning"})

	alert := receiveAlert(t, sub)
	assert.Equal(t, uint(1), alert.ID)
}

func TestHubNoReplayForLateSubscriber(t *testing.T) {
	hub := mission.NewHub(4, zap.NewNop())
	defer hub.Close()

	hub.Publish(models.Alert{ID: 1, Message: "before subscription"})

	sub := hub.Subscribe(context.Background())
	select {
	case alert := <-sub:
		t.Fatalf("unexpected replayed alert: %+v", alert)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubPublishOrderPerSubscriber(t *testing.T) {
	hub := mission.NewHub(16, zap.NewNop())
	defer hub.Close()

	sub := hub.Subscribe(context.Background())
	for i := uint(1); i <= 5; i++ {
		hub.Publish(models.Alert{ID: i})
	}

	for i := uint(1); i <= 5; i++ {
		assert.Equal(t, i, receiveAlert(t, sub).ID)
	}
}

func TestHubMultipleSubscribersEachReceive(t *testing.T) {
	hub := mission.NewHub(4, zap.NewNop())
	defer hub.Close()

	first := hub.Subscribe(context.Background())
	second := hub.Subscribe(context.Background())
	assert.Equal(t, 2, hub.SubscriberCount())

	hub.Publish(models.Alert{ID: 7})

	assert.Equal(t, uint(7), receiveAlert(t, first).ID)
	assert.Equal(t, uint(7), receiveAlert(t, second).ID)
}

func TestHubSlowSubscriberNeverBlocksPublisher(t *testing.T) {
	hub := mission.NewHub(2, zap.NewNop())
	defer hub.Close()

	// Never read from this subscription.
	_ = hub.Subscribe(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := uint(1); i <= 100; i++ {
			hub.Publish(models.Alert{ID: i})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on slow subscriber")
	}
}

func TestHubDropsOldestOnOverflow(t *testing.T) {
	hub := mission.NewHub(2, zap.NewNop())
	defer hub.Close()

	sub := hub.Subscribe(context.Background())
	for i := uint(1); i <= 5; i++ {
		hub.Publish(models.Alert{ID: i})
	}

	// Buffer holds the newest alerts; the earliest overflowed ones are gone.
	first := receiveAlert(t, sub)
	assert.Greater(t, first.ID, uint(1))
}

func TestHubUnsubscribeOnContextCancel(t *testing.T) {
	hub := mission.NewHub(4, zap.NewNop())
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub := hub.Subscribe(ctx)
	require.Equal(t, 1, hub.SubscriberCount())

	cancel()

	// The subscriber channel closes once the hub notices the cancellation.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-sub:
			if !ok {
				assert.Equal(t, 0, hub.SubscriberCount())
				return
			}
		case <-deadline:
			t.Fatal("subscriber channel never closed")
		}
	}
}

func TestHubCloseReleasesWatchers(t *testing.T) {
	baseline := runtime.NumGoroutine()

	hub := mission.NewHub(4, zap.NewNop())
	subs := make([]<-chan models.Alert, 0, 20)
	for i := 0; i < 20; i++ {
		// Non-cancellable contexts: only Close can release the watchers.
		subs = append(subs, hub.Subscribe(context.Background()))
	}
	hub.Close()

	for _, sub := range subs {
		_, ok := <-sub
		assert.False(t, ok)
	}

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= baseline+2
	}, 2*time.Second, 10*time.Millisecond, "subscriber watchers leaked after Close")
}

func TestHubCloseTerminatesSubscribers(t *testing.T) {
	hub := mission.NewHub(4, zap.NewNop())

	sub := hub.Subscribe(context.Background())
	hub.Close()

	_, ok := <-sub
	assert.False(t, ok)

	// Publish after close is a harmless no-op.
	hub.Publish(models.Alert{ID: 1})
}
