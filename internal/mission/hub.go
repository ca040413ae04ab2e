package mission

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/neosentinel/neo-sentinel/pkg/metrics"
	"github.com/neosentinel/neo-sentinel/pkg/models"
)

// DefaultSubscriberBuffer is the per-subscriber channel capacity.
const DefaultSubscriberBuffer = 16

// Hub multicasts persisted alerts to live subscribers. Publish never blocks
// and never fails: a subscriber that cannot keep up loses its oldest
// undelivered alerts. Subscriptions start at the moment of subscription; there
// is no history replay.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan models.Alert]struct{}
	bufferSize  int
	closed      bool
	done        chan struct{}
	logger      *zap.Logger
}

// NewHub creates a hub with the given per-subscriber buffer size.
func NewHub(bufferSize int, logger *zap.Logger) *Hub {
	if bufferSize <= 0 {
		bufferSize = DefaultSubscriberBuffer
	}
	return &Hub{
		subscribers: make(map[chan models.Alert]struct{}),
		bufferSize:  bufferSize,
		done:        make(chan struct{}),
		logger:      logger,
	}
}

// Publish delivers alert to every current subscriber. Non-blocking: if a
// subscriber's buffer is full, its oldest undelivered alert is dropped to make
// room. Publishing with zero subscribers is a no-op.
func (h *Hub) Publish(alert models.Alert) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}

	for ch := range h.subscribers {
		select {
		case ch <- alert:
		default:
			// Buffer full: drop the oldest undelivered alert, then retry once.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- alert:
			default:
				h.logger.Warn("Dropped alert for slow subscriber", zap.Uint("alert_id", alert.ID))
			}
		}
	}
}

// Subscribe registers a new subscriber and returns its receive channel. The
// channel delivers alerts published after this call, in publish order, and is
// closed when ctx is cancelled or the hub shuts down.
func (h *Hub) Subscribe(ctx context.Context) <-chan models.Alert {
	ch := make(chan models.Alert, h.bufferSize)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch
	}
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	metrics.StreamSubscribers.Inc()

	go func() {
		select {
		case <-ctx.Done():
			h.unsubscribe(ch)
		case <-h.done:
			// Close already tore the subscriber down.
		}
	}()

	return ch
}

// SubscriberCount returns the number of live subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close shuts the hub down, closing every subscriber channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	close(h.done)
	for ch := range h.subscribers {
		delete(h.subscribers, ch)
		close(ch)
		metrics.StreamSubscribers.Dec()
	}
}

func (h *Hub) unsubscribe(ch chan models.Alert) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subscribers[ch]; !ok {
		return
	}
	delete(h.subscribers, ch)
	close(ch)
	metrics.StreamSubscribers.Dec()
}
