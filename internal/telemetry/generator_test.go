package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/neosentinel/neo-sentinel/internal/messaging"
	"github.com/neosentinel/neo-sentinel/internal/telemetry"
	"github.com/neosentinel/neo-sentinel/pkg/models"
)

type capturedPublish struct {
	topic   messaging.Topic
	key     string
	message interface{}
}

type fakeProducer struct {
	published []capturedPublish
	failNext  bool
}

func (f *fakeProducer) Publish(ctx context.Context, topic messaging.Topic, key string, message interface{}) error {
	if f.failNext {
		f.failNext = false
		return errors.New("broker unavailable")
	}
	f.published = append(f.published, capturedPublish{topic: topic, key: key, message: message})
	return nil
}

func (f *fakeProducer) Close() error { return nil }

func TestGeneratorTickPublishesOneReading(t *testing.T) {
	producer := &fakeProducer{}
	generator := telemetry.NewGenerator(producer, zap.NewNop(), time.Second, "2025-BF")

	generator.Tick(context.Background())

	require.Len(t, producer.published, 1)
	assert.Equal(t, messaging.TopicTelemetry, producer.published[0].topic)

	reading, ok := producer.published[0].message.(models.TelemetryReading)
	require.True(t, ok)
	assert.Equal(t, reading.ID, producer.published[0].key)
	assert.Equal(t, "2025-BF", reading.Name)
}

func TestGeneratorReadingRanges(t *testing.T) {
	producer := &fakeProducer{}
	generator := telemetry.NewGenerator(producer, zap.NewNop(), time.Second, "2025-BF")

	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		generator.Tick(context.Background())
	}
	require.Len(t, producer.published, 200)

	for _, p := range producer.published {
		reading := p.message.(models.TelemetryReading)
		assert.NotEmpty(t, reading.ID)
		_, dup := seen[reading.ID]
		assert.False(t, dup, "reading ids must be unique")
		seen[reading.ID] = struct{}{}

		assert.GreaterOrEqual(t, reading.DistanceKm, 0.0)
		assert.Less(t, reading.DistanceKm, 100000.0)
		assert.GreaterOrEqual(t, reading.VelocityKmS, 0.0)
		assert.Less(t, reading.VelocityKmS, 20.0)
		assert.GreaterOrEqual(t, reading.DiameterM, 10.0)
		assert.Less(t, reading.DiameterM, 510.0)
	}
}

func TestGeneratorPublishFailureDoesNotStopTicks(t *testing.T) {
	producer := &fakeProducer{failNext: true}
	generator := telemetry.NewGenerator(producer, zap.NewNop(), time.Second, "2025-BF")

	generator.Tick(context.Background()) // dropped
	generator.Tick(context.Background())

	require.Len(t, producer.published, 1)
}

func TestGeneratorRunStopsOnCancel(t *testing.T) {
	producer := &fakeProducer{}
	generator := telemetry.NewGenerator(producer, zap.NewNop(), 5*time.Millisecond, "2025-BF")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		generator.Run(ctx)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("generator did not stop on cancel")
	}
	assert.NotEmpty(t, producer.published)
}
