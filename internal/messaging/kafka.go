package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/neosentinel/neo-sentinel/internal/config"
)

// Producer publishes messages to named broker channels.
type Producer interface {
	Publish(ctx context.Context, topic Topic, key string, message interface{}) error
	Close() error
}

// Consumer binds a handler to a named broker channel within a consumer group.
type Consumer interface {
	Subscribe(ctx context.Context, topic Topic, groupID string, handler MessageHandler) error
	Close() error
}

// MessageHandler processes a single delivered message. Returning an error
// leaves the message uncommitted so the broker redelivers it (at-least-once).
type MessageHandler func(ctx context.Context, msg *ReceivedMessage) error

// ReceivedMessage is a delivered message with broker metadata.
type ReceivedMessage struct {
	Topic     string
	Key       string
	Value     []byte
	Offset    int64
	Partition int
	Timestamp time.Time
}

// KafkaProducer implements Producer over kafka-go writers, one per topic.
type KafkaProducer struct {
	cfg     *config.KafkaConfig
	writers map[Topic]*kafka.Writer
	logger  *zap.Logger
	mu      sync.RWMutex
}

// NewKafkaProducer creates a producer using the given broker configuration.
func NewKafkaProducer(cfg *config.KafkaConfig, logger *zap.Logger) *KafkaProducer {
	return &KafkaProducer{
		cfg:     cfg,
		writers: make(map[Topic]*kafka.Writer),
		logger:  logger,
	}
}

func (p *KafkaProducer) getWriter(topic Topic) *kafka.Writer {
	p.mu.RLock()
	writer, exists := p.writers[topic]
	p.mu.RUnlock()
	if exists {
		return writer
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if writer, exists := p.writers[topic]; exists {
		return writer
	}

	writer = &kafka.Writer{
		Addr:         kafka.TCP(p.cfg.Brokers...),
		Topic:        string(topic),
		Balancer:     &kafka.Hash{},
		BatchTimeout: p.cfg.BatchTimeout,
		ReadTimeout:  p.cfg.ReadTimeout,
		WriteTimeout: p.cfg.WriteTimeout,
		RequiredAcks: kafka.RequiredAcks(p.cfg.RequiredAcks),
		BatchBytes:   int64(p.cfg.MaxMessageBytes),
	}
	p.writers[topic] = writer
	return writer
}

// Publish marshals message as JSON and writes it to topic under key.
func (p *KafkaProducer) Publish(ctx context.Context, topic Topic, key string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	writer := p.getWriter(topic)
	return writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
}

// Close closes all topic writers.
func (p *KafkaProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for topic, writer := range p.writers {
		if err := writer.Close(); err != nil {
			lastErr = err
			p.logger.Error("Failed to close writer", zap.Error(err), zap.String("topic", string(topic)))
		}
	}
	return lastErr
}

// KafkaConsumer implements Consumer over kafka-go group readers.
type KafkaConsumer struct {
	cfg     *config.KafkaConfig
	readers map[string]*kafka.Reader
	logger  *zap.Logger
	mu      sync.RWMutex
	wg      sync.WaitGroup
}

// NewKafkaConsumer creates a consumer using the given broker configuration.
func NewKafkaConsumer(cfg *config.KafkaConfig, logger *zap.Logger) *KafkaConsumer {
	return &KafkaConsumer{
		cfg:     cfg,
		readers: make(map[string]*kafka.Reader),
		logger:  logger,
	}
}

// Subscribe starts a consume loop for topic in the given group. Messages are
// committed only after the handler returns nil; handler errors leave the
// offset uncommitted for redelivery. The loop stops when ctx is cancelled.
func (c *KafkaConsumer) Subscribe(ctx context.Context, topic Topic, groupID string, handler MessageHandler) error {
	fullGroupID := fmt.Sprintf("%s-%s", c.cfg.ConsumerGroupPrefix, groupID)
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  c.cfg.Brokers,
		Topic:    string(topic),
		GroupID:  fullGroupID,
		MaxBytes: c.cfg.MaxMessageBytes,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			c.logger.Error(fmt.Sprintf(msg, args...))
		}),
	})

	c.mu.Lock()
	c.readers[fullGroupID] = reader
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		for {
			msg, err := reader.FetchMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
					return
				}
				c.logger.Error("Failed to fetch message",
					zap.Error(err),
					zap.String("topic", string(topic)),
					zap.String("group", fullGroupID))
				continue
			}

			received := &ReceivedMessage{
				Topic:     msg.Topic,
				Key:       string(msg.Key),
				Value:     msg.Value,
				Offset:    msg.Offset,
				Partition: msg.Partition,
				Timestamp: msg.Time,
			}

			if err := handler(ctx, received); err != nil {
				c.logger.Error("Message handler failed, leaving offset uncommitted",
					zap.Error(err),
					zap.String("topic", msg.Topic),
					zap.Int64("offset", msg.Offset))
				continue
			}

			if err := reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("Failed to commit message",
					zap.Error(err),
					zap.String("topic", msg.Topic),
					zap.Int64("offset", msg.Offset))
			}
		}
	}()

	return nil
}

// Close closes all readers and waits for consume loops to drain.
func (c *KafkaConsumer) Close() error {
	c.mu.Lock()
	var lastErr error
	for groupID, reader := range c.readers {
		if err := reader.Close(); err != nil {
			lastErr = err
			c.logger.Error("Failed to close reader", zap.Error(err), zap.String("group", groupID))
		}
	}
	c.mu.Unlock()

	c.wg.Wait()
	return lastErr
}
