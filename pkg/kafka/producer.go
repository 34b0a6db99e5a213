// Package kafka wraps a segmentio/kafka-go writer for publishing JSON
// messages to a single topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Config configures NewProducer.
type Config struct {
	Brokers      []string
	Topic        string
	MaxAttempts  int
	RetryBackoff time.Duration
}

// Producer publishes messages to one topic.
type Producer struct {
	writer *kafka.Writer
	topic  string
	log    *slog.Logger
}

// NewProducer creates a Producer. Connections are opened lazily on the
// first write.
func NewProducer(cfg Config, log *slog.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka: topic is required")
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = 100 * time.Millisecond
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            cfg.MaxAttempts,
		WriteBackoffMin:        cfg.RetryBackoff,
		WriteBackoffMax:        cfg.RetryBackoff * 10,
	}

	log.Info("kafka producer created", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return &Producer{writer: writer, topic: cfg.Topic, log: log}, nil
}

// SendMessage marshals value to JSON and writes it keyed by key. Messages
// with the same key land on the same partition.
func (p *Producer) SendMessage(ctx context.Context, key string, value any, headers map[string]string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	msg := kafka.Message{Key: []byte(key), Value: data}
	for k, v := range headers {
		msg.Headers = append(msg.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("failed to send kafka message", "topic", p.topic, "key", key, "error", err)
		return fmt.Errorf("failed to send kafka message: %w", err)
	}

	p.log.Debug("kafka message sent", "topic", p.topic, "key", key)
	return nil
}

// Close flushes pending writes and closes the writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
