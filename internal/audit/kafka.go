package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
)

// KafkaPublisher writes audit events to a Kafka topic using a synchronous
// producer, keyed by transaction id so one transaction's events stay on one
// partition.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   zerolog.Logger
}

// NewKafkaPublisher connects a sync producer to the given brokers.
func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("audit: at least one broker is required")
	}
	if topic == "" {
		return nil, errors.New("audit: topic is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_5_0_0
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Retry.Backoff = 250 * time.Millisecond
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("audit: create producer: %w", err)
	}
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger.With().Str("component", "audit_publisher").Logger(),
	}, nil
}

// Publish implements Publisher.
func (p *KafkaPublisher) Publish(_ context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("audit: marshal event: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.TxnID),
		Value: sarama.ByteEncoder(payload),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("audit: send event: %w", err)
	}
	return nil
}

// Close releases the underlying producer.
func (p *KafkaPublisher) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("audit: close producer: %w", err)
	}
	return nil
}
