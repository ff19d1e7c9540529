package repository

import (
	"context"
	"fmt"

	"FinSight/internal/domain/models"
	xkafka "FinSight/pkg/kafka"
)

// KafkaSink publishes query events to a Kafka topic, keyed by session id so
// one session's turns land in order on the same partition.
type KafkaSink struct {
	producer *xkafka.Producer
	topic    string
}

// NewKafkaSink creates a Kafka-backed event sink.
func NewKafkaSink(producer *xkafka.Producer, topic string) (*KafkaSink, error) {
	if topic == "" {
		return nil, fmt.Errorf("kafka sink topic is required")
	}
	return &KafkaSink{producer: producer, topic: topic}, nil
}

// Record publishes one query event.
func (s *KafkaSink) Record(ctx context.Context, ev *models.QueryEvent) error {
	if err := s.producer.Publish(ctx, s.topic, []byte(ev.SessionID), ev); err != nil {
		return fmt.Errorf("publish query event: %w", err)
	}
	return nil
}

// Close closes the underlying producer.
func (s *KafkaSink) Close() error {
	return s.producer.Close()
}
