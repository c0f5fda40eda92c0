package repository

import (
	"context"
	"fmt"
	"time"

	"FxScore/internal/domain/models"
	domrepo "FxScore/internal/domain/repository"
	pkgkafka "FxScore/pkg/kafka"

	"github.com/segmentio/kafka-go"
)

type producer interface {
	PublishBatch(ctx context.Context, topic string, messages []pkgkafka.Message) error
}

// KafkaResultPublisher emits each result keyed by regime, so consumers of one
// partition see regime changes in order.
type KafkaResultPublisher struct {
	producer producer
	topic    string
}

func NewKafkaResultPublisher(p producer, topic string) *KafkaResultPublisher {
	return &KafkaResultPublisher{producer: p, topic: topic}
}

func (p *KafkaResultPublisher) Name() string { return "kafka" }

func (p *KafkaResultPublisher) Publish(ctx context.Context, r *models.ScoringResult) error {
	msg := pkgkafka.Message{
		Key:   []byte(r.Regime),
		Value: r,
		Headers: []kafka.Header{
			{Key: "content_type", Value: []byte("application/json")},
			{Key: "calculated_at", Value: []byte(r.CalculatedAt.Format(time.RFC3339Nano))},
		},
	}
	if err := p.producer.PublishBatch(ctx, p.topic, []pkgkafka.Message{msg}); err != nil {
		return fmt.Errorf("publish result: %w", err)
	}
	return nil
}

var _ domrepo.ResultSink = (*KafkaResultPublisher)(nil)
