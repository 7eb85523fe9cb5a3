package repository

import (
	"context"

	"FundPull/internal/domain/repository"
	pkgkafka "FundPull/pkg/kafka"
)

// KafkaPublisher implements Publisher for Kafka.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishBiasUpdate(ctx context.Context, payload interface{}) error {
	return p.producer.Publish(ctx, p.topic, []byte("bias-update"), payload)
}

// PublishMessage satisfies the log collector's publisher so aggregated error
// logs ride the same producer.
func (p *KafkaPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, []byte("logs"), payload)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
