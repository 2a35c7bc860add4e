// Package messaging 提供线索领域事件的 Kafka 发布实现
package messaging

import (
	"context"

	"github.com/fangzhou-tech/flipops/internal/lead/domain"
	"github.com/fangzhou-tech/flipops/pkg/mq"
)

type kafkaEventPublisher struct {
	producer *mq.KafkaProducer
}

// NewKafkaEventPublisher 创建 Kafka 事件发布器
func NewKafkaEventPublisher(producer *mq.KafkaProducer) domain.EventPublisher {
	return &kafkaEventPublisher{producer: producer}
}

func (p *kafkaEventPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	return p.producer.SendMessage(ctx, topic, key, event)
}
