package kafka

import (
	"Ripple/internal/api/config"
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// Producer 互动事件发送器
type Producer interface {
	SendInteractionEvent(ctx context.Context, event *InteractionEvent) error
	Close() error
}

type producerImpl struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducer 创建同步生产者
func NewProducer(cfg *config.Config) (Producer, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.RequiredAcks = sarama.WaitForLocal

	p, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &producerImpl{
		producer: p,
		topic:    cfg.KafkaProducer.Topic,
	}, nil
}

// SendInteractionEvent 发送互动事件，以实体ID作为分区键保证同实体事件有序
func (p *producerImpl) SendInteractionEvent(ctx context.Context, event *InteractionEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.EntityID),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		log.ErrorContext(ctx, "failed to send interaction event", "type", event.Type, "err", err)
		return err
	}

	log.DebugContext(ctx, "interaction event sent", "type", event.Type, "partition", partition, "offset", offset)
	return nil
}

func (p *producerImpl) Close() error {
	return p.producer.Close()
}
