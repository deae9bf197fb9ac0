package kafka

import (
	"Ripple/internal/api/config"
	"Ripple/internal/pkg/es"
	"Ripple/internal/pkg/mongo"
	"Ripple/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	metricConsumer sarama.ConsumerGroup
	metricHandler  sarama.ConsumerGroupHandler

	searchConsumer sarama.ConsumerGroup
	searchHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(
	cfg *config.Config,
	entityRepo mongo.EntityRepo,
	userRepo repository.UserRepo,
	postESRepo es.PostRepo,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	metricConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaMetricConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	metricHandler := NewMetricHandler()

	searchConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaSearchConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	searchHandler := NewSearchHandler(entityRepo, userRepo, postESRepo)

	return &ConsumerManager{
		metricConsumer: metricConsumer,
		metricHandler:  metricHandler,
		searchConsumer: searchConsumer,
		searchHandler:  searchHandler,
	}, nil
}

// Start 启动所有消费者
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	// 启动 Metric Consumer
	go func() {
		topic := cfg.KafkaMetricConsumer.Topic
		log.Info("Metric consumer started", "topic", topic)
		for {
			if err := m.metricConsumer.Consume(ctx, []string{topic}, m.metricHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	// 启动 Search Consumer
	go func() {
		topic := cfg.KafkaSearchConsumer.Topic
		log.Info("Search consumer started", "topic", topic)
		for {
			if err := m.searchConsumer.Consume(ctx, []string{topic}, m.searchHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.metricConsumer.Close(); err != nil {
		log.Error("Failed to close metric consumer", "err", err)
	}
	if err := m.searchConsumer.Close(); err != nil {
		log.Error("Failed to close search consumer", "err", err)
	}

	return nil
}
