package kafka

import (
	"Ripple/internal/pkg/consts"
	"Ripple/internal/pkg/redis"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

// MetricHandler 将互动事件累积到 Redis 计数器，由定时任务落库
type MetricHandler struct{}

func NewMetricHandler() *MetricHandler {
	return &MetricHandler{}
}

func (s *MetricHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("metric consumer setup")
	return nil
}

func (s *MetricHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("metric consumer cleanup")
	return nil
}

func (s *MetricHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("metric consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("metric process batch error", "err", err)
		return err
	}
	return nil
}

func (s *MetricHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	event, err := ToInteractionEvent(msg)
	if err != nil {
		// 无法解析的消息直接跳过，避免无限重试
		log.ErrorContext(ctx, "skip malformed interaction event", "err", err)
		return nil
	}

	var keyPrefix string
	var delta int64

	switch event.Type {
	case EventLike:
		keyPrefix, delta = consts.MetricLikeKey, 1
	case EventUnlike:
		keyPrefix, delta = consts.MetricLikeKey, -1
	case EventComment:
		keyPrefix, delta = consts.MetricCommentKey, 1
	case EventRepost:
		keyPrefix, delta = consts.MetricRepostKey, 1
	case EventUnrepost:
		keyPrefix, delta = consts.MetricRepostKey, -1
	case EventView:
		keyPrefix, delta = consts.MetricViewKey, 1
	default:
		return nil
	}

	targetID := event.RootID
	if targetID == "" {
		targetID = event.EntityID
	}

	if err = redis.IncrBy(ctx, keyPrefix+targetID, delta); err != nil {
		return errors.Wrap(err, "incr metric counter")
	}
	if err = redis.SAdd(ctx, consts.MetricDirtyKey, targetID); err != nil {
		return errors.Wrap(err, "mark metric dirty")
	}

	log.DebugContext(ctx, "metric accumulated", "type", event.Type, "entityID", targetID)
	return nil
}
