package job

import (
	"Ripple/internal/model"
	"Ripple/internal/pkg/consts"
	"Ripple/internal/pkg/logger"
	"Ripple/internal/pkg/redis"
	"Ripple/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// MetricFlushJob 将 Redis 中累积的互动计数落盘为按日指标
type MetricFlushJob struct {
	metricRepo repository.EntityMetricRepo
}

func NewMetricFlushJob(metricRepo repository.EntityMetricRepo) *MetricFlushJob {
	return &MetricFlushJob{metricRepo: metricRepo}
}

func (s *MetricFlushJob) Run() {
	traceID := "job-metric-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	// 换名接管脏集合，避免与消费者并发写入互相干扰
	processingKey := consts.MetricDirtyKey + ":processing"
	if err := redis.Rename(ctx, consts.MetricDirtyKey, processingKey); err != nil {
		return
	}

	entityIDs, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get metric dirty set error", "err", err)
		return
	}

	today := time.Now().Truncate(24 * time.Hour)
	flushed := 0

	for _, entityID := range entityIDs {
		metric := &model.EntityDailyMetric{
			EntityID:    entityID,
			MetricDate:  today,
			NewLikes:    int(s.takeCounter(ctx, consts.MetricLikeKey+entityID)),
			NewComments: int(s.takeCounter(ctx, consts.MetricCommentKey+entityID)),
			NewReposts:  int(s.takeCounter(ctx, consts.MetricRepostKey+entityID)),
			NewViews:    int(s.takeCounter(ctx, consts.MetricViewKey+entityID)),
		}

		if err = s.metricRepo.IncrementDaily(ctx, metric); err != nil {
			log.ErrorContext(ctx, "flush entity daily metric error", "entityID", entityID, "err", err)
			continue
		}
		flushed++
	}

	if err = redis.DeleteKey(ctx, processingKey); err != nil {
		log.ErrorContext(ctx, "delete metric processing set error", "err", err)
	}

	log.InfoContext(ctx, "flush entity metrics success", "entity_count", flushed)
}

// takeCounter 读取并清零计数器
func (s *MetricFlushJob) takeCounter(ctx context.Context, key string) int64 {
	value, err := redis.GetInt64(ctx, key)
	if err != nil {
		return 0
	}
	if err = redis.DeleteKey(ctx, key); err != nil {
		log.WarnContext(ctx, "reset metric counter failed", "key", key, "err", err)
	}
	return value
}
