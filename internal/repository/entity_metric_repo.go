package repository

import (
	"Ripple/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EntityMetricRepo interface {
	IncrementDaily(ctx context.Context, metric *model.EntityDailyMetric) error
	GetMetricsBy7Days(ctx context.Context, entityID string) ([]*model.EntityDailyMetric, error)
	GetMetricsBy30Days(ctx context.Context, entityID string) ([]*model.EntityDailyMetric, error)
}

type entityMetricRepoImpl struct {
	db *gorm.DB
}

func NewEntityMetricRepo(db *gorm.DB) EntityMetricRepo {
	return &entityMetricRepoImpl{db: db}
}

// IncrementDaily 采用 Upsert 逻辑。如果 entity_id + metric_date 已存在，则累加各项增量
func (r *entityMetricRepoImpl) IncrementDaily(ctx context.Context, metric *model.EntityDailyMetric) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "entity_id"}, {Name: "metric_date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"new_likes":    gorm.Expr("new_likes + ?", metric.NewLikes),
			"new_comments": gorm.Expr("new_comments + ?", metric.NewComments),
			"new_reposts":  gorm.Expr("new_reposts + ?", metric.NewReposts),
			"new_views":    gorm.Expr("new_views + ?", metric.NewViews),
		}),
	}).Create(metric).Error
}

// GetMetricsBy7Days 获取实体最近 7 天的趋势数据
func (r *entityMetricRepoImpl) GetMetricsBy7Days(ctx context.Context, entityID string) ([]*model.EntityDailyMetric, error) {
	return r.getMetricsSince(ctx, entityID, time.Now().AddDate(0, 0, -7))
}

// GetMetricsBy30Days 获取实体最近 30 天的趋势数据
func (r *entityMetricRepoImpl) GetMetricsBy30Days(ctx context.Context, entityID string) ([]*model.EntityDailyMetric, error) {
	return r.getMetricsSince(ctx, entityID, time.Now().AddDate(0, 0, -30))
}

func (r *entityMetricRepoImpl) getMetricsSince(ctx context.Context, entityID string, since time.Time) ([]*model.EntityDailyMetric, error) {
	metrics := make([]*model.EntityDailyMetric, 0)
	result := r.db.WithContext(ctx).
		Where("entity_id = ?", entityID).
		Where("metric_date >= ?", since).
		Order("metric_date ASC").
		Find(&metrics)
	if result.Error != nil {
		return nil, result.Error
	}
	return metrics, nil
}
