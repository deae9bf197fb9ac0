package service

import (
	"Ripple/internal/api/dto"
	"Ripple/internal/model"
	"Ripple/internal/pkg/mongo"
	"context"
	"errors"
	"testing"
	"time"
)

type fakeEntityMetricRepo struct {
	rows []*model.EntityDailyMetric
}

func (r *fakeEntityMetricRepo) IncrementDaily(_ context.Context, metric *model.EntityDailyMetric) error {
	r.rows = append(r.rows, metric)
	return nil
}

func (r *fakeEntityMetricRepo) GetMetricsBy7Days(_ context.Context, entityID string) ([]*model.EntityDailyMetric, error) {
	return r.byEntity(entityID), nil
}

func (r *fakeEntityMetricRepo) GetMetricsBy30Days(_ context.Context, entityID string) ([]*model.EntityDailyMetric, error) {
	return r.byEntity(entityID), nil
}

func (r *fakeEntityMetricRepo) byEntity(entityID string) []*model.EntityDailyMetric {
	var res []*model.EntityDailyMetric
	for _, m := range r.rows {
		if m.EntityID == entityID {
			res = append(res, m)
		}
	}
	return res
}

func TestGetTrend7Days(t *testing.T) {
	entityRepo := newFakeEntityRepo()
	metricRepo := &fakeEntityMetricRepo{}
	svc := NewMetricService(metricRepo, entityRepo)
	ctx := context.Background()

	entity := &mongo.EntityModel{Kind: mongo.EntityKindPost, AuthorID: 1}
	if err := entityRepo.Create(ctx, entity); err != nil {
		t.Fatalf("create entity: %v", err)
	}
	entityID := entity.ID.Hex()

	today := time.Now().UTC().Truncate(24 * time.Hour)
	metricRepo.rows = append(metricRepo.rows, &model.EntityDailyMetric{
		EntityID:   entityID,
		MetricDate: today,
		NewLikes:   3,
		NewViews:   40,
	})

	// 只有作者本人可以查看趋势
	if _, err := svc.GetTrend7Days(ctx, 2, entityID); !errors.Is(err, ForbiddenError) {
		t.Errorf("non-owner error = %v, want ForbiddenError", err)
	}
	if _, err := svc.GetTrend7Days(ctx, 1, missingEntityID); !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("missing entity error = %v, want ErrEntityNotFound", err)
	}

	trend, err := svc.GetTrend7Days(ctx, 1, entityID)
	if err != nil {
		t.Fatalf("GetTrend7Days error = %v", err)
	}
	if trend.Days != 7 || len(trend.Points) != 7 {
		t.Fatalf("points = %d (days %d), want 7", len(trend.Points), trend.Days)
	}

	// 无数据的日期补零，今天的数据落在最后一个点
	last := trend.Points[len(trend.Points)-1]
	if last.Likes != 3 || last.Views != 40 {
		t.Errorf("today point = %+v, want likes 3 / views 40", last)
	}
	var zeroDays int
	for _, p := range trend.Points[:len(trend.Points)-1] {
		if (dto.MetricPointDTO{Date: p.Date}) == *p {
			zeroDays++
		}
	}
	if zeroDays != 6 {
		t.Errorf("zero-filled days = %d, want 6", zeroDays)
	}
}
