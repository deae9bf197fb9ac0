package service

import (
	"Ripple/internal/api/dto"
	"Ripple/internal/model"
	"Ripple/internal/pkg/consts"
	"Ripple/internal/pkg/mongo"
	"Ripple/internal/pkg/redis"
	"Ripple/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

const trendCacheTTL = 10 * time.Minute

type MetricService interface {
	GetTrend7Days(ctx context.Context, userID uint64, entityID string) (*dto.EntityTrendDTO, error)
	GetTrend30Days(ctx context.Context, userID uint64, entityID string) (*dto.EntityTrendDTO, error)
}

type metricServiceImpl struct {
	metricRepo repository.EntityMetricRepo
	entityRepo mongo.EntityRepo
}

func NewMetricService(metricRepo repository.EntityMetricRepo, entityRepo mongo.EntityRepo) MetricService {
	return &metricServiceImpl{
		metricRepo: metricRepo,
		entityRepo: entityRepo,
	}
}

func (s *metricServiceImpl) GetTrend7Days(ctx context.Context, userID uint64, entityID string) (*dto.EntityTrendDTO, error) {
	return s.getTrend(ctx, userID, entityID, consts.MetricTrend7DaysKey+entityID, 7, s.metricRepo.GetMetricsBy7Days)
}

func (s *metricServiceImpl) GetTrend30Days(ctx context.Context, userID uint64, entityID string) (*dto.EntityTrendDTO, error) {
	return s.getTrend(ctx, userID, entityID, consts.MetricTrend30DaysKey+entityID, 30, s.metricRepo.GetMetricsBy30Days)
}

type fetchMetricsFunc func(ctx context.Context, entityID string) ([]*model.EntityDailyMetric, error)

// getTrend 趋势只对作者本人可见，按日补齐缺失的数据点
func (s *metricServiceImpl) getTrend(
	ctx context.Context,
	userID uint64,
	entityID string,
	key string,
	days int,
	fetch fetchMetricsFunc,
) (*dto.EntityTrendDTO, error) {
	objectID, err := primitive.ObjectIDFromHex(entityID)
	if err != nil {
		return nil, ErrParamInvalid
	}

	entity, err := s.entityRepo.GetByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}
	if entity.AuthorID != userID {
		return nil, ForbiddenError
	}

	if cached, err := redis.GetValue(ctx, key); err == nil && cached != "" {
		var res dto.EntityTrendDTO
		if err = json.Unmarshal([]byte(cached), &res); err == nil {
			return &res, nil
		}
	}

	rows, err := fetch(ctx, entityID)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]*model.EntityDailyMetric, len(rows))
	for _, row := range rows {
		byDate[row.MetricDate.UTC().Format(time.DateOnly)] = row
	}

	res := &dto.EntityTrendDTO{
		EntityID: entityID,
		Days:     days,
		Points:   make([]*dto.MetricPointDTO, 0, days),
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(time.DateOnly)
		point := &dto.MetricPointDTO{Date: date}
		if row, ok := byDate[date]; ok {
			point.Likes = row.NewLikes
			point.Comments = row.NewComments
			point.Reposts = row.NewReposts
			point.Views = row.NewViews
		}
		res.Points = append(res.Points, point)
	}

	if payload, err := json.Marshal(res); err == nil {
		if err = redis.SetWithExpiration(ctx, key, string(payload), trendCacheTTL); err != nil {
			log.WarnContext(ctx, "cache entity trend failed", "entityID", entityID, "err", err)
		}
	}

	return res, nil
}
