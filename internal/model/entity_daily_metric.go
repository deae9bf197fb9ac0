package model

import (
	"time"
)

type EntityDailyMetric struct {
	ID          uint64    `gorm:"primaryKey"`
	EntityID    string    `gorm:"type:varchar(24);not null;index:idx_entity_date,unique" json:"entityId"`
	MetricDate  time.Time `gorm:"not null;index:idx_entity_date,unique;column:metric_date" json:"metricDate"`
	NewLikes    int       `gorm:"not null;default:0" json:"newLikes"`
	NewComments int       `gorm:"not null;default:0" json:"newComments"`
	NewReposts  int       `gorm:"not null;default:0" json:"newReposts"`
	NewViews    int       `gorm:"not null;default:0" json:"newViews"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (EntityDailyMetric) TableName() string {
	return "entity_daily_metrics"
}
