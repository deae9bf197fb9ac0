package dto

// MetricPointDTO 单日互动增量
type MetricPointDTO struct {
	Date     string `json:"date"`
	Likes    int    `json:"likes"`
	Comments int    `json:"comments"`
	Reposts  int    `json:"reposts"`
	Views    int    `json:"views"`
}

// EntityTrendDTO 帖子互动趋势
type EntityTrendDTO struct {
	EntityID string            `json:"entity_id"`
	Days     int               `json:"days"`
	Points   []*MetricPointDTO `json:"points"`
}
