package handler

import (
	"Ripple/internal/pkg/response"
	"Ripple/internal/service"

	"github.com/gin-gonic/gin"
)

type MetricHandler struct {
	metricSvc service.MetricService
}

func NewMetricHandler(metricSvc service.MetricService) *MetricHandler {
	return &MetricHandler{metricSvc: metricSvc}
}

// GetMetrics7Days 获取帖子 7 天互动趋势
func (h *MetricHandler) GetMetrics7Days(c *gin.Context) {
	userID := c.GetUint64("user_id")

	trend, err := h.metricSvc.GetTrend7Days(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, trend)
}

// GetMetrics30Days 获取帖子 30 天互动趋势
func (h *MetricHandler) GetMetrics30Days(c *gin.Context) {
	userID := c.GetUint64("user_id")

	trend, err := h.metricSvc.GetTrend30Days(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, trend)
}
