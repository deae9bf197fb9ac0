package handler

import (
	"Ripple/internal/api/dto"
	"Ripple/internal/pkg/response"
	"Ripple/internal/service"
	log "log/slog"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifySvc service.NotificationService
}

func NewNotificationHandler(notifySvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifySvc: notifySvc}
}

// GetNotificationList 获取通知列表，读路径失败时降级为空列表
func (h *NotificationHandler) GetNotificationList(c *gin.Context) {
	page, pageSize := pageQuery(c, 10)
	userID := c.GetUint64("user_id")

	if userID == 0 {
		response.Success(c, []*dto.NotificationDTO{})
		return
	}

	list, err := h.notifySvc.GetNotificationList(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		log.ErrorContext(c.Request.Context(), "get notification list failed", "err", err)
		response.Success(c, []*dto.NotificationDTO{})
		return
	}

	response.Success(c, list)
}

// GetUnreadCount 获取未读数，未登录或失败时恒为 0
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID := c.GetUint64("user_id")

	unread, err := h.notifySvc.GetUnreadCount(c.Request.Context(), userID)
	if err != nil {
		log.ErrorContext(c.Request.Context(), "get unread count failed", "err", err)
		response.Success(c, &dto.NotificationUnreadDTO{Count: 0})
		return
	}

	response.Success(c, unread)
}

// Create 主动向其他用户发送通知
func (h *NotificationHandler) Create(c *gin.Context) {
	var req dto.NotificationCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	userID := c.GetUint64("user_id")
	if err := h.notifySvc.Create(c.Request.Context(), userID, &req); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// MarkRead 标记单条已读
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.GetUint64("user_id")

	if err := h.notifySvc.MarkRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// MarkAllRead 标记全部已读
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := c.GetUint64("user_id")

	if err := h.notifySvc.MarkAllRead(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// ClearAll 清空全部通知
func (h *NotificationHandler) ClearAll(c *gin.Context) {
	userID := c.GetUint64("user_id")

	if err := h.notifySvc.ClearAll(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
