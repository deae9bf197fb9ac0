package handler

import (
	"Ripple/internal/pkg/response"
	"Ripple/internal/service"

	"github.com/gin-gonic/gin"
)

type IMHandler struct {
	userSvc service.UserService
}

func NewIMHandler(userSvc service.UserService) *IMHandler {
	return &IMHandler{userSvc: userSvc}
}

// GetChatToken 签发聊天服务的会话令牌
func (h *IMHandler) GetChatToken(c *gin.Context) {
	userID := c.GetUint64("user_id")

	token, err := h.userSvc.GetChatToken(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, token)
}
