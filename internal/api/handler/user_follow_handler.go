package handler

import (
	"Ripple/internal/pkg/response"
	"Ripple/internal/service"

	"github.com/gin-gonic/gin"
)

type UserFollowHandler struct {
	followSvc service.UserFollowService
}

func NewUserFollowHandler(followSvc service.UserFollowService) *UserFollowHandler {
	return &UserFollowHandler{followSvc: followSvc}
}

// ToggleFollow 关注/取消关注
func (h *UserFollowHandler) ToggleFollow(c *gin.Context) {
	userID := c.GetUint64("user_id")

	stats, err := h.followSvc.ToggleFollow(c.Request.Context(), userID, c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}
