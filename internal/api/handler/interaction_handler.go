package handler

import (
	"Ripple/internal/api/dto"
	"Ripple/internal/pkg/response"
	"Ripple/internal/service"

	"github.com/gin-gonic/gin"
)

type InteractionHandler struct {
	contentSvc service.ContentService
}

func NewInteractionHandler(contentSvc service.ContentService) *InteractionHandler {
	return &InteractionHandler{contentSvc: contentSvc}
}

// ToggleLike 点赞/取消点赞
func (h *InteractionHandler) ToggleLike(c *gin.Context) {
	userID := c.GetUint64("user_id")

	entity, err := h.contentSvc.ToggleLike(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, entity)
}

// ToggleRepost 转发/取消转发
func (h *InteractionHandler) ToggleRepost(c *gin.Context) {
	userID := c.GetUint64("user_id")

	entity, err := h.contentSvc.ToggleRepost(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, entity)
}

// CreateComment 在帖子或评论下发表评论
func (h *InteractionHandler) CreateComment(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	userID := c.GetUint64("user_id")
	comment, err := h.contentSvc.CreateComment(c.Request.Context(), userID, &dto.CommentCreateDTO{
		ParentID: c.Param("id"),
		Content:  req.Content,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, comment)
}
