package handler

import (
	"Ripple/internal/api/dto"
	"Ripple/internal/pkg/response"
	"Ripple/internal/service"
	log "log/slog"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	contentSvc service.ContentService
	searchSvc  service.SearchService
}

func NewPostHandler(contentSvc service.ContentService, searchSvc service.SearchService) *PostHandler {
	return &PostHandler{
		contentSvc: contentSvc,
		searchSvc:  searchSvc,
	}
}

// Create 发布帖子
func (h *PostHandler) Create(c *gin.Context) {
	var req dto.EntityCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	userID := c.GetUint64("user_id")
	post, err := h.contentSvc.CreatePost(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, post)
}

// Delete 级联删除帖子或评论
func (h *PostHandler) Delete(c *gin.Context) {
	userID := c.GetUint64("user_id")

	result, err := h.contentSvc.DeleteEntity(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetFeed 获取信息流
func (h *PostHandler) GetFeed(c *gin.Context) {
	page, pageSize := pageQuery(c, 20)
	userID := c.GetUint64("user_id")

	feed, err := h.contentSvc.GetFeed(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, feed)
}

// GetThread 获取帖子及完整评论树
func (h *PostHandler) GetThread(c *gin.Context) {
	userID := c.GetUint64("user_id")

	thread, err := h.contentSvc.GetThread(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, thread)
}

// GetComments 获取实体的评论树
func (h *PostHandler) GetComments(c *gin.Context) {
	userID := c.GetUint64("user_id")

	comments, err := h.contentSvc.GetComments(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, comments)
}

// Search 全文检索帖子，检索失败时降级为空结果
func (h *PostHandler) Search(c *gin.Context) {
	page, pageSize := pageQuery(c, 20)

	posts, err := h.searchSvc.SearchPosts(c.Request.Context(), c.Query("q"), page, pageSize)
	if err != nil {
		log.ErrorContext(c.Request.Context(), "search posts failed", "q", c.Query("q"), "err", err)
		response.Success(c, []*dto.PostSearchDTO{})
		return
	}

	response.Success(c, posts)
}
