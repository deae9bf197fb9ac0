package handler

import (
	"Ripple/internal/api/dto"
	"Ripple/internal/pkg/response"
	"Ripple/internal/service"
	"strings"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// Register 注册
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.userSvc.Register(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, token)
}

// Login 登录
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.userSvc.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, token)
}

// Logout 登出
func (h *UserHandler) Logout(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")

	if err := h.userSvc.Logout(c.Request.Context(), token); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// GetProfile 获取用户主页
func (h *UserHandler) GetProfile(c *gin.Context) {
	viewerID := c.GetUint64("user_id")

	profile, err := h.userSvc.GetProfile(c.Request.Context(), viewerID, c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, profile)
}

// Cancel 注销账号
func (h *UserHandler) Cancel(c *gin.Context) {
	userID := c.GetUint64("user_id")

	if err := h.userSvc.CancelUser(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
