package dto

import "time"

// RegisterDTO 注册
type RegisterDTO struct {
	Username string `json:"username" binding:"required" validate:"min=1,max=24"`
	Password string `json:"password" binding:"required" validate:"min=6,max=64"`
}

// LoginDTO 登录
type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenDTO 令牌签发结果
type TokenDTO struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// FollowStatsDTO 关注切换后的统计信息
type FollowStatsDTO struct {
	UserID         uint64 `json:"user_id"`
	FollowerCount  int64  `json:"follower_count"`
	FollowingCount int64  `json:"following_count"`
	Following      bool   `json:"following"` // 操作后当前用户是否关注对方
}

// UserProfileDTO 用户主页信息
type UserProfileDTO struct {
	UserID         uint64     `json:"user_id"`
	Username       string     `json:"username"`
	AvatarURL      string     `json:"avatar_url"`
	FollowerCount  int64      `json:"follower_count"`
	FollowingCount int64      `json:"following_count"`
	IsFollowing    bool       `json:"is_following"` // 当前登录用户是否已关注
	CreatedAt      *time.Time `json:"created_at,omitempty"`
}
