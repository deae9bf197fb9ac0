package dto

// ChatTokenDTO 聊天服务会话令牌
type ChatTokenDTO struct {
	Token string `json:"token"`
}
