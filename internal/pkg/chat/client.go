package chat

import (
	"Ripple/internal/api/config"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client 第三方聊天服务客户端，负责用户同步与会话令牌签发
type Client interface {
	EnsureUser(ctx context.Context, userID uint64, username string) error
	IssueToken(ctx context.Context, userID uint64) (string, error)
	DeleteUser(ctx context.Context, userID uint64) error
}

type clientImpl struct {
	http *resty.Client
}

func NewClient(cfg config.ChatConfig) Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(10 * time.Second).
		SetHeader("X-App-Key", cfg.AppKey).
		SetHeader("X-App-Secret", cfg.AppSecret)

	return &clientImpl{http: client}
}

type tokenResponse struct {
	Token string `json:"token"`
}

// EnsureUser 在聊天服务侧创建或更新用户
func (c *clientImpl) EnsureUser(ctx context.Context, userID uint64, username string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"user_id":  fmt.Sprintf("%d", userID),
			"username": username,
		}).
		Put("/v1/users")
	if err != nil {
		return err
	}
	if resp.IsError() {
		log.ErrorContext(ctx, "chat ensure user failed", "status", resp.StatusCode(), "body", resp.String())
		return errors.New("chat service returned error")
	}
	return nil
}

// IssueToken 为用户签发聊天会话令牌
func (c *clientImpl) IssueToken(ctx context.Context, userID uint64) (string, error) {
	var result tokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"user_id": fmt.Sprintf("%d", userID),
		}).
		SetResult(&result).
		Post("/v1/tokens")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		log.ErrorContext(ctx, "chat issue token failed", "status", resp.StatusCode(), "body", resp.String())
		return "", errors.New("chat service returned error")
	}
	if result.Token == "" {
		return "", errors.New("chat service returned empty token")
	}
	return result.Token, nil
}

// DeleteUser 账号注销时删除聊天服务侧的用户
func (c *clientImpl) DeleteUser(ctx context.Context, userID uint64) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/v1/users/%d", userID))
	if err != nil {
		return err
	}
	if resp.IsError() && resp.StatusCode() != 404 {
		log.ErrorContext(ctx, "chat delete user failed", "status", resp.StatusCode(), "body", resp.String())
		return errors.New("chat service returned error")
	}
	return nil
}
