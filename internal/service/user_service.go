package service

import (
	"Ripple/internal/api/dto"
	"Ripple/internal/model"
	"Ripple/internal/pkg/chat"
	"Ripple/internal/pkg/consts"
	"Ripple/internal/pkg/minio"
	"Ripple/internal/pkg/redis"
	"Ripple/internal/pkg/security"
	"Ripple/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"regexp"
	"time"

	"github.com/go-sql-driver/mysql"
)

var usernameRegex = regexp.MustCompile(`^[a-z0-9]{1,24}$`)

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterDTO) (*dto.TokenDTO, error)
	Login(ctx context.Context, req *dto.LoginDTO) (*dto.TokenDTO, error)
	Logout(ctx context.Context, token string) error
	GetProfile(ctx context.Context, viewerID uint64, username string) (*dto.UserProfileDTO, error)
	GetChatToken(ctx context.Context, userID uint64) (*dto.ChatTokenDTO, error)
	CancelUser(ctx context.Context, userID uint64) error
}

type UserServiceImpl struct {
	userRepo   repository.UserRepo
	followSvc  UserFollowService
	contentSvc ContentService
	notifySvc  NotificationService
	chatClient chat.Client
}

func NewUserService(
	userRepo repository.UserRepo,
	followSvc UserFollowService,
	contentSvc ContentService,
	notifySvc NotificationService,
	chatClient chat.Client,
) UserService {
	return &UserServiceImpl{
		userRepo:   userRepo,
		followSvc:  followSvc,
		contentSvc: contentSvc,
		notifySvc:  notifySvc,
		chatClient: chatClient,
	}
}

// Register 注册并直接签发令牌
func (s *UserServiceImpl) Register(ctx context.Context, req *dto.RegisterDTO) (*dto.TokenDTO, error) {
	if !usernameRegex.MatchString(req.Username) {
		return nil, ErrUsernameInvalid
	}

	passwordHash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:  req.Username,
		Password:  passwordHash,
		AvatarURL: consts.DefaultAvatarURL,
	}
	if err = s.userRepo.Create(ctx, user); err != nil {
		if isDuplicateError(err) {
			return nil, ErrUserExist
		}
		return nil, err
	}

	// 聊天服务侧同步用户，失败不阻断注册
	if s.chatClient != nil {
		if err = s.chatClient.EnsureUser(ctx, user.ID, user.Username); err != nil {
			log.WarnContext(ctx, "sync chat user failed", "userID", user.ID, "err", err)
		}
	}

	return s.issueToken(user)
}

// Login 用户名密码登录
func (s *UserServiceImpl) Login(ctx context.Context, req *dto.LoginDTO) (*dto.TokenDTO, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err = security.CheckPasswordHash(req.Password, user.Password); err != nil {
		return nil, ErrPasswordIncorrect
	}

	return s.issueToken(user)
}

// Logout 将令牌签名拉黑至过期
func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return err
	}
	return redis.SetWithExpiration(ctx, signature, true, time.Hour*24)
}

// GetProfile 获取用户主页信息及关注统计
func (s *UserServiceImpl) GetProfile(ctx context.Context, viewerID uint64, username string) (*dto.UserProfileDTO, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	followerCount, err := s.followSvc.GetUserFollowerCount(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	followingCount, err := s.followSvc.GetUserFollowingCount(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	profile := &dto.UserProfileDTO{
		UserID:         user.ID,
		Username:       user.Username,
		AvatarURL:      minio.GetPublicURL(user.AvatarURL),
		FollowerCount:  followerCount,
		FollowingCount: followingCount,
		CreatedAt:      &user.CreatedAt,
	}

	if viewerID != 0 && viewerID != user.ID {
		isFollowing, err := s.followSvc.IsFollowing(ctx, viewerID, user.ID)
		if err == nil {
			profile.IsFollowing = isFollowing
		}
	}

	return profile, nil
}

// GetChatToken 为用户签发聊天会话令牌
func (s *UserServiceImpl) GetChatToken(ctx context.Context, userID uint64) (*dto.ChatTokenDTO, error) {
	token, err := s.chatClient.IssueToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.ChatTokenDTO{Token: token}, nil
}

// CancelUser 注销账号：清理内容、通知与聊天侧用户，最后删除主记录
func (s *UserServiceImpl) CancelUser(ctx context.Context, userID uint64) error {
	if err := s.contentSvc.DeleteAllByAuthor(ctx, userID); err != nil {
		log.ErrorContext(ctx, "delete user content failed", "userID", userID, "err", err)
	}
	if err := s.notifySvc.DeleteForUser(ctx, userID); err != nil {
		log.ErrorContext(ctx, "delete user notifications failed", "userID", userID, "err", err)
	}
	if s.chatClient != nil {
		if err := s.chatClient.DeleteUser(ctx, userID); err != nil {
			log.ErrorContext(ctx, "delete chat user failed", "userID", userID, "err", err)
		}
	}

	return s.userRepo.Delete(ctx, userID)
}

func (s *UserServiceImpl) issueToken(user *model.User) (*dto.TokenDTO, error) {
	token, err := security.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &dto.TokenDTO{
		UserID:   user.ID,
		Username: user.Username,
		Token:    token,
	}, nil
}

// isDuplicateError 判断是否为 MySQL 唯一键冲突
func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
