package service

import (
	"Ripple/internal/api/dto"
	"Ripple/internal/model"
	"Ripple/internal/pkg/consts"
	"Ripple/internal/pkg/mongo"
	"Ripple/internal/pkg/redis"
	"Ripple/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"
)

const followCountCacheTTL = 10 * time.Minute

type UserFollowService interface {
	ToggleFollow(ctx context.Context, followerID uint64, username string) (*dto.FollowStatsDTO, error)
	GetUserFollowerCount(ctx context.Context, userID uint64) (int64, error)
	GetUserFollowingCount(ctx context.Context, userID uint64) (int64, error)
	IsFollowing(ctx context.Context, userID, followingID uint64) (bool, error)
}

type UserFollowServiceImpl struct {
	userFollowRepo repository.UserFollowRepo
	userRepo       repository.UserRepo
	notifySvc      NotificationService
}

func NewUserFollowService(
	userFollowRepo repository.UserFollowRepo,
	userRepo repository.UserRepo,
	notifySvc NotificationService,
) UserFollowService {
	return &UserFollowServiceImpl{
		userFollowRepo: userFollowRepo,
		userRepo:       userRepo,
		notifySvc:      notifySvc,
	}
}

// ToggleFollow 关注/取消关注，关注关系的两个方向来自同一行记录
func (s *UserFollowServiceImpl) ToggleFollow(ctx context.Context, followerID uint64, username string) (*dto.FollowStatsDTO, error) {
	target, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}
	if target.ID == followerID {
		return nil, ErrUserFollowSelf
	}

	relation := &model.UserFollow{
		FollowerID:  followerID,
		FollowingID: target.ID,
	}

	existing, err := s.userFollowRepo.GetUserFollow(ctx, followerID, target.ID)
	if err != nil {
		return nil, err
	}

	following := existing == nil
	if existing != nil {
		if err = s.userFollowRepo.DeleteUserFollow(ctx, relation); err != nil {
			return nil, err
		}
	} else {
		if err = s.userFollowRepo.CreateUserFollow(ctx, relation); err != nil {
			return nil, err
		}
		if err = s.notifySvc.Push(ctx, &mongo.NotificationModel{
			RecipientID: target.ID,
			SenderID:    followerID,
			Type:        mongo.NotifyTypeFollow,
		}); err != nil {
			log.ErrorContext(ctx, "push follow notification failed", "err", err)
		}
	}

	s.invalidateCountCache(ctx, followerID)
	s.invalidateCountCache(ctx, target.ID)

	followerCount, err := s.GetUserFollowerCount(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	followingCount, err := s.GetUserFollowingCount(ctx, target.ID)
	if err != nil {
		return nil, err
	}

	return &dto.FollowStatsDTO{
		UserID:         target.ID,
		FollowerCount:  followerCount,
		FollowingCount: followingCount,
		Following:      following,
	}, nil
}

func (s *UserFollowServiceImpl) GetUserFollowerCount(ctx context.Context, userID uint64) (int64, error) {
	return s.getCountCommon(ctx, userID, consts.UserFollowerCountKey, s.userFollowRepo.GetUserFollowerCount)
}

func (s *UserFollowServiceImpl) GetUserFollowingCount(ctx context.Context, userID uint64) (int64, error) {
	return s.getCountCommon(ctx, userID, consts.UserFollowingCountKey, s.userFollowRepo.GetUserFollowingCount)
}

// IsFollowing 判断 userID 是否关注了 followingID
func (s *UserFollowServiceImpl) IsFollowing(ctx context.Context, userID, followingID uint64) (bool, error) {
	relation, err := s.userFollowRepo.GetUserFollow(ctx, userID, followingID)
	if err != nil {
		return false, err
	}
	return relation != nil, nil
}

type fetchCountFunc func(ctx context.Context, userID uint64) (int64, error)

func (s *UserFollowServiceImpl) getCountCommon(ctx context.Context, userID uint64, keyPrefix string, fetch fetchCountFunc) (int64, error) {
	key := keyPrefix + strconv.FormatUint(userID, 10)
	if cached, err := redis.GetInt64(ctx, key); err == nil {
		return cached, nil
	}

	count, err := fetch(ctx, userID)
	if err != nil {
		return 0, err
	}

	if err = redis.SetWithExpiration(ctx, key, count, followCountCacheTTL); err != nil {
		log.WarnContext(ctx, "cache follow count failed", "userID", userID, "err", err)
	}
	return count, nil
}

func (s *UserFollowServiceImpl) invalidateCountCache(ctx context.Context, userID uint64) {
	suffix := strconv.FormatUint(userID, 10)
	for _, prefix := range []string{consts.UserFollowerCountKey, consts.UserFollowingCountKey} {
		if err := redis.DeleteKey(ctx, prefix+suffix); err != nil {
			log.WarnContext(ctx, "invalidate follow count cache failed", "userID", userID, "err", err)
		}
	}
}
