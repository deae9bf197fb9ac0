package service

import (
	"Ripple/internal/api/dto"
	"Ripple/internal/pkg/consts"
	"Ripple/internal/pkg/minio"
	"Ripple/internal/pkg/mongo"
	"Ripple/internal/pkg/redis"
	"Ripple/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

const unreadCacheTTL = 5 * time.Minute

// 按类型渲染的通知文案
var notifyContentMap = map[string]string{
	mongo.NotifyTypeLike:        "点赞了你的帖子",
	mongo.NotifyTypeCommentLike: "点赞了你的评论",
	mongo.NotifyTypeComment:     "评论了你",
	mongo.NotifyTypeFollow:      "关注了你",
	mongo.NotifyTypeRepost:      "转发了你的帖子",
	mongo.NotifyTypeMention:     "在内容中提到了你",
	mongo.NotifyTypeSystem:      "系统通知",
}

type NotificationService interface {
	Push(ctx context.Context, msg *mongo.NotificationModel) error
	Create(ctx context.Context, senderID uint64, req *dto.NotificationCreateDTO) error
	GetNotificationList(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.NotificationDTO, error)
	GetUnreadCount(ctx context.Context, userID uint64) (*dto.NotificationUnreadDTO, error)
	MarkRead(ctx context.Context, userID uint64, msgID string) error
	MarkAllRead(ctx context.Context, userID uint64) error
	ClearAll(ctx context.Context, userID uint64) error
	DeleteLike(ctx context.Context, recipientID, senderID uint64, entityID primitive.ObjectID) error
	DeleteForEntities(ctx context.Context, entityIDs []primitive.ObjectID) error
	DeleteForUser(ctx context.Context, userID uint64) error
}

type notificationServiceImpl struct {
	notifyRepo mongo.NotificationRepo
	userRepo   repository.UserRepo
}

func NewNotificationService(notifyRepo mongo.NotificationRepo, userRepo repository.UserRepo) NotificationService {
	return &notificationServiceImpl{
		notifyRepo: notifyRepo,
		userRepo:   userRepo,
	}
}

// Push 写入通知并推送到在线通道，自己触发的互动不产生通知
func (s *notificationServiceImpl) Push(ctx context.Context, msg *mongo.NotificationModel) error {
	if msg.RecipientID == msg.SenderID {
		return nil
	}

	if err := s.notifyRepo.Create(ctx, msg); err != nil {
		return err
	}

	s.invalidateUnreadCache(ctx, msg.RecipientID)

	// 在线推送失败不影响主流程
	if payload, err := json.Marshal(s.toDTO(ctx, msg)); err == nil {
		channel := consts.NotifyChannelKey + strconv.FormatUint(msg.RecipientID, 10)
		if err = redis.Publish(ctx, channel, string(payload)); err != nil {
			log.WarnContext(ctx, "publish notification failed", "recipient", msg.RecipientID, "err", err)
		}
	}

	return nil
}

// Create 用户主动发送通知，类型必须是已知类型且不允许伪装系统通知
func (s *notificationServiceImpl) Create(ctx context.Context, senderID uint64, req *dto.NotificationCreateDTO) error {
	if _, known := notifyContentMap[req.Type]; !known || req.Type == mongo.NotifyTypeSystem {
		return ErrParamInvalid
	}

	recipient, err := s.userRepo.GetByID(ctx, req.RecipientID)
	if err != nil {
		return err
	}
	if recipient == nil {
		return ErrUserNotFound
	}

	msg := &mongo.NotificationModel{
		RecipientID: req.RecipientID,
		SenderID:    senderID,
		Type:        req.Type,
		Preview:     req.Preview,
	}
	if req.EntityID != "" {
		objectID, err := primitive.ObjectIDFromHex(req.EntityID)
		if err != nil {
			return ErrParamInvalid
		}
		msg.EntityID = &objectID
	}

	return s.Push(ctx, msg)
}

// GetNotificationList 获取通知列表并补全发送者信息
func (s *notificationServiceImpl) GetNotificationList(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.NotificationDTO, error) {
	limit := int64(pageSize)
	offset := int64((page - 1) * pageSize)

	list, err := s.notifyRepo.ListByRecipient(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.NotificationDTO, 0, len(list))
	for _, m := range list {
		res = append(res, s.toDTO(ctx, m))
	}
	return res, nil
}

// GetUnreadCount 获取未读数，未登录用户恒为 0
func (s *notificationServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (*dto.NotificationUnreadDTO, error) {
	if userID == 0 {
		return &dto.NotificationUnreadDTO{Count: 0}, nil
	}

	key := consts.NotifyUnreadKey + strconv.FormatUint(userID, 10)
	if cached, err := redis.GetInt64(ctx, key); err == nil {
		return &dto.NotificationUnreadDTO{Count: cached}, nil
	}

	count, err := s.notifyRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err = redis.SetWithExpiration(ctx, key, count, unreadCacheTTL); err != nil {
		log.WarnContext(ctx, "cache unread count failed", "userID", userID, "err", err)
	}

	return &dto.NotificationUnreadDTO{Count: count}, nil
}

// MarkRead 标记单条已读
func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID uint64, msgID string) error {
	objectID, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return ErrParamInvalid
	}

	notice, err := s.notifyRepo.GetByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return ErrNotificationNotFound
		}
		return err
	}

	if notice.RecipientID != userID {
		return ForbiddenError
	}

	if notice.IsRead {
		return nil
	}

	if err = s.notifyRepo.MarkAsRead(ctx, objectID); err != nil {
		return err
	}

	s.invalidateUnreadCache(ctx, userID)
	return nil
}

// MarkAllRead 将用户全部未读通知标记为已读
func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID uint64) error {
	if err := s.notifyRepo.MarkAllAsRead(ctx, userID); err != nil {
		return err
	}
	s.invalidateUnreadCache(ctx, userID)
	return nil
}

// ClearAll 清空用户收到的全部通知
func (s *notificationServiceImpl) ClearAll(ctx context.Context, userID uint64) error {
	if err := s.notifyRepo.DeleteByRecipient(ctx, userID); err != nil {
		return err
	}
	s.invalidateUnreadCache(ctx, userID)
	return nil
}

// DeleteLike 取消点赞时撤回对应通知
func (s *notificationServiceImpl) DeleteLike(ctx context.Context, recipientID, senderID uint64, entityID primitive.ObjectID) error {
	if err := s.notifyRepo.DeleteLike(ctx, recipientID, senderID, entityID); err != nil {
		return err
	}
	s.invalidateUnreadCache(ctx, recipientID)
	return nil
}

// DeleteForEntities 级联删除引用实体的通知
func (s *notificationServiceImpl) DeleteForEntities(ctx context.Context, entityIDs []primitive.ObjectID) error {
	return s.notifyRepo.DeleteByEntityIDs(ctx, entityIDs)
}

// DeleteForUser 账号注销时清理其相关通知
func (s *notificationServiceImpl) DeleteForUser(ctx context.Context, userID uint64) error {
	return s.notifyRepo.DeleteByUser(ctx, userID)
}

func (s *notificationServiceImpl) toDTO(ctx context.Context, m *mongo.NotificationModel) *dto.NotificationDTO {
	d := &dto.NotificationDTO{
		ID:          m.ID.Hex(),
		Type:        m.Type,
		Content:     notifyContentMap[m.Type],
		Preview:     m.Preview,
		IsRead:      m.IsRead,
		RelativeAge: RelativeAge(m.CreatedAt, time.Now()),
		CreatedAt:   m.CreatedAt.UTC().Format(time.RFC3339),
	}

	if m.EntityID != nil {
		d.EntityID = m.EntityID.Hex()
	}
	if m.RelatedID != nil {
		d.RelatedID = m.RelatedID.Hex()
	}

	// SenderID 为 0 代表系统发送
	if m.SenderID > 0 {
		if user, err := s.userRepo.GetByID(ctx, m.SenderID); err == nil && user != nil {
			d.Sender = &dto.UserSummaryDTO{
				UserID:    user.ID,
				Username:  user.Username,
				AvatarURL: minio.GetPublicURL(user.AvatarURL),
			}
		}
	}

	return d
}

func (s *notificationServiceImpl) invalidateUnreadCache(ctx context.Context, userID uint64) {
	key := consts.NotifyUnreadKey + strconv.FormatUint(userID, 10)
	if err := redis.DeleteKey(ctx, key); err != nil {
		log.WarnContext(ctx, "invalidate unread cache failed", "userID", userID, "err", err)
	}
}

// RelativeAge 将时间渲染为相对年龄：秒/分/时/天，超过一周显示日期
func RelativeAge(t, now time.Time) string {
	elapsed := now.Sub(t)
	if elapsed < 0 {
		elapsed = 0
	}

	switch {
	case elapsed < time.Minute:
		return fmt.Sprintf("%ds", int(elapsed.Seconds()))
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh", int(elapsed.Hours()))
	case elapsed < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(elapsed.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
