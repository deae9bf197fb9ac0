package service

import (
	"Ripple/internal/api/dto"
	"Ripple/internal/model"
	"Ripple/internal/pkg/consts"
	"Ripple/internal/pkg/kafka"
	"Ripple/internal/pkg/minio"
	"Ripple/internal/pkg/mongo"
	"Ripple/internal/pkg/redis"
	"Ripple/internal/pkg/util"
	"Ripple/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

const notifyPreviewLimit = 50

type ContentService interface {
	CreatePost(ctx context.Context, userID uint64, req *dto.EntityCreateDTO) (*dto.EntityDTO, error)
	CreateComment(ctx context.Context, userID uint64, req *dto.CommentCreateDTO) (*dto.EntityDTO, error)
	ToggleLike(ctx context.Context, userID uint64, entityID string) (*dto.EntityDTO, error)
	ToggleRepost(ctx context.Context, userID uint64, entityID string) (*dto.EntityDTO, error)
	DeleteEntity(ctx context.Context, userID uint64, entityID string) (*dto.DeleteResultDTO, error)
	GetFeed(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.EntityDTO, error)
	GetThread(ctx context.Context, viewerID uint64, entityID string) (*dto.EntityDTO, error)
	GetComments(ctx context.Context, viewerID uint64, entityID string) ([]*dto.EntityDTO, error)
	DeleteAllByAuthor(ctx context.Context, userID uint64) error
}

type contentServiceImpl struct {
	entityRepo     mongo.EntityRepo
	userRepo       repository.UserRepo
	userFollowRepo repository.UserFollowRepo
	notifySvc      NotificationService
	producer       kafka.Producer
}

func NewContentService(
	entityRepo mongo.EntityRepo,
	userRepo repository.UserRepo,
	userFollowRepo repository.UserFollowRepo,
	notifySvc NotificationService,
	producer kafka.Producer,
) ContentService {
	return &contentServiceImpl{
		entityRepo:     entityRepo,
		userRepo:       userRepo,
		userFollowRepo: userFollowRepo,
		notifySvc:      notifySvc,
		producer:       producer,
	}
}

// CreatePost 发布顶层帖子
func (s *contentServiceImpl) CreatePost(ctx context.Context, userID uint64, req *dto.EntityCreateDTO) (*dto.EntityDTO, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" && len(req.Media) == 0 {
		return nil, ErrContentEmpty
	}

	mentioned, err := s.resolveMentions(ctx, content)
	if err != nil {
		return nil, err
	}

	entity := &mongo.EntityModel{
		Kind:     mongo.EntityKindPost,
		AuthorID: userID,
		Content:  content,
		Depth:    0,
	}
	for _, m := range req.Media {
		entity.Media = append(entity.Media, mongo.MediaItem{
			MediaType:  m.MediaType,
			URL:        m.URL,
			StorageKey: storageKeyFromURL(m.URL),
		})
	}

	if err = s.entityRepo.Create(ctx, entity); err != nil {
		return nil, err
	}

	s.markMediaPermanent(ctx, entity.Media)
	s.notifyMentions(ctx, userID, mentioned, entity)
	s.emitEvent(ctx, &kafka.InteractionEvent{
		Type:     kafka.EventPostCreated,
		EntityID: entity.ID.Hex(),
		ActorID:  userID,
		AuthorID: userID,
	})

	return s.populate(ctx, entity, userID, mongo.MaxCommentDepth), nil
}

// CreateComment 发布评论，嵌套层级不可超过限制
func (s *contentServiceImpl) CreateComment(ctx context.Context, userID uint64, req *dto.CommentCreateDTO) (*dto.EntityDTO, error) {
	parentID, err := primitive.ObjectIDFromHex(req.ParentID)
	if err != nil {
		return nil, ErrParamInvalid
	}

	parent, err := s.entityRepo.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrContentEmpty
	}

	depth := 1
	rootID := parent.ID
	if parent.Kind == mongo.EntityKindComment {
		depth = parent.Depth + 1
		if parent.RootID != nil {
			rootID = *parent.RootID
		}
	}
	if depth > mongo.MaxCommentDepth {
		return nil, ErrDepthExceeded
	}

	mentioned, err := s.resolveMentions(ctx, content)
	if err != nil {
		return nil, err
	}

	entity := &mongo.EntityModel{
		Kind:     mongo.EntityKindComment,
		AuthorID: userID,
		Content:  content,
		Depth:    depth,
		ParentID: &parent.ID,
		RootID:   &rootID,
	}

	if err = s.entityRepo.Create(ctx, entity); err != nil {
		return nil, err
	}

	if err = s.entityRepo.AppendChild(ctx, parent.ID, entity.ID); err != nil {
		log.ErrorContext(ctx, "append child failed", "parentID", parent.ID.Hex(), "err", err)
	}

	// 通知挂到根帖子上，点击通知直达完整帖子串
	if err = s.notifySvc.Push(ctx, &mongo.NotificationModel{
		RecipientID: parent.AuthorID,
		SenderID:    userID,
		Type:        mongo.NotifyTypeComment,
		EntityID:    &entity.ID,
		RelatedID:   &rootID,
		Preview:     previewOf(content),
	}); err != nil {
		log.ErrorContext(ctx, "push comment notification failed", "err", err)
	}

	s.notifyMentions(ctx, userID, mentioned, entity)
	s.emitEvent(ctx, &kafka.InteractionEvent{
		Type:     kafka.EventComment,
		EntityID: entity.ID.Hex(),
		RootID:   rootID.Hex(),
		ActorID:  userID,
		AuthorID: parent.AuthorID,
	})

	return s.populate(ctx, entity, userID, mongo.MaxCommentDepth-depth), nil
}

// ToggleLike 点赞/取消点赞，重复调用互为逆操作
func (s *contentServiceImpl) ToggleLike(ctx context.Context, userID uint64, entityID string) (*dto.EntityDTO, error) {
	objectID, err := primitive.ObjectIDFromHex(entityID)
	if err != nil {
		return nil, ErrParamInvalid
	}

	entity, err := s.entityRepo.GetByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}

	if containsUser(entity.LikerIDs, userID) {
		if err = s.entityRepo.RemoveLiker(ctx, objectID, userID); err != nil {
			return nil, err
		}
		if err = s.notifySvc.DeleteLike(ctx, entity.AuthorID, userID, objectID); err != nil {
			log.ErrorContext(ctx, "delete like notification failed", "err", err)
		}
		s.emitEvent(ctx, &kafka.InteractionEvent{
			Type:     kafka.EventUnlike,
			EntityID: entityID,
			RootID:   rootHexOf(entity),
			ActorID:  userID,
			AuthorID: entity.AuthorID,
		})
	} else {
		if err = s.entityRepo.AddLiker(ctx, objectID, userID); err != nil {
			return nil, err
		}

		notifyType := mongo.NotifyTypeLike
		if entity.Kind == mongo.EntityKindComment {
			notifyType = mongo.NotifyTypeCommentLike
		}
		if err = s.notifySvc.Push(ctx, &mongo.NotificationModel{
			RecipientID: entity.AuthorID,
			SenderID:    userID,
			Type:        notifyType,
			EntityID:    &entity.ID,
			RelatedID:   rootOrSelf(entity),
			Preview:     previewOf(entity.Content),
		}); err != nil {
			log.ErrorContext(ctx, "push like notification failed", "err", err)
		}
		s.emitEvent(ctx, &kafka.InteractionEvent{
			Type:     kafka.EventLike,
			EntityID: entityID,
			RootID:   rootHexOf(entity),
			ActorID:  userID,
			AuthorID: entity.AuthorID,
		})
	}

	// 写后重读，响应必须反映本次变更
	updated, err := s.entityRepo.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, updated, userID, mongo.MaxCommentDepth-updated.Depth), nil
}

// ToggleRepost 转发/取消转发
func (s *contentServiceImpl) ToggleRepost(ctx context.Context, userID uint64, entityID string) (*dto.EntityDTO, error) {
	objectID, err := primitive.ObjectIDFromHex(entityID)
	if err != nil {
		return nil, ErrParamInvalid
	}

	entity, err := s.entityRepo.GetByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}

	if containsUser(entity.ReposterIDs, userID) {
		if err = s.entityRepo.RemoveReposter(ctx, objectID, userID); err != nil {
			return nil, err
		}

		repost, err := s.entityRepo.FindRepost(ctx, userID, objectID)
		if err == nil {
			if _, err = s.cascadeDelete(ctx, repost); err != nil {
				log.ErrorContext(ctx, "delete repost entity failed", "repostID", repost.ID.Hex(), "err", err)
			}
		} else if !errors.Is(err, mongoDB.ErrNoDocuments) {
			return nil, err
		}

		s.emitEvent(ctx, &kafka.InteractionEvent{
			Type:     kafka.EventUnrepost,
			EntityID: entityID,
			ActorID:  userID,
			AuthorID: entity.AuthorID,
		})
	} else {
		if err = s.entityRepo.AddReposter(ctx, objectID, userID); err != nil {
			return nil, err
		}

		// 转发实体复制原文内容，媒体引用同一批对象
		repost := &mongo.EntityModel{
			Kind:           mongo.EntityKindRepost,
			AuthorID:       userID,
			Content:        entity.Content,
			Depth:          0,
			OriginalPostID: &entity.ID,
			Media:          entity.Media,
		}
		if err = s.entityRepo.Create(ctx, repost); err != nil {
			return nil, err
		}

		s.emitEvent(ctx, &kafka.InteractionEvent{
			Type:     kafka.EventRepost,
			EntityID: entityID,
			ActorID:  userID,
			AuthorID: entity.AuthorID,
		})
	}

	updated, err := s.entityRepo.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, updated, userID, mongo.MaxCommentDepth-updated.Depth), nil
}

// DeleteEntity 级联删除实体及其全部后代、相关通知与媒体对象
func (s *contentServiceImpl) DeleteEntity(ctx context.Context, userID uint64, entityID string) (*dto.DeleteResultDTO, error) {
	objectID, err := primitive.ObjectIDFromHex(entityID)
	if err != nil {
		return nil, ErrParamInvalid
	}

	entity, err := s.entityRepo.GetByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}

	if entity.AuthorID != userID {
		return nil, ForbiddenError
	}

	deletedIDs, err := s.cascadeDelete(ctx, entity)
	if err != nil {
		return nil, err
	}

	s.emitEvent(ctx, &kafka.InteractionEvent{
		Type:       kafka.EventPostDeleted,
		EntityID:   entityID,
		ActorID:    userID,
		AuthorID:   entity.AuthorID,
		DeletedIDs: deletedIDs,
	})

	return &dto.DeleteResultDTO{Kind: entity.Kind}, nil
}

// cascadeDelete 先完整枚举后代再删除：通知、媒体为尽力而为，实体自底向上删除
func (s *contentServiceImpl) cascadeDelete(ctx context.Context, entity *mongo.EntityModel) ([]string, error) {
	levels, err := s.collectDescendants(ctx, entity)
	if err != nil {
		return nil, err
	}

	var all []*mongo.EntityModel
	for _, level := range levels {
		all = append(all, level...)
	}

	allIDs := make([]primitive.ObjectID, 0, len(all))
	hexIDs := make([]string, 0, len(all))
	var storageKeys []string
	for _, e := range all {
		allIDs = append(allIDs, e.ID)
		hexIDs = append(hexIDs, e.ID.Hex())
		for _, m := range e.Media {
			if m.StorageKey != "" {
				storageKeys = append(storageKeys, m.StorageKey)
			}
		}
	}

	// 媒体对象异步清理，失败只记录日志
	if len(storageKeys) > 0 {
		go func(keys []string) {
			cleanCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			for _, key := range keys {
				if err := minio.DeleteFile(cleanCtx, key); err != nil {
					log.Error("delete media blob failed", "key", key, "err", err)
				}
			}
		}(storageKeys)
	}

	if err = s.notifySvc.DeleteForEntities(ctx, allIDs); err != nil {
		log.ErrorContext(ctx, "delete related notifications failed", "err", err)
	}

	if entity.ParentID != nil {
		if err = s.entityRepo.RemoveChild(ctx, *entity.ParentID, entity.ID); err != nil && !errors.Is(err, mongoDB.ErrNoDocuments) {
			log.ErrorContext(ctx, "remove child from parent failed", "err", err)
		}
	}

	// 自底向上删除各层级
	for i := len(levels) - 1; i >= 0; i-- {
		ids := make([]primitive.ObjectID, 0, len(levels[i]))
		for _, e := range levels[i] {
			ids = append(ids, e.ID)
		}
		if err = s.entityRepo.DeleteByIDs(ctx, ids); err != nil {
			return nil, err
		}
	}

	return hexIDs, nil
}

// collectDescendants 按层级枚举实体及其全部后代，层级数受嵌套上限约束
func (s *contentServiceImpl) collectDescendants(ctx context.Context, entity *mongo.EntityModel) ([][]*mongo.EntityModel, error) {
	levels := [][]*mongo.EntityModel{{entity}}
	frontier := entity.ChildIDs

	for len(frontier) > 0 && len(levels) <= mongo.MaxCommentDepth {
		children, err := s.entityRepo.GetByIDs(ctx, frontier)
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			break
		}
		levels = append(levels, children)

		frontier = nil
		for _, c := range children {
			frontier = append(frontier, c.ChildIDs...)
		}
	}

	return levels, nil
}

// GetFeed 信息流：本人及关注作者的顶层实体，按时间倒序
func (s *contentServiceImpl) GetFeed(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.EntityDTO, error) {
	followingIDs, err := s.userFollowRepo.GetFollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	authorIDs := append(followingIDs, userID)

	limit := int64(pageSize)
	offset := int64((page - 1) * pageSize)
	entities, err := s.entityRepo.ListTopLevelByAuthors(ctx, authorIDs, limit, offset)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.EntityDTO, 0, len(entities))
	for _, e := range entities {
		res = append(res, s.populate(ctx, e, userID, mongo.MaxCommentDepth))
	}
	return res, nil
}

// GetThread 获取实体及其完整评论子树
func (s *contentServiceImpl) GetThread(ctx context.Context, viewerID uint64, entityID string) (*dto.EntityDTO, error) {
	objectID, err := primitive.ObjectIDFromHex(entityID)
	if err != nil {
		return nil, ErrParamInvalid
	}

	entity, err := s.entityRepo.GetByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}

	// 浏览顶层帖子计入浏览量
	if entity.IsTopLevel() {
		s.emitEvent(ctx, &kafka.InteractionEvent{
			Type:     kafka.EventView,
			EntityID: entityID,
			ActorID:  viewerID,
			AuthorID: entity.AuthorID,
		})
	}

	return s.populate(ctx, entity, viewerID, mongo.MaxCommentDepth-entity.Depth), nil
}

// GetComments 获取实体的直接子评论树
func (s *contentServiceImpl) GetComments(ctx context.Context, viewerID uint64, entityID string) ([]*dto.EntityDTO, error) {
	objectID, err := primitive.ObjectIDFromHex(entityID)
	if err != nil {
		return nil, ErrParamInvalid
	}

	entity, err := s.entityRepo.GetByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}

	children, err := s.entityRepo.GetByIDs(ctx, entity.ChildIDs)
	if err != nil {
		return nil, err
	}
	children = orderByIDs(children, entity.ChildIDs)

	res := make([]*dto.EntityDTO, 0, len(children))
	for _, c := range children {
		res = append(res, s.populate(ctx, c, viewerID, mongo.MaxCommentDepth-c.Depth))
	}
	return res, nil
}

// DeleteAllByAuthor 账号注销时清理其全部内容
func (s *contentServiceImpl) DeleteAllByAuthor(ctx context.Context, userID uint64) error {
	deleted, err := s.entityRepo.DeleteByAuthor(ctx, userID)
	if err != nil {
		return err
	}

	for _, e := range deleted {
		for _, m := range e.Media {
			if m.StorageKey == "" {
				continue
			}
			if err := minio.DeleteFile(ctx, m.StorageKey); err != nil {
				log.ErrorContext(ctx, "delete media blob failed", "key", m.StorageKey, "err", err)
			}
		}
	}
	return nil
}

// populate 深度受限地组装展示树，超出层级的子评论只保留ID
func (s *contentServiceImpl) populate(ctx context.Context, entity *mongo.EntityModel, viewerID uint64, levels int) *dto.EntityDTO {
	d := &dto.EntityDTO{
		ID:            entity.ID.Hex(),
		Kind:          entity.Kind,
		Content:       entity.Content,
		Depth:         entity.Depth,
		LikerIDs:      entity.LikerIDs,
		LikesCount:    len(entity.LikerIDs),
		RepostsCount:  len(entity.ReposterIDs),
		CommentsCount: len(entity.ChildIDs),
		Liked:         containsUser(entity.LikerIDs, viewerID),
		Reposted:      containsUser(entity.ReposterIDs, viewerID),
		CreatedAt:     entity.CreatedAt.UTC().Format(time.RFC3339),
	}
	if d.LikerIDs == nil {
		d.LikerIDs = []uint64{}
	}

	if entity.ParentID != nil {
		d.ParentID = entity.ParentID.Hex()
	}
	if entity.RootID != nil {
		d.RootID = entity.RootID.Hex()
	}
	if entity.OriginalPostID != nil {
		d.OriginalPostID = entity.OriginalPostID.Hex()
	}

	for _, m := range entity.Media {
		d.Media = append(d.Media, &dto.MediaBaseDTO{MediaType: m.MediaType, URL: m.URL})
	}

	if user, err := s.userRepo.GetByID(ctx, entity.AuthorID); err == nil && user != nil {
		d.Author = &dto.UserSummaryDTO{
			UserID:    user.ID,
			Username:  user.Username,
			AvatarURL: minio.GetPublicURL(user.AvatarURL),
		}
	}

	// 转发实体内嵌原帖摘要，不再展开原帖的评论
	if entity.Kind == mongo.EntityKindRepost && entity.OriginalPostID != nil {
		if original, err := s.entityRepo.GetByID(ctx, *entity.OriginalPostID); err == nil {
			d.OriginalPost = s.populate(ctx, original, viewerID, 0)
		}
	}

	if levels > 0 && len(entity.ChildIDs) > 0 {
		children, err := s.entityRepo.GetByIDs(ctx, entity.ChildIDs)
		if err != nil {
			log.ErrorContext(ctx, "load child comments failed", "entityID", d.ID, "err", err)
			return d
		}
		children = orderByIDs(children, entity.ChildIDs)
		for _, c := range children {
			d.Comments = append(d.Comments, s.populate(ctx, c, viewerID, levels-1))
		}
	}

	return d
}

// resolveMentions 校验内容中的 @提及 全部指向存在的用户，返回被提及的用户列表
func (s *contentServiceImpl) resolveMentions(ctx context.Context, content string) ([]*model.User, error) {
	names := util.ExtractMentions(content)
	if len(names) == 0 {
		return nil, nil
	}

	users, err := s.userRepo.GetByUsernames(ctx, names)
	if err != nil {
		return nil, err
	}

	if len(users) != len(names) {
		found := make(map[string]struct{}, len(users))
		for _, u := range users {
			found[u.Username] = struct{}{}
		}
		var missing []string
		for _, name := range names {
			if _, ok := found[name]; !ok {
				missing = append(missing, name)
			}
		}
		log.WarnContext(ctx, "unresolvable mentions", "names", missing)
		return nil, ErrMentionInvalid
	}

	return users, nil
}

func (s *contentServiceImpl) notifyMentions(ctx context.Context, senderID uint64, mentioned []*model.User, entity *mongo.EntityModel) {
	for _, u := range mentioned {
		if err := s.notifySvc.Push(ctx, &mongo.NotificationModel{
			RecipientID: u.ID,
			SenderID:    senderID,
			Type:        mongo.NotifyTypeMention,
			EntityID:    &entity.ID,
			RelatedID:   rootOrSelf(entity),
			Preview:     previewOf(entity.Content),
		}); err != nil {
			log.ErrorContext(ctx, "push mention notification failed", "recipient", u.ID, "err", err)
		}
	}
}

func (s *contentServiceImpl) markMediaPermanent(ctx context.Context, media []mongo.MediaItem) {
	keys := make([]string, 0, len(media))
	for _, m := range media {
		if m.StorageKey != "" {
			keys = append(keys, m.StorageKey)
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := redis.HDel(ctx, consts.MediaTempKey, keys...); err != nil {
		log.WarnContext(ctx, "mark media permanent failed", "err", err)
	}
}

func (s *contentServiceImpl) emitEvent(ctx context.Context, event *kafka.InteractionEvent) {
	if s.producer == nil {
		return
	}
	if err := s.producer.SendInteractionEvent(ctx, event); err != nil {
		log.ErrorContext(ctx, "emit interaction event failed", "type", event.Type, "err", err)
	}
}

func containsUser(ids []uint64, userID uint64) bool {
	if userID == 0 {
		return false
	}
	for _, id := range ids {
		if id == userID {
			return true
		}
	}
	return false
}

// orderByIDs 按父实体记录的插入顺序重排子实体
func orderByIDs(entities []*mongo.EntityModel, order []primitive.ObjectID) []*mongo.EntityModel {
	index := make(map[primitive.ObjectID]*mongo.EntityModel, len(entities))
	for _, e := range entities {
		index[e.ID] = e
	}
	sorted := make([]*mongo.EntityModel, 0, len(entities))
	for _, id := range order {
		if e, ok := index[id]; ok {
			sorted = append(sorted, e)
		}
	}
	return sorted
}

func rootOrSelf(entity *mongo.EntityModel) *primitive.ObjectID {
	if entity.RootID != nil {
		return entity.RootID
	}
	id := entity.ID
	return &id
}

func rootHexOf(entity *mongo.EntityModel) string {
	if entity.RootID != nil {
		return entity.RootID.Hex()
	}
	return ""
}

func previewOf(content string) string {
	runes := []rune(content)
	if len(runes) <= notifyPreviewLimit {
		return content
	}
	return string(runes[:notifyPreviewLimit]) + "..."
}

func storageKeyFromURL(rawURL string) string {
	marker := "/" + minio.BucketName + "/"
	if idx := strings.Index(rawURL, marker); idx >= 0 {
		return rawURL[idx+len(marker):]
	}
	return ""
}
