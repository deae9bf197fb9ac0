package kafka

import (
	"Ripple/internal/pkg/es"
	"Ripple/internal/pkg/mongo"
	"Ripple/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// SearchHandler 将帖子变更同步到 Elasticsearch
type SearchHandler struct {
	entityRepo mongo.EntityRepo
	userRepo   repository.UserRepo
	postESRepo es.PostRepo
}

func NewSearchHandler(entityRepo mongo.EntityRepo, userRepo repository.UserRepo, postESRepo es.PostRepo) *SearchHandler {
	return &SearchHandler{
		entityRepo: entityRepo,
		userRepo:   userRepo,
		postESRepo: postESRepo,
	}
}

func (s *SearchHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("search consumer setup")
	return nil
}

func (s *SearchHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("search consumer cleanup")
	return nil
}

func (s *SearchHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("search consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("search process batch error", "err", err)
		return err
	}
	return nil
}

func (s *SearchHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	event, err := ToInteractionEvent(msg)
	if err != nil {
		log.ErrorContext(ctx, "skip malformed interaction event", "err", err)
		return nil
	}

	switch event.Type {
	case EventPostCreated:
		return s.handlePostCreated(ctx, event)
	case EventPostDeleted:
		return s.handlePostDeleted(ctx, event)
	default:
		return nil
	}
}

// handlePostCreated 回查实体与作者，写入帖子索引
func (s *SearchHandler) handlePostCreated(ctx context.Context, event *InteractionEvent) error {
	entityID, err := primitive.ObjectIDFromHex(event.EntityID)
	if err != nil {
		log.ErrorContext(ctx, "invalid entity id in event", "entityID", event.EntityID)
		return nil
	}

	entity, err := s.entityRepo.GetByID(ctx, entityID)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			// 实体在消费前已被删除
			return nil
		}
		return errors.Wrap(err, "get entity for indexing")
	}

	doc := &es.PostES{
		ID:         entity.ID.Hex(),
		AuthorID:   entity.AuthorID,
		Content:    entity.Content,
		LikesCount: len(entity.LikerIDs),
		CreatedAt:  entity.CreatedAt,
	}
	for _, m := range entity.Media {
		doc.Media = append(doc.Media, es.PostMediaES{Type: m.MediaType, URL: m.URL})
	}

	if author, err := s.userRepo.GetByID(ctx, entity.AuthorID); err == nil && author != nil {
		doc.AuthorName = author.Username
		doc.AuthorAvatar = author.AvatarURL
	}

	if err = s.postESRepo.IndexPost(ctx, doc); err != nil {
		return errors.Wrap(err, "index post")
	}

	log.InfoContext(ctx, "post indexed", "entityID", event.EntityID)
	return nil
}

// handlePostDeleted 删除索引中的帖子及其级联删除的实体
func (s *SearchHandler) handlePostDeleted(ctx context.Context, event *InteractionEvent) error {
	ids := event.DeletedIDs
	if len(ids) == 0 {
		ids = []string{event.EntityID}
	}

	for _, id := range ids {
		if err := s.postESRepo.DeletePost(ctx, id); err != nil {
			return errors.Wrap(err, "delete post from index")
		}
	}

	log.InfoContext(ctx, "posts removed from index", "count", len(ids))
	return nil
}
