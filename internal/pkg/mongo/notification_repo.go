package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationRepo interface {
	Create(ctx context.Context, msg *NotificationModel) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*NotificationModel, error)
	ListByRecipient(ctx context.Context, userID uint64, limit, offset int64) ([]*NotificationModel, error)
	MarkAsRead(ctx context.Context, id primitive.ObjectID) error
	MarkAllAsRead(ctx context.Context, userID uint64) error
	CountUnread(ctx context.Context, userID uint64) (int64, error)
	DeleteLike(ctx context.Context, recipientID, senderID uint64, entityID primitive.ObjectID) error
	DeleteByRecipient(ctx context.Context, userID uint64) error
	DeleteByEntityIDs(ctx context.Context, entityIDs []primitive.ObjectID) error
	DeleteByUser(ctx context.Context, userID uint64) error
}

type notificationRepoImpl struct {
	col *mongo.Collection
}

func NewNotificationRepo(db *mongo.Database) NotificationRepo {
	return &notificationRepoImpl{
		col: db.Collection("notifications"),
	}
}

// Create 插入新通知
func (n *notificationRepoImpl) Create(ctx context.Context, msg *NotificationModel) error {
	msg.CreatedAt = time.Now()
	result, err := n.col.InsertOne(ctx, msg)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid
	}
	return nil
}

// GetByID 根据 ID 获取通知
func (n *notificationRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*NotificationModel, error) {
	var msg NotificationModel
	if err := n.col.FindOne(ctx, bson.M{"_id": id}).Decode(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListByRecipient 分页获取用户的通知列表 (按时间倒序)
func (n *notificationRepoImpl) ListByRecipient(ctx context.Context, userID uint64, limit, offset int64) ([]*NotificationModel, error) {
	filter := bson.M{"recipient_id": userID}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := n.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*NotificationModel
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// MarkAsRead 标记单条通知为已读
func (n *notificationRepoImpl) MarkAsRead(ctx context.Context, id primitive.ObjectID) error {
	result, err := n.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// MarkAllAsRead 将用户所有未读通知标记为已读
func (n *notificationRepoImpl) MarkAllAsRead(ctx context.Context, userID uint64) error {
	filter := bson.M{"recipient_id": userID, "is_read": false}
	_, err := n.col.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"is_read": true}})
	return err
}

// CountUnread 获取用户的未读通知总数
func (n *notificationRepoImpl) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	return n.col.CountDocuments(ctx, bson.M{"recipient_id": userID, "is_read": false})
}

// DeleteLike 删除取消点赞对应的通知
func (n *notificationRepoImpl) DeleteLike(ctx context.Context, recipientID, senderID uint64, entityID primitive.ObjectID) error {
	filter := bson.M{
		"recipient_id": recipientID,
		"sender_id":    senderID,
		"entity_id":    entityID,
		"type":         bson.M{"$in": []string{NotifyTypeLike, NotifyTypeCommentLike}},
	}
	_, err := n.col.DeleteMany(ctx, filter)
	return err
}

// DeleteByRecipient 清空用户收到的全部通知
func (n *notificationRepoImpl) DeleteByRecipient(ctx context.Context, userID uint64) error {
	_, err := n.col.DeleteMany(ctx, bson.M{"recipient_id": userID})
	return err
}

// DeleteByEntityIDs 删除引用指定实体的全部通知 (级联清理)
func (n *notificationRepoImpl) DeleteByEntityIDs(ctx context.Context, entityIDs []primitive.ObjectID) error {
	if len(entityIDs) == 0 {
		return nil
	}
	_, err := n.col.DeleteMany(ctx, bson.M{"entity_id": bson.M{"$in": entityIDs}})
	return err
}

// DeleteByUser 删除某用户收到和发出的全部通知
func (n *notificationRepoImpl) DeleteByUser(ctx context.Context, userID uint64) error {
	filter := bson.M{"$or": []bson.M{
		{"recipient_id": userID},
		{"sender_id": userID},
	}}
	_, err := n.col.DeleteMany(ctx, filter)
	return err
}
