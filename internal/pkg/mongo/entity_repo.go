package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EntityRepo interface {
	Create(ctx context.Context, entity *EntityModel) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*EntityModel, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*EntityModel, error)
	ListTopLevelByAuthors(ctx context.Context, authorIDs []uint64, limit, offset int64) ([]*EntityModel, error)
	FindRepost(ctx context.Context, userID uint64, originalPostID primitive.ObjectID) (*EntityModel, error)
	AppendChild(ctx context.Context, parentID, childID primitive.ObjectID) error
	RemoveChild(ctx context.Context, parentID, childID primitive.ObjectID) error
	AddLiker(ctx context.Context, id primitive.ObjectID, userID uint64) error
	RemoveLiker(ctx context.Context, id primitive.ObjectID, userID uint64) error
	AddReposter(ctx context.Context, id primitive.ObjectID, userID uint64) error
	RemoveReposter(ctx context.Context, id primitive.ObjectID, userID uint64) error
	DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) error
	DeleteByAuthor(ctx context.Context, authorID uint64) ([]*EntityModel, error)
}

type entityRepoImpl struct {
	col *mongo.Collection
}

func NewEntityRepo(db *mongo.Database) EntityRepo {
	return &entityRepoImpl{
		col: db.Collection("entities"),
	}
}

// Create 插入新实体
func (e *entityRepoImpl) Create(ctx context.Context, entity *EntityModel) error {
	now := time.Now()
	entity.CreatedAt = now
	entity.UpdatedAt = now
	if entity.ChildIDs == nil {
		entity.ChildIDs = []primitive.ObjectID{}
	}
	if entity.LikerIDs == nil {
		entity.LikerIDs = []uint64{}
	}
	if entity.ReposterIDs == nil {
		entity.ReposterIDs = []uint64{}
	}

	result, err := e.col.InsertOne(ctx, entity)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		entity.ID = oid
	}
	return nil
}

// GetByID 根据 ID 获取实体，不存在时返回 mongo.ErrNoDocuments
func (e *entityRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*EntityModel, error) {
	var entity EntityModel
	if err := e.col.FindOne(ctx, bson.M{"_id": id}).Decode(&entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

// GetByIDs 批量获取实体
func (e *entityRepoImpl) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*EntityModel, error) {
	if len(ids) == 0 {
		return []*EntityModel{}, nil
	}
	cursor, err := e.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*EntityModel
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ListTopLevelByAuthors 分页获取指定作者集合的顶层实体 (按时间倒序)
func (e *entityRepoImpl) ListTopLevelByAuthors(ctx context.Context, authorIDs []uint64, limit, offset int64) ([]*EntityModel, error) {
	if len(authorIDs) == 0 {
		return []*EntityModel{}, nil
	}
	filter := bson.M{"author_id": bson.M{"$in": authorIDs}, "depth": 0}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := e.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*EntityModel
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// FindRepost 查找某用户对某原帖的转发实体，不存在时返回 mongo.ErrNoDocuments
func (e *entityRepoImpl) FindRepost(ctx context.Context, userID uint64, originalPostID primitive.ObjectID) (*EntityModel, error) {
	filter := bson.M{
		"kind":             EntityKindRepost,
		"author_id":        userID,
		"original_post_id": originalPostID,
	}
	var entity EntityModel
	if err := e.col.FindOne(ctx, filter).Decode(&entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

// AppendChild 将子评论追加到父实体的子列表
func (e *entityRepoImpl) AppendChild(ctx context.Context, parentID, childID primitive.ObjectID) error {
	return e.updateOne(ctx, parentID, bson.M{"$push": bson.M{"child_ids": childID}})
}

// RemoveChild 从父实体的子列表中移除
func (e *entityRepoImpl) RemoveChild(ctx context.Context, parentID, childID primitive.ObjectID) error {
	return e.updateOne(ctx, parentID, bson.M{"$pull": bson.M{"child_ids": childID}})
}

// AddLiker 将用户加入点赞集合 (幂等)
func (e *entityRepoImpl) AddLiker(ctx context.Context, id primitive.ObjectID, userID uint64) error {
	return e.updateOne(ctx, id, bson.M{"$addToSet": bson.M{"liker_ids": userID}})
}

// RemoveLiker 将用户移出点赞集合 (幂等)
func (e *entityRepoImpl) RemoveLiker(ctx context.Context, id primitive.ObjectID, userID uint64) error {
	return e.updateOne(ctx, id, bson.M{"$pull": bson.M{"liker_ids": userID}})
}

// AddReposter 将用户加入转发集合 (幂等)
func (e *entityRepoImpl) AddReposter(ctx context.Context, id primitive.ObjectID, userID uint64) error {
	return e.updateOne(ctx, id, bson.M{"$addToSet": bson.M{"reposter_ids": userID}})
}

// RemoveReposter 将用户移出转发集合 (幂等)
func (e *entityRepoImpl) RemoveReposter(ctx context.Context, id primitive.ObjectID, userID uint64) error {
	return e.updateOne(ctx, id, bson.M{"$pull": bson.M{"reposter_ids": userID}})
}

// DeleteByIDs 批量删除实体
func (e *entityRepoImpl) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := e.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}

// DeleteByAuthor 删除某作者的全部实体，返回被删除的实体快照
func (e *entityRepoImpl) DeleteByAuthor(ctx context.Context, authorID uint64) ([]*EntityModel, error) {
	filter := bson.M{"author_id": authorID}
	cursor, err := e.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*EntityModel
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}

	if _, err = e.col.DeleteMany(ctx, filter); err != nil {
		return nil, err
	}
	return list, nil
}

func (e *entityRepoImpl) updateOne(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	update["$set"] = bson.M{"updated_at": time.Now()}
	result, err := e.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
