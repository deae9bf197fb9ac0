package service

import (
	"Ripple/internal/model"
	"Ripple/internal/pkg/mongo"
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

// 内存版实体仓库，语义对齐 Mongo 实现
type fakeEntityRepo struct {
	mu       sync.Mutex
	entities map[primitive.ObjectID]*mongo.EntityModel
	seq      map[primitive.ObjectID]int
	next     int
}

func newFakeEntityRepo() *fakeEntityRepo {
	return &fakeEntityRepo{
		entities: make(map[primitive.ObjectID]*mongo.EntityModel),
		seq:      make(map[primitive.ObjectID]int),
	}
}

func (r *fakeEntityRepo) Create(_ context.Context, entity *mongo.EntityModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entity.ID = primitive.NewObjectID()
	entity.CreatedAt = time.Now()
	entity.UpdatedAt = entity.CreatedAt
	if entity.ChildIDs == nil {
		entity.ChildIDs = []primitive.ObjectID{}
	}
	if entity.LikerIDs == nil {
		entity.LikerIDs = []uint64{}
	}
	if entity.ReposterIDs == nil {
		entity.ReposterIDs = []uint64{}
	}
	r.entities[entity.ID] = entity
	r.next++
	r.seq[entity.ID] = r.next
	return nil
}

func (r *fakeEntityRepo) GetByID(_ context.Context, id primitive.ObjectID) (*mongo.EntityModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entities[id]
	if !ok {
		return nil, mongoDB.ErrNoDocuments
	}
	return e, nil
}

func (r *fakeEntityRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]*mongo.EntityModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*mongo.EntityModel
	for _, id := range ids {
		if e, ok := r.entities[id]; ok {
			res = append(res, e)
		}
	}
	return res, nil
}

func (r *fakeEntityRepo) ListTopLevelByAuthors(_ context.Context, authorIDs []uint64, limit, offset int64) ([]*mongo.EntityModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	authors := make(map[uint64]struct{}, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = struct{}{}
	}

	var res []*mongo.EntityModel
	for _, e := range r.entities {
		if _, ok := authors[e.AuthorID]; ok && e.Depth == 0 {
			res = append(res, e)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		return r.seq[res[i].ID] > r.seq[res[j].ID]
	})

	if offset >= int64(len(res)) {
		return nil, nil
	}
	res = res[offset:]
	if limit > 0 && int64(len(res)) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (r *fakeEntityRepo) FindRepost(_ context.Context, userID uint64, originalPostID primitive.ObjectID) (*mongo.EntityModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entities {
		if e.Kind == mongo.EntityKindRepost && e.AuthorID == userID &&
			e.OriginalPostID != nil && *e.OriginalPostID == originalPostID {
			return e, nil
		}
	}
	return nil, mongoDB.ErrNoDocuments
}

func (r *fakeEntityRepo) AppendChild(_ context.Context, parentID, childID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	parent, ok := r.entities[parentID]
	if !ok {
		return mongoDB.ErrNoDocuments
	}
	parent.ChildIDs = append(parent.ChildIDs, childID)
	return nil
}

func (r *fakeEntityRepo) RemoveChild(_ context.Context, parentID, childID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	parent, ok := r.entities[parentID]
	if !ok {
		return mongoDB.ErrNoDocuments
	}
	res := parent.ChildIDs[:0]
	for _, id := range parent.ChildIDs {
		if id != childID {
			res = append(res, id)
		}
	}
	parent.ChildIDs = res
	return nil
}

func (r *fakeEntityRepo) AddLiker(_ context.Context, id primitive.ObjectID, userID uint64) error {
	return r.addMember(id, userID, true)
}

func (r *fakeEntityRepo) RemoveLiker(_ context.Context, id primitive.ObjectID, userID uint64) error {
	return r.removeMember(id, userID, true)
}

func (r *fakeEntityRepo) AddReposter(_ context.Context, id primitive.ObjectID, userID uint64) error {
	return r.addMember(id, userID, false)
}

func (r *fakeEntityRepo) RemoveReposter(_ context.Context, id primitive.ObjectID, userID uint64) error {
	return r.removeMember(id, userID, false)
}

func (r *fakeEntityRepo) addMember(id primitive.ObjectID, userID uint64, liker bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entities[id]
	if !ok {
		return mongoDB.ErrNoDocuments
	}
	target := &e.ReposterIDs
	if liker {
		target = &e.LikerIDs
	}
	for _, uid := range *target {
		if uid == userID {
			return nil
		}
	}
	*target = append(*target, userID)
	return nil
}

func (r *fakeEntityRepo) removeMember(id primitive.ObjectID, userID uint64, liker bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entities[id]
	if !ok {
		return mongoDB.ErrNoDocuments
	}
	target := &e.ReposterIDs
	if liker {
		target = &e.LikerIDs
	}
	res := (*target)[:0]
	for _, uid := range *target {
		if uid != userID {
			res = append(res, uid)
		}
	}
	*target = res
	return nil
}

func (r *fakeEntityRepo) DeleteByIDs(_ context.Context, ids []primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.entities, id)
	}
	return nil
}

func (r *fakeEntityRepo) DeleteByAuthor(_ context.Context, authorID uint64) ([]*mongo.EntityModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted []*mongo.EntityModel
	for id, e := range r.entities {
		if e.AuthorID == authorID {
			deleted = append(deleted, e)
			delete(r.entities, id)
		}
	}
	return deleted, nil
}

func (r *fakeEntityRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entities)
}

// 内存版通知仓库
type fakeNotificationRepo struct {
	mu    sync.Mutex
	items []*mongo.NotificationModel
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(_ context.Context, msg *mongo.NotificationModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = primitive.NewObjectID()
	msg.CreatedAt = time.Now()
	r.items = append(r.items, msg)
	return nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id primitive.ObjectID) (*mongo.NotificationModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.items {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, mongoDB.ErrNoDocuments
}

func (r *fakeNotificationRepo) ListByRecipient(_ context.Context, userID uint64, limit, offset int64) ([]*mongo.NotificationModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*mongo.NotificationModel
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].RecipientID == userID {
			res = append(res, r.items[i])
		}
	}
	if offset >= int64(len(res)) {
		return nil, nil
	}
	res = res[offset:]
	if limit > 0 && int64(len(res)) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (r *fakeNotificationRepo) MarkAsRead(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.items {
		if m.ID == id {
			m.IsRead = true
			return nil
		}
	}
	return mongoDB.ErrNoDocuments
}

func (r *fakeNotificationRepo) MarkAllAsRead(_ context.Context, userID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.items {
		if m.RecipientID == userID {
			m.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, m := range r.items {
		if m.RecipientID == userID && !m.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) DeleteLike(_ context.Context, recipientID, senderID uint64, entityID primitive.ObjectID) error {
	return r.deleteWhere(func(m *mongo.NotificationModel) bool {
		return m.RecipientID == recipientID && m.SenderID == senderID &&
			m.EntityID != nil && *m.EntityID == entityID &&
			(m.Type == mongo.NotifyTypeLike || m.Type == mongo.NotifyTypeCommentLike)
	})
}

func (r *fakeNotificationRepo) DeleteByRecipient(_ context.Context, userID uint64) error {
	return r.deleteWhere(func(m *mongo.NotificationModel) bool {
		return m.RecipientID == userID
	})
}

func (r *fakeNotificationRepo) DeleteByEntityIDs(_ context.Context, entityIDs []primitive.ObjectID) error {
	ids := make(map[primitive.ObjectID]struct{}, len(entityIDs))
	for _, id := range entityIDs {
		ids[id] = struct{}{}
	}
	return r.deleteWhere(func(m *mongo.NotificationModel) bool {
		if m.EntityID != nil {
			if _, ok := ids[*m.EntityID]; ok {
				return true
			}
		}
		return false
	})
}

func (r *fakeNotificationRepo) DeleteByUser(_ context.Context, userID uint64) error {
	return r.deleteWhere(func(m *mongo.NotificationModel) bool {
		return m.RecipientID == userID || m.SenderID == userID
	})
}

func (r *fakeNotificationRepo) deleteWhere(match func(*mongo.NotificationModel) bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := r.items[:0]
	for _, m := range r.items {
		if !match(m) {
			res = append(res, m)
		}
	}
	r.items = res
	return nil
}

func (r *fakeNotificationRepo) byRecipient(userID uint64) []*mongo.NotificationModel {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*mongo.NotificationModel
	for _, m := range r.items {
		if m.RecipientID == userID {
			res = append(res, m)
		}
	}
	return res
}

// 内存版用户仓库
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uint64]*model.User
	next  uint64
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint64]*model.User)}
	for _, u := range users {
		if u.ID > r.next {
			r.next = u.ID
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByIDs(_ context.Context, ids []uint64) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*model.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			res = append(res, u)
		}
	}
	return res, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsernames(_ context.Context, usernames []string) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*model.User
	for _, name := range usernames {
		for _, u := range r.users {
			if u.Username == name {
				res = append(res, u)
				break
			}
		}
	}
	return res, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	user.ID = r.next
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

// 内存版关注关系仓库
type fakeUserFollowRepo struct {
	mu   sync.Mutex
	rows []*model.UserFollow
}

func newFakeUserFollowRepo() *fakeUserFollowRepo {
	return &fakeUserFollowRepo{}
}

func (r *fakeUserFollowRepo) GetUserFollowers(_ context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*model.UserFollow
	for _, f := range r.rows {
		if f.FollowingID == userID {
			res = append(res, f)
		}
	}
	return res, nil
}

func (r *fakeUserFollowRepo) GetUserFollowing(_ context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*model.UserFollow
	for _, f := range r.rows {
		if f.FollowerID == userID {
			res = append(res, f)
		}
	}
	return res, nil
}

func (r *fakeUserFollowRepo) GetFollowingIDs(_ context.Context, userID uint64) ([]uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []uint64
	for _, f := range r.rows {
		if f.FollowerID == userID {
			res = append(res, f.FollowingID)
		}
	}
	return res, nil
}

func (r *fakeUserFollowRepo) GetUserFollowerCount(_ context.Context, userID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, f := range r.rows {
		if f.FollowingID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeUserFollowRepo) GetUserFollowingCount(_ context.Context, userID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, f := range r.rows {
		if f.FollowerID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeUserFollowRepo) GetUserFollow(_ context.Context, userID uint64, followingID uint64) (*model.UserFollow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.rows {
		if f.FollowerID == userID && f.FollowingID == followingID {
			return f, nil
		}
	}
	return nil, nil
}

func (r *fakeUserFollowRepo) CreateUserFollow(_ context.Context, userFollow *model.UserFollow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.rows {
		if f.FollowerID == userFollow.FollowerID && f.FollowingID == userFollow.FollowingID {
			return nil
		}
	}
	r.rows = append(r.rows, userFollow)
	return nil
}

func (r *fakeUserFollowRepo) DeleteUserFollow(_ context.Context, userFollow *model.UserFollow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := r.rows[:0]
	for _, f := range r.rows {
		if !(f.FollowerID == userFollow.FollowerID && f.FollowingID == userFollow.FollowingID) {
			res = append(res, f)
		}
	}
	r.rows = res
	return nil
}
