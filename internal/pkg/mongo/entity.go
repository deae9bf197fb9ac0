package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 内容实体类型
const (
	EntityKindPost    = "post"
	EntityKindComment = "comment"
	EntityKindRepost  = "repost"
)

// MaxCommentDepth 评论最大嵌套层级 (帖子为 0 层)
const MaxCommentDepth = 2

// MediaItem 实体携带的媒体附件
type MediaItem struct {
	MediaType  string `bson:"media_type" json:"mediaType"` // image / video
	URL        string `bson:"url" json:"url"`              // 公共访问地址
	StorageKey string `bson:"storage_key" json:"-"`        // 对象存储中的 Key
}

// EntityModel 统一的内容实体模型，帖子、评论和转发共用一张集合
type EntityModel struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Kind           string               `bson:"kind" json:"kind"`           // post / comment / repost
	AuthorID       uint64               `bson:"author_id" json:"authorId"`  // 作者ID
	Content        string               `bson:"content" json:"content"`     // 文本内容
	Depth          int                  `bson:"depth" json:"depth"`         // 嵌套层级: 帖子0, 评论1-2
	ParentID       *primitive.ObjectID  `bson:"parent_id" json:"parentId"`  // 直接父实体 (顶层为空)
	RootID         *primitive.ObjectID  `bson:"root_id" json:"rootId"`      // 所属帖子 (顶层为空)
	OriginalPostID *primitive.ObjectID  `bson:"original_post_id" json:"originalPostId"` // 转发指向的原帖
	ChildIDs       []primitive.ObjectID `bson:"child_ids" json:"childIds"`  // 直接子评论ID列表
	LikerIDs       []uint64             `bson:"liker_ids" json:"likerIds"`  // 点赞用户集合
	ReposterIDs    []uint64             `bson:"reposter_ids" json:"reposterIds"` // 转发用户集合
	Media          []MediaItem          `bson:"media" json:"media"`         // 媒体附件
	CreatedAt      time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updated_at" json:"updatedAt"`
}

// IsTopLevel 是否为可进入信息流的顶层实体
func (e *EntityModel) IsTopLevel() bool {
	return e.Depth == 0
}
