package kafka

import "time"

// 互动事件类型
const (
	EventLike        = "like"
	EventUnlike      = "unlike"
	EventComment     = "comment"
	EventRepost      = "repost"
	EventUnrepost    = "unrepost"
	EventView        = "view"
	EventPostCreated = "post_created"
	EventPostDeleted = "post_deleted"
)

// InteractionEvent 互动事件消息体
type InteractionEvent struct {
	Type       string    `json:"type"`                 // 事件类型
	EntityID   string    `json:"entityId"`             // 被操作实体ID (hex)
	RootID     string    `json:"rootId,omitempty"`     // 所属顶层帖子ID (hex)
	ActorID    uint64    `json:"actorId"`              // 动作发起者
	AuthorID   uint64    `json:"authorId"`             // 实体作者
	DeletedIDs []string  `json:"deletedIds,omitempty"` // 级联删除时的实体ID列表
	OccurredAt time.Time `json:"occurredAt"`
}
