package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 通知类型
const (
	NotifyTypeLike        = "like"
	NotifyTypeCommentLike = "comment_like"
	NotifyTypeComment     = "comment"
	NotifyTypeFollow      = "follow"
	NotifyTypeRepost      = "repost"
	NotifyTypeMention     = "mention"
	NotifyTypeSystem      = "system"
)

// NotificationModel 通知模型
type NotificationModel struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	RecipientID uint64              `bson:"recipient_id" json:"recipientId"` // 接收者ID
	SenderID    uint64              `bson:"sender_id" json:"senderId"`       // 发起者ID (系统通知为0)
	Type        string              `bson:"type" json:"type"`                // 通知类型
	EntityID    *primitive.ObjectID `bson:"entity_id" json:"entityId"`       // 触发通知的实体 (关注通知为空)
	RelatedID   *primitive.ObjectID `bson:"related_id" json:"relatedId"`     // 关联的顶层帖子 (用于跳转)
	Preview     string              `bson:"preview" json:"preview"`          // 内容片段快照
	IsRead      bool                `bson:"is_read" json:"isRead"`           // 是否已读
	CreatedAt   time.Time           `bson:"created_at" json:"createdAt"`
}
