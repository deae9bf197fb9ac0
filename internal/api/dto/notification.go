package dto

// NotificationDTO 通知
type NotificationDTO struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Sender      *UserSummaryDTO `json:"sender,omitempty"` // 系统通知为空
	Content     string          `json:"content"`          // 渲染后的通知文案
	Preview     string          `json:"preview"`          // 内容片段快照
	EntityID    string          `json:"entity_id,omitempty"`
	RelatedID   string          `json:"related_id,omitempty"`
	IsRead      bool            `json:"is_read"`
	RelativeAge string          `json:"relative_age"` // 如 "5s" "3m" "2h" "4d" 或日期
	CreatedAt   string          `json:"created_at"`
}

// NotificationCreateDTO 主动发送通知
type NotificationCreateDTO struct {
	RecipientID uint64 `json:"recipient_id" binding:"required"`
	Type        string `json:"type" binding:"required"`
	EntityID    string `json:"entity_id"`
	Preview     string `json:"preview" validate:"max=200"`
}

// NotificationUnreadDTO 未读数
type NotificationUnreadDTO struct {
	Count int64 `json:"count"`
}
