package dto

// EntityCreateDTO 发布帖子，正文和媒体至少有其一
type EntityCreateDTO struct {
	Content string          `json:"content" validate:"max=5000"`
	Media   []*MediaBaseDTO `json:"media" validate:"max=9"`
}

// CommentCreateDTO 发布评论
type CommentCreateDTO struct {
	ParentID string `json:"parent_id" binding:"required"`
	Content  string `json:"content" binding:"required" validate:"min=1,max=2000"`
}

// MediaBaseDTO 媒体 - 基础
type MediaBaseDTO struct {
	MediaType string `json:"media_type" binding:"required" validate:"oneof=image video"`
	URL       string `json:"url" binding:"required" validate:"min=1,max=512"`
}

// UserSummaryDTO 用户摘要 (用于实体作者和通知发送者)
type UserSummaryDTO struct {
	UserID    uint64 `json:"user_id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// EntityDTO 内容实体 (帖子/评论/转发)
type EntityDTO struct {
	ID             string          `json:"id"`
	Kind           string          `json:"kind"`
	Content        string          `json:"content"`
	Depth          int             `json:"depth"`
	ParentID       string          `json:"parent_id,omitempty"`
	RootID         string          `json:"root_id,omitempty"`
	OriginalPostID string          `json:"original_post_id,omitempty"`
	Author         *UserSummaryDTO `json:"author"`
	Media          []*MediaBaseDTO `json:"media"`
	LikerIDs       []uint64        `json:"liker_ids"`
	LikesCount     int             `json:"likes_count"`
	RepostsCount   int             `json:"reposts_count"`
	CommentsCount  int             `json:"comments_count"`
	Liked          bool            `json:"liked"`
	Reposted       bool            `json:"reposted"`
	Comments       []*EntityDTO    `json:"comments,omitempty"`
	OriginalPost   *EntityDTO      `json:"original_post,omitempty"`
	CreatedAt      string          `json:"created_at"`
}

// DeleteResultDTO 删除实体结果
type DeleteResultDTO struct {
	Kind string `json:"kind"` // 被删除实体的类型
}

// PostSearchDTO 全文检索结果项
type PostSearchDTO struct {
	ID           string          `json:"id"`
	AuthorID     uint64          `json:"author_id"`
	AuthorName   string          `json:"author_name"`
	AuthorAvatar string          `json:"author_avatar"`
	Content      string          `json:"content"`
	Media        []*MediaBaseDTO `json:"media"`
	LikesCount   int             `json:"likes_count"`
	CreatedAt    string          `json:"created_at"`
}
