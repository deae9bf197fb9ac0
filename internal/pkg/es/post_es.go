package es

import "time"

// PostES 写入 ES 的帖子文档
type PostES struct {
	ID           string        `json:"id"`
	AuthorID     uint64        `json:"author_id"`
	AuthorName   string        `json:"author_name"`
	AuthorAvatar string        `json:"author_avatar"`
	Content      string        `json:"content"`
	Media        []PostMediaES `json:"media"`
	LikesCount   int           `json:"likes_count"`
	CreatedAt    time.Time     `json:"created_at"`
}

// PostMediaES 对应 Mapping 中的 media 对象
type PostMediaES struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}
