package dto

// MediaTempMetadata 临时媒体元数据 (定时清理未被引用的对象)
type MediaTempMetadata struct {
	MimeType  string `json:"mime_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	CreatedAt int64  `json:"created_at"`
}

// MediaUploadResultDTO 上传结果
type MediaUploadResultDTO struct {
	MediaType string `json:"media_type"`
	URL       string `json:"url"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}
