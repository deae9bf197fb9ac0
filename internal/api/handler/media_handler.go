package handler

import (
	"Ripple/internal/api/dto"
	"Ripple/internal/pkg/consts"
	"Ripple/internal/pkg/minio"
	"Ripple/internal/pkg/redis"
	"Ripple/internal/pkg/response"
	"Ripple/internal/pkg/util"
	"Ripple/internal/service"
	"io"
	log "log/slog"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type MediaHandler struct{}

func NewMediaHandler() *MediaHandler {
	return &MediaHandler{}
}

// Upload 上传媒体对象并暂存元数据，发帖引用前算作临时对象
func (s *MediaHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	defer func() { _ = reader.Close() }()

	contentType, err := util.GetSafeContentType(reader)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	isImage := strings.HasPrefix(contentType, consts.MimePrefixImage)
	isVideo := strings.HasPrefix(contentType, consts.MimePrefixVideo)
	if !isImage && !isVideo {
		response.Error(c, service.ErrFileNotSupported)
		return
	}

	mediaType := consts.MediaTypeVideo
	if isImage {
		mediaType = consts.MediaTypeImage
	}

	var width, height int
	if isImage {
		data, err := io.ReadAll(reader)
		if err != nil {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		if w, h, err := util.GetImageDimensions(data); err == nil {
			width, height = w, h
		} else {
			log.WarnContext(c.Request.Context(), "failed to decode image dimensions", "err", err)
		}
		if _, err = reader.Seek(0, io.SeekStart); err != nil {
			response.Error(c, service.UnExpectedError)
			return
		}
	}

	ext := path.Ext(file.Filename)
	objectName := time.Now().Format("2006/01/02/") + uuid.NewString() + ext

	fileKey, err := minio.UploadFile(c.Request.Context(), objectName, reader, file.Size, contentType)
	if err != nil {
		log.ErrorContext(c.Request.Context(), "MinIO upload failed", "err", err)
		response.Error(c, service.UnExpectedError)
		return
	}

	meta := dto.MediaTempMetadata{
		MimeType:  contentType,
		Width:     width,
		Height:    height,
		CreatedAt: time.Now().Unix(),
	}
	metaBytes, _ := json.Marshal(meta)
	_ = redis.HSet(c.Request.Context(), consts.MediaTempKey, fileKey, string(metaBytes))

	log.InfoContext(c.Request.Context(), "media upload success", "fileKey", fileKey, "type", contentType)
	response.Success(c, &dto.MediaUploadResultDTO{
		MediaType: mediaType,
		URL:       minio.GetPublicURL(fileKey),
		Width:     width,
		Height:    height,
	})
}
