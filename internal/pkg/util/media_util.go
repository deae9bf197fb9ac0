package util

import (
	"bytes"
	"io"
	"net/http"

	"github.com/disintegration/imaging"
)

// GetSafeContentType 通过文件头嗅探真实的内容类型，不信任客户端声明
func GetSafeContentType(file io.ReadSeeker) (string, error) {
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	if _, err = file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	return http.DetectContentType(buffer[:n]), nil
}

// GetImageDimensions 解析图片宽高
func GetImageDimensions(data []byte) (width, height int, err error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy(), nil
}
