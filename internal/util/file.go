package util

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// SniffMimeType 深度校验文件 MIME 类型，返回的 reader 仍包含已读取的头部字节
// allowedTypes: 允许的 MIME 前缀或完整类型，如 "image/"
func SniffMimeType(reader io.Reader, allowedTypes []string) (string, io.Reader, error) {
	buffer := make([]byte, 512)
	n, err := io.ReadFull(reader, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, err
	}
	head := buffer[:n]
	body := io.MultiReader(bytes.NewReader(head), reader)

	mimeType := http.DetectContentType(head)
	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) || mimeType == allowed {
			return mimeType, body, nil
		}
	}
	return mimeType, nil, fmt.Errorf("%w: invalid file type %s", ErrValidation, mimeType)
}

// IsImage 检测是否为图片
func IsImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, MimeImage)
}
