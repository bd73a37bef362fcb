package storage

import (
	"context"
	"errors"
	"time"
)

// Media pipeline errors - phân biệt lỗi transport với lỗi đọc source blob
var (
	ErrUploadFailed = errors.New("media upload failed")
	ErrReadFailed   = errors.New("media source could not be read")
)

// ObjectInfo mô tả một blob trong media store
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// UploadResult trả về từ Upload: key nội bộ + URL công khai
type UploadResult struct {
	Key string
	URL string
}

// MediaStore là contract của Media Upload Coordinator.
// Upload ghi bytes tại một key unique được generate (write-once, không bao
// giờ overwrite) và KHÔNG tự retry - caller quyết định retry policy.
type MediaStore interface {
	Upload(ctx context.Context, data []byte, suggestedName, contentType string) (UploadResult, error)
	// UploadAt ghi tại key cho trước - chỉ dùng cho derived variants
	// (key derive từ original key nên vẫn unique per photo)
	UploadAt(ctx context.Context, key string, data []byte, contentType string) (url string, err error)
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
