package model

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"time"

	"adoption-center-backend/internal/infrastructure/storage"
)

// PhotoRef trỏ đến nguồn ảnh chưa upload. Hai nguồn (remote URL và
// local file) được thống nhất sau một interface duy nhất: caller chỉ
// cần Resolve để lấy bytes, không cần biết ảnh đến từ đâu.
type PhotoRef interface {
	// Resolve trả về raw bytes + suggested filename.
	// Lỗi đọc nguồn wrap storage.ErrReadFailed.
	Resolve(ctx context.Context) (data []byte, name string, err error)
}

// ========================================
// REMOTE PHOTO (HTTP URL)
// ========================================

type remotePhoto struct {
	url string
}

func PhotoFromURL(url string) PhotoRef {
	return &remotePhoto{url: url}
}

func (p *remotePhoto) Resolve(ctx context.Context) ([]byte, string, error) {
	client := &http.Client{Timeout: 30 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: invalid photo url: %v", storage.ErrReadFailed, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: fetch %s: %v", storage.ErrReadFailed, p.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: fetch %s: status %d", storage.ErrReadFailed, p.url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: read body: %v", storage.ErrReadFailed, err)
	}

	return data, path.Base(p.url), nil
}

// ========================================
// LOCAL PHOTO (filesystem path)
// ========================================

type localPhoto struct {
	path string
}

func PhotoFromFile(filePath string) PhotoRef {
	return &localPhoto{path: filePath}
}

func (p *localPhoto) Resolve(_ context.Context) ([]byte, string, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: read %s: %v", storage.ErrReadFailed, p.path, err)
	}
	return data, path.Base(p.path), nil
}

// ========================================
// UPLOADED PHOTO (multipart form)
// ========================================

type uploadedPhoto struct {
	name string
	data []byte
}

// PhotoFromUpload wrap bytes đã đọc sẵn từ multipart request
func PhotoFromUpload(name string, data []byte) PhotoRef {
	return &uploadedPhoto{name: name, data: data}
}

func (p *uploadedPhoto) Resolve(_ context.Context) ([]byte, string, error) {
	if len(p.data) == 0 {
		return nil, "", fmt.Errorf("%w: empty upload", storage.ErrReadFailed)
	}
	return p.data, p.name, nil
}
