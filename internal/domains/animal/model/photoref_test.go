package model

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adoption-center-backend/internal/infrastructure/storage"
)

func TestPhotoFromFileResolvesBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "max.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg-bytes"), 0o600))

	data, name, err := PhotoFromFile(path).Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
	assert.Equal(t, "max.jpg", name)
}

func TestPhotoFromFileMissingFile(t *testing.T) {
	_, _, err := PhotoFromFile("/nonexistent/max.jpg").Resolve(context.Background())
	assert.ErrorIs(t, err, storage.ErrReadFailed)
}

func TestPhotoFromURLResolvesBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("remote-bytes"))
	}))
	defer srv.Close()

	data, name, err := PhotoFromURL(srv.URL + "/photos/luna.png").Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("remote-bytes"), data)
	assert.Equal(t, "luna.png", name)
}

func TestPhotoFromURLNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, _, err := PhotoFromURL(srv.URL + "/gone.jpg").Resolve(context.Background())
	assert.ErrorIs(t, err, storage.ErrReadFailed)
}

func TestPhotoFromURLUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, _, err := PhotoFromURL(url + "/max.jpg").Resolve(context.Background())
	assert.ErrorIs(t, err, storage.ErrReadFailed)
}

func TestPhotoFromUploadEmptyPayload(t *testing.T) {
	_, _, err := PhotoFromUpload("max.jpg", nil).Resolve(context.Background())
	assert.ErrorIs(t, err, storage.ErrReadFailed)
}

func TestPhotoFromUploadPassesThrough(t *testing.T) {
	data, name, err := PhotoFromUpload("max.jpg", []byte{0x01}).Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, data)
	assert.Equal(t, "max.jpg", name)
}
