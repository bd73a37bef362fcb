package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adoption-center-backend/internal/domains/animal/model"
	"adoption-center-backend/internal/infrastructure/storage"
	"adoption-center-backend/pkg/retry"
)

// ========================================
// FAKES
// ========================================

type fakeRepo struct {
	mu      sync.Mutex
	animals map[uuid.UUID]model.Animal

	createErr    error
	createCalls  int
	failAttempts int // số lần Create fail trước khi thành công

	snapshots chan []model.Animal
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		animals:   make(map[uuid.UUID]model.Animal),
		snapshots: make(chan []model.Animal, 4),
	}
}

func (f *fakeRepo) Create(_ context.Context, a *model.Animal) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls++
	if f.createErr != nil {
		if f.failAttempts == 0 || f.createCalls <= f.failAttempts {
			return f.createErr
		}
	}

	a.CreatedAt = time.Now()
	f.animals[a.ID] = *a
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Animal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.animals[id]
	if !ok {
		return nil, model.ErrAnimalNotFound
	}
	return &a, nil
}

func (f *fakeRepo) List(_ context.Context) ([]model.Animal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]model.Animal, 0, len(f.animals))
	for _, a := range f.animals {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.animals[id]; !ok {
		return model.ErrAnimalNotFound
	}
	delete(f.animals, id)
	return nil
}

func (f *fakeRepo) UpdatePhotoVariants(_ context.Context, id uuid.UUID, thumbnailURL, mediumURL string, variantKeys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.animals[id]
	if !ok {
		return model.ErrAnimalNotFound
	}
	a.ThumbnailURL = &thumbnailURL
	a.MediumURL = &mediumURL
	a.VariantKeys = variantKeys
	f.animals[id] = a
	return nil
}

func (f *fakeRepo) ListPhotoKeys(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys := make([]string, 0)
	for _, a := range f.animals {
		if a.PhotoKey != "" {
			keys = append(keys, a.PhotoKey)
		}
		keys = append(keys, a.VariantKeys...)
	}
	return keys, nil
}

func (f *fakeRepo) Subscribe(_ context.Context) (<-chan []model.Animal, error) {
	return f.snapshots, nil
}

type fakeStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	modified map[string]time.Time

	uploadErr error
	deleted   []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		objects:  make(map[string][]byte),
		modified: make(map[string]time.Time),
	}
}

func (f *fakeStore) Upload(_ context.Context, data []byte, suggestedName, _ string) (storage.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.uploadErr != nil {
		return storage.UploadResult{}, f.uploadErr
	}

	key := storage.PhotoPrefix + uuid.New().String() + ".jpg"
	f.objects[key] = data
	f.modified[key] = time.Now()
	return storage.UploadResult{Key: key, URL: "http://store.local/test/" + key}, nil
}

func (f *fakeStore) UploadAt(_ context.Context, key string, data []byte, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.objects[key] = data
	f.modified[key] = time.Now()
	return "http://store.local/test/" + key, nil
}

func (f *fakeStore) Download(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return data, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStore) ListObjects(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]storage.ObjectInfo, 0)
	for key, data := range f.objects {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			out = append(out, storage.ObjectInfo{
				Key:          key,
				Size:         int64(len(data)),
				LastModified: f.modified[key],
			})
		}
	}
	return out, nil
}

// ========================================
// HELPERS
// ========================================

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func validRequest() model.RegisterAnimalRequest {
	return model.RegisterAnimalRequest{
		Name:        "Max",
		Breed:       "Beagle",
		Age:         "3",
		Description: "Friendly and vaccinated",
		Vaccinated:  true,
		AdoptionFee: "50.00",
	}
}

func newTestService(repo *fakeRepo, store *fakeStore) Service {
	return NewAnimalService(repo, store, storage.NewImageProcessor(), nil, retry.Policy{
		MaxAttempts: 2,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
	})
}

// ========================================
// REGISTER
// ========================================

func TestRegisterUploadsPhotoBeforeMetadata(t *testing.T) {
	repo := newFakeRepo()
	store := newFakeStore()
	svc := newTestService(repo, store)

	input := pngBytes(t)
	animal, err := svc.Register(context.Background(), validRequest(), model.PhotoFromUpload("max.png", input))
	require.NoError(t, err)

	assert.Equal(t, "Max", animal.Name)
	assert.NotEmpty(t, animal.PhotoKey)
	assert.NotEmpty(t, animal.PhotoURL)
	assert.Equal(t, "50", animal.AdoptionFee.String())

	// Blob lưu trong store phải giống hệt bytes đầu vào
	assert.Equal(t, input, store.objects[animal.PhotoKey])

	stored, err := repo.GetByID(context.Background(), animal.ID)
	require.NoError(t, err)
	assert.Equal(t, animal.PhotoKey, stored.PhotoKey)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(newFakeRepo(), newFakeStore())

	cases := []struct {
		name   string
		mutate func(*model.RegisterAnimalRequest)
	}{
		{"missing name", func(r *model.RegisterAnimalRequest) { r.Name = "" }},
		{"bad fee", func(r *model.RegisterAnimalRequest) { r.AdoptionFee = "abc" }},
		{"negative fee", func(r *model.RegisterAnimalRequest) { r.AdoptionFee = "-5" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)

			_, err := svc.Register(context.Background(), req, model.PhotoFromUpload("max.png", pngBytes(t)))
			assert.ErrorIs(t, err, model.ErrValidationFailed)
		})
	}
}

func TestRegisterAcceptsBlankBreedAndFreeTextAge(t *testing.T) {
	repo := newFakeRepo()
	store := newFakeStore()
	svc := newTestService(repo, store)

	// Chỉ name + photo là bắt buộc; breed để trống, age là free text
	req := validRequest()
	req.Breed = ""
	req.Age = "2 months"

	animal, err := svc.Register(context.Background(), req, model.PhotoFromUpload("max.png", pngBytes(t)))
	require.NoError(t, err)
	assert.Equal(t, "", animal.Breed)
	assert.Equal(t, "2 months", animal.Age)
}

func TestRegisterRejectsNonImagePayload(t *testing.T) {
	svc := newTestService(newFakeRepo(), newFakeStore())

	_, err := svc.Register(context.Background(), validRequest(), model.PhotoFromUpload("max.png", []byte("not an image")))
	assert.ErrorIs(t, err, model.ErrValidationFailed)
}

func TestRegisterPhotoReadFailureIsNotRetried(t *testing.T) {
	repo := newFakeRepo()
	store := newFakeStore()
	svc := newTestService(repo, store)

	_, err := svc.Register(context.Background(), validRequest(), model.PhotoFromFile("/nonexistent/max.png"))
	assert.ErrorIs(t, err, storage.ErrReadFailed)

	// Không upload, không ghi metadata
	assert.Empty(t, store.objects)
	assert.Zero(t, repo.createCalls)
}

func TestRegisterUploadFailureLeavesNoRecord(t *testing.T) {
	repo := newFakeRepo()
	store := newFakeStore()
	store.uploadErr = fmt.Errorf("%w: backend down", storage.ErrUploadFailed)
	svc := newTestService(repo, store)

	_, err := svc.Register(context.Background(), validRequest(), model.PhotoFromUpload("max.png", pngBytes(t)))
	assert.ErrorIs(t, err, storage.ErrUploadFailed)
	assert.Zero(t, repo.createCalls, "metadata must not be written when upload fails")
}

func TestRegisterMetadataFailureDeletesUploadedBlob(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = errors.New("store unavailable")
	store := newFakeStore()
	svc := newTestService(repo, store)

	_, err := svc.Register(context.Background(), validRequest(), model.PhotoFromUpload("max.png", pngBytes(t)))
	require.Error(t, err)

	// Compensating delete đã dọn blob vừa upload
	assert.Len(t, store.deleted, 1)
	assert.Empty(t, store.objects)
	// Create được retry theo policy (2 attempts)
	assert.Equal(t, 2, repo.createCalls)
}

func TestRegisterRetriesTransientMetadataFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = errors.New("transient")
	repo.failAttempts = 1 // fail lần đầu, thành công lần hai
	store := newFakeStore()
	svc := newTestService(repo, store)

	animal, err := svc.Register(context.Background(), validRequest(), model.PhotoFromUpload("max.png", pngBytes(t)))
	require.NoError(t, err)

	assert.Equal(t, 2, repo.createCalls)
	assert.Empty(t, store.deleted)
	_, getErr := repo.GetByID(context.Background(), animal.ID)
	assert.NoError(t, getErr)
}

// ========================================
// DELETE
// ========================================

func TestDeleteIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	store := newFakeStore()
	svc := newTestService(repo, store)

	animal, err := svc.Register(context.Background(), validRequest(), model.PhotoFromUpload("max.png", pngBytes(t)))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), animal.ID))
	// Xóa lần hai: benign no-op
	assert.NoError(t, svc.Delete(context.Background(), animal.ID))
	// Xóa id chưa từng tồn tại: cũng no-op
	assert.NoError(t, svc.Delete(context.Background(), uuid.New()))
}

// ========================================
// PROJECTION
// ========================================

func TestListServesProjectionSnapshot(t *testing.T) {
	repo := newFakeRepo()
	store := newFakeStore()
	svc := newTestService(repo, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Start(ctx)

	snapshot := []model.Animal{
		{ID: uuid.New(), Name: "Luna"},
		{ID: uuid.New(), Name: "Rocky"},
	}
	repo.snapshots <- snapshot

	require.Eventually(t, func() bool {
		animals, err := svc.List(context.Background())
		return err == nil && len(animals) == 2
	}, 2*time.Second, 10*time.Millisecond)

	// Snapshot mới REPLACE hoàn toàn snapshot cũ
	repo.snapshots <- []model.Animal{{ID: uuid.New(), Name: "Bella"}}

	require.Eventually(t, func() bool {
		animals, err := svc.List(context.Background())
		return err == nil && len(animals) == 1 && animals[0].Name == "Bella"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestListFallsBackToStoreWithoutProjection(t *testing.T) {
	repo := newFakeRepo()
	store := newFakeStore()
	svc := newTestService(repo, store)

	animal, err := svc.Register(context.Background(), validRequest(), model.PhotoFromUpload("max.png", pngBytes(t)))
	require.NoError(t, err)

	// Projection loop chưa chạy - List đọc thẳng từ repo
	animals, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, animals, 1)
	assert.Equal(t, animal.ID, animals[0].ID)
}
