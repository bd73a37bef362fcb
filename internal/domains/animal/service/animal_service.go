package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime"
	"path"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"adoption-center-backend/internal/domains/animal/model"
	"adoption-center-backend/internal/domains/animal/repository"
	"adoption-center-backend/internal/infrastructure/storage"
	"adoption-center-backend/internal/shared"
	"adoption-center-backend/pkg/logger"
	"adoption-center-backend/pkg/retry"
)

type animalService struct {
	repo      repository.Repository
	store     storage.MediaStore
	processor *storage.ImageProcessor
	tasks     *asynq.Client // nil-able: API có thể chạy không có worker
	policy    retry.Policy

	// projection giữ snapshot mới nhất của catalog. Reads không chạm DB.
	projection atomic.Pointer[[]model.Animal]
}

func NewAnimalService(
	repo repository.Repository,
	store storage.MediaStore,
	processor *storage.ImageProcessor,
	tasks *asynq.Client,
	policy retry.Policy,
) Service {
	return &animalService{
		repo:      repo,
		store:     store,
		processor: processor,
		tasks:     tasks,
		policy:    policy,
	}
}

// ========================================
// REGISTER (upload-then-metadata)
// ========================================

func (s *animalService) Register(ctx context.Context, req model.RegisterAnimalRequest, photo model.PhotoRef) (*model.Animal, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 1. Resolve photo source - KHÔNG retry: lỗi đọc nguồn (file hỏng,
	// URL chết) sẽ không tự khỏi, fail fast để caller sửa input
	data, name, err := photo.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.processor.ValidateImage(data); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrValidationFailed, err)
	}

	// 2. Upload TRƯỚC khi ghi metadata - catalog không bao giờ chứa
	// record trỏ đến ảnh không tồn tại
	var uploaded storage.UploadResult
	err = retry.Do(ctx, s.policy, func() error {
		var uploadErr error
		uploaded, uploadErr = s.store.Upload(ctx, data, name, contentTypeOf(name))
		return uploadErr
	})
	if err != nil {
		return nil, err
	}

	// 3. Ghi metadata
	animal := &model.Animal{
		ID:          uuid.New(),
		Name:        req.Name,
		Breed:       req.Breed,
		Age:         req.Age,
		Description: req.Description,
		Vaccinated:  req.Vaccinated,
		AdoptionFee: req.Fee(),
		PhotoKey:    uploaded.Key,
		PhotoURL:    uploaded.URL,
	}

	err = retry.Do(ctx, s.policy, func() error {
		return s.repo.Create(ctx, animal)
	})
	if err != nil {
		// Compensating delete: blob vừa upload giờ là orphan.
		// Best-effort - sweep sẽ dọn nếu delete này cũng fail.
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if delErr := s.store.Delete(cleanupCtx, uploaded.Key); delErr != nil {
			logger.Error("Compensating photo delete failed, sweep will collect it", delErr)
		}
		return nil, err
	}

	s.enqueuePhotoProcessing(animal)

	logger.Info("Animal registered", map[string]interface{}{
		"animal_id": animal.ID.String(),
		"name":      animal.Name,
		"photo_key": animal.PhotoKey,
	})

	return animal, nil
}

func (s *animalService) enqueuePhotoProcessing(animal *model.Animal) {
	if s.tasks == nil {
		return
	}

	payload, err := json.Marshal(shared.ProcessAnimalPhotoPayload{
		AnimalID: animal.ID.String(),
		PhotoKey: animal.PhotoKey,
	})
	if err != nil {
		return
	}

	task := asynq.NewTask(shared.TypeProcessAnimalPhoto, payload)
	if _, err := s.tasks.Enqueue(task, asynq.Queue(shared.QueueCatalog), asynq.MaxRetry(5)); err != nil {
		// Variants là enhancement, không phải điều kiện đăng ký
		log.Printf("[Service] Failed to enqueue photo processing for %s: %v", animal.ID, err)
	}
}

// ========================================
// READ
// ========================================

func (s *animalService) GetByID(ctx context.Context, id uuid.UUID) (*model.Animal, error) {
	return s.repo.GetByID(ctx, id)
}

// List trả về projection snapshot. Chưa có snapshot (projection loop
// chưa chạy hoặc đang reconnect) thì đọc thẳng từ store.
func (s *animalService) List(ctx context.Context) ([]model.Animal, error) {
	if snap := s.projection.Load(); snap != nil {
		return *snap, nil
	}
	return s.repo.List(ctx)
}

// ========================================
// DELETE
// ========================================

func (s *animalService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, model.ErrAnimalNotFound) {
		// Idempotent: record đã không còn là kết quả mong muốn
		logger.Debug("Delete of missing animal treated as no-op: " + id.String())
		return nil
	}
	if err != nil {
		return err
	}

	// Blob gốc + variants trở thành unreferenced, sweep sẽ dọn
	logger.Info("Animal removed from catalog", map[string]interface{}{
		"animal_id": id.String(),
	})
	return nil
}

// ========================================
// PROJECTION LOOP
// ========================================

// Start giữ projection sống: subscribe, nhận full snapshots, replace
// atomically. Subscription chết thì back off rồi subscribe lại.
func (s *animalService) Start(ctx context.Context) {
	for {
		var snapshots <-chan []model.Animal
		err := retry.Do(ctx, retry.Policy{
			MaxAttempts: 1 << 30, // retry đến khi ctx cancel
			BaseDelay:   s.policy.BaseDelay,
			MaxDelay:    s.policy.MaxDelay,
			Jitter:      true,
		}, func() error {
			var subErr error
			snapshots, subErr = s.repo.Subscribe(ctx)
			return subErr
		})
		if err != nil {
			return // chỉ xảy ra khi ctx cancelled
		}

		for snap := range snapshots {
			snap := snap
			s.projection.Store(&snap)
		}

		// Snapshot stream đóng - mất subscription. Drop projection để
		// List fallback về store thay vì serve data có thể đã cũ.
		s.projection.Store(nil)

		select {
		case <-ctx.Done():
			return
		default:
			logger.Debug("Catalog subscription lost, re-subscribing")
		}
	}
}

func contentTypeOf(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
