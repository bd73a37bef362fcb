package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"adoption-center-backend/internal/domains/animal/model"
	"adoption-center-backend/internal/domains/animal/repository"
	"adoption-center-backend/internal/infrastructure/storage"
	"adoption-center-backend/pkg/logger"
)

// PhotoPipeline chạy trong worker process: generate variants và
// dọn orphaned blobs khỏi media store.
type PhotoPipeline interface {
	ProcessPhoto(ctx context.Context, animalID uuid.UUID, photoKey string) error
	ReconcileOrphans(ctx context.Context, gracePeriod time.Duration) (deleted int, err error)
}

type photoPipeline struct {
	repo      repository.Repository
	store     storage.MediaStore
	processor *storage.ImageProcessor
}

func NewPhotoPipeline(repo repository.Repository, store storage.MediaStore, processor *storage.ImageProcessor) PhotoPipeline {
	return &photoPipeline{
		repo:      repo,
		store:     store,
		processor: processor,
	}
}

// ProcessPhoto download ảnh gốc, resize, upload variants, update record.
// Animal đã bị xóa giữa chừng thì bỏ qua - sweep dọn variants mồ côi.
func (p *photoPipeline) ProcessPhoto(ctx context.Context, animalID uuid.UUID, photoKey string) error {
	data, err := p.store.Download(ctx, photoKey)
	if err != nil {
		return fmt.Errorf("download original %s: %w", photoKey, err)
	}

	variants, err := p.processor.ProcessImage(data)
	if err != nil {
		return fmt.Errorf("process %s: %w", photoKey, err)
	}

	urls := make(map[string]string, len(variants))
	keys := make([]string, 0, len(variants))
	for name, bytes := range variants {
		key := variantKey(photoKey, name)
		url, err := p.store.UploadAt(ctx, key, bytes, "image/jpeg")
		if err != nil {
			return fmt.Errorf("upload variant %s: %w", key, err)
		}
		urls[name] = url
		keys = append(keys, key)
	}

	err = p.repo.UpdatePhotoVariants(ctx, animalID, urls["thumbnail"], urls["medium"], keys)
	if errors.Is(err, model.ErrAnimalNotFound) {
		logger.Debug("Animal deleted before variants landed: " + animalID.String())
		return nil
	}
	return err
}

// ReconcileOrphans xóa blobs dưới animal_photos/ không được bất kỳ
// record nào reference và cũ hơn gracePeriod. Grace period tránh race
// với registration đang chạy (đã upload, chưa ghi metadata).
func (p *photoPipeline) ReconcileOrphans(ctx context.Context, gracePeriod time.Duration) (int, error) {
	referenced, err := p.repo.ListPhotoKeys(ctx)
	if err != nil {
		return 0, err
	}

	refSet := make(map[string]struct{}, len(referenced))
	for _, key := range referenced {
		refSet[key] = struct{}{}
	}

	objects, err := p.store.ListObjects(ctx, storage.PhotoPrefix)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-gracePeriod)
	deleted := 0
	for _, obj := range objects {
		if _, ok := refSet[obj.Key]; ok {
			continue
		}
		if obj.LastModified.After(cutoff) {
			continue // còn trong grace period - có thể registration chưa xong
		}

		if err := p.store.Delete(ctx, obj.Key); err != nil {
			logger.Error("Failed to delete orphan blob "+obj.Key, err)
			continue
		}
		deleted++
	}

	if deleted > 0 {
		logger.Info("Orphan photo sweep completed", map[string]interface{}{
			"deleted":   deleted,
			"scanned":   len(objects),
			"reference": len(refSet),
		})
	}

	return deleted, nil
}

// variantKey: animal_photos/<uuid>.jpg + "thumbnail" → animal_photos/<uuid>_thumbnail.jpg
func variantKey(photoKey, variant string) string {
	if idx := strings.LastIndex(photoKey, "."); idx > 0 {
		return photoKey[:idx] + "_" + variant + photoKey[idx:]
	}
	return photoKey + "_" + variant
}
