package service

import (
	"context"

	"github.com/google/uuid"

	"adoption-center-backend/internal/domains/animal/model"
)

// Service quản lý catalog: đăng ký, xóa, và live projection cho reads
type Service interface {
	// Register upload photo trước, ghi metadata sau. Nếu metadata write
	// thất bại thì blob vừa upload được xóa bù (compensating delete).
	Register(ctx context.Context, req model.RegisterAnimalRequest, photo model.PhotoRef) (*model.Animal, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Animal, error)
	List(ctx context.Context) ([]model.Animal, error)
	// Delete là idempotent: xóa record không tồn tại là no-op
	Delete(ctx context.Context, id uuid.UUID) error

	// Start chạy projection loop (blocking) cho đến khi ctx cancel.
	// Tự re-subscribe khi subscription chết.
	Start(ctx context.Context)
}
