package service

import (
	"context"

	"github.com/google/uuid"

	"adoption-center-backend/internal/domains/adoption/model"
)

// Service quản lý adoption request lifecycle (pending → approved)
type Service interface {
	// Submit persist một request mới ở trạng thái pending.
	// animalName là snapshot tên tại thời điểm submit.
	Submit(ctx context.Context, req model.SubmitRequestRequest, animalID uuid.UUID, animalName string) (*model.Request, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Request, error)
	List(ctx context.Context) ([]model.Request, error)
	ListPending(ctx context.Context) ([]model.Request, error)

	// Approve flip pending → approved. Approve lần hai là no-op
	// (trả về request, không gửi lại notification).
	Approve(ctx context.Context, id uuid.UUID) (*model.Request, error)

	// Start chạy projection loop (blocking) đến khi ctx cancel
	Start(ctx context.Context)
}
