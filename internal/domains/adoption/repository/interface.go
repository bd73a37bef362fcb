package repository

import (
	"context"

	"github.com/google/uuid"

	"adoption-center-backend/internal/domains/adoption/model"
)

// Repository là adapter cho adoption_requests collection.
// Backend failures wrap shared.ErrStoreUnavailable.
type Repository interface {
	Create(ctx context.Context, request *model.Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Request, error)
	// List trả về mọi request, mới nhất trước
	List(ctx context.Context) ([]model.Request, error)
	ListPending(ctx context.Context) ([]model.Request, error)

	// Approve là conditional write: chỉ flip pending → approved.
	// Trả về request sau update; ErrRequestNotFound nếu id không tồn tại,
	// approved=false nếu request đã approved từ trước (no-op).
	Approve(ctx context.Context, id uuid.UUID) (request *model.Request, approved bool, err error)

	// Subscribe: full snapshot ngay khi mở + sau mỗi thay đổi
	Subscribe(ctx context.Context) (<-chan []model.Request, error)
}
