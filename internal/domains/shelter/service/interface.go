package service

import (
	"context"

	"github.com/google/uuid"

	adoptionModel "adoption-center-backend/internal/domains/adoption/model"
)

// Coordinator là mặt tiền phối hợp catalog và adoption requests:
// - Submit gắn request với animal đang tồn tại + snapshot tên
// - Display name được resolve lại từ catalog tại thời điểm đọc
// Catalog operations thuần túy (register/list/delete animal) không cần
// phối hợp nên đi thẳng vào animal service.
type Coordinator interface {
	// RequestAdoption validate animal tồn tại rồi persist request pending
	RequestAdoption(ctx context.Context, req adoptionModel.SubmitRequestRequest) (adoptionModel.RequestResponse, error)

	// ApproveRequest flip pending → approved (idempotent, có guard
	// chống double adoption) và trigger notification
	ApproveRequest(ctx context.Context, requestID uuid.UUID) (adoptionModel.RequestResponse, error)

	// ListRequests trả về mọi request với display name đã resolve
	ListRequests(ctx context.Context) ([]adoptionModel.RequestResponse, error)
	ListPendingRequests(ctx context.Context) ([]adoptionModel.RequestResponse, error)
}
