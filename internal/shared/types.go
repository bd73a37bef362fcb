package shared

import "errors"

// ========================================
// ASYNQ TASK TYPES
// ========================================

const (
	TypeProcessAnimalPhoto    = "animal:process_photo"
	TypeReconcileOrphanPhotos = "animal:reconcile_photos"
	TypeSendApprovalEmail     = "adoption:send_approval_email"
)

// Queue names
const (
	QueueCatalog  = "catalog"
	QueueAdoption = "adoption"
	QueueDefault  = "default"
)

// ========================================
// CROSS-DOMAIN ERRORS
// ========================================

// ErrStoreUnavailable: backend/network failure khi đọc/ghi document store.
// Repositories wrap lỗi driver vào sentinel này để service layer
// phân biệt được transient failure với lỗi domain.
var ErrStoreUnavailable = errors.New("document store unavailable")

// ========================================
// TASK PAYLOADS
// ========================================

// ProcessAnimalPhotoPayload: generate thumbnail/medium variants cho ảnh gốc
type ProcessAnimalPhotoPayload struct {
	AnimalID string `json:"animal_id"`
	PhotoKey string `json:"photo_key"`
}

// ReconcileOrphanPhotosPayload carried by the scheduled sweep task
type ReconcileOrphanPhotosPayload struct {
	GracePeriodMinutes int `json:"grace_period_minutes"`
}

// SendApprovalEmailPayload: notify shelter inbox sau khi approve
type SendApprovalEmailPayload struct {
	RequestID      string `json:"request_id"`
	AnimalName     string `json:"animal_name"`
	AdopterName    string `json:"adopter_name"`
	AdopterAddress string `json:"adopter_address"`
}
