package model

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ========================================
// REQUEST DTOs
// ========================================

// SubmitRequestRequest - input cho POST /adoptions
type SubmitRequestRequest struct {
	AnimalID string `json:"animal_id"`
	FullName string `json:"full_name"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
}

func (r SubmitRequestRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.AnimalID, validation.Required, is.UUIDv4),
		validation.Field(&r.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Address, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Notes, validation.Length(0, 2000)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return nil
}

// ========================================
// RESPONSE DTOs
// ========================================

// RequestResponse - AnimalName là display name đã resolve từ catalog
// (tên hiện tại nếu animal còn, snapshot nếu đã xóa)
type RequestResponse struct {
	ID         string `json:"id"`
	AnimalID   string `json:"animal_id"`
	AnimalName string `json:"animal_name"`
	FullName   string `json:"full_name"`
	Address    string `json:"address"`
	Notes      string `json:"notes,omitempty"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

func ToRequestResponse(r *Request, displayName string) RequestResponse {
	return RequestResponse{
		ID:         r.ID.String(),
		AnimalID:   r.AnimalID.String(),
		AnimalName: displayName,
		FullName:   r.FullName,
		Address:    r.Address,
		Notes:      r.Notes,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
