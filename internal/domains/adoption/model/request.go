package model

import (
	"time"

	"github.com/google/uuid"
)

// ========================================
// ADOPTION REQUEST MODEL
// ========================================

// Request lifecycle: pending → approved. Không có rejected state -
// request không được duyệt thì cứ ở pending.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// Request là một đơn xin nhận nuôi.
// AnimalName là SNAPSHOT tại thời điểm submit: hiển thị dùng tên hiện
// tại resolve từ catalog, snapshot chỉ là fallback khi animal đã bị xóa.
type Request struct {
	ID         uuid.UUID `json:"id" db:"id"`
	AnimalID   uuid.UUID `json:"animal_id" db:"animal_id"`
	AnimalName string    `json:"animal_name" db:"animal_name"`

	FullName string `json:"full_name" db:"full_name"`
	Address  string `json:"address" db:"address"`
	Notes    string `json:"notes" db:"notes"`

	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}
