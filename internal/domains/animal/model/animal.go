package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ========================================
// ANIMAL MODEL
// ========================================

// Animal là một record trong catalog của shelter
type Animal struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	// Breed/Age là free text, có thể rỗng
	Breed       string          `json:"breed" db:"breed"`
	Age         string          `json:"age" db:"age"`
	Description string          `json:"description" db:"description"`
	Vaccinated  bool            `json:"vaccinated" db:"vaccinated"`
	AdoptionFee decimal.Decimal `json:"adoption_fee" db:"adoption_fee"`

	// PhotoKey là object key trong media store (animal_photos/<uuid>.jpg).
	// URL fields được derive từ key - key là source of truth.
	PhotoKey     string  `json:"photo_key" db:"photo_key"`
	PhotoURL     string  `json:"photo_url" db:"photo_url"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty" db:"thumbnail_url"`
	MediumURL    *string `json:"medium_url,omitempty" db:"medium_url"`

	// VariantKeys: object keys của các variant đã generate.
	// Reconciliation sweep coi key nằm ngoài (photo_key ∪ variant_keys)
	// là orphan.
	VariantKeys pq.StringArray `json:"-" db:"variant_keys"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CacheKey cho animal detail
func CacheKey(id uuid.UUID) string {
	return "animal:" + id.String()
}
