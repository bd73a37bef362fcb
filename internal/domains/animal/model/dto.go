package model

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// ========================================
// REQUEST DTOs
// ========================================

// RegisterAnimalRequest - input cho POST /admin/animals.
// Photo đi kèm dưới dạng multipart file HOẶC photo_url form field.
type RegisterAnimalRequest struct {
	Name string `form:"name" json:"name"`
	// Breed và Age là opaque strings, được phép bỏ trống -
	// shelter nhập tự do ("2 months", "unknown mix", ...)
	Breed       string `form:"breed" json:"breed"`
	Age         string `form:"age" json:"age"`
	Description string `form:"description" json:"description"`
	Vaccinated  bool   `form:"vaccinated" json:"vaccinated"`
	AdoptionFee string `form:"adoption_fee" json:"adoption_fee"`
}

func (r RegisterAnimalRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Breed, validation.Length(0, 100)),
		validation.Field(&r.Age, validation.Length(0, 100)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	if r.AdoptionFee != "" {
		fee, err := decimal.NewFromString(r.AdoptionFee)
		if err != nil {
			return fmt.Errorf("%w: adoption_fee must be a decimal number", ErrValidationFailed)
		}
		if fee.IsNegative() {
			return fmt.Errorf("%w: adoption_fee cannot be negative", ErrValidationFailed)
		}
	}

	return nil
}

// Fee parse AdoptionFee, mặc định 0 nếu bỏ trống
func (r RegisterAnimalRequest) Fee() decimal.Decimal {
	if r.AdoptionFee == "" {
		return decimal.Zero
	}
	fee, err := decimal.NewFromString(r.AdoptionFee)
	if err != nil {
		return decimal.Zero
	}
	return fee
}

// ========================================
// RESPONSE DTOs
// ========================================

type AnimalResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Breed        string  `json:"breed"`
	Age          string  `json:"age"`
	Description  string  `json:"description"`
	Vaccinated   bool    `json:"vaccinated"`
	AdoptionFee  string  `json:"adoption_fee"`
	PhotoURL     string  `json:"photo_url"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

func ToAnimalResponse(a *Animal) AnimalResponse {
	return AnimalResponse{
		ID:           a.ID.String(),
		Name:         a.Name,
		Breed:        a.Breed,
		Age:          a.Age,
		Description:  a.Description,
		Vaccinated:   a.Vaccinated,
		AdoptionFee:  a.AdoptionFee.StringFixed(2),
		PhotoURL:     a.PhotoURL,
		ThumbnailURL: a.ThumbnailURL,
		CreatedAt:    a.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func ToAnimalResponses(animals []Animal) []AnimalResponse {
	out := make([]AnimalResponse, 0, len(animals))
	for i := range animals {
		out = append(out, ToAnimalResponse(&animals[i]))
	}
	return out
}
