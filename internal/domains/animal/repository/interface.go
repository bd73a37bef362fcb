package repository

import (
	"context"

	"github.com/google/uuid"

	"adoption-center-backend/internal/domains/animal/model"
)

// Repository là adapter cho animals collection trong document store.
// Mọi backend failure được wrap vào shared.ErrStoreUnavailable.
type Repository interface {
	Create(ctx context.Context, animal *model.Animal) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Animal, error)
	List(ctx context.Context) ([]model.Animal, error)
	// Delete trả ErrAnimalNotFound khi record không tồn tại -
	// caller quyết định đó có phải lỗi hay không
	Delete(ctx context.Context, id uuid.UUID) error

	// UpdatePhotoVariants set derived URLs + keys sau khi worker xử lý ảnh
	UpdatePhotoVariants(ctx context.Context, id uuid.UUID, thumbnailURL, mediumURL string, variantKeys []string) error
	// ListPhotoKeys trả về mọi photo key đang được reference,
	// gồm cả variants (cho reconciliation sweep)
	ListPhotoKeys(ctx context.Context) ([]string, error)

	// Subscribe mở một snapshot subscription: channel nhận FULL danh sách
	// animals ngay khi mở và sau mỗi thay đổi (replace, không diff).
	// Channel đóng khi ctx cancel hoặc connection chết - caller re-subscribe.
	Subscribe(ctx context.Context) (<-chan []model.Animal, error)
}
