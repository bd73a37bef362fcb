package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"adoption-center-backend/internal/domains/animal/model"
	"adoption-center-backend/internal/infrastructure/database"
	"adoption-center-backend/internal/shared"
	"adoption-center-backend/pkg/cache"
)

// ChannelAnimals: NOTIFY channel cho animals collection
const ChannelAnimals = "animals_changed"

const detailCacheTTL = 5 * time.Minute

// postgresRepository - Raw SQL with pgxpool
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

// ========================= CREATE =====================

func (r *postgresRepository) Create(ctx context.Context, animal *model.Animal) error {
	query := `
		INSERT INTO animals (id, name, breed, age, description, vaccinated, adoption_fee, photo_key, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query,
		animal.ID,
		animal.Name,
		animal.Breed,
		animal.Age,
		animal.Description,
		animal.Vaccinated,
		animal.AdoptionFee,
		animal.PhotoKey,
		animal.PhotoURL,
	).Scan(&animal.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: insert animal: %v", shared.ErrStoreUnavailable, err)
	}

	r.notify(ctx, animal.ID.String())
	return nil
}

// ========================= READ =====================

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Animal, error) {
	// Check cache trước
	cacheKey := model.CacheKey(id)
	var cached model.Animal
	if found, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	query := `
		SELECT id, name, breed, age, description, vaccinated, adoption_fee,
		       photo_key, photo_url, thumbnail_url, medium_url, variant_keys, created_at
		FROM animals
		WHERE id = $1
	`

	var a model.Animal
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Name, &a.Breed, &a.Age, &a.Description, &a.Vaccinated,
		&a.AdoptionFee, &a.PhotoKey, &a.PhotoURL, &a.ThumbnailURL, &a.MediumURL,
		&a.VariantKeys, &a.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrAnimalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get animal: %v", shared.ErrStoreUnavailable, err)
	}

	// Cache best-effort
	if err := r.cache.Set(ctx, cacheKey, &a, detailCacheTTL); err != nil {
		log.Printf("[Repository] Cache set failed for %s: %v", cacheKey, err)
	}

	return &a, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]model.Animal, error) {
	query := `
		SELECT id, name, breed, age, description, vaccinated, adoption_fee,
		       photo_key, photo_url, thumbnail_url, medium_url, variant_keys, created_at
		FROM animals
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list animals: %v", shared.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	animals := make([]model.Animal, 0)
	for rows.Next() {
		var a model.Animal
		err := rows.Scan(
			&a.ID, &a.Name, &a.Breed, &a.Age, &a.Description, &a.Vaccinated,
			&a.AdoptionFee, &a.PhotoKey, &a.PhotoURL, &a.ThumbnailURL, &a.MediumURL,
			&a.VariantKeys, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scan animal: %v", shared.ErrStoreUnavailable, err)
		}
		animals = append(animals, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", shared.ErrStoreUnavailable, err)
	}

	return animals, nil
}

// ========================= DELETE =====================

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM animals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete animal: %v", shared.ErrStoreUnavailable, err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrAnimalNotFound
	}

	if err := r.cache.Delete(ctx, model.CacheKey(id)); err != nil {
		log.Printf("[Repository] Cache invalidation failed for animal %s: %v", id, err)
	}

	r.notify(ctx, id.String())
	return nil
}

// ========================= PHOTO PIPELINE =====================

func (r *postgresRepository) UpdatePhotoVariants(ctx context.Context, id uuid.UUID, thumbnailURL, mediumURL string, variantKeys []string) error {
	// Cast $4::text[] vì pq.Array encode sang text literal
	result, err := r.pool.Exec(ctx,
		`UPDATE animals SET thumbnail_url = $2, medium_url = $3, variant_keys = $4::text[] WHERE id = $1`,
		id, thumbnailURL, mediumURL, pq.Array(variantKeys),
	)
	if err != nil {
		return fmt.Errorf("%w: update photo variants: %v", shared.ErrStoreUnavailable, err)
	}
	if result.RowsAffected() == 0 {
		// Animal đã bị xóa giữa chừng - variants sẽ bị sweep dọn
		return model.ErrAnimalNotFound
	}

	if err := r.cache.Delete(ctx, model.CacheKey(id)); err != nil {
		log.Printf("[Repository] Cache invalidation failed for animal %s: %v", id, err)
	}

	r.notify(ctx, id.String())
	return nil
}

func (r *postgresRepository) ListPhotoKeys(ctx context.Context) ([]string, error) {
	// Union của photo gốc và mọi variant key
	query := `
		SELECT photo_key FROM animals WHERE photo_key <> ''
		UNION
		SELECT unnest(variant_keys) FROM animals
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list photo keys: %v", shared.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("%w: scan photo key: %v", shared.ErrStoreUnavailable, err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// ========================= SUBSCRIPTION =====================

// Subscribe emits full catalog snapshot: một lần ngay khi mở,
// rồi sau mỗi NOTIFY trên channel animals_changed.
func (r *postgresRepository) Subscribe(ctx context.Context) (<-chan []model.Animal, error) {
	listener := database.NewListener(r.pool, ChannelAnimals)
	signals, err := listener.Listen(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: subscribe animals: %v", shared.ErrStoreUnavailable, err)
	}

	snapshots := make(chan []model.Animal, 1)

	go func() {
		defer close(snapshots)

		// Initial snapshot
		if !r.emitSnapshot(ctx, snapshots) {
			return
		}

		for range signals {
			if !r.emitSnapshot(ctx, snapshots) {
				return
			}
		}
		// signals đóng (ctx cancel / conn chết) - snapshots đóng theo
	}()

	return snapshots, nil
}

func (r *postgresRepository) emitSnapshot(ctx context.Context, out chan<- []model.Animal) bool {
	animals, err := r.List(ctx)
	if err != nil {
		log.Printf("[Repository] Snapshot reload failed: %v", err)
		return false
	}

	select {
	case out <- animals:
	case <-ctx.Done():
		return false
	}
	return true
}

func (r *postgresRepository) notify(ctx context.Context, payload string) {
	if err := database.Notify(ctx, r.pool, ChannelAnimals, payload); err != nil {
		log.Printf("[Repository] Notify failed on %s: %v", ChannelAnimals, err)
	}
}
