package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"adoption-center-backend/internal/domains/adoption/model"
	"adoption-center-backend/internal/infrastructure/database"
	"adoption-center-backend/internal/shared"
)

// ChannelRequests: NOTIFY channel cho adoption_requests collection
const ChannelRequests = "adoption_requests_changed"

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// ========================= CREATE =====================

func (r *postgresRepository) Create(ctx context.Context, request *model.Request) error {
	query := `
		INSERT INTO adoption_requests (id, animal_id, animal_name, full_name, address, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query,
		request.ID,
		request.AnimalID,
		request.AnimalName,
		request.FullName,
		request.Address,
		request.Notes,
		request.Status,
	).Scan(&request.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: insert adoption request: %v", shared.ErrStoreUnavailable, err)
	}

	r.notify(ctx, request.ID.String())
	return nil
}

// ========================= READ =====================

const selectColumns = `id, animal_id, animal_name, full_name, address, notes, status, created_at`

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Request, error) {
	query := `SELECT ` + selectColumns + ` FROM adoption_requests WHERE id = $1`

	var req model.Request
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.AnimalID, &req.AnimalName, &req.FullName,
		&req.Address, &req.Notes, &req.Status, &req.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get adoption request: %v", shared.ErrStoreUnavailable, err)
	}

	return &req, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]model.Request, error) {
	query := `SELECT ` + selectColumns + ` FROM adoption_requests ORDER BY created_at DESC`
	return r.queryRequests(ctx, query)
}

func (r *postgresRepository) ListPending(ctx context.Context) ([]model.Request, error) {
	query := `SELECT ` + selectColumns + ` FROM adoption_requests WHERE status = 'pending' ORDER BY created_at DESC`
	return r.queryRequests(ctx, query)
}

func (r *postgresRepository) queryRequests(ctx context.Context, query string, args ...interface{}) ([]model.Request, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list adoption requests: %v", shared.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	requests := make([]model.Request, 0)
	for rows.Next() {
		var req model.Request
		err := rows.Scan(
			&req.ID, &req.AnimalID, &req.AnimalName, &req.FullName,
			&req.Address, &req.Notes, &req.Status, &req.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scan adoption request: %v", shared.ErrStoreUnavailable, err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", shared.ErrStoreUnavailable, err)
	}

	return requests, nil
}

// ========================= APPROVE =====================

// Approve flip pending → approved trong MỘT statement có điều kiện:
// hai admin approve đồng thời thì chỉ một update thắng, và một animal
// không bao giờ có hai request approved (NOT EXISTS guard cùng statement).
func (r *postgresRepository) Approve(ctx context.Context, id uuid.UUID) (*model.Request, bool, error) {
	query := `
		UPDATE adoption_requests ar
		SET status = 'approved'
		WHERE ar.id = $1
		  AND ar.status = 'pending'
		  AND NOT EXISTS (
		      SELECT 1 FROM adoption_requests other
		      WHERE other.animal_id = ar.animal_id AND other.status = 'approved'
		  )
		RETURNING ` + selectColumns

	var req model.Request
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.AnimalID, &req.AnimalName, &req.FullName,
		&req.Address, &req.Notes, &req.Status, &req.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		// Không match - phân loại lý do
		existing, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return nil, false, getErr // ErrRequestNotFound hoặc store error
		}
		if existing.Status == model.StatusApproved {
			// Approve lần hai là no-op idempotent
			return existing, false, nil
		}
		// Còn pending nhưng bị guard chặn: animal đã được adopt qua request khác
		return existing, false, model.ErrAnimalAdopted
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: approve adoption request: %v", shared.ErrStoreUnavailable, err)
	}

	r.notify(ctx, req.ID.String())
	return &req, true, nil
}

// ========================= SUBSCRIPTION =====================

func (r *postgresRepository) Subscribe(ctx context.Context) (<-chan []model.Request, error) {
	listener := database.NewListener(r.pool, ChannelRequests)
	signals, err := listener.Listen(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: subscribe adoption requests: %v", shared.ErrStoreUnavailable, err)
	}

	snapshots := make(chan []model.Request, 1)

	go func() {
		defer close(snapshots)

		if !r.emitSnapshot(ctx, snapshots) {
			return
		}

		for range signals {
			if !r.emitSnapshot(ctx, snapshots) {
				return
			}
		}
	}()

	return snapshots, nil
}

func (r *postgresRepository) emitSnapshot(ctx context.Context, out chan<- []model.Request) bool {
	requests, err := r.List(ctx)
	if err != nil {
		log.Printf("[Repository] Request snapshot reload failed: %v", err)
		return false
	}

	select {
	case out <- requests:
	case <-ctx.Done():
		return false
	}
	return true
}

func (r *postgresRepository) notify(ctx context.Context, payload string) {
	if err := database.Notify(ctx, r.pool, ChannelRequests, payload); err != nil {
		log.Printf("[Repository] Notify failed on %s: %v", ChannelRequests, err)
	}
}
