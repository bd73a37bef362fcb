package service

import (
	"context"
	"encoding/json"
	"log"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"adoption-center-backend/internal/domains/adoption/model"
	"adoption-center-backend/internal/domains/adoption/repository"
	"adoption-center-backend/internal/shared"
	"adoption-center-backend/pkg/logger"
	"adoption-center-backend/pkg/retry"
)

type adoptionService struct {
	repo   repository.Repository
	tasks  *asynq.Client
	policy retry.Policy

	projection atomic.Pointer[[]model.Request]
}

func NewAdoptionService(repo repository.Repository, tasks *asynq.Client, policy retry.Policy) Service {
	return &adoptionService{
		repo:   repo,
		tasks:  tasks,
		policy: policy,
	}
}

// ========================================
// SUBMIT
// ========================================

func (s *adoptionService) Submit(ctx context.Context, req model.SubmitRequestRequest, animalID uuid.UUID, animalName string) (*model.Request, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	request := &model.Request{
		ID:         uuid.New(),
		AnimalID:   animalID,
		AnimalName: animalName, // snapshot - không update khi animal đổi tên
		FullName:   req.FullName,
		Address:    req.Address,
		Notes:      req.Notes,
		Status:     model.StatusPending,
	}

	err := retry.Do(ctx, s.policy, func() error {
		return s.repo.Create(ctx, request)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Adoption request submitted", map[string]interface{}{
		"request_id": request.ID.String(),
		"animal_id":  request.AnimalID.String(),
	})

	return request, nil
}

// ========================================
// READ
// ========================================

func (s *adoptionService) GetByID(ctx context.Context, id uuid.UUID) (*model.Request, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *adoptionService) List(ctx context.Context) ([]model.Request, error) {
	if snap := s.projection.Load(); snap != nil {
		return *snap, nil
	}
	return s.repo.List(ctx)
}

func (s *adoptionService) ListPending(ctx context.Context) ([]model.Request, error) {
	// Filter trên projection thay vì query riêng
	if snap := s.projection.Load(); snap != nil {
		pending := make([]model.Request, 0)
		for _, req := range *snap {
			if req.IsPending() {
				pending = append(pending, req)
			}
		}
		return pending, nil
	}
	return s.repo.ListPending(ctx)
}

// ========================================
// APPROVE
// ========================================

func (s *adoptionService) Approve(ctx context.Context, id uuid.UUID) (*model.Request, error) {
	request, flipped, err := s.repo.Approve(ctx, id)
	if err != nil {
		return nil, err
	}

	if !flipped {
		// Đã approved từ trước - không gửi lại email
		logger.Debug("Approve of already-approved request treated as no-op: " + id.String())
		return request, nil
	}

	s.enqueueApprovalEmail(request)

	logger.Info("Adoption request approved", map[string]interface{}{
		"request_id": request.ID.String(),
		"animal_id":  request.AnimalID.String(),
	})

	return request, nil
}

func (s *adoptionService) enqueueApprovalEmail(request *model.Request) {
	if s.tasks == nil {
		return
	}

	payload, err := json.Marshal(shared.SendApprovalEmailPayload{
		RequestID:      request.ID.String(),
		AnimalName:     request.AnimalName,
		AdopterName:    request.FullName,
		AdopterAddress: request.Address,
	})
	if err != nil {
		return
	}

	task := asynq.NewTask(shared.TypeSendApprovalEmail, payload)
	if _, err := s.tasks.Enqueue(task, asynq.Queue(shared.QueueAdoption), asynq.MaxRetry(10)); err != nil {
		// Notification là best-effort, approval vẫn đứng
		log.Printf("[Service] Failed to enqueue approval email for %s: %v", request.ID, err)
	}
}

// ========================================
// PROJECTION LOOP
// ========================================

func (s *adoptionService) Start(ctx context.Context) {
	for {
		var snapshots <-chan []model.Request
		err := retry.Do(ctx, retry.Policy{
			MaxAttempts: 1 << 30,
			BaseDelay:   s.policy.BaseDelay,
			MaxDelay:    s.policy.MaxDelay,
			Jitter:      true,
		}, func() error {
			var subErr error
			snapshots, subErr = s.repo.Subscribe(ctx)
			return subErr
		})
		if err != nil {
			return
		}

		for snap := range snapshots {
			snap := snap
			s.projection.Store(&snap)
		}

		s.projection.Store(nil)

		select {
		case <-ctx.Done():
			return
		default:
			logger.Debug("Adoption request subscription lost, re-subscribing")
		}
	}
}
