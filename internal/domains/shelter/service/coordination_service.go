package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	adoptionModel "adoption-center-backend/internal/domains/adoption/model"
	adoptionService "adoption-center-backend/internal/domains/adoption/service"
	animalModel "adoption-center-backend/internal/domains/animal/model"
	animalService "adoption-center-backend/internal/domains/animal/service"
	"adoption-center-backend/pkg/logger"
)

type coordinator struct {
	catalog   animalService.Service
	adoptions adoptionService.Service
}

func NewCoordinator(catalog animalService.Service, adoptions adoptionService.Service) Coordinator {
	return &coordinator{
		catalog:   catalog,
		adoptions: adoptions,
	}
}

// ========================================
// REQUEST ADOPTION
// ========================================

func (c *coordinator) RequestAdoption(ctx context.Context, req adoptionModel.SubmitRequestRequest) (adoptionModel.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return adoptionModel.RequestResponse{}, err
	}

	animalID, err := uuid.Parse(req.AnimalID)
	if err != nil {
		return adoptionModel.RequestResponse{}, adoptionModel.ErrValidationFailed
	}

	// Request chỉ được gắn với animal đang tồn tại trong catalog.
	// Tên tại thời điểm này trở thành snapshot của request.
	animal, err := c.catalog.GetByID(ctx, animalID)
	if err != nil {
		return adoptionModel.RequestResponse{}, err
	}

	request, err := c.adoptions.Submit(ctx, req, animal.ID, animal.Name)
	if err != nil {
		return adoptionModel.RequestResponse{}, err
	}

	return adoptionModel.ToRequestResponse(request, animal.Name), nil
}

// ========================================
// APPROVE
// ========================================

func (c *coordinator) ApproveRequest(ctx context.Context, requestID uuid.UUID) (adoptionModel.RequestResponse, error) {
	request, err := c.adoptions.Approve(ctx, requestID)
	if err != nil {
		return adoptionModel.RequestResponse{}, err
	}

	return adoptionModel.ToRequestResponse(request, c.displayName(ctx, request)), nil
}

// ========================================
// LISTING (với resolved display names)
// ========================================

func (c *coordinator) ListRequests(ctx context.Context) ([]adoptionModel.RequestResponse, error) {
	requests, err := c.adoptions.List(ctx)
	if err != nil {
		return nil, err
	}
	return c.resolveAll(ctx, requests), nil
}

func (c *coordinator) ListPendingRequests(ctx context.Context) ([]adoptionModel.RequestResponse, error) {
	requests, err := c.adoptions.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	return c.resolveAll(ctx, requests), nil
}

// resolveAll map animal IDs sang tên HIỆN TẠI trong catalog.
// Animal đổi tên sau khi submit → hiển thị tên mới.
// Animal đã bị xóa → fallback về snapshot lưu trong request.
func (c *coordinator) resolveAll(ctx context.Context, requests []adoptionModel.Request) []adoptionModel.RequestResponse {
	names := c.currentNames(ctx)

	responses := make([]adoptionModel.RequestResponse, 0, len(requests))
	for i := range requests {
		req := &requests[i]
		display := req.AnimalName
		if current, ok := names[req.AnimalID]; ok {
			display = current
		}
		responses = append(responses, adoptionModel.ToRequestResponse(req, display))
	}
	return responses
}

func (c *coordinator) currentNames(ctx context.Context) map[uuid.UUID]string {
	animals, err := c.catalog.List(ctx)
	if err != nil {
		// Catalog tạm thời không đọc được - dùng snapshots, đừng fail listing
		logger.Error("Name resolution fell back to snapshots", err)
		return nil
	}

	names := make(map[uuid.UUID]string, len(animals))
	for i := range animals {
		names[animals[i].ID] = animals[i].Name
	}
	return names
}

func (c *coordinator) displayName(ctx context.Context, request *adoptionModel.Request) string {
	animal, err := c.catalog.GetByID(ctx, request.AnimalID)
	if err != nil {
		if !errors.Is(err, animalModel.ErrAnimalNotFound) {
			logger.Error("Display name lookup failed, using snapshot", err)
		}
		return request.AnimalName
	}
	return animal.Name
}
