package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	adoptionModel "adoption-center-backend/internal/domains/adoption/model"
	animalModel "adoption-center-backend/internal/domains/animal/model"
	"adoption-center-backend/internal/domains/shelter/service"
	"adoption-center-backend/internal/shared"
	"adoption-center-backend/internal/shared/response"
)

// Handler expose adoption request endpoints qua coordination facade
type Handler struct {
	coordinator service.Coordinator
}

func NewHandler(coordinator service.Coordinator) *Handler {
	return &Handler{coordinator: coordinator}
}

// SubmitRequest - POST /v1/adoptions
func (h *Handler) SubmitRequest(c *gin.Context) {
	var req adoptionModel.SubmitRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.coordinator.RequestAdoption(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// ListRequests - GET /v1/admin/adoptions
func (h *Handler) ListRequests(c *gin.Context) {
	requests, err := h.coordinator.ListRequests(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, requests)
}

// ListPendingRequests - GET /v1/admin/adoptions/pending
func (h *Handler) ListPendingRequests(c *gin.Context) {
	requests, err := h.coordinator.ListPendingRequests(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, requests)
}

// ApproveRequest - POST /v1/admin/adoptions/:id/approve
func (h *Handler) ApproveRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid request id")
		return
	}

	result, err := h.coordinator.ApproveRequest(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, adoptionModel.ErrValidationFailed):
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	case errors.Is(err, animalModel.ErrAnimalNotFound):
		response.NotFound(c, "animal not found")
	case errors.Is(err, adoptionModel.ErrRequestNotFound):
		response.NotFound(c, "adoption request not found")
	case errors.Is(err, adoptionModel.ErrAnimalAdopted):
		response.Conflict(c, "animal already adopted through another request")
	case errors.Is(err, shared.ErrStoreUnavailable):
		response.ErrorResponse(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "request store unavailable")
	default:
		response.InternalServerError(c, "unexpected error")
	}
}
