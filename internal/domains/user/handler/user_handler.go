package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"adoption-center-backend/internal/domains/user"
	"adoption-center-backend/internal/shared"
	"adoption-center-backend/internal/shared/response"
)

type Handler struct {
	service user.Service
}

func NewHandler(service user.Service) *Handler {
	return &Handler{service: service}
}

// Register - POST /v1/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	dto, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, dto)
}

// Login - POST /v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// GetProfile - GET /v1/me (authenticated)
func (h *Handler) GetProfile(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, ok := userID.(uuid.UUID)
	if !ok {
		response.Unauthorized(c, "invalid authentication context")
		return
	}

	dto, err := h.service.GetProfile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, user.ErrValidationFailed):
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	case errors.Is(err, user.ErrEmailAlreadyExists):
		response.Conflict(c, "email already registered")
	case errors.Is(err, user.ErrInvalidCredentials):
		response.Unauthorized(c, "invalid email or password")
	case errors.Is(err, user.ErrUserInactive):
		response.Forbidden(c, "account is deactivated")
	case errors.Is(err, user.ErrUserNotFound):
		response.NotFound(c, "user not found")
	case errors.Is(err, shared.ErrStoreUnavailable):
		response.ErrorResponse(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "user store unavailable")
	default:
		response.InternalServerError(c, "unexpected error")
	}
}
