package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"adoption-center-backend/internal/domains/animal/model"
	"adoption-center-backend/internal/domains/animal/service"
	"adoption-center-backend/internal/infrastructure/storage"
	"adoption-center-backend/internal/shared"
	"adoption-center-backend/internal/shared/response"
)

type Handler struct {
	service service.Service
}

func NewHandler(service service.Service) *Handler {
	return &Handler{service: service}
}

// ListAnimals - GET /v1/animals
// Serve từ live projection, không query DB per-request
func (h *Handler) ListAnimals(c *gin.Context) {
	animals, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, model.ToAnimalResponses(animals))
}

// GetAnimal - GET /v1/animals/:id
func (h *Handler) GetAnimal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid animal id")
		return
	}

	animal, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, model.ToAnimalResponse(animal))
}

// RegisterAnimal - POST /v1/admin/animals (multipart)
// Photo: field "photo" (file upload) HOẶC "photo_url" (remote fetch)
func (h *Handler) RegisterAnimal(c *gin.Context) {
	var req model.RegisterAnimalRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	photo, ok := photoFromRequest(c)
	if !ok {
		response.BadRequest(c, "photo file or photo_url is required")
		return
	}

	animal, err := h.service.Register(c.Request.Context(), req, photo)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, model.ToAnimalResponse(animal))
}

// DeleteAnimal - DELETE /v1/admin/animals/:id
// Idempotent: xóa id không tồn tại vẫn trả 204
func (h *Handler) DeleteAnimal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid animal id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func photoFromRequest(c *gin.Context) (model.PhotoRef, bool) {
	if file, err := c.FormFile("photo"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, false
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return nil, false
		}
		return model.PhotoFromUpload(file.Filename, data), true
	}

	if url := c.PostForm("photo_url"); url != "" {
		return model.PhotoFromURL(url), true
	}

	return nil, false
}

// respondError map domain errors sang HTTP status
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrValidationFailed):
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	case errors.Is(err, storage.ErrReadFailed):
		response.ErrorResponse(c, http.StatusUnprocessableEntity, "PHOTO_READ_FAILED", err.Error())
	case errors.Is(err, storage.ErrUploadFailed):
		response.ErrorResponse(c, http.StatusServiceUnavailable, "UPLOAD_FAILED", "photo upload failed, try again later")
	case errors.Is(err, model.ErrAnimalNotFound):
		response.NotFound(c, "animal not found")
	case errors.Is(err, shared.ErrStoreUnavailable):
		response.ErrorResponse(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "catalog store unavailable")
	default:
		response.InternalServerError(c, "unexpected error")
	}
}
