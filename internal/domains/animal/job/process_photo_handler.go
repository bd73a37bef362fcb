package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"adoption-center-backend/internal/domains/animal/service"
	"adoption-center-backend/internal/shared"
)

// ProcessPhotoHandler xử lý resize và upload variants của ảnh animal
type ProcessPhotoHandler struct {
	pipeline service.PhotoPipeline
}

func NewProcessPhotoHandler(pipeline service.PhotoPipeline) *ProcessPhotoHandler {
	return &ProcessPhotoHandler{pipeline: pipeline}
}

func (h *ProcessPhotoHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ProcessAnimalPhotoPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ProcessAnimalPhoto payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	animalID, err := uuid.Parse(payload.AnimalID)
	if err != nil {
		// Payload hỏng - retry vô ích
		return fmt.Errorf("invalid animal id %q: %w", payload.AnimalID, asynq.SkipRetry)
	}

	log.Info().
		Str("animal_id", payload.AnimalID).
		Str("photo_key", payload.PhotoKey).
		Msg("Processing animal photo variants")

	if err := h.pipeline.ProcessPhoto(ctx, animalID, payload.PhotoKey); err != nil {
		log.Error().
			Err(err).
			Str("animal_id", payload.AnimalID).
			Msg("Failed to process animal photo")
		return fmt.Errorf("process photo: %w", err)
	}

	log.Info().
		Str("animal_id", payload.AnimalID).
		Msg("Animal photo processed successfully")

	return nil
}
