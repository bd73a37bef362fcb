package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"adoption-center-backend/internal/domains/animal/service"
	"adoption-center-backend/internal/shared"
)

// ReconcilePhotosHandler: scheduled sweep xóa blobs không còn được
// catalog reference (upload thành công nhưng metadata write fail,
// hoặc animal đã bị xóa)
type ReconcilePhotosHandler struct {
	pipeline service.PhotoPipeline
}

func NewReconcilePhotosHandler(pipeline service.PhotoPipeline) *ReconcilePhotosHandler {
	return &ReconcilePhotosHandler{pipeline: pipeline}
}

func (h *ReconcilePhotosHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ReconcileOrphanPhotosPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ReconcileOrphanPhotos payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	grace := time.Duration(payload.GracePeriodMinutes) * time.Minute
	if grace <= 0 {
		grace = time.Hour
	}

	log.Info().
		Dur("grace_period", grace).
		Msg("Starting orphan photo sweep")

	deleted, err := h.pipeline.ReconcileOrphans(ctx, grace)
	if err != nil {
		log.Error().Err(err).Msg("Orphan photo sweep failed")
		return fmt.Errorf("reconcile orphans: %w", err)
	}

	log.Info().
		Int("deleted", deleted).
		Msg("Orphan photo sweep finished")

	return nil
}
