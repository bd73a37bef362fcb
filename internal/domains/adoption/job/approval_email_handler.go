package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"adoption-center-backend/internal/infrastructure/email"
	"adoption-center-backend/internal/shared"
)

// ApprovalEmailHandler gửi notification đến shelter inbox sau khi
// một request được approve
type ApprovalEmailHandler struct {
	emailService *email.EmailService
}

func NewApprovalEmailHandler(emailService *email.EmailService) *ApprovalEmailHandler {
	return &ApprovalEmailHandler{emailService: emailService}
}

func (h *ApprovalEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.SendApprovalEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal SendApprovalEmail payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().
		Str("request_id", payload.RequestID).
		Str("animal_name", payload.AnimalName).
		Msg("Sending approval notification")

	err := h.emailService.SendApprovalNotification(payload.AnimalName, payload.AdopterName, payload.AdopterAddress)
	if err != nil {
		log.Error().
			Err(err).
			Str("request_id", payload.RequestID).
			Msg("Failed to send approval notification")
		return fmt.Errorf("send approval email: %w", err)
	}

	return nil
}
