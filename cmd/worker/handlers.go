package main

import (
	"github.com/hibiken/asynq"

	adoptionJob "adoption-center-backend/internal/domains/adoption/job"
	animalJob "adoption-center-backend/internal/domains/animal/job"
	"adoption-center-backend/internal/infrastructure/email"
	"adoption-center-backend/internal/shared"
	"adoption-center-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Photo pipeline
	processPhoto    *animalJob.ProcessPhotoHandler
	reconcilePhotos *animalJob.ReconcilePhotosHandler

	// Notifications
	approvalEmail *adoptionJob.ApprovalEmailHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	emailSvc := email.NewEmailService(c.Config.SMTP)

	return &HandlerRegistry{
		processPhoto:    animalJob.NewProcessPhotoHandler(c.PhotoPipeline),
		reconcilePhotos: animalJob.NewReconcilePhotosHandler(c.PhotoPipeline),
		approvalEmail:   adoptionJob.NewApprovalEmailHandler(emailSvc),
	}
}

func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Photo pipeline tasks
	mux.HandleFunc(shared.TypeProcessAnimalPhoto, h.processPhoto.ProcessTask)
	mux.HandleFunc(shared.TypeReconcileOrphanPhotos, h.reconcilePhotos.ProcessTask)

	// Notification tasks
	mux.HandleFunc(shared.TypeSendApprovalEmail, h.approvalEmail.ProcessTask)
}
