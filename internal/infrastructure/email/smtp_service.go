package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"adoption-center-backend/internal/config"
	"adoption-center-backend/pkg/logger"
)

// EmailService gửi transactional email qua SMTP
type EmailService struct {
	cfg config.SMTPConfig
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendApprovalNotification báo cho shelter inbox khi một adoption request
// được approve. Best-effort: worker retry qua asynq nếu SMTP down.
func (s *EmailService) SendApprovalNotification(animalName, adopterName, adopterAddress string) error {
	subject := fmt.Sprintf("Adoption approved: %s", animalName)

	var body strings.Builder
	body.WriteString(fmt.Sprintf("The adoption request for %s has been approved.\r\n\r\n", animalName))
	body.WriteString(fmt.Sprintf("Adopter: %s\r\n", adopterName))
	body.WriteString(fmt.Sprintf("Address: %s\r\n", adopterAddress))
	body.WriteString("\r\nPlease prepare the handover paperwork.\r\n")

	return s.send(s.cfg.ShelterInbox, subject, body.String())
}

func (s *EmailService) send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		s.cfg.From, to, subject, body,
	))

	// Dev dùng mailhog (port 1025) - không cần auth
	if err := smtp.SendMail(addr, nil, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	logger.Info("Email sent", map[string]interface{}{
		"to":      to,
		"subject": subject,
	})
	return nil
}
