package notification

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/schedly/catalog-api/internal/config"
	"github.com/schedly/catalog-api/internal/model"
)

// Service notifies catalog administrators about availability changes
type Service interface {
	NotifyServiceChange(ctx context.Context, eventType string, payload *model.ServiceEventPayload) error
}

type emailService struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
}

func NewEmailService(cfg config.SMTPConfig) Service {
	return &emailService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *emailService) NotifyServiceChange(ctx context.Context, eventType string, payload *model.ServiceEventPayload) error {
	if s.cfg.AdminTo == "" {
		return nil
	}

	subject, body := s.renderMessage(eventType, payload)
	if subject == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", s.cfg.AdminTo)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send notification email: %w", err)
	}
	return nil
}

func (s *emailService) renderMessage(eventType string, p *model.ServiceEventPayload) (subject, body string) {
	switch eventType {
	case model.EventServiceDisabled:
		subject = fmt.Sprintf("Service disabled: %s", p.ServiceName)
		body = fmt.Sprintf(
			"The service %q (%s) was disabled at %s and is no longer bookable.",
			p.ServiceName, p.ServiceID, p.OccurredAt.Format("2006-01-02 15:04:05 MST"),
		)
	case model.EventServiceEnabled:
		subject = fmt.Sprintf("Service enabled: %s", p.ServiceName)
		body = fmt.Sprintf(
			"The service %q (%s) was enabled at %s. Duration: %d min, price: %.2f.",
			p.ServiceName, p.ServiceID, p.OccurredAt.Format("2006-01-02 15:04:05 MST"),
			p.Duration, p.Price,
		)
	case model.EventServiceDeleted:
		subject = fmt.Sprintf("Service removed: %s", p.ServiceName)
		body = fmt.Sprintf(
			"The service %q (%s) was removed from the catalog at %s.",
			p.ServiceName, p.ServiceID, p.OccurredAt.Format("2006-01-02 15:04:05 MST"),
		)
	}
	return subject, body
}
