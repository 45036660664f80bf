package service

import (
	"context"

	"github.com/upassistify/upassistify/internal/api/dto"
	"github.com/upassistify/upassistify/internal/email"
	"github.com/upassistify/upassistify/internal/metrics"
)

// NotificationService sends the transactional emails triggered by the frontend
type NotificationService interface {
	SendSignupWelcome(ctx context.Context, req dto.WelcomeEmailRequest) (*dto.SendEmailResponse, error)
	SendProfileWelcome(ctx context.Context, req dto.WelcomeEmailRequest) (*dto.SendEmailResponse, error)
	SendPasswordReset(ctx context.Context, req dto.PasswordResetEmailRequest) (*dto.SendEmailResponse, error)
	SendPurchaseConfirmation(ctx context.Context, req dto.PurchaseConfirmationRequest) (*dto.SendEmailResponse, error)
}

type notificationService struct {
	ServiceParams
}

func NewNotificationService(params ServiceParams) NotificationService {
	return &notificationService{ServiceParams: params}
}

func (s *notificationService) SendSignupWelcome(ctx context.Context, req dto.WelcomeEmailRequest) (*dto.SendEmailResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.record("signup_welcome", func() (string, error) {
		return s.EmailService.SendSignupWelcome(ctx, req.Email, req.Name)
	})
}

func (s *notificationService) SendProfileWelcome(ctx context.Context, req dto.WelcomeEmailRequest) (*dto.SendEmailResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.record("profile_welcome", func() (string, error) {
		return s.EmailService.SendProfileWelcome(ctx, req.Email, req.Name)
	})
}

func (s *notificationService) SendPasswordReset(ctx context.Context, req dto.PasswordResetEmailRequest) (*dto.SendEmailResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.record("password_reset", func() (string, error) {
		return s.EmailService.SendPasswordReset(ctx, req.Email, req.ResetLink)
	})
}

func (s *notificationService) SendPurchaseConfirmation(ctx context.Context, req dto.PurchaseConfirmationRequest) (*dto.SendEmailResponse, error) {
	amount, err := req.Validate()
	if err != nil {
		return nil, err
	}
	return s.record("purchase_confirmation", func() (string, error) {
		return s.EmailService.SendPurchaseConfirmation(ctx, email.PurchaseConfirmation{
			Email:         req.Email,
			Name:          req.Name,
			Plan:          req.Plan,
			Amount:        amount,
			TransactionID: req.TransactionID,
		})
	})
}

// record runs send and counts the outcome under kind
func (s *notificationService) record(kind string, send func() (string, error)) (*dto.SendEmailResponse, error) {
	id, err := send()
	if err != nil {
		s.Metrics.EmailsSent.WithLabelValues(kind, metrics.OutcomeError).Inc()
		s.Sentry.CaptureWithTags(err, map[string]string{"email_kind": kind})
		return nil, err
	}

	s.Metrics.EmailsSent.WithLabelValues(kind, metrics.OutcomeSuccess).Inc()
	return &dto.SendEmailResponse{Success: true, ID: id}, nil
}
