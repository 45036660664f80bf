package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/upassistify/upassistify/internal/config"
	"github.com/upassistify/upassistify/internal/domain/newsletter"
	"github.com/upassistify/upassistify/internal/domain/user"
	"github.com/upassistify/upassistify/internal/logger"
	"github.com/upassistify/upassistify/internal/types"
)

// Service renders and sends the product's transactional emails
type Service struct {
	mailer  Mailer
	siteURL string
	logger  *logger.Logger
}

func NewService(cfg *config.Configuration, mailer Mailer, logger *logger.Logger) *Service {
	return &Service{
		mailer:  mailer,
		siteURL: strings.TrimRight(cfg.Email.SiteURL, "/"),
		logger:  logger,
	}
}

// NewsletterContent is a rendered newsletter ready to be sent to many recipients
type NewsletterContent struct {
	Subject string
	HTML    string
	Text    string
}

// RenderNewsletter renders a newsletter once; each message line becomes a paragraph
func (s *Service) RenderNewsletter(subject, message string) (*NewsletterContent, error) {
	html, err := Render(TemplateNewsletter, map[string]any{
		"Paragraphs": newsletter.Paragraphs(message),
	})
	if err != nil {
		return nil, err
	}
	return &NewsletterContent{Subject: subject, HTML: html, Text: message}, nil
}

// SendNewsletter delivers rendered content to one recipient
func (s *Service) SendNewsletter(ctx context.Context, to string, content *NewsletterContent) error {
	_, err := s.mailer.Send(ctx, Message{
		To:      to,
		Subject: content.Subject,
		HTML:    content.HTML,
		Text:    content.Text,
	})
	return err
}

func displayName(name, email string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return user.DisplayNameFromEmail(email)
}

func (s *Service) SendSignupWelcome(ctx context.Context, to, name string) (string, error) {
	return s.send(ctx, to, "Welcome to UpAssistify!", TemplateSignupWelcome, map[string]any{
		"Name":    displayName(name, to),
		"SiteURL": s.siteURL,
	})
}

func (s *Service) SendProfileWelcome(ctx context.Context, to, name string) (string, error) {
	return s.send(ctx, to, "Welcome to UpAssistify - Your Profile is Complete!", TemplateProfileWelcome, map[string]any{
		"Name":    displayName(name, to),
		"SiteURL": s.siteURL,
	})
}

func (s *Service) SendPasswordReset(ctx context.Context, to, resetLink string) (string, error) {
	return s.send(ctx, to, "Reset Your Password", TemplatePasswordReset, map[string]any{
		"ResetLink": resetLink,
	})
}

// PurchaseConfirmation is the receipt sent after a successful checkout
type PurchaseConfirmation struct {
	Email         string
	Name          string
	Plan          types.PlanType
	Amount        decimal.Decimal
	TransactionID string
}

func (s *Service) SendPurchaseConfirmation(ctx context.Context, p PurchaseConfirmation) (string, error) {
	plan := types.GetPlanDetails(p.Plan)
	return s.send(ctx, p.Email, fmt.Sprintf("Payment Confirmed - %s", plan.Title), TemplatePurchaseConfirmation, map[string]any{
		"Name":          displayName(p.Name, p.Email),
		"Plan":          plan,
		"Amount":        "$" + types.RoundCurrency(p.Amount).StringFixed(2),
		"TransactionID": p.TransactionID,
		"SiteURL":       s.siteURL,
	})
}

func (s *Service) send(ctx context.Context, to, subject, tmpl string, data map[string]any) (string, error) {
	html, err := Render(tmpl, data)
	if err != nil {
		s.logger.Errorw("failed to render email", "template", tmpl, "error", err)
		return "", err
	}

	id, err := s.mailer.Send(ctx, Message{To: to, Subject: subject, HTML: html})
	if err != nil {
		s.logger.Errorw("failed to send email", "template", tmpl, "to", to, "error", err)
		return "", err
	}

	s.logger.Infow("email sent", "template", tmpl, "to", to, "message_id", id)
	return id, nil
}
