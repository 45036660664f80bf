package dto

import (
	"strings"
	"time"

	"github.com/upassistify/upassistify/internal/domain/newsletter"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/types"
	"github.com/upassistify/upassistify/internal/validator"
)

// ScheduleNewsletterRequest queues a newsletter for the sweeper
type ScheduleNewsletterRequest struct {
	Subject      string    `json:"subject" validate:"required"`
	Message      string    `json:"message" validate:"required"`
	ScheduledFor time.Time `json:"scheduled_for" validate:"required"`
}

func (r *ScheduleNewsletterRequest) Validate(now time.Time) error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if strings.TrimSpace(r.Subject) == "" || strings.TrimSpace(r.Message) == "" {
		return ierr.NewError("subject and message are required").
			WithHint("Subject and message are required").
			Mark(ierr.ErrValidation)
	}

	if !r.ScheduledFor.After(now) {
		return ierr.NewError("scheduled_for must be in the future").
			WithHint("Scheduled time must be in the future").
			Mark(ierr.ErrValidation)
	}

	return nil
}

func (r *ScheduleNewsletterRequest) ToNewsletter(createdBy string, now time.Time) *newsletter.ScheduledNewsletter {
	return &newsletter.ScheduledNewsletter{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_NEWSLETTER),
		Subject:      strings.TrimSpace(r.Subject),
		Message:      r.Message,
		ScheduledFor: r.ScheduledFor.UTC(),
		Status:       types.NewsletterStatusPending,
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

type NewsletterResponse struct {
	*newsletter.ScheduledNewsletter
}

type ListNewslettersResponse = types.ListResponse[*NewsletterResponse]

// SendNewsletterRequest sends a newsletter immediately.
// Without explicit recipients every profile with an email receives it.
type SendNewsletterRequest struct {
	Subject    string   `json:"subject" validate:"required"`
	Message    string   `json:"message" validate:"required"`
	Recipients []string `json:"recipients,omitempty" validate:"omitempty,dive,email"`
}

func (r *SendNewsletterRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type SendNewsletterResponse struct {
	Success bool `json:"success"`
	Sent    int  `json:"sent"`
	Failed  int  `json:"failed"`
}
