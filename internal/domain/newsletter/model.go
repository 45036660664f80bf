package newsletter

import (
	"strings"
	"time"

	"github.com/upassistify/upassistify/internal/types"
)

// ScheduledNewsletter is a newsletter queued for delivery at ScheduledFor
type ScheduledNewsletter struct {
	ID              string                 `json:"id" db:"id"`
	Subject         string                 `json:"subject" db:"subject"`
	Message         string                 `json:"message" db:"message"`
	ScheduledFor    time.Time              `json:"scheduled_for" db:"scheduled_for"`
	Status          types.NewsletterStatus `json:"status" db:"status"`
	SentAt          *time.Time             `json:"sent_at" db:"sent_at"`
	ErrorMessage    *string                `json:"error_message" db:"error_message"`
	RecipientsCount int                    `json:"recipients_count" db:"recipients_count"`
	ClaimedAt       *time.Time             `json:"claimed_at" db:"claimed_at"`
	CreatedBy       string                 `json:"created_by" db:"created_by"`
	CreatedAt       time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at" db:"updated_at"`
}

// IsDue reports whether a pending newsletter should be delivered at now
func (n *ScheduledNewsletter) IsDue(now time.Time) bool {
	return n.Status == types.NewsletterStatusPending && !n.ScheduledFor.After(now)
}

// Paragraphs splits the message body on newlines, dropping blank lines
func Paragraphs(message string) []string {
	lines := strings.Split(message, "\n")
	paragraphs := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	return paragraphs
}
