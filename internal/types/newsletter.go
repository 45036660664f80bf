package types

// NewsletterStatus is the lifecycle state of a scheduled newsletter.
// Transitions: pending -> processing -> sent | failed.
type NewsletterStatus string

const (
	NewsletterStatusPending    NewsletterStatus = "pending"
	NewsletterStatusProcessing NewsletterStatus = "processing"
	NewsletterStatusSent       NewsletterStatus = "sent"
	NewsletterStatusFailed     NewsletterStatus = "failed"
)

// IsTerminal reports whether no further transition is allowed
func (s NewsletterStatus) IsTerminal() bool {
	return s == NewsletterStatusSent || s == NewsletterStatusFailed
}
