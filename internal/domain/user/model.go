package user

import (
	"strings"
	"time"

	"github.com/upassistify/upassistify/internal/types"
)

// Profile mirrors the account profile kept by the auth backend
type Profile struct {
	ID        string         `json:"id" db:"id"`
	Email     string         `json:"email" db:"email"`
	FullName  *string        `json:"full_name" db:"full_name"`
	PlanType  types.PlanType `json:"plan_type" db:"plan_type"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

// DisplayName returns the full name, falling back to the local part of the email
func (p *Profile) DisplayName() string {
	if p.FullName != nil && strings.TrimSpace(*p.FullName) != "" {
		return *p.FullName
	}
	return DisplayNameFromEmail(p.Email)
}

// DisplayNameFromEmail returns the local part of an email address
func DisplayNameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
