package dto

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/types"
	"github.com/upassistify/upassistify/internal/validator"
)

// WelcomeEmailRequest is shared by the signup and profile welcome emails
type WelcomeEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name,omitempty"`
}

func (r *WelcomeEmailRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type PasswordResetEmailRequest struct {
	Email     string `json:"email" validate:"required,email"`
	ResetLink string `json:"resetLink" validate:"required,url"`
}

func (r *PasswordResetEmailRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type PurchaseConfirmationRequest struct {
	Email         string          `json:"email" validate:"required,email"`
	Name          string          `json:"name,omitempty"`
	Plan          types.PlanType  `json:"plan" validate:"required"`
	Amount        json.RawMessage `json:"amount" swaggertype:"number"`
	TransactionID string          `json:"transactionId,omitempty"`
}

// Validate returns the parsed amount
func (r *PurchaseConfirmationRequest) Validate() (decimal.Decimal, error) {
	if err := validator.ValidateRequest(r); err != nil {
		return decimal.Zero, err
	}

	amount, ok := ParsePositiveAmount(r.Amount)
	if !ok {
		return decimal.Zero, ierr.NewError("amount must be a positive number").
			WithHint("Valid amount is required").
			Mark(ierr.ErrValidation)
	}

	if strings.TrimSpace(string(r.Plan)) == "" {
		return decimal.Zero, ierr.NewError("plan is required").
			WithHint("Plan is required").
			Mark(ierr.ErrValidation)
	}

	return amount, nil
}

type SendEmailResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
}
