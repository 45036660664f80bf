package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ierr "github.com/upassistify/upassistify/internal/errors"
)

type sampleRequest struct {
	Email string `validate:"required,email"`
	Count int    `validate:"min=1"`
}

func TestValidateRequest(t *testing.T) {
	NewValidator()

	require.NoError(t, ValidateRequest(sampleRequest{Email: "a@b.co", Count: 1}))

	err := ValidateRequest(sampleRequest{Email: "nope", Count: 0})
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))

	details := ierr.ReportableDetails(err)
	assert.Contains(t, details, "Email")
	assert.Contains(t, details, "Count")
}
