package v1

import (
	ierr "github.com/upassistify/upassistify/internal/errors"
)

func invalidRequest(err error) error {
	return ierr.WithError(err).
		WithHint("Invalid request format").
		Mark(ierr.ErrValidation)
}
