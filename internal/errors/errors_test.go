package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewError("bad").Mark(ErrValidation), http.StatusBadRequest},
		{"invalid operation", NewError("expired").Mark(ErrInvalidOperation), http.StatusBadRequest},
		{"unauthenticated", NewError("no token").Mark(ErrUnauthenticated), http.StatusUnauthorized},
		{"permission denied", NewError("not admin").Mark(ErrPermissionDenied), http.StatusForbidden},
		{"already exists", NewError("dup").Mark(ErrAlreadyExists), http.StatusConflict},
		{"database", NewError("conn").Mark(ErrDatabase), http.StatusInternalServerError},
		{"http client", NewError("stripe down").Mark(ErrHTTPClient), http.StatusInternalServerError},
		{"unmarked", NewError("boom").Error(), http.StatusInternalServerError},
		{"validation over database", WithError(NewError("bad row").Mark(ErrDatabase)).Mark(ErrValidation), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromErr(tt.err))
		})
	}
}

func TestDisplayMessageAndDetails(t *testing.T) {
	err := NewError("coupon expired").
		WithHint("This coupon has expired").
		WithReportableDetails(map[string]any{"reason": "expired"}).
		Mark(ErrInvalidOperation)

	assert.Equal(t, "This coupon has expired", DisplayMessage(err, "fallback"))
	assert.Equal(t, map[string]any{"reason": "expired"}, ReportableDetails(err))
	assert.True(t, IsInvalidOperation(err))
	assert.False(t, IsValidation(err))

	plain := NewError("no hint").Mark(ErrSystem)
	assert.Equal(t, "fallback", DisplayMessage(plain, "fallback"))
	assert.Empty(t, ReportableDetails(plain))
}
