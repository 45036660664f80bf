package user

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Jane Doe", (&Profile{Email: "jane@example.com", FullName: lo.ToPtr("Jane Doe")}).DisplayName())
	assert.Equal(t, "jane", (&Profile{Email: "jane@example.com", FullName: lo.ToPtr("  ")}).DisplayName())
	assert.Equal(t, "jane", (&Profile{Email: "jane@example.com"}).DisplayName())
}
