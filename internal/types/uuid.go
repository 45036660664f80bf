package types

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex cpn_01HZX3K4V6B9Q2W8E5R7T1Y0UA
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

const (
	UUID_PREFIX_COUPON     = "cpn"
	UUID_PREFIX_NEWSLETTER = "nws"
	UUID_PREFIX_BLOG_POST  = "post"
	UUID_PREFIX_IMAGE      = "img"
)
