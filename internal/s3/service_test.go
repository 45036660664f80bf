package s3

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upassistify/upassistify/internal/config"
	ierr "github.com/upassistify/upassistify/internal/errors"
)

type memoryStore struct {
	objects map[string]string
}

func (m *memoryStore) PutObject(_ context.Context, key string, _ []byte, contentType string) error {
	m.objects[key] = contentType
	return nil
}

func (m *memoryStore) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

// smallest valid PNG signature plus IHDR chunk header
var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52}

func TestUploadImage(t *testing.T) {
	cfg := config.GetDefaultConfig()
	store := &memoryStore{objects: map[string]string{}}
	svc := NewImageService(cfg, store)

	img, err := svc.UploadImage(context.Background(), pngHeader)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(img.Key, "blog-images/img_"))
	assert.True(t, strings.HasSuffix(img.Key, ".png"))
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, "https://cdn.example.com/"+img.Key, img.URL)
	assert.Equal(t, "image/png", store.objects[img.Key])
}

func TestUploadImageRejections(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.S3.MaxUploadBytes = 8
	svc := NewImageService(cfg, &memoryStore{objects: map[string]string{}})

	_, err := svc.UploadImage(context.Background(), nil)
	assert.True(t, ierr.IsValidation(err))

	_, err = svc.UploadImage(context.Background(), pngHeader)
	assert.True(t, ierr.IsValidation(err))

	cfg.S3.MaxUploadBytes = 0
	svc = NewImageService(cfg, &memoryStore{objects: map[string]string{}})
	_, err = svc.UploadImage(context.Background(), []byte("plain text, not an image"))
	assert.True(t, ierr.IsValidation(err))

	disabled := NewImageService(cfg, nil)
	_, err = disabled.UploadImage(context.Background(), pngHeader)
	assert.True(t, ierr.IsInvalidOperation(err))
}
