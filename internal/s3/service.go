package s3

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/h2non/filetype"
	"github.com/upassistify/upassistify/internal/config"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/types"
)

// Image is a stored blog image
type Image struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// ObjectStore uploads public assets
type ObjectStore interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) string
}

// ImageService validates images and stores them under the configured prefix
type ImageService interface {
	UploadImage(ctx context.Context, data []byte) (*Image, error)
}

type s3Store struct {
	client *s3.Client
	config *config.S3Config
}

// NewObjectStore returns nil when uploads are disabled
func NewObjectStore(cfg *config.Configuration) (ObjectStore, error) {
	if !cfg.S3.Enabled {
		return nil, nil
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(),
		awsConfig.WithRegion(cfg.S3.Region),
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to load aws config").
			Mark(ierr.ErrHTTPClient)
	}

	return &s3Store{
		config: &cfg.S3,
		client: s3.NewFromConfig(awsCfg),
	}, nil
}

func (s *s3Store) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to upload image").
			WithMessagef("bucket:%s, key:%s", s.config.Bucket, key).
			Mark(ierr.ErrHTTPClient)
	}
	return nil
}

func (s *s3Store) PublicURL(key string) string {
	if s.config.PublicBaseURL != "" {
		return strings.TrimRight(s.config.PublicBaseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.Bucket, s.config.Region, key)
}

type imageService struct {
	store     ObjectStore
	keyPrefix string
	maxBytes  int64
}

func NewImageService(cfg *config.Configuration, store ObjectStore) ImageService {
	return &imageService{
		store:     store,
		keyPrefix: strings.Trim(cfg.S3.KeyPrefix, "/"),
		maxBytes:  cfg.S3.MaxUploadBytes,
	}
}

func (s *imageService) UploadImage(ctx context.Context, data []byte) (*Image, error) {
	if s.store == nil {
		return nil, ierr.NewError("image storage is not configured").
			WithHint("Image uploads are disabled").
			Mark(ierr.ErrInvalidOperation)
	}

	if len(data) == 0 {
		return nil, ierr.NewError("empty upload").
			WithHint("Image file is required").
			Mark(ierr.ErrValidation)
	}

	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, ierr.NewErrorf("upload of %d bytes exceeds %d", len(data), s.maxBytes).
			WithHintf("Image must be at most %d bytes", s.maxBytes).
			Mark(ierr.ErrValidation)
	}

	if !filetype.IsImage(data) {
		return nil, ierr.NewError("upload is not an image").
			WithHint("Only image files can be uploaded").
			Mark(ierr.ErrValidation)
	}

	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return nil, ierr.NewError("unrecognized image format").
			WithHint("Only image files can be uploaded").
			Mark(ierr.ErrValidation)
	}

	key := types.GenerateUUIDWithPrefix(types.UUID_PREFIX_IMAGE) + "." + kind.Extension
	if s.keyPrefix != "" {
		key = s.keyPrefix + "/" + key
	}

	if err := s.store.PutObject(ctx, key, data, kind.MIME.Value); err != nil {
		return nil, err
	}

	return &Image{
		Key:         key,
		URL:         s.store.PublicURL(key),
		ContentType: kind.MIME.Value,
		Size:        int64(len(data)),
	}, nil
}
