package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/logging"
)

const recipeImagePrefix = "recipes/images"

// DecodedImage is an image submitted as a base64 data URI.
type DecodedImage struct {
	Data        []byte
	ContentType string
	Extension   string
}

// DecodeImage parses "data:image/<ext>;base64,<payload>" and checks that the payload
// really is an image.
func DecodeImage(dataURI string) (*DecodedImage, error) {
	header, payload, ok := strings.Cut(dataURI, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, errs.NewFieldError("image", "image must be a base64 data URI")
	}

	contentType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	subtype, found := strings.CutPrefix(contentType, "image/")
	if !found || subtype == "" {
		return nil, errs.NewFieldError("image", "unsupported image type")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errs.NewFieldError("image", "image is not valid base64")
	}
	if len(data) == 0 {
		return nil, errs.NewFieldError("image", "image is empty")
	}
	if sniffed := http.DetectContentType(data); !strings.HasPrefix(sniffed, "image/") {
		return nil, errs.NewFieldError("image", "uploaded file is not an image")
	}

	ext := subtype
	switch subtype {
	case "jpeg":
		ext = "jpg"
	case "svg+xml":
		ext = "svg"
	}

	return &DecodedImage{Data: data, ContentType: contentType, Extension: ext}, nil
}

// ImageStore persists recipe images and returns the URL to save on the recipe.
// Delete removes an image previously returned by Save; URLs the store did not
// issue are ignored.
type ImageStore interface {
	Save(ctx context.Context, img *DecodedImage) (string, error)
	Delete(ctx context.Context, url string) error
}

// NewImageStore picks S3 when a bucket is configured, the media directory otherwise.
func NewImageStore(cfg *config.Config, s3Config *config.S3Config) ImageStore {
	if s3Config != nil {
		return NewS3ImageStore(s3Config)
	}
	return NewDiskImageStore(cfg.MediaDir, cfg.MediaURL)
}

// S3ImageStore uploads images to an S3 bucket.
type S3ImageStore struct {
	s3Config *config.S3Config
}

func NewS3ImageStore(s3Config *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3Config: s3Config}
}

// Save uploads image data to S3 and returns the public URL
func (s *S3ImageStore) Save(ctx context.Context, img *DecodedImage) (string, error) {
	key := fmt.Sprintf("%s/%s.%s", recipeImagePrefix, uuid.New().String(), img.Extension)

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := s.urlPrefix() + key
	logging.Debug().Str("url", publicURL).Msg("uploaded recipe image to S3")
	return publicURL, nil
}

// Delete removes the object behind a URL returned by Save.
func (s *S3ImageStore) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.urlPrefix())
	if !ok || !strings.HasPrefix(key, recipeImagePrefix+"/") {
		return nil
	}

	_, err := s.s3Config.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

func (s *S3ImageStore) urlPrefix() string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/", s.s3Config.BucketName)
}

// DiskImageStore writes images below a media directory served at baseURL.
type DiskImageStore struct {
	dir     string
	baseURL string
}

func NewDiskImageStore(dir, baseURL string) *DiskImageStore {
	return &DiskImageStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *DiskImageStore) Save(_ context.Context, img *DecodedImage) (string, error) {
	name := fmt.Sprintf("%s.%s", uuid.New().String(), img.Extension)
	dir := filepath.Join(s.dir, filepath.FromSlash(recipeImagePrefix))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), img.Data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	return s.baseURL + "/" + recipeImagePrefix + "/" + name, nil
}

func (s *DiskImageStore) Delete(_ context.Context, url string) error {
	name, ok := strings.CutPrefix(url, s.baseURL+"/"+recipeImagePrefix+"/")
	if !ok || name == "" || strings.ContainsAny(name, `/\`) || name == ".." {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(recipeImagePrefix), name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}
