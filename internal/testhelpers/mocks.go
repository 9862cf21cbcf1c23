package testhelpers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/service"
)

// MockImageStore is a mock implementation of service.ImageStore
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Save(ctx context.Context, img *service.DecodedImage) (string, error) {
	args := m.Called(ctx, img)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Delete(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

// StaticImageStore returns the same URL for every image and records deletions.
type StaticImageStore struct {
	URL     string
	Saved   int
	Deleted []string
}

func (s *StaticImageStore) Save(_ context.Context, _ *service.DecodedImage) (string, error) {
	s.Saved++
	return s.URL, nil
}

func (s *StaticImageStore) Delete(_ context.Context, url string) error {
	s.Deleted = append(s.Deleted, url)
	return nil
}
