package mocks

import (
	"context"
	"io"

	"foodshare/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockPhotoService struct {
	mock.Mock
}

func (m *MockPhotoService) Attach(ctx context.Context, id string, actor model.Identity, r io.Reader, filename, contentType string, size int64) (*model.Donation, error) {
	args := m.Called(ctx, id, actor, r, filename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Donation), args.Error(1)
}

func (m *MockPhotoService) URL(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
