package mocks

import (
	"context"

	"foodshare/internal/model"
	"foodshare/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockDonationService struct {
	mock.Mock
}

func donation(args mock.Arguments) (*model.Donation, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Donation), args.Error(1)
}

func donations(args mock.Arguments) ([]model.Donation, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Donation), args.Error(1)
}

func (m *MockDonationService) Create(ctx context.Context, in service.CreateDonationInput, actor model.Identity) (*model.Donation, error) {
	return donation(m.Called(ctx, in, actor))
}

func (m *MockDonationService) List(ctx context.Context) ([]model.Donation, error) {
	return donations(m.Called(ctx))
}

func (m *MockDonationService) ListForUser(ctx context.Context, userID string) ([]model.Donation, error) {
	return donations(m.Called(ctx, userID))
}

func (m *MockDonationService) Get(ctx context.Context, id string) (*model.Donation, error) {
	return donation(m.Called(ctx, id))
}

func (m *MockDonationService) Update(ctx context.Context, id string, in service.UpdateDonationInput, actor model.Identity) (*model.Donation, error) {
	return donation(m.Called(ctx, id, in, actor))
}

func (m *MockDonationService) Remove(ctx context.Context, id string, actor model.Identity) error {
	args := m.Called(ctx, id, actor)
	return args.Error(0)
}

func (m *MockDonationService) Claim(ctx context.Context, id string, actor model.Identity) (*model.Donation, error) {
	return donation(m.Called(ctx, id, actor))
}

func (m *MockDonationService) Expire(ctx context.Context, id string, actor model.Identity) (*model.Donation, error) {
	return donation(m.Called(ctx, id, actor))
}
