package mocks

import (
	"context"

	"foodshare/internal/model"
	"foodshare/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockDonationRepository struct {
	mock.Mock
}

func (m *MockDonationRepository) Insert(ctx context.Context, d *model.Donation) (string, error) {
	args := m.Called(ctx, d)
	return args.String(0), args.Error(1)
}

func (m *MockDonationRepository) FindAll(ctx context.Context) ([]model.Donation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Donation), args.Error(1)
}

func (m *MockDonationRepository) FindByID(ctx context.Context, id string) (*model.Donation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Donation), args.Error(1)
}

func (m *MockDonationRepository) FindByParticipant(ctx context.Context, userID string) ([]model.Donation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Donation), args.Error(1)
}

func (m *MockDonationRepository) UpdateByID(ctx context.Context, id string, patch repository.DonationPatch, cond *repository.UpdateCondition) (bool, error) {
	args := m.Called(ctx, id, patch, cond)
	return args.Bool(0), args.Error(1)
}

func (m *MockDonationRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
