package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"userportal/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByName(ctx context.Context, name string) (*model.User, error) {
	args := m.Called(ctx, name)
	return userArg(args)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	return userArg(args)
}

func (m *MockUserRepository) FindByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	args := m.Called(ctx, externalID)
	return userArg(args)
}

func (m *MockUserRepository) FindFirstAdmin(ctx context.Context) (*model.User, error) {
	args := m.Called(ctx)
	return userArg(args)
}

func (m *MockUserRepository) ListNonAdmins(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateNameByEmail(ctx context.Context, email, name string) (*model.User, error) {
	args := m.Called(ctx, email, name)
	return userArg(args)
}

func (m *MockUserRepository) DeleteByName(ctx context.Context, name string) (*model.User, error) {
	args := m.Called(ctx, name)
	return userArg(args)
}

func (m *MockUserRepository) LinkExternalID(ctx context.Context, userID uint, externalID string) error {
	args := m.Called(ctx, userID, externalID)
	return args.Error(0)
}

func userArg(args mock.Arguments) (*model.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
