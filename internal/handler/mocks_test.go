package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"userportal/internal/auth"
	"userportal/internal/model"
	"userportal/internal/service"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, name, password, email string) (*model.User, error) {
	args := m.Called(ctx, name, password, email)
	return userArg(args)
}

func (m *MockAuthService) Login(ctx context.Context, name, password string) (*model.User, error) {
	args := m.Called(ctx, name, password)
	return userArg(args)
}

func (m *MockAuthService) AdminLogin(ctx context.Context, name, password string) (*model.User, error) {
	args := m.Called(ctx, name, password)
	return userArg(args)
}

func (m *MockAuthService) ResolveExternal(ctx context.Context, profile *auth.ExternalProfile) (*service.ExternalResolution, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExternalResolution), args.Error(1)
}

func (m *MockAuthService) LinkExternal(ctx context.Context, linkToken, password string) (*model.User, error) {
	args := m.Called(ctx, linkToken, password)
	return userArg(args)
}

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, name string) (*model.User, error) {
	args := m.Called(ctx, name)
	return userArg(args)
}

func (m *MockUserService) UpdateName(ctx context.Context, email, name string) (*model.User, error) {
	args := m.Called(ctx, email, name)
	return userArg(args)
}

func (m *MockUserService) DeleteUser(ctx context.Context, name string) (*model.User, error) {
	args := m.Called(ctx, name)
	return userArg(args)
}

func userArg(args mock.Arguments) (*model.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// fakeProvider is an auth.IdentityProvider returning a fixed profile.
type fakeProvider struct {
	profile *auth.ExternalProfile
	err     error
}

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (p *fakeProvider) Exchange(context.Context, string) (*auth.ExternalProfile, error) {
	return p.profile, p.err
}
