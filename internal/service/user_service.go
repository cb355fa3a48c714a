package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"gorm.io/gorm"

	"userportal/internal/cache"
	apperrors "userportal/internal/errors"
	"userportal/internal/metrics"
	"userportal/internal/model"
	"userportal/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes the admin dashboard operations.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, name string) (*model.User, error)
	UpdateName(ctx context.Context, email, name string) (*model.User, error)
	DeleteUser(ctx context.Context, name string) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache. cache may be
// nil.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(name string) string {
	return "user:" + name
}

// ListUsers returns every non-administrator account.
func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.ListNonAdmins(ctx)
	if err != nil {
		return nil, oops.Code("USER_LIST_FAILED").Wrap(err)
	}
	return users, nil
}

// GetUser loads an account for display. Cached copies omit the password hash.
func (s *userService) GetUser(ctx context.Context, name string) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(name)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, oops.Code("USER_LOOKUP_FAILED").With("name", name).Wrap(err)
	}

	if payload, err := json.Marshal(user); err == nil {
		if err := s.cache.Set(ctx, s.cacheKey(name), payload, userCacheTTL); err != nil {
			slog.WarnContext(ctx, "cache user failed", "name", name, "error", err)
		}
	}
	return user, nil
}

// UpdateName renames the account registered under email.
func (s *userService) UpdateName(ctx context.Context, email, name string) (*model.User, error) {
	if email == "" || name == "" {
		return nil, apperrors.ErrMissingFields
	}

	current, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.RecordAdminAction("edit", metrics.OutcomeUnknownUser)
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, oops.Code("USER_LOOKUP_FAILED").With("email", email).Wrap(err)
	}

	updated, err := s.repo.UpdateNameByEmail(ctx, email, name)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		metrics.RecordAdminAction("edit", metrics.OutcomeUnknownUser)
		return nil, apperrors.ErrUserNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		metrics.RecordAdminAction("edit", metrics.OutcomeDuplicate)
		return nil, apperrors.ErrUserAlreadyExists
	case err != nil:
		metrics.RecordAdminAction("edit", metrics.OutcomeError)
		return nil, oops.Code("USER_UPDATE_FAILED").With("email", email).Wrap(err)
	}

	s.evict(ctx, current.Name, name)
	metrics.RecordAdminAction("edit", metrics.OutcomeSuccess)
	return updated, nil
}

// DeleteUser removes the named account and returns it.
func (s *userService) DeleteUser(ctx context.Context, name string) (*model.User, error) {
	deleted, err := s.repo.DeleteByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.RecordAdminAction("delete", metrics.OutcomeUnknownUser)
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		metrics.RecordAdminAction("delete", metrics.OutcomeError)
		return nil, oops.Code("USER_DELETE_FAILED").With("name", name).Wrap(err)
	}

	s.evict(ctx, name)
	metrics.RecordAdminAction("delete", metrics.OutcomeSuccess)
	return deleted, nil
}

func (s *userService) evict(ctx context.Context, names ...string) {
	for _, name := range names {
		if err := s.cache.Delete(ctx, s.cacheKey(name)); err != nil {
			slog.WarnContext(ctx, "evict cached user failed", "name", name, "error", err)
		}
	}
}
