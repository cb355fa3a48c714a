package service

import (
	"context"
	"errors"

	"github.com/samber/oops"
	"gorm.io/gorm"

	"userportal/internal/auth"
	apperrors "userportal/internal/errors"
	"userportal/internal/metrics"
	"userportal/internal/model"
	"userportal/internal/repository"
)

// ExternalOutcome classifies an identity returned by a federation provider.
type ExternalOutcome int

const (
	// ExternalUnknown means no local account matches; the client is sent to signup.
	ExternalUnknown ExternalOutcome = iota
	// ExternalLinked means the identity is linked to a local account.
	ExternalLinked
	// ExternalNeedsLink means a local account has the same name but the
	// owner must confirm with their password before the identity is linked.
	ExternalNeedsLink
)

// ExternalResolution is the result of ResolveExternal.
type ExternalResolution struct {
	Outcome ExternalOutcome
	// User is the matched account for ExternalLinked and ExternalNeedsLink.
	User *model.User
	// LinkToken is set for ExternalNeedsLink and must be presented to LinkExternal.
	LinkToken string
}

// AuthService handles authentication operations.
type AuthService interface {
	Signup(ctx context.Context, name, password, email string) (*model.User, error)
	Login(ctx context.Context, name, password string) (*model.User, error)
	AdminLogin(ctx context.Context, name, password string) (*model.User, error)
	ResolveExternal(ctx context.Context, profile *auth.ExternalProfile) (*ExternalResolution, error)
	LinkExternal(ctx context.Context, linkToken, password string) (*model.User, error)
}

type authService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
	tokens *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, hasher auth.PasswordHasher, tokens *auth.JWTService) AuthService {
	return &authService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// Signup creates an ordinary account with a hashed password.
func (s *authService) Signup(ctx context.Context, name, password, email string) (*model.User, error) {
	existing, err := s.users.FindByName(ctx, name)
	if err == nil && existing != nil {
		metrics.RecordAuthAttempt(metrics.KindSignup, metrics.OutcomeDuplicate)
		return nil, apperrors.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.RecordAuthAttempt(metrics.KindSignup, metrics.OutcomeError)
		return nil, oops.Code("USER_LOOKUP_FAILED").With("name", name).Wrap(err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		metrics.RecordAuthAttempt(metrics.KindSignup, metrics.OutcomeError)
		return nil, err
	}

	user := &model.User{
		Name:     name,
		Password: hashed,
		Email:    email,
		Role:     model.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent signup for the same name
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			metrics.RecordAuthAttempt(metrics.KindSignup, metrics.OutcomeDuplicate)
			return nil, apperrors.ErrUserAlreadyExists
		}
		metrics.RecordAuthAttempt(metrics.KindSignup, metrics.OutcomeError)
		return nil, oops.Code("USER_CREATE_FAILED").With("name", name).Wrap(err)
	}

	metrics.RecordAuthAttempt(metrics.KindSignup, metrics.OutcomeSuccess)
	return user, nil
}

// Login verifies a user's password.
func (s *authService) Login(ctx context.Context, name, password string) (*model.User, error) {
	user, err := s.users.FindByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.RecordAuthAttempt(metrics.KindLogin, metrics.OutcomeUnknownUser)
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		metrics.RecordAuthAttempt(metrics.KindLogin, metrics.OutcomeError)
		return nil, oops.Code("USER_LOOKUP_FAILED").With("name", name).Wrap(err)
	}

	if err := s.verify(password, user); err != nil {
		metrics.RecordAuthAttempt(metrics.KindLogin, outcomeOf(err))
		return nil, err
	}

	metrics.RecordAuthAttempt(metrics.KindLogin, metrics.OutcomeSuccess)
	return user, nil
}

// AdminLogin checks the credentials against the administrator account. A
// wrong password is reported before a name mismatch.
func (s *authService) AdminLogin(ctx context.Context, name, password string) (*model.User, error) {
	admin, err := s.users.FindFirstAdmin(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.RecordAuthAttempt(metrics.KindAdminLogin, metrics.OutcomeNotConfigured)
		return nil, apperrors.ErrAdminNotConfigured
	}
	if err != nil {
		metrics.RecordAuthAttempt(metrics.KindAdminLogin, metrics.OutcomeError)
		return nil, oops.Code("ADMIN_LOOKUP_FAILED").Wrap(err)
	}

	if err := s.verify(password, admin); err != nil {
		metrics.RecordAuthAttempt(metrics.KindAdminLogin, outcomeOf(err))
		return nil, err
	}
	if name != admin.Name {
		metrics.RecordAuthAttempt(metrics.KindAdminLogin, metrics.OutcomeNotAdmin)
		return nil, apperrors.ErrNotAdmin
	}

	metrics.RecordAuthAttempt(metrics.KindAdminLogin, metrics.OutcomeSuccess)
	return admin, nil
}

// ResolveExternal matches a federated identity to a local account. An
// identity is only trusted once linked; a bare name match yields a link token
// instead of a login.
func (s *authService) ResolveExternal(ctx context.Context, profile *auth.ExternalProfile) (*ExternalResolution, error) {
	linked, err := s.users.FindByExternalID(ctx, profile.Subject)
	if err == nil {
		metrics.RecordAuthAttempt(metrics.KindOAuth, metrics.OutcomeSuccess)
		return &ExternalResolution{Outcome: ExternalLinked, User: linked}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.RecordAuthAttempt(metrics.KindOAuth, metrics.OutcomeError)
		return nil, oops.Code("USER_LOOKUP_FAILED").With("subject", profile.Subject).Wrap(err)
	}

	if profile.Name == "" {
		metrics.RecordAuthAttempt(metrics.KindOAuth, metrics.OutcomeUnknownUser)
		return &ExternalResolution{Outcome: ExternalUnknown}, nil
	}

	byName, err := s.users.FindByName(ctx, profile.Name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.RecordAuthAttempt(metrics.KindOAuth, metrics.OutcomeUnknownUser)
		return &ExternalResolution{Outcome: ExternalUnknown}, nil
	}
	if err != nil {
		metrics.RecordAuthAttempt(metrics.KindOAuth, metrics.OutcomeError)
		return nil, oops.Code("USER_LOOKUP_FAILED").With("name", profile.Name).Wrap(err)
	}

	token, err := s.tokens.GenerateLinkToken(profile.Subject, byName.Name)
	if err != nil {
		return nil, oops.Code("LINK_TOKEN_FAILED").Wrap(err)
	}
	metrics.RecordAuthAttempt(metrics.KindOAuth, metrics.OutcomeNeedsLink)
	return &ExternalResolution{Outcome: ExternalNeedsLink, User: byName, LinkToken: token}, nil
}

// LinkExternal attaches the identity in linkToken to the named account after
// verifying the account password.
func (s *authService) LinkExternal(ctx context.Context, linkToken, password string) (*model.User, error) {
	claims, err := s.tokens.ValidateToken(linkToken, auth.PurposeLink)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.users.FindByName(ctx, claims.Name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, oops.Code("USER_LOOKUP_FAILED").With("name", claims.Name).Wrap(err)
	}

	if err := s.verify(password, user); err != nil {
		metrics.RecordAuthAttempt(metrics.KindOAuth, outcomeOf(err))
		return nil, err
	}

	if err := s.users.LinkExternalID(ctx, user.ID, claims.Subject); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, oops.Code("USER_LINK_FAILED").With("name", user.Name).Wrap(err)
	}
	subject := claims.Subject
	user.ExternalID = &subject

	metrics.RecordAuthAttempt(metrics.KindOAuth, metrics.OutcomeSuccess)
	return user, nil
}

func (s *authService) verify(password string, user *model.User) error {
	ok, err := s.hasher.Verify(password, user.Password)
	if err != nil {
		return oops.Code("PASSWORD_VERIFY_FAILED").With("name", user.Name).Wrap(err)
	}
	if !ok {
		return apperrors.ErrPasswordMismatch
	}
	return nil
}

func outcomeOf(err error) string {
	if errors.Is(err, apperrors.ErrPasswordMismatch) {
		return metrics.OutcomeBadPassword
	}
	return metrics.OutcomeError
}
