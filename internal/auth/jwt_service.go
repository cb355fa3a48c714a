package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "userportal/internal/errors"
)

// Token purposes. A token signed for one purpose is rejected for another.
const (
	PurposeSession = "session"
	PurposeState   = "oauth_state"
	PurposeLink    = "oauth_link"
)

const (
	// StateTokenExpiry bounds the OAuth consent round trip.
	StateTokenExpiry = 10 * time.Minute
	// LinkTokenExpiry bounds how long a pending account link stays valid.
	LinkTokenExpiry = 10 * time.Minute
)

// ErrInvalidToken is returned for tokens that fail signature, expiry or
// purpose checks.
var ErrInvalidToken = apperrors.ErrInvalidToken

// Claims represents JWT claims. For session tokens ID carries the session id;
// for link tokens Subject carries the external identity and Name its display
// name.
type Claims struct {
	Purpose string `json:"purpose"`
	Name    string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// JWTService signs and validates the HS256 tokens used by the web flows.
type JWTService struct {
	secret []byte
	now    func() time.Time
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// SigningKey returns the HMAC key, for middleware that parses tokens itself.
func (s *JWTService) SigningKey() []byte {
	return s.secret
}

// GenerateSessionToken wraps a session id in a signed cookie token.
func (s *JWTService) GenerateSessionToken(sessionID string, ttl time.Duration) (string, error) {
	return s.sign(PurposeSession, sessionID, "", "", ttl)
}

// GenerateStateToken returns a signed, single-purpose OAuth state value.
func (s *JWTService) GenerateStateToken() (string, error) {
	return s.sign(PurposeState, uuid.New().String(), "", "", StateTokenExpiry)
}

// GenerateLinkToken records an external identity awaiting confirmation.
func (s *JWTService) GenerateLinkToken(subject, name string) (string, error) {
	return s.sign(PurposeLink, uuid.New().String(), subject, name, LinkTokenExpiry)
}

// ValidateToken validates a JWT token and returns the claims if it was issued
// for purpose.
func (s *JWTService) ValidateToken(tokenString, purpose string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if err := claims.CheckPurpose(purpose); err != nil {
		return nil, err
	}
	return claims, nil
}

// CheckPurpose rejects claims issued for a different flow.
func (c *Claims) CheckPurpose(purpose string) error {
	if c.Purpose != purpose || c.ID == "" {
		return ErrInvalidToken
	}
	return nil
}

func (s *JWTService) sign(purpose, id, subject, name string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &Claims{
		Purpose: purpose,
		Name:    name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
