package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"acs-console/internal/shared_kernel/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

const _defaultTokenTTL = 12 * time.Hour

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

type AuthService interface {
	// IssueToken verifies the credentials and returns a signed bearer token.
	IssueToken(ctx context.Context, username, password string) (IssuedToken, error)
	// ResolvePrincipal validates a bearer token and loads the current
	// principal. Permissions are read from storage on every call so a revoke
	// takes effect before the token expires.
	ResolvePrincipal(ctx context.Context, token string) (domain.Principal, error)
}

type SimpleAuthService struct {
	repository UserRepository
	secret     []byte
	tokenTTL   time.Duration
}

var _ AuthService = (*SimpleAuthService)(nil)

func NewAuthService(repository UserRepository, config AuthConfig) (*SimpleAuthService, error) {
	if config.JWTSecret == "" {
		return nil, errors.New("jwt secret is required")
	}
	tokenTTL := config.TokenTTL
	if tokenTTL == 0 {
		tokenTTL = _defaultTokenTTL
	}

	return &SimpleAuthService{
		repository: repository,
		secret:     []byte(config.JWTSecret),
		tokenTTL:   tokenTTL,
	}, nil
}

func (s *SimpleAuthService) IssueToken(ctx context.Context, username, password string) (IssuedToken, error) {
	user, err := s.repository.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return IssuedToken{}, ErrInvalidCredentials
		}
		return IssuedToken{}, fmt.Errorf("loading user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return IssuedToken{}, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("signing token: %w", err)
	}

	return IssuedToken{Token: signed, ExpiresAt: expiresAt}, nil
}

func (s *SimpleAuthService) ResolvePrincipal(ctx context.Context, token string) (domain.Principal, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return domain.Principal{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return domain.Principal{}, ErrInvalidToken
	}

	user, err := s.repository.GetByID(ctx, domain.ID(claims.Subject))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return domain.Principal{}, ErrInvalidToken
		}
		return domain.Principal{}, fmt.Errorf("loading user: %w", err)
	}

	return user.Principal(), nil
}
