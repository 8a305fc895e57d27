package auth

import (
	"context"
	"strings"
	"time"

	pkgauth "github.com/riveroslabs/merchant-console-backend/pkg/auth"
	"github.com/riveroslabs/merchant-console-backend/pkg/config"
	pkgerrors "github.com/riveroslabs/merchant-console-backend/pkg/errors"
	"github.com/riveroslabs/merchant-console-backend/pkg/security"
)

// Service authenticates console staff against the configured credentials
// and mints access tokens. There is no user store: staff are provisioned
// through configuration.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
}

type service struct {
	staff config.StaffConfig
	jwt   config.JWTConfig
	now   func() time.Time
}

// NewService validates the configured staff credentials at construction.
func NewService(staff config.StaffConfig, jwt config.JWTConfig) (Service, error) {
	if strings.TrimSpace(staff.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "staff email is required")
	}
	if strings.TrimSpace(staff.PasswordHash) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "staff password hash is required")
	}
	if strings.TrimSpace(jwt.Secret) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "jwt secret is required")
	}
	return &service{staff: staff, jwt: jwt, now: time.Now}, nil
}

// Login verifies the email/password pair and returns a signed access token.
// Both failure modes map to the same unauthorized error.
func (s *service) Login(_ context.Context, email, password string) (string, error) {
	unauthorized := pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")

	if !strings.EqualFold(strings.TrimSpace(email), strings.TrimSpace(s.staff.Email)) {
		return "", unauthorized
	}

	ok, err := security.VerifyPassword(password, s.staff.PasswordHash)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return "", unauthorized
	}

	token, err := pkgauth.MintAccessToken(s.jwt, s.now(), pkgauth.AccessTokenPayload{Email: s.staff.Email})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return token, nil
}
