package auth

import (
	"context"
	"testing"

	pkgauth "github.com/riveroslabs/merchant-console-backend/pkg/auth"
	"github.com/riveroslabs/merchant-console-backend/pkg/config"
	pkgerrors "github.com/riveroslabs/merchant-console-backend/pkg/errors"
	"github.com/riveroslabs/merchant-console-backend/pkg/security"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "merchant-console",
		ExpirationMinutes: 60,
	}
}

func testStaffConfig(t *testing.T, password string) config.StaffConfig {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return config.StaffConfig{Email: "ops@example.com", PasswordHash: hash}
}

func TestLoginIssuesToken(t *testing.T) {
	jwtCfg := testJWTConfig()
	svc, err := NewService(testStaffConfig(t, "correct horse"), jwtCfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	token, err := svc.Login(context.Background(), "OPS@example.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgauth.ParseAccessToken(jwtCfg, token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Email != "ops@example.com" {
		t.Fatalf("claims email = %q", claims.Email)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, err := NewService(testStaffConfig(t, "correct horse"), testJWTConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, wrongEmailErr := svc.Login(context.Background(), "other@example.com", "correct horse")
	_, wrongPasswordErr := svc.Login(context.Background(), "ops@example.com", "wrong")

	for _, err := range []error{wrongEmailErr, wrongPasswordErr} {
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("want UNAUTHORIZED, got %v", err)
		}
	}
	if wrongEmailErr.Error() != wrongPasswordErr.Error() {
		t.Fatalf("failure modes must not be distinguishable: %q vs %q", wrongEmailErr, wrongPasswordErr)
	}
}

func TestNewServiceRejectsIncompleteConfig(t *testing.T) {
	staff := testStaffConfig(t, "pw")
	jwtCfg := testJWTConfig()

	if _, err := NewService(config.StaffConfig{PasswordHash: staff.PasswordHash}, jwtCfg); err == nil {
		t.Fatal("expected missing email to fail")
	}
	if _, err := NewService(config.StaffConfig{Email: staff.Email}, jwtCfg); err == nil {
		t.Fatal("expected missing hash to fail")
	}
	if _, err := NewService(staff, config.JWTConfig{Issuer: "x"}); err == nil {
		t.Fatal("expected missing secret to fail")
	}
}
