package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/riveroslabs/merchant-console-backend/api/responses"
	pkgauth "github.com/riveroslabs/merchant-console-backend/pkg/auth"
	"github.com/riveroslabs/merchant-console-backend/pkg/config"
	pkgerrors "github.com/riveroslabs/merchant-console-backend/pkg/errors"
	"github.com/riveroslabs/merchant-console-backend/pkg/logger"
)

type staffEmailKey struct{}

// RequireAuth rejects requests without a valid Bearer access token and
// stashes the authenticated staff email on the context.
func RequireAuth(jwtCfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := bearerToken(r)
			if !ok {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing or malformed authorization header"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(jwtCfg, token)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid or expired access token"))
				return
			}

			ctx = context.WithValue(ctx, staffEmailKey{}, claims.Email)
			if logg != nil {
				ctx = logg.WithField(ctx, "staff_email", claims.Email)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

// StaffEmailFromContext returns the authenticated staff email, if any.
func StaffEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(staffEmailKey{}).(string)
	return email, ok && email != ""
}
