package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/riveroslabs/merchant-console-backend/api/responses"
	"github.com/riveroslabs/merchant-console-backend/pkg/config"
	pkgerrors "github.com/riveroslabs/merchant-console-backend/pkg/errors"
	"github.com/riveroslabs/merchant-console-backend/pkg/logger"
)

// rateLimitStore is the counter surface the limiter needs; the redis client
// satisfies it.
type rateLimitStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

// LoginRateLimit applies fixed-window counters per client IP and per
// submitted email. A nil store disables limiting entirely; a store error
// fails open so an unreachable Redis never locks staff out.
func LoginRateLimit(store rateLimitStore, cfg config.AuthRateLimitConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if over := overLimit(ctx, store, "login:ip:"+clientIP(r), cfg.LoginIPLimit, cfg.LoginWindow, logg); over {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts, try again later"))
				return
			}

			if email := peekLoginEmail(r); email != "" {
				if over := overLimit(ctx, store, "login:email:"+email, cfg.LoginEmailLimit, cfg.LoginWindow, logg); over {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts, try again later"))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func overLimit(ctx context.Context, store rateLimitStore, scope string, limit int, window time.Duration, logg *logger.Logger) bool {
	if limit <= 0 {
		return false
	}
	count, err := store.IncrWithTTL(ctx, store.RateLimitKey(scope), window)
	if err != nil {
		if logg != nil {
			logg.Warn(logg.WithField(ctx, "scope", scope), "rate_limit.store_error")
		}
		return false
	}
	return count > int64(limit)
}

// peekLoginEmail reads the email out of the login body without consuming
// it; the body is restored for the handler.
func peekLoginEmail(r *http.Request) string {
	if r.Body == nil {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(body.Email))
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
