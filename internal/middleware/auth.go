package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/iyunix/go-chatrelay/internal/auth"
	"github.com/iyunix/go-chatrelay/internal/dtos"
	"github.com/iyunix/go-chatrelay/internal/ratelimit"
)

// DefaultExemptPaths are reachable without a token.
var DefaultExemptPaths = []string{"/docs", "/openapi.json"}

const (
	msgMissingCredentials = "Authorization header is missing or invalid"
	msgTokenExpired       = "Token has expired"
	msgTokenInvalid       = "Invalid token"
)

// TokenValidator decodes a bearer token into the calling user.
type TokenValidator interface {
	Validate(token string) (*auth.User, error)
}

// NewAuthGate authenticates every request whose path is not exactly one of
// exemptPaths. Rejected requests never reach next. A request with a valid
// token always passes; the ban only changes how failures are answered.
// limiter and resolver may be nil.
func NewAuthGate(validator TokenValidator, limiter *ratelimit.MemoryRateLimiter, resolver *ratelimit.IPResolver, logger logrus.FieldLogger, exemptPaths []string) func(http.Handler) http.Handler {
	exempt := make(map[string]struct{}, len(exemptPaths))
	for _, p := range exemptPaths {
		exempt[p] = struct{}{}
	}
	log := logger.WithField("component", "AuthGate")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exempt[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := resolver.ClientIP(r)

			reject := func(status int, detail string, err error) {
				if limiter != nil {
					if info := limiter.Check(clientIP); info.Banned {
						rejectBanned(w, log, clientIP, info)
						return
					}
					limiter.RecordFailure(clientIP)
				}
				entry := log.WithFields(logrus.Fields{
					"path":      r.URL.Path,
					"client_ip": clientIP,
				})
				if err != nil {
					entry = entry.WithError(err)
				}
				entry.Info("request rejected: " + detail)
				writeDetail(w, status, detail)
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				reject(http.StatusBadRequest, msgMissingCredentials, nil)
				return
			}

			user, err := validator.Validate(token)
			switch {
			case err == nil:
			case errors.Is(err, auth.ErrTokenExpired):
				reject(http.StatusUnauthorized, msgTokenExpired, err)
				return
			case errors.Is(err, auth.ErrTokenMalformed):
				reject(http.StatusBadRequest, msgMissingCredentials, err)
				return
			default:
				reject(http.StatusUnauthorized, msgTokenInvalid, err)
				return
			}

			if limiter != nil {
				limiter.RecordSuccess(clientIP)
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *auth.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the user attached by the auth gate.
func UserFromContext(ctx context.Context) (*auth.User, bool) {
	user, ok := ctx.Value(userKey).(*auth.User)
	return user, ok && user != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dtos.ErrorResponseDTO{Detail: detail})
}
