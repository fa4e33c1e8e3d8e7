package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/padelhub/tournament-core/models"
)

const bearerPrefix = "Bearer "

type contextKey string

const requestContextKey contextKey = "request_context"

// Claims mirrors the JWT payload the Gateway's auth service issues:
// (profile_id, tenant_id, tenant_user_id, role), already resolved
// before reaching the core (spec §6).
type Claims struct {
	jwt.RegisteredClaims
	ProfileID    uuid.UUID   `json:"profile_id"`
	TenantID     uuid.UUID   `json:"tenant_id"`
	TenantUserID uuid.UUID   `json:"tenant_user_id"`
	Role         models.Role `json:"role"`
}

// Authenticate parses the bearer token, builds a models.RequestContext
// from its claims, and stores it in the request context for handlers
// to read via RequestContextFrom.
func Authenticate(secret []byte, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := extractToken(r)
			if err != nil || tokenString == "" {
				http.Error(w, "Unauthorized: missing or malformed bearer token", http.StatusUnauthorized)
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				if errors.Is(err, jwt.ErrTokenExpired) {
					http.Error(w, "Unauthorized: token expired", http.StatusUnauthorized)
					return
				}
				logger.WarnContext(r.Context(), "token validation failed", "error", err)
				http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
				return
			}

			if claims.TenantID == uuid.Nil || claims.ProfileID == uuid.Nil {
				http.Error(w, "Unauthorized: token missing tenant/profile claims", http.StatusUnauthorized)
				return
			}

			rc := models.RequestContext{
				RequestID:    requestIDFrom(r),
				TenantID:     claims.TenantID,
				ProfileID:    claims.ProfileID,
				TenantUserID: claims.TenantUserID,
				Role:         claims.Role,
			}
			ctx := context.WithValue(r.Context(), requestContextKey, rc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestContextFrom retrieves the RequestContext Authenticate stored,
// per spec §9's explicit-struct-over-ambient-dictionary requirement.
func RequestContextFrom(ctx context.Context) (models.RequestContext, error) {
	rc, ok := ctx.Value(requestContextKey).(models.RequestContext)
	if !ok {
		return models.RequestContext{}, errors.New("request context not found; did Authenticate run")
	}
	return rc, nil
}

func requestIDFrom(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return uuid.New().String()
}

func extractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", nil
	}
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", errors.New("invalid authorization header format")
	}
	return strings.TrimPrefix(authHeader, bearerPrefix), nil
}
