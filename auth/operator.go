// Package auth stands in for the Gateway's real user/auth service
// (spec §6 treats authentication as already resolved before reaching
// the core). It exposes a single fixed operator credential so the
// HTTP shim and local-dev/integration use are runnable without a full
// user store: the credential is hashed once at boot and compared with
// bcrypt on every login, exactly as the teacher's AuthService does for
// registered users.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/padelhub/tournament-core/middleware"
	"github.com/padelhub/tournament-core/models"
)

// ErrInvalidCredentials is returned by Login for any bad email/password
// combination; it never distinguishes unknown email from wrong
// password.
var ErrInvalidCredentials = errors.New("invalid email or password")

const tokenTTL = 24 * time.Hour

// OperatorStore issues bearer tokens for the single seeded operator
// identity configured at startup.
type OperatorStore struct {
	email        string
	passwordHash []byte
	tenantID     uuid.UUID
	profileID    uuid.UUID
	tenantUserID uuid.UUID
	role         models.Role
	jwtSecret    []byte
}

// NewOperatorStore hashes plaintextPassword with bcrypt and returns a
// store ready to authenticate it.
func NewOperatorStore(email, plaintextPassword string, tenantID, profileID, tenantUserID uuid.UUID, role models.Role, jwtSecret []byte) (*OperatorStore, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &OperatorStore{
		email:        email,
		passwordHash: hash,
		tenantID:     tenantID,
		profileID:    profileID,
		tenantUserID: tenantUserID,
		role:         role,
		jwtSecret:    jwtSecret,
	}, nil
}

// Login checks email/password against the seeded operator credential
// and, on success, signs a bearer token carrying the claims
// middleware.Authenticate expects.
func (s *OperatorStore) Login(_ context.Context, email, password string) (string, error) {
	if email != s.email {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	claims := middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		ProfileID:    s.profileID,
		TenantID:     s.tenantID,
		TenantUserID: s.tenantUserID,
		Role:         s.role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
