package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the caller's tenant-scoped role, as resolved by the Gateway.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func (r Role) IsAdmin() bool { return r == RoleAdmin || r == RoleOwner }

// RequestContext is the explicit struct spec §9 calls for in place of
// a framework-provided ambient dictionary: every core operation takes
// one, already validated against the Gateway's schema.
type RequestContext struct {
	RequestID    string
	TenantID     uuid.UUID
	ProfileID    uuid.UUID
	TenantUserID uuid.UUID
	Role         Role
	Now          func() time.Time
}

// Clock returns rc.Now, or time.Now if unset (zero-value convenience
// for callers that construct a RequestContext without a fixed clock).
func (rc RequestContext) Clock() time.Time {
	if rc.Now != nil {
		return rc.Now()
	}
	return time.Now().UTC()
}
