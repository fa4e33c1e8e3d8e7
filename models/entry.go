package models

import (
	"time"

	"github.com/google/uuid"
)

// EntryStatus is the enrolment state of a Team in a Tournament.
type EntryStatus string

const (
	EntryPendingPayment EntryStatus = "pending_payment"
	EntryConfirmed      EntryStatus = "confirmed"
	EntryWithdrawn      EntryStatus = "withdrawn"
	EntryDisqualified   EntryStatus = "disqualified"
)

// Entry is a team's enrolment in one Tournament.
type Entry struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	TenantID       uuid.UUID   `json:"tenant_id" db:"tenant_id"`
	TournamentID   uuid.UUID   `json:"tournament_id" db:"tournament_id"`
	TeamID         uuid.UUID   `json:"team_id" db:"team_id"`
	Seed           *int        `json:"seed,omitempty" db:"seed"`
	Status         EntryStatus `json:"status" db:"status"`
	ConfirmedAt    *time.Time  `json:"confirmed_at,omitempty" db:"confirmed_at"`
	DisqualifiedAt *time.Time  `json:"disqualified_at,omitempty" db:"disqualified_at"`
}

// TeamWarning records the outcome of an Incident Engine `warn` action.
type TeamWarning struct {
	IncidentID uuid.UUID `json:"incident_id" db:"incident_id"`
	TeamID     uuid.UUID `json:"team_id" db:"team_id"`
	Reason     string    `json:"reason" db:"reason"`
	IssuedAt   time.Time `json:"issued_at" db:"issued_at"`
	IssuedBy   uuid.UUID `json:"issued_by" db:"issued_by"`
}

// Team and TeamMember are the minimal shapes the core needs to resolve
// "is the caller a member of this team" checks; full team management is
// the Gateway's concern.
type Team struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}

type TeamMember struct {
	TeamID    uuid.UUID `json:"team_id" db:"team_id"`
	ProfileID uuid.UUID `json:"profile_id" db:"profile_id"`
}
