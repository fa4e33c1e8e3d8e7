package models

import (
	"time"

	"github.com/google/uuid"
)

type IncidentType string

const (
	IncidentInjury     IncidentType = "injury"
	IncidentNoShow     IncidentType = "no_show"
	IncidentDispute    IncidentType = "dispute"
	IncidentWeather    IncidentType = "weather"
	IncidentEquipment  IncidentType = "equipment"
	IncidentMisconduct IncidentType = "misconduct"
	IncidentOther      IncidentType = "other"
)

type IncidentSeverity string

const (
	SeverityLow      IncidentSeverity = "low"
	SeverityMedium   IncidentSeverity = "medium"
	SeverityHigh     IncidentSeverity = "high"
	SeverityCritical IncidentSeverity = "critical"
)

// IncidentAction is the tagged variant the Incident Engine dispatches
// on (spec §9 "Polymorphism across resolution actions").
type IncidentAction string

const (
	ActionDismiss        IncidentAction = "dismiss"
	ActionWarn           IncidentAction = "warn"
	ActionDisqualify     IncidentAction = "disqualify"
	ActionReschedule     IncidentAction = "reschedule"
	ActionOverrideResult IncidentAction = "override_result"
)

// Incident is immutable once resolved (invariant I7).
type Incident struct {
	ID              uuid.UUID        `json:"id" db:"id"`
	TenantID        uuid.UUID        `json:"tenant_id" db:"tenant_id"`
	TournamentID    *uuid.UUID       `json:"tournament_id,omitempty" db:"tournament_id"`
	MatchID         *uuid.UUID       `json:"match_id,omitempty" db:"match_id"`
	AffectedTeamID  *uuid.UUID       `json:"affected_team_id,omitempty" db:"affected_team_id"`
	Type            IncidentType     `json:"type" db:"type"`
	Severity        IncidentSeverity `json:"severity" db:"severity"`
	Title           string           `json:"title" db:"title"`
	Description     string           `json:"description" db:"description"`
	ReportedBy      uuid.UUID        `json:"reported_by" db:"reported_by"`
	ResolvedBy      *uuid.UUID       `json:"resolved_by,omitempty" db:"resolved_by"`
	ResolvedAt      *time.Time       `json:"resolved_at,omitempty" db:"resolved_at"`
	ResolutionNotes string           `json:"resolution_notes,omitempty" db:"resolution_notes"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
}

func (i *Incident) IsResolved() bool { return i.ResolvedAt != nil && i.ResolvedBy != nil }
