package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TournamentStatus is the lifecycle state of a Tournament.
type TournamentStatus string

const (
	TournamentDraft             TournamentStatus = "draft"
	TournamentRegistrationOpen  TournamentStatus = "registration_open"
	TournamentRegistrationClose TournamentStatus = "registration_closed"
	TournamentInProgress        TournamentStatus = "in_progress"
	TournamentFinished          TournamentStatus = "finished"
	TournamentCancelled         TournamentStatus = "cancelled"
)

// Tournament is scoped by Tenant; every row is invisible to other tenants.
type Tournament struct {
	ID                 uuid.UUID        `json:"id" db:"id"`
	TenantID           uuid.UUID        `json:"tenant_id" db:"tenant_id"`
	Name               string           `json:"name" db:"name"`
	Status             TournamentStatus `json:"status" db:"status"`
	SetsToWin          int              `json:"sets_to_win" db:"sets_to_win"`
	GamesPerSet        int              `json:"games_per_set" db:"games_per_set"`
	MinTeams           int              `json:"min_teams" db:"min_teams"`
	MaxTeams           int              `json:"max_teams" db:"max_teams"`
	StartDate          time.Time        `json:"start_date" db:"start_date"`
	Settings           json.RawMessage  `json:"settings,omitempty" db:"settings"`
	FixtureGeneratedAt *time.Time       `json:"fixture_generated_at,omitempty" db:"fixture_generated_at"`
	FixtureGeneratedBy *uuid.UUID       `json:"fixture_generated_by,omitempty" db:"fixture_generated_by"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at" db:"updated_at"`
}

// FixtureConfig carries the Temporal Scheduler's recognized options
// (spec §4.5) plus the Fixture Orchestrator's grouping parameters.
type FixtureConfig struct {
	GroupsCount           int    `json:"groups_count,omitempty"`
	TeamsPerGroup         int    `json:"teams_per_group,omitempty"`
	TeamsAdvancePerGroup  int    `json:"teams_advance_per_group,omitempty"`
	MatchDurationMinutes  int    `json:"match_duration_minutes,omitempty"`
	MatchesPerDay         int    `json:"matches_per_day,omitempty"`
	StartTime             string `json:"start_time,omitempty"`
	EndTime               string `json:"end_time,omitempty"`
	RestBetweenMatchesMin int    `json:"rest_between_matches,omitempty"`
}

// WithDefaults fills zero-valued fields with spec §4.5's defaults.
func (c FixtureConfig) WithDefaults() FixtureConfig {
	if c.TeamsPerGroup == 0 {
		c.TeamsPerGroup = 4
	}
	if c.TeamsAdvancePerGroup == 0 {
		c.TeamsAdvancePerGroup = 2
	}
	if c.MatchDurationMinutes == 0 {
		c.MatchDurationMinutes = 60
	}
	if c.MatchesPerDay == 0 {
		c.MatchesPerDay = 8
	}
	if c.StartTime == "" {
		c.StartTime = "09:00"
	}
	if c.EndTime == "" {
		c.EndTime = "22:00"
	}
	if c.RestBetweenMatchesMin == 0 {
		c.RestBetweenMatchesMin = 15
	}
	return c
}
