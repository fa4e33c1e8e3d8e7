package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MatchStatus is the lifecycle state of a Match (spec §4.7).
type MatchStatus string

const (
	MatchScheduled  MatchStatus = "scheduled"
	MatchCalled     MatchStatus = "called"
	MatchInProgress MatchStatus = "in_progress"
	MatchFinished   MatchStatus = "finished"
	MatchWalkover   MatchStatus = "walkover"
	MatchCancelled  MatchStatus = "cancelled"
	MatchPostponed  MatchStatus = "postponed"
)

// PendingResultStatus is the confirmation state of an embedded
// PendingResult (spec §3).
type PendingResultStatus string

const (
	PendingConfirmation PendingResultStatus = "pending_confirmation"
	PendingDisputed     PendingResultStatus = "disputed"
	PendingConfirmed    PendingResultStatus = "confirmed"
)

// SetScore is one set's game score, with optional tiebreak games.
type SetScore struct {
	SetNumber      int  `json:"set_number"`
	Team1Games     int  `json:"team1_games"`
	Team2Games     int  `json:"team2_games"`
	TiebreakTeam1  *int `json:"tiebreak_team1,omitempty"`
	TiebreakTeam2  *int `json:"tiebreak_team2,omitempty"`
}

// PendingResult is ephemeral: embedded in Match until resolved by
// acceptResult or resolveIncident.
type PendingResult struct {
	ReportedBy    uuid.UUID           `json:"reported_by"`
	ReportedAt    time.Time           `json:"reported_at"`
	Winner        uuid.UUID           `json:"winner"`
	Loser         uuid.UUID           `json:"loser"`
	Sets          []SetScore          `json:"sets"`
	Status        PendingResultStatus `json:"status"`
	DisputeReason string              `json:"dispute_reason,omitempty"`
	ConfirmedBy   *uuid.UUID          `json:"confirmed_by,omitempty"`
}

// Match is created only by the Fixture Orchestrator (C6); never
// individually. next_match is a relation, not ownership (spec §9).
type Match struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	TenantID        uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	TournamentID    uuid.UUID       `json:"tournament_id" db:"tournament_id"`
	RoundNumber     int             `json:"round_number" db:"round_number"`
	RoundName       string          `json:"round_name" db:"round_name"`
	MatchNumber     int             `json:"match_number" db:"match_number"`
	BracketPosition string          `json:"bracket_position" db:"bracket_position"`
	Team1           *uuid.UUID      `json:"team1,omitempty" db:"team1"`
	Team2           *uuid.UUID      `json:"team2,omitempty" db:"team2"`
	ScheduledAt     *time.Time      `json:"scheduled_at,omitempty" db:"scheduled_at"`
	Status          MatchStatus     `json:"status" db:"status"`
	Winner          *uuid.UUID      `json:"winner,omitempty" db:"winner"`
	Loser           *uuid.UUID      `json:"loser,omitempty" db:"loser"`
	FinishedAt      *time.Time      `json:"finished_at,omitempty" db:"finished_at"`
	NextMatchID     *uuid.UUID      `json:"next_match,omitempty" db:"next_match_id"`
	WinnerToSlot    *int            `json:"-" db:"winner_to_slot"`
	PendingResult   *PendingResult  `json:"pending_result,omitempty" db:"pending_result"`
	Settings        json.RawMessage `json:"settings,omitempty" db:"settings"`
}

// SetResult is a persisted per-set score belonging to one Match. A
// Match owns its Set Results; they are deleted and replaced wholesale
// on every report (spec §4.7 "atomic replacement").
type SetResult struct {
	ID         uuid.UUID `json:"id" db:"id"`
	MatchID    uuid.UUID `json:"match_id" db:"match_id"`
	SetNumber  int       `json:"set_number" db:"set_number"`
	Team1Games int       `json:"team1_games" db:"team1_games"`
	Team2Games int       `json:"team2_games" db:"team2_games"`
	TBTeam1    *int      `json:"tiebreak_team1,omitempty" db:"tiebreak_team1"`
	TBTeam2    *int      `json:"tiebreak_team2,omitempty" db:"tiebreak_team2"`
}

// HasTeams reports whether both team slots are resolved.
func (m *Match) HasTeams() bool { return m.Team1 != nil && m.Team2 != nil }

// IsTerminal reports whether the match can no longer accept reports.
func (m *Match) IsTerminal() bool {
	return m.Status == MatchFinished || m.Status == MatchCancelled
}
