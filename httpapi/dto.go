package httpapi

import (
	"time"

	"github.com/google/uuid"
	"github.com/padelhub/tournament-core/incidents"
	"github.com/padelhub/tournament-core/models"
	"github.com/padelhub/tournament-core/results"
)

// loginRequest is the wire shape of the auth-stub login (§6 ambient
// stack): the Gateway's actual authentication flow lives outside this
// repository, so this only needs to exercise the operator credential.
type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// generateFixtureRequest is the wire shape of spec §4.6's
// generateFixture; zero-value fields fall back to FixtureConfig's
// defaults in the orchestrator itself.
type generateFixtureRequest struct {
	GroupsCount           int    `json:"groups_count" validate:"omitempty,min=1"`
	TeamsPerGroup         int    `json:"teams_per_group" validate:"omitempty,min=2"`
	TeamsAdvancePerGroup  int    `json:"teams_advance_per_group" validate:"omitempty,min=1"`
	MatchDurationMinutes  int    `json:"match_duration_minutes" validate:"omitempty,min=1"`
	MatchesPerDay         int    `json:"matches_per_day" validate:"omitempty,min=1"`
	StartTime             string `json:"start_time" validate:"omitempty"`
	EndTime               string `json:"end_time" validate:"omitempty"`
	RestBetweenMatchesMin int    `json:"rest_between_matches" validate:"omitempty,min=0"`
}

func (req generateFixtureRequest) toConfig() models.FixtureConfig {
	return models.FixtureConfig{
		GroupsCount:           req.GroupsCount,
		TeamsPerGroup:         req.TeamsPerGroup,
		TeamsAdvancePerGroup:  req.TeamsAdvancePerGroup,
		MatchDurationMinutes:  req.MatchDurationMinutes,
		MatchesPerDay:         req.MatchesPerDay,
		StartTime:             req.StartTime,
		EndTime:               req.EndTime,
		RestBetweenMatchesMin: req.RestBetweenMatchesMin,
	}
}

// reportResultRequest is spec §4.7's reportResult wire shape.
type reportResultRequest struct {
	Sets            []models.SetScore `json:"sets" validate:"required,min=1,dive"`
	WinnerTeamID    uuid.UUID         `json:"winner_team_id" validate:"required"`
	DurationMinutes *int              `json:"duration_minutes" validate:"omitempty,min=1"`
	Notes           string            `json:"notes" validate:"omitempty,max=1000"`
}

func (req reportResultRequest) toCommand(matchID uuid.UUID, idempotencyKey string) results.ReportResultRequest {
	return results.ReportResultRequest{
		MatchID:         matchID,
		Sets:            req.Sets,
		WinnerTeamID:    req.WinnerTeamID,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
		IdempotencyKey:  idempotencyKey,
	}
}

// acceptResultRequest is spec §4.7's acceptResult wire shape.
type acceptResultRequest struct {
	Accept        bool   `json:"accept"`
	DisputeReason string `json:"dispute_reason" validate:"required_if=Accept false"`
}

func (req acceptResultRequest) toCommand(matchID uuid.UUID) results.AcceptResultRequest {
	return results.AcceptResultRequest{
		MatchID:       matchID,
		Accept:        req.Accept,
		DisputeReason: req.DisputeReason,
	}
}

// resolveIncidentRequest is spec §4.8's resolveIncident wire shape.
type resolveIncidentRequest struct {
	Action           models.IncidentAction `json:"action" validate:"required,oneof=dismiss warn disqualify reschedule override_result"`
	ResolutionNotes  string                `json:"resolution_notes" validate:"required,min=10,max=1000"`
	OverrideWinnerID *uuid.UUID            `json:"override_winner_id" validate:"required_if=Action override_result"`
	RescheduleTo     *time.Time            `json:"reschedule_to"`
}

func (req resolveIncidentRequest) toCommand(incidentID uuid.UUID) incidents.ResolveIncidentRequest {
	return incidents.ResolveIncidentRequest{
		IncidentID:       incidentID,
		Action:           req.Action,
		ResolutionNotes:  req.ResolutionNotes,
		OverrideWinnerID: req.OverrideWinnerID,
		RescheduleTo:     req.RescheduleTo,
	}
}
