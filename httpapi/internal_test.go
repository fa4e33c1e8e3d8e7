package httpapi

import (
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/padelhub/tournament-core/apperr"
	"github.com/padelhub/tournament-core/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFixtureRequest_ToConfig(t *testing.T) {
	req := generateFixtureRequest{TeamsPerGroup: 3, TeamsAdvancePerGroup: 1}
	cfg := req.toConfig()
	assert.Equal(t, 3, cfg.TeamsPerGroup)
	assert.Equal(t, 1, cfg.TeamsAdvancePerGroup)
}

func TestReportResultRequest_ToCommand(t *testing.T) {
	matchID, winner := uuid.New(), uuid.New()
	req := reportResultRequest{
		Sets:         []models.SetScore{{SetNumber: 1, Team1Games: 6, Team2Games: 2}},
		WinnerTeamID: winner,
	}
	cmd := req.toCommand(matchID, "idem-key-1")
	assert.Equal(t, matchID, cmd.MatchID)
	assert.Equal(t, winner, cmd.WinnerTeamID)
	assert.Equal(t, "idem-key-1", cmd.IdempotencyKey)
}

func TestAcceptResultRequest_ToCommand(t *testing.T) {
	matchID := uuid.New()
	req := acceptResultRequest{Accept: false, DisputeReason: "score sheet mismatch reported"}
	cmd := req.toCommand(matchID)
	assert.Equal(t, matchID, cmd.MatchID)
	assert.False(t, cmd.Accept)
	assert.Equal(t, "score sheet mismatch reported", cmd.DisputeReason)
}

func TestResolveIncidentRequest_ToCommand(t *testing.T) {
	incidentID, winner := uuid.New(), uuid.New()
	req := resolveIncidentRequest{
		Action:           models.ActionOverrideResult,
		ResolutionNotes:  "evidence reviewed, overriding result",
		OverrideWinnerID: &winner,
	}
	cmd := req.toCommand(incidentID)
	assert.Equal(t, incidentID, cmd.IncidentID)
	assert.Equal(t, models.ActionOverrideResult, cmd.Action)
	require.NotNil(t, cmd.OverrideWinnerID)
	assert.Equal(t, winner, *cmd.OverrideWinnerID)
}

func TestWriteError_UnknownErrorDefaultsToInternal(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, assert.AnError)
	assert.Equal(t, 500, w.Code)
}

func TestWriteError_MapsKindToStatus(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.KindUnauthorized: 401,
		apperr.KindForbidden:    403,
		apperr.KindNotFound:     404,
		apperr.KindValidation:   400,
		apperr.KindConflict:     409,
		apperr.KindInternal:     500,
	}
	for kind, status := range cases {
		w := httptest.NewRecorder()
		writeError(w, apperr.New(kind, "boom"))
		assert.Equal(t, status, w.Code, "kind %s", kind)
	}
}
