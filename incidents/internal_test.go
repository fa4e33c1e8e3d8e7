package incidents

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/padelhub/tournament-core/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpposingTeam(t *testing.T) {
	team1, team2 := uuid.New(), uuid.New()
	match := &models.Match{Team1: &team1, Team2: &team2}

	opp, ok := opposingTeam(match, team1)
	require.True(t, ok)
	assert.Equal(t, team2, opp)

	opp, ok = opposingTeam(match, team2)
	require.True(t, ok)
	assert.Equal(t, team1, opp)

	_, ok = opposingTeam(match, uuid.New())
	assert.False(t, ok)
}

func TestOpposingTeam_MissingSlot(t *testing.T) {
	team1 := uuid.New()
	match := &models.Match{Team1: &team1}
	_, ok := opposingTeam(match, team1)
	assert.False(t, ok)
}

func TestArchiveSetting_PreservesExistingKeys(t *testing.T) {
	existing := json.RawMessage(`{"foo":"bar"}`)
	out, err := archiveSetting(existing, "admin_override", map[string]any{"overridden_at": "2026-01-01"})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "bar", decoded["foo"])
	assert.Contains(t, decoded, "admin_override")
}

func TestArchiveSetting_NilExisting(t *testing.T) {
	out, err := archiveSetting(nil, "reschedule_history", map[string]any{"prior_scheduled_at": nil})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Contains(t, decoded, "reschedule_history")
}
