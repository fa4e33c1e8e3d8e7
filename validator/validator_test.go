package validator_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/padelhub/tournament-core/apperr"
	"github.com/padelhub/tournament-core/models"
	"github.com/padelhub/tournament-core/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_StraightSets(t *testing.T) {
	team1, team2 := uuid.New(), uuid.New()
	sets := []models.SetScore{
		{SetNumber: 1, Team1Games: 6, Team2Games: 4},
		{SetNumber: 2, Team1Games: 6, Team2Games: 3},
	}
	err := validator.Validate(sets, team1, team1, team2, validator.Rules{SetsToWin: 2, GamesPerSet: 6})
	require.NoError(t, err)
}

func TestValidate_TiebreakRequired(t *testing.T) {
	team1, team2 := uuid.New(), uuid.New()
	sets := []models.SetScore{{SetNumber: 1, Team1Games: 7, Team2Games: 6}}
	err := validator.Validate(sets, team1, team1, team2, validator.Rules{SetsToWin: 1, GamesPerSet: 6})
	require.Error(t, err)
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "tiebreak_missing", appErr.Code)
}

func TestValidate_TiebreakAccepted(t *testing.T) {
	team1, team2 := uuid.New(), uuid.New()
	tb1, tb2 := 7, 5
	sets := []models.SetScore{{SetNumber: 1, Team1Games: 7, Team2Games: 6, TiebreakTeam1: &tb1, TiebreakTeam2: &tb2}}
	err := validator.Validate(sets, team1, team1, team2, validator.Rules{SetsToWin: 1, GamesPerSet: 6})
	require.NoError(t, err)
}

func TestValidate_TiebreakMismatch(t *testing.T) {
	team1, team2 := uuid.New(), uuid.New()
	tb1, tb2 := 5, 7
	sets := []models.SetScore{{SetNumber: 1, Team1Games: 7, Team2Games: 6, TiebreakTeam1: &tb1, TiebreakTeam2: &tb2}}
	err := validator.Validate(sets, team1, team1, team2, validator.Rules{SetsToWin: 1, GamesPerSet: 6})
	require.Error(t, err)
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "tiebreak_mismatch", appErr.Code)
}

func TestValidate_SetInvalid(t *testing.T) {
	team1, team2 := uuid.New(), uuid.New()
	sets := []models.SetScore{{SetNumber: 1, Team1Games: 6, Team2Games: 5}}
	err := validator.Validate(sets, team1, team1, team2, validator.Rules{SetsToWin: 1, GamesPerSet: 6})
	require.Error(t, err)
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "set_invalid", appErr.Code)
}

func TestValidate_WinnerMismatch(t *testing.T) {
	team1, team2 := uuid.New(), uuid.New()
	sets := []models.SetScore{
		{SetNumber: 1, Team1Games: 6, Team2Games: 4},
		{SetNumber: 2, Team1Games: 6, Team2Games: 3},
	}
	err := validator.Validate(sets, team2, team1, team2, validator.Rules{SetsToWin: 2, GamesPerSet: 6})
	require.Error(t, err)
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "winner_mismatch", appErr.Code)
}

func TestValidate_WinnerNotAParty(t *testing.T) {
	team1, team2, stranger := uuid.New(), uuid.New(), uuid.New()
	sets := []models.SetScore{{SetNumber: 1, Team1Games: 6, Team2Games: 4}}
	err := validator.Validate(sets, stranger, team1, team2, validator.Rules{SetsToWin: 1, GamesPerSet: 6})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
