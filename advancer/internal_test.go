package advancer

import (
	"testing"

	"github.com/google/uuid"
	"github.com/padelhub/tournament-core/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignSlot_ExplicitSlotOverridesFirstEmpty(t *testing.T) {
	winner := uuid.New()
	next := &models.Match{}
	slot := 2

	assignSlot(next, winner, &slot)

	assert.Nil(t, next.Team1)
	require.NotNil(t, next.Team2)
	assert.Equal(t, winner, *next.Team2)
}

func TestAssignSlot_FillsTeam1FirstWhenNoSlotGiven(t *testing.T) {
	winner := uuid.New()
	next := &models.Match{}

	assignSlot(next, winner, nil)

	require.NotNil(t, next.Team1)
	assert.Equal(t, winner, *next.Team1)
	assert.Nil(t, next.Team2)
}

func TestAssignSlot_FillsTeam2WhenTeam1Occupied(t *testing.T) {
	existing, winner := uuid.New(), uuid.New()
	next := &models.Match{Team1: &existing}

	assignSlot(next, winner, nil)

	assert.Equal(t, existing, *next.Team1)
	require.NotNil(t, next.Team2)
	assert.Equal(t, winner, *next.Team2)
}
