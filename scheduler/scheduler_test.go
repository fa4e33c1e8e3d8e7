package scheduler_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/padelhub/tournament-core/models"
	"github.com/padelhub/tournament-core/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedule_RespectsRestBetweenMatches(t *testing.T) {
	teamA, teamB, teamC, teamD := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	matches := []*models.Match{
		{MatchNumber: 1, Team1: &teamA, Team2: &teamB},
		{MatchNumber: 2, Team1: &teamA, Team2: &teamC},
		{MatchNumber: 3, Team1: &teamB, Team2: &teamD},
	}
	cfg := scheduler.FromFixtureConfig(models.FixtureConfig{
		MatchDurationMinutes:  60,
		MatchesPerDay:         8,
		RestBetweenMatchesMin: 15,
	})
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	scheduler.Schedule(matches, nil, start, cfg)

	for _, m := range matches {
		require.NotNil(t, m.ScheduledAt)
	}

	lastSeen := map[uuid.UUID]time.Time{}
	rest := 15 * time.Minute
	for _, m := range matches {
		for _, team := range []uuid.UUID{*m.Team1, *m.Team2} {
			if prev, ok := lastSeen[team]; ok {
				diff := m.ScheduledAt.Sub(prev)
				if diff < 0 {
					diff = -diff
				}
				assert.GreaterOrEqual(t, diff, rest)
			}
			lastSeen[team] = *m.ScheduledAt
		}
	}
}

func TestSchedule_SkipsUnresolvedPlayoffMatches(t *testing.T) {
	m := &models.Match{MatchNumber: 1}
	cfg := scheduler.FromFixtureConfig(models.FixtureConfig{})
	scheduler.Schedule(nil, []*models.Match{m}, time.Now(), cfg)
	assert.Nil(t, m.ScheduledAt)
}

func TestSchedule_InsertsIdleDayBetweenPhases(t *testing.T) {
	teamA, teamB, teamC, teamD := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	group := []*models.Match{{MatchNumber: 1, Team1: &teamA, Team2: &teamB}}
	playoff := []*models.Match{{MatchNumber: 1, Team1: &teamC, Team2: &teamD}}
	cfg := scheduler.FromFixtureConfig(models.FixtureConfig{MatchDurationMinutes: 60, RestBetweenMatchesMin: 15, MatchesPerDay: 1})
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	scheduler.Schedule(group, playoff, start, cfg)

	require.NotNil(t, group[0].ScheduledAt)
	require.NotNil(t, playoff[0].ScheduledAt)
	assert.True(t, playoff[0].ScheduledAt.After(group[0].ScheduledAt.Add(24*time.Hour)))
}
