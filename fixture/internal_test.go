package fixture

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/padelhub/tournament-core/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfirmedEntries(n int, tenantID, tournamentID uuid.UUID) []*models.Entry {
	out := make([]*models.Entry, n)
	for i := 0; i < n; i++ {
		out[i] = &models.Entry{ID: uuid.New(), TenantID: tenantID, TournamentID: tournamentID, TeamID: uuid.New(), Status: models.EntryConfirmed}
	}
	return out
}

func TestBuildGroupStage_EverySeedAssignedOnce(t *testing.T) {
	tenantID, tournamentID := uuid.New(), uuid.New()
	entries := newConfirmedEntries(8, tenantID, tournamentID)
	cfg := models.FixtureConfig{GroupsCount: 2}.WithDefaults()

	groups, matches, summaries := buildGroupStage(tenantID, tournamentID, entries, cfg)
	require.Len(t, groups, 2)
	require.Len(t, summaries, 2)

	seen := map[uuid.UUID]int{}
	for _, g := range groups {
		for _, team := range g {
			seen[team]++
		}
	}
	assert.Len(t, seen, 8)
	for _, count := range seen {
		assert.Equal(t, 1, count)
	}

	// each group of 4 round-robins into 6 matches (3 rounds x 2)
	assert.Len(t, matches, 12)
	for _, m := range matches {
		assert.Equal(t, models.MatchScheduled, m.Status)
		assert.NotNil(t, m.Team1)
		assert.NotNil(t, m.Team2)
	}
}

func TestBuildPlayoffStage_MatchCountAndLinks(t *testing.T) {
	tenantID, tournamentID := uuid.New(), uuid.New()
	cfg := models.FixtureConfig{TeamsAdvancePerGroup: 2}.WithDefaults()

	matches, links, rounds := buildPlayoffStage(tenantID, tournamentID, cfg, 4)
	// 8 advancing teams -> quarterfinal(4) + semi(2) + final(1) = 7 matches
	assert.Len(t, matches, 7)
	assert.Len(t, rounds, 3)

	// every match except the final has exactly one outgoing link
	assert.Len(t, links, 6)
	for _, m := range matches {
		assert.Nil(t, m.Team1)
		assert.Nil(t, m.Team2)
	}
}

func TestBuildPlayoffStage_TooFewAdvancersSkipsPlayoffs(t *testing.T) {
	cfg := models.FixtureConfig{TeamsAdvancePerGroup: 1}.WithDefaults()
	matches, links, rounds := buildPlayoffStage(uuid.New(), uuid.New(), cfg, 1)
	assert.Nil(t, matches)
	assert.Nil(t, links)
	assert.Nil(t, rounds)
}

func TestSummarize_ComputesScheduleWindow(t *testing.T) {
	day1 := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)
	all := []*models.Match{
		{ScheduledAt: &day1},
		{ScheduledAt: &day2},
		{}, // playoff match not yet scheduled
	}
	s := summarize(uuid.New(), 3, nil, 0, nil, 0, all)
	assert.Equal(t, 3, s.DeletedCount)
	assert.Equal(t, 3, s.TotalMatches)
	assert.Equal(t, day1, s.Schedule.StartDate)
	assert.Equal(t, day2, s.Schedule.EndDate)
	assert.Equal(t, 2, s.Schedule.Days)
}
