package brackets_test

import (
	"testing"

	"github.com/padelhub/tournament-core/brackets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRoundRobin_EvenTeams(t *testing.T) {
	pairings := brackets.GenerateRoundRobin(4)
	require.Len(t, pairings, 6) // C(4,2)

	seen := map[[2]int]int{}
	played := map[int]int{}
	for _, p := range pairings {
		assert.NotEqual(t, p.Team1Idx, p.Team2Idx)
		key := [2]int{p.Team1Idx, p.Team2Idx}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		seen[key]++
		played[p.Team1Idx]++
		played[p.Team2Idx]++
	}
	for _, count := range seen {
		assert.Equal(t, 1, count)
	}
	for team := 0; team < 4; team++ {
		assert.Equal(t, 3, played[team]) // plays every other team once
	}
}

func TestGenerateRoundRobin_OddTeams(t *testing.T) {
	pairings := brackets.GenerateRoundRobin(5)
	require.Len(t, pairings, 10) // C(5,2)
	for _, p := range pairings {
		assert.Less(t, p.Team1Idx, 5)
		assert.Less(t, p.Team2Idx, 5)
	}
}

func TestBracketSize(t *testing.T) {
	assert.Equal(t, 8, brackets.BracketSize(8))
	assert.Equal(t, 8, brackets.BracketSize(5))
	assert.Equal(t, 4, brackets.BracketSize(3))
	assert.Equal(t, 16, brackets.BracketSize(9))
}

func TestRounds_MatchCountEqualsSizeMinusOne(t *testing.T) {
	rounds := brackets.Rounds(5)
	total := 0
	for _, r := range rounds {
		total += r.Matches
	}
	assert.Equal(t, brackets.BracketSize(5)-1, total)
	assert.Equal(t, "Final", rounds[len(rounds)-1].Name)
}

func TestFirstRound_ByesAtTop(t *testing.T) {
	pairs, byes := brackets.FirstRound(5)
	assert.Len(t, byes, 3) // bracketSize(8) - 5
	assert.ElementsMatch(t, []int{0, 1, 2}, byes)
	assert.Len(t, pairs, 1)
}

func TestSnakeDraft(t *testing.T) {
	groups := brackets.SnakeDraft(8, 4)
	require.Len(t, groups, 4)
	assert.ElementsMatch(t, []int{0, 7}, groups[0])
	assert.ElementsMatch(t, []int{1, 6}, groups[1])
	assert.ElementsMatch(t, []int{2, 5}, groups[2])
	assert.ElementsMatch(t, []int{3, 4}, groups[3])
}
