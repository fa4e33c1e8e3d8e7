package brackets

import (
	"fmt"
	"math"
)

// RoundSpec describes one playoff round: how many matches it has and
// its conventional Spanish name (spec §4.3).
type RoundSpec struct {
	Number  int
	Name    string
	Matches int
}

// BracketSize returns 2^ceil(log2(teamCount)), the smallest power of
// two at least as large as teamCount.
func BracketSize(teamCount int) int {
	if teamCount <= 1 {
		return 1
	}
	return int(math.Pow(2, math.Ceil(math.Log2(float64(teamCount)))))
}

// RoundName applies the standard convention by match count in a round.
func RoundName(matchesInRound int) string {
	switch matchesInRound {
	case 1:
		return "Final"
	case 2:
		return "Semifinales"
	case 4:
		return "Cuartos de Final"
	case 8:
		return "Octavos de Final"
	case 16:
		return "Dieciseisavos"
	default:
		return fmt.Sprintf("Ronda de %d", matchesInRound*2)
	}
}

// Rounds enumerates every playoff round for teamCount advancing teams:
// while remaining > 1, emit a round of remaining/2 matches (spec
// §4.3). The total match count across all rounds equals
// BracketSize(teamCount)-1 (property P2).
func Rounds(teamCount int) []RoundSpec {
	size := BracketSize(teamCount)
	if size < 2 {
		return nil
	}
	var rounds []RoundSpec
	remaining := size
	num := 1
	for remaining > 1 {
		matches := remaining / 2
		rounds = append(rounds, RoundSpec{Number: num, Name: RoundName(matches), Matches: matches})
		remaining = matches
		num++
	}
	return rounds
}

// FirstRound splits teamCount seeded teams (index 0 = strongest) into
// the round-1 playable pairs and the teams that receive a bye. Byes
// are allocated to the top seeds, which is why they "skip round 1"
// (spec §4.3). FirstRound only computes this split; the Fixture
// Orchestrator does not call it, and its playoff shells start with both
// team slots empty.
func FirstRound(teamCount int) (pairs [][2]int, byeTeams []int) {
	size := BracketSize(teamCount)
	byes := size - teamCount
	if byes < 0 {
		byes = 0
	}
	for i := 0; i < byes && i < teamCount; i++ {
		byeTeams = append(byeTeams, i)
	}
	remaining := make([]int, 0, teamCount-byes)
	for i := byes; i < teamCount; i++ {
		remaining = append(remaining, i)
	}
	for i := 0; i+1 < len(remaining); i += 2 {
		pairs = append(pairs, [2]int{remaining[i], remaining[i+1]})
	}
	return pairs, byeTeams
}

// NextPlayoffMatch implements the pairing rule from spec §4.6: playoff
// match m (1-indexed within its round) feeds playoff match ceil(m/2)
// in round r+1.
func NextPlayoffMatch(matchNumberInRound int) int {
	return (matchNumberInRound + 1) / 2
}
