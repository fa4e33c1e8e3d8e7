// Package validator implements the Score Validator (C1): a pure
// function deciding whether a sequence of set scores is a legal padel
// result and whether the declared winner matches it. No I/O, no
// storage dependency.
package validator

import (
	"github.com/google/uuid"
	"github.com/padelhub/tournament-core/apperr"
	"github.com/padelhub/tournament-core/models"
)

// Rules carries the tournament-specific scoring parameters.
type Rules struct {
	SetsToWin   int
	GamesPerSet int
}

// Validate checks sets against the padel rules in spec §4.1 and that
// winner is the team whose sets_won reaches SetsToWin (team1 is checked
// first; the order in which sets were won is not considered). It
// returns an *apperr.Error with Kind validation and a Code identifying
// the failure on any rule violation.
func Validate(sets []models.SetScore, winner, team1, team2 uuid.UUID, rules Rules) error {
	if len(sets) == 0 {
		return apperr.Validation("insufficient_sets", "at least one set is required")
	}
	if winner != team1 && winner != team2 {
		return apperr.Validation("winner_mismatch", "winner must be one of the two teams")
	}

	team1Sets, team2Sets := 0, 0
	for _, s := range sets {
		won, err := setWinner(s, rules.GamesPerSet)
		if err != nil {
			return err
		}
		switch won {
		case 1:
			team1Sets++
		case 2:
			team2Sets++
		}
	}

	if team1Sets < rules.SetsToWin && team2Sets < rules.SetsToWin {
		return apperr.Validation("insufficient_sets", "neither team has reached sets_to_win")
	}

	var actualWinner uuid.UUID
	if team1Sets >= rules.SetsToWin {
		actualWinner = team1
	} else {
		actualWinner = team2
	}
	if actualWinner != winner {
		return apperr.Validation("winner_mismatch", "declared winner does not match the set scores")
	}
	return nil
}

// setWinner returns 1 if team1 won the set, 2 if team2 won, or an
// error describing why the set is not a legal result.
func setWinner(s models.SetScore, gamesPerSet int) (int, error) {
	g1, g2 := s.Team1Games, s.Team2Games
	hi, lo := g1, g2
	winnerIsTeam1 := true
	if g2 > g1 {
		hi, lo = g2, g1
		winnerIsTeam1 = false
	}

	switch {
	case hi == gamesPerSet && hi-lo >= 2:
		// a clean set win, e.g. 6-4, 6-3, 6-0
	case hi == gamesPerSet+1 && lo == gamesPerSet:
		// 7-6: only legal with a recorded, valid tiebreak
		if s.TiebreakTeam1 == nil || s.TiebreakTeam2 == nil {
			return 0, apperr.Validation("tiebreak_missing", "a 7-6 set requires a recorded tiebreak")
		}
		tb1, tb2 := *s.TiebreakTeam1, *s.TiebreakTeam2
		tbHi, tbLo := tb1, tb2
		tbWinnerIsTeam1 := true
		if tb2 > tb1 {
			tbHi, tbLo = tb2, tb1
			tbWinnerIsTeam1 = false
		}
		if tbHi < 7 || tbHi-tbLo < 2 {
			return 0, apperr.Validation("tiebreak_invalid", "tiebreak must reach 7 with a margin of at least 2")
		}
		if tbWinnerIsTeam1 != winnerIsTeam1 {
			return 0, apperr.Validation("tiebreak_mismatch", "tiebreak winner does not match the set winner")
		}
	default:
		return 0, apperr.Validation("set_invalid", "set score is not a legal padel result")
	}

	if winnerIsTeam1 {
		return 1, nil
	}
	return 2, nil
}
