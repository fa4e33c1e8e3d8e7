// Package advancer implements the Bracket Advancer (C9): promotes a
// finished match's winner into its next_match and, if that now makes
// the downstream match fully resolved, schedules it.
package advancer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/padelhub/tournament-core/models"
	"github.com/padelhub/tournament-core/repositories"
	"github.com/padelhub/tournament-core/scheduler"
)

type Advancer struct {
	matches repositories.MatchRepository
}

func New(matches repositories.MatchRepository) *Advancer {
	return &Advancer{matches: matches}
}

// Advance locates finished's next_match (if any) and assigns the
// winner to the first empty slot, team1 before team2 (spec §4.9),
// unless the finished match already carries an explicit
// WinnerToSlot from fixture generation. If the downstream match
// becomes fully resolved and was not yet scheduled, it is scheduled
// through scheduler.Schedule as a one-match playoff batch starting from
// now's date; Schedule moves to the following day before the playoff
// batch, so the match gets the first slot of the day after now, not a
// slot later on now's own day.
func (a *Advancer) Advance(ctx context.Context, exec repositories.SQLExecutor, tenantID uuid.UUID, finished *models.Match, now time.Time) error {
	if finished.NextMatchID == nil || finished.Winner == nil {
		return nil
	}

	next, err := a.matches.GetForUpdate(ctx, exec, tenantID, *finished.NextMatchID)
	if err != nil {
		return err
	}

	assignSlot(next, *finished.Winner, finished.WinnerToSlot)

	if next.HasTeams() && next.ScheduledAt == nil {
		cfg := scheduler.Config{
			MatchDuration: 60 * time.Minute,
			Rest:          15 * time.Minute,
			MatchesPerDay: 8,
			DayStart:      9 * time.Hour,
			DayEnd:        22 * time.Hour,
		}
		scheduler.Schedule(nil, []*models.Match{next}, now, cfg)
	}
	// If next already has a ScheduledAt it is left unchanged; it is not
	// re-checked against the rest constraint for either team.

	return a.matches.Update(ctx, exec, next)
}

func assignSlot(next *models.Match, winner uuid.UUID, slot *int) {
	if slot != nil {
		if *slot == 1 {
			next.Team1 = &winner
		} else {
			next.Team2 = &winner
		}
		return
	}
	if next.Team1 == nil {
		next.Team1 = &winner
		return
	}
	if next.Team2 == nil {
		next.Team2 = &winner
	}
}
