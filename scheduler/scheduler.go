// Package scheduler implements the Temporal Scheduler (C5): assigns
// wall-clock times to matches under day-window, slot, and rest
// constraints. Pure in the sense that it has no storage dependency; it
// operates on the models.Match values it is given and mutates their
// ScheduledAt in place.
package scheduler

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/padelhub/tournament-core/models"
)

const dayLayout = "15:04"

// Config mirrors the FixtureConfig fields the scheduler consumes,
// already defaulted (models.FixtureConfig.WithDefaults).
type Config struct {
	MatchDuration time.Duration
	MatchesPerDay int
	DayStart      time.Duration // offset from midnight
	DayEnd        time.Duration
	Rest          time.Duration
}

// FromFixtureConfig builds a scheduler Config from a defaulted
// FixtureConfig, parsing its HH:MM start/end times.
func FromFixtureConfig(c models.FixtureConfig) Config {
	c = c.WithDefaults()
	start, _ := time.Parse(dayLayout, c.StartTime)
	end, _ := time.Parse(dayLayout, c.EndTime)
	return Config{
		MatchDuration: time.Duration(c.MatchDurationMinutes) * time.Minute,
		MatchesPerDay: c.MatchesPerDay,
		DayStart:      time.Duration(start.Hour())*time.Hour + time.Duration(start.Minute())*time.Minute,
		DayEnd:        time.Duration(end.Hour())*time.Hour + time.Duration(end.Minute())*time.Minute,
		Rest:          time.Duration(c.RestBetweenMatchesMin) * time.Minute,
	}
}

// cursor walks slot-by-slot, then day-by-day.
type cursor struct {
	startDate time.Time
	cfg       Config
	slotDur   time.Duration
	slotsDay  int
	day       int
	slot      int
}

func newCursor(startDate time.Time, cfg Config) *cursor {
	slotDur := cfg.MatchDuration + cfg.Rest
	slotsDay := int((cfg.DayEnd - cfg.DayStart) / slotDur)
	if slotsDay < 1 {
		slotsDay = 1
	}
	perDay := cfg.MatchesPerDay
	if perDay > slotsDay || perDay == 0 {
		perDay = slotsDay
	}
	return &cursor{startDate: startDate, cfg: cfg, slotDur: slotDur, slotsDay: perDay}
}

func (c *cursor) time() time.Time {
	dayStart := c.startDate.AddDate(0, 0, c.day)
	return time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(), 0, 0, 0, 0, dayStart.Location()).
		Add(c.cfg.DayStart).Add(time.Duration(c.slot) * c.slotDur)
}

// advance moves to the next slot, rolling to the next day when the
// day's slots are exhausted.
func (c *cursor) advance() {
	c.slot++
	if c.slot >= c.slotsDay {
		c.slot = 0
		c.day++
	}
}

// nextDay rolls the cursor to day 0 of the following day, clearing the
// slot. Used to insert the idle day between group and playoff phases.
func (c *cursor) nextDay() {
	c.day++
	c.slot = 0
}

// Schedule assigns ScheduledAt to every match in order, honoring the
// rest_between_matches constraint per team (spec §4.5). Matches with
// either team slot unresolved (playoff matches awaiting feeders) are
// skipped and left with ScheduledAt = nil; they are scheduled later by
// the Bracket Advancer (C9) as feeders finish.
func Schedule(groupMatches, playoffMatches []*models.Match, startDate time.Time, cfg Config) {
	c := newCursor(startDate, cfg)
	lastMatchAt := map[uuid.UUID]time.Time{}

	scheduleBatch(groupMatches, c, lastMatchAt, cfg.Rest)

	// one idle day separates the phases; team rest history resets.
	// A cursor left mid-day first moves off the last group-stage day.
	if c.slot != 0 {
		c.nextDay()
	}
	c.nextDay()
	for k := range lastMatchAt {
		delete(lastMatchAt, k)
	}

	scheduleBatch(playoffMatches, c, lastMatchAt, cfg.Rest)
}

func scheduleBatch(matches []*models.Match, c *cursor, lastMatchAt map[uuid.UUID]time.Time, rest time.Duration) {
	for _, m := range matches {
		if !m.HasTeams() {
			continue
		}
		for {
			candidate := c.time()
			if restSatisfied(candidate, *m.Team1, lastMatchAt, rest) && restSatisfied(candidate, *m.Team2, lastMatchAt, rest) {
				t := candidate
				m.ScheduledAt = &t
				lastMatchAt[*m.Team1] = candidate
				lastMatchAt[*m.Team2] = candidate
				c.advance()
				break
			}
			c.advance()
		}
	}
}

func restSatisfied(candidate time.Time, team uuid.UUID, lastMatchAt map[uuid.UUID]time.Time, rest time.Duration) bool {
	last, ok := lastMatchAt[team]
	if !ok {
		return true
	}
	diff := candidate.Sub(last)
	if diff < 0 {
		diff = -diff
	}
	return diff >= rest
}

// SortByRoundThenMatch is a convenience for callers that build matches
// out of round order; C5 expects group matches ordered round-major.
func SortByRoundThenMatch(matches []*models.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].RoundNumber != matches[j].RoundNumber {
			return matches[i].RoundNumber < matches[j].RoundNumber
		}
		return matches[i].MatchNumber < matches[j].MatchNumber
	})
}
