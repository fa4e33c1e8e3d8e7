// Package fixture implements the Fixture Orchestrator (C6): combines
// the Snake-Draft Distributor, Round-Robin Generator, Single-Elimination
// Bracket Generator and Temporal Scheduler under one serializable
// transaction to (re)build a Tournament's full Match set (spec §4.6).
package fixture

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/padelhub/tournament-core/brackets"
	"github.com/padelhub/tournament-core/db"
	"github.com/padelhub/tournament-core/models"
	"github.com/padelhub/tournament-core/repositories"
	"github.com/padelhub/tournament-core/scheduler"
	"github.com/padelhub/tournament-core/store"
	"golang.org/x/sync/errgroup"
)

type Orchestrator struct {
	db          *sql.DB
	tournaments repositories.TournamentRepository
	entries     repositories.EntryRepository
	matches     repositories.MatchRepository
	logger      *slog.Logger
}

func NewOrchestrator(
	sqlDB *sql.DB,
	tournaments repositories.TournamentRepository,
	entries repositories.EntryRepository,
	matches repositories.MatchRepository,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{db: sqlDB, tournaments: tournaments, entries: entries, matches: matches, logger: logger}
}

type GroupSummary struct {
	Index   int         `json:"index"`
	TeamIDs []uuid.UUID `json:"team_ids"`
}

type RoundSummary struct {
	Number  int    `json:"number"`
	Name    string `json:"name"`
	Matches int    `json:"matches"`
}

type FixtureSummary struct {
	TournamentID uuid.UUID `json:"tournament_id"`
	TotalMatches int       `json:"total_matches"`
	DeletedCount int       `json:"deleted_count"`
	GroupStage   struct {
		Groups       []GroupSummary `json:"groups"`
		MatchesCount int            `json:"matches_count"`
	} `json:"group_stage"`
	PlayoffStage struct {
		Rounds       []RoundSummary `json:"rounds"`
		MatchesCount int            `json:"matches_count"`
	} `json:"playoff_stage"`
	Schedule struct {
		StartDate time.Time `json:"start_date"`
		EndDate   time.Time `json:"end_date"`
		Days      int       `json:"days"`
	} `json:"schedule"`
}

// GenerateFixture runs the full 9-step procedure from spec §4.6 inside
// one serializable transaction: locking the Tournament and its
// confirmed Entries, rebuilding the Match set from scratch, scheduling
// it, and transitioning the Tournament into in_progress.
func (o *Orchestrator) GenerateFixture(ctx context.Context, rc models.RequestContext, tournamentID uuid.UUID, cfg models.FixtureConfig) (*FixtureSummary, error) {
	if !rc.Role.IsAdmin() {
		return nil, ErrNotAdmin
	}
	cfg = cfg.WithDefaults()
	now := rc.Clock()

	var summary *FixtureSummary

	err := store.WithTransaction(ctx, o.db, func(tx *sql.Tx) error {
		tournament, err := o.tournaments.GetForUpdate(ctx, tx, rc.TenantID, tournamentID)
		if err != nil {
			return err
		}
		if tournament.Status != models.TournamentRegistrationClose && tournament.Status != models.TournamentInProgress {
			return ErrStatusIncompatible
		}

		lockID := db.AdvisoryLockIDForTournament(tournamentID)
		acquired, err := db.TryAcquireTransactionalLock(ctx, tx, lockID, o.logger)
		if err != nil {
			return fmt.Errorf("acquire fixture generation lock: %w", err)
		}
		if !acquired {
			return ErrLockContended
		}

		entries, err := o.entries.ListConfirmedForUpdate(ctx, tx, rc.TenantID, tournamentID)
		if err != nil {
			return err
		}
		if len(entries) < tournament.MinTeams || len(entries) > tournament.MaxTeams {
			return ErrTeamCountOutOfRange
		}

		deleted, err := o.matches.DeleteAllForTournament(ctx, tx, rc.TenantID, tournamentID)
		if err != nil {
			return err
		}

		groups, groupMatches, groupSummaries := buildGroupStage(rc.TenantID, tournamentID, entries, cfg)
		playoffMatches, playoffPairs, roundSummaries := buildPlayoffStage(rc.TenantID, tournamentID, cfg, len(groups))

		scheduler.SortByRoundThenMatch(groupMatches)
		scheduler.SortByRoundThenMatch(playoffMatches)
		scheduler.Schedule(groupMatches, playoffMatches, tournament.StartDate, scheduler.FromFixtureConfig(cfg))

		all := make([]*models.Match, 0, len(groupMatches)+len(playoffMatches))
		all = append(all, groupMatches...)
		all = append(all, playoffMatches...)
		if err := o.matches.BulkInsert(ctx, tx, all); err != nil {
			return err
		}

		for _, link := range playoffPairs {
			if err := o.matches.SetNextMatch(ctx, tx, link.from.ID, link.to.ID, link.slot); err != nil {
				return err
			}
		}

		tournament.Status = models.TournamentInProgress
		tournament.FixtureGeneratedAt = &now
		tournament.FixtureGeneratedBy = &rc.ProfileID
		if err := o.tournaments.UpdateStatus(ctx, tx, rc.TenantID, tournamentID, tournament.Status, tournament); err != nil {
			return err
		}

		summary = summarize(tournamentID, deleted, groupSummaries, len(groupMatches), roundSummaries, len(playoffMatches), all)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// buildGroupStage distributes entries into groups (C4) and generates
// each group's round-robin pairings (C2). Each group's pairing
// generation touches only its own slot of groups/matchesByGroup, so
// the per-group work runs concurrently via errgroup — the same
// fan-out shape the teacher's service layer uses for independent
// per-entity work, here applied to independent per-group computation.
func buildGroupStage(tenantID, tournamentID uuid.UUID, entries []*models.Entry, cfg models.FixtureConfig) ([][]uuid.UUID, []*models.Match, []GroupSummary) {
	groupsCount := cfg.GroupsCount
	if groupsCount <= 0 {
		groupsCount = (len(entries) + cfg.TeamsPerGroup - 1) / cfg.TeamsPerGroup
	}
	if groupsCount < 1 {
		groupsCount = 1
	}

	indices := brackets.SnakeDraft(len(entries), groupsCount)
	groups := make([][]uuid.UUID, len(indices))
	summaries := make([]GroupSummary, len(indices))
	matchesByGroup := make([][]*models.Match, len(indices))

	var g errgroup.Group
	for idx, seedIdxs := range indices {
		idx, seedIdxs := idx, seedIdxs
		g.Go(func() error {
			teamIDs := make([]uuid.UUID, len(seedIdxs))
			for i, seed := range seedIdxs {
				teamIDs[i] = entries[seed].TeamID
			}
			groups[idx] = teamIDs
			summaries[idx] = GroupSummary{Index: idx + 1, TeamIDs: teamIDs}

			pairings := brackets.GenerateRoundRobin(len(teamIDs))
			groupMatches := make([]*models.Match, 0, len(pairings))
			matchNum := 1
			for _, p := range pairings {
				t1, t2 := teamIDs[p.Team1Idx], teamIDs[p.Team2Idx]
				groupMatches = append(groupMatches, &models.Match{
					ID:              uuid.New(),
					TenantID:        tenantID,
					TournamentID:    tournamentID,
					RoundNumber:     p.Round,
					RoundName:       fmt.Sprintf("Grupo %d - Ronda %d", idx+1, p.Round),
					MatchNumber:     matchNum,
					BracketPosition: fmt.Sprintf("G%d-R%d-M%d", idx+1, p.Round, matchNum),
					Team1:           &t1,
					Team2:           &t2,
					Status:          models.MatchScheduled,
				})
				matchNum++
			}
			matchesByGroup[idx] = groupMatches
			return nil
		})
	}
	_ = g.Wait()

	var matches []*models.Match
	for _, gm := range matchesByGroup {
		matches = append(matches, gm...)
	}
	return groups, matches, summaries
}

// nextMatchLink records a playoff match's feeder relationship to be
// persisted via MatchRepository.SetNextMatch once both sides exist.
type nextMatchLink struct {
	from *models.Match
	to   *models.Match
	slot int
}

// buildPlayoffStage builds empty playoff shells for the teams that
// will advance out of the group stage. Their team1/team2 slots start
// unresolved: which teams occupy them depends on group standings, a
// computation this repo does not perform (spec names no standings
// component). Only playoff matches are linked to a next match, so C9
// the Bracket Advancer fills the slots of later playoff rounds as
// playoff matches finish; nothing fills the first playoff round's
// slots, since group matches carry no next-match link.
func buildPlayoffStage(tenantID, tournamentID uuid.UUID, cfg models.FixtureConfig, groupsCount int) ([]*models.Match, []nextMatchLink, []RoundSummary) {
	advancing := groupsCount * cfg.TeamsAdvancePerGroup
	if advancing < 2 {
		return nil, nil, nil
	}

	rounds := brackets.Rounds(advancing)
	var (
		matches   []*models.Match
		links     []nextMatchLink
		summaries []RoundSummary
		byRound   = map[int][]*models.Match{}
	)

	for _, r := range rounds {
		summaries = append(summaries, RoundSummary{Number: r.Number, Name: r.Name, Matches: r.Matches})
		for m := 1; m <= r.Matches; m++ {
			match := &models.Match{
				ID:              uuid.New(),
				TenantID:        tenantID,
				TournamentID:    tournamentID,
				RoundNumber:     r.Number,
				RoundName:       r.Name,
				MatchNumber:     m,
				BracketPosition: fmt.Sprintf("P-R%d-M%d", r.Number, m),
				Status:          models.MatchScheduled,
			}
			matches = append(matches, match)
			byRound[r.Number] = append(byRound[r.Number], match)
		}
	}

	for _, r := range rounds[:max(0, len(rounds)-1)] {
		for m, match := range byRound[r.Number] {
			nextIdx := brackets.NextPlayoffMatch(m+1) - 1
			next := byRound[r.Number+1][nextIdx]
			slot := 1
			if (m+1)%2 == 0 {
				slot = 2
			}
			links = append(links, nextMatchLink{from: match, to: next, slot: slot})
		}
	}

	return matches, links, summaries
}

func summarize(tournamentID uuid.UUID, deleted int, groups []GroupSummary, groupMatchCount int, rounds []RoundSummary, playoffMatchCount int, all []*models.Match) *FixtureSummary {
	s := &FixtureSummary{TournamentID: tournamentID, DeletedCount: deleted, TotalMatches: len(all)}
	s.GroupStage.Groups = groups
	s.GroupStage.MatchesCount = groupMatchCount
	s.PlayoffStage.Rounds = rounds
	s.PlayoffStage.MatchesCount = playoffMatchCount

	var earliest, latest time.Time
	days := map[string]struct{}{}
	for _, m := range all {
		if m.ScheduledAt == nil {
			continue
		}
		t := *m.ScheduledAt
		if earliest.IsZero() || t.Before(earliest) {
			earliest = t
		}
		if latest.IsZero() || t.After(latest) {
			latest = t
		}
		days[t.Format("2006-01-02")] = struct{}{}
	}
	s.Schedule.StartDate = earliest
	s.Schedule.EndDate = latest
	s.Schedule.Days = len(days)
	return s
}
