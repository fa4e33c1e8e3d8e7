package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/padelhub/tournament-core/models"
)

// MatchRepository persists Match rows. PendingResult is normalised into
// its own JSON column rather than the source's free-form settings blob
// (spec §9 permits either encoding; the state machine in §4.7 is the
// authoritative description).
type MatchRepository interface {
	DeleteAllForTournament(ctx context.Context, exec SQLExecutor, tenantID, tournamentID uuid.UUID) (int, error)
	BulkInsert(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	SetNextMatch(ctx context.Context, exec SQLExecutor, matchID, nextMatchID uuid.UUID, winnerToSlot int) error
	GetForUpdate(ctx context.Context, exec SQLExecutor, tenantID, id uuid.UUID) (*models.Match, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Match, error)
	Update(ctx context.Context, exec SQLExecutor, m *models.Match) error
	ListByTournament(ctx context.Context, tenantID, tournamentID uuid.UUID) ([]*models.Match, error)
	ListExpiredPendingConfirmations(ctx context.Context, tenantID uuid.UUID, olderThan time.Time) ([]*models.Match, error)
	ReplaceSetResults(ctx context.Context, exec SQLExecutor, matchID uuid.UUID, sets []models.SetScore) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) DeleteAllForTournament(ctx context.Context, exec SQLExecutor, tenantID, tournamentID uuid.UUID) (int, error) {
	const q = `DELETE FROM matches WHERE tenant_id = $1 AND tournament_id = $2`
	res, err := exec.ExecContext(ctx, q, tenantID, tournamentID)
	if err != nil {
		return 0, fmt.Errorf("delete matches: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

func (r *postgresMatchRepository) BulkInsert(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	const q = `
		INSERT INTO matches (id, tenant_id, tournament_id, round_number, round_name, match_number,
		                      bracket_position, team1, team2, scheduled_at, status, settings)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
	for _, m := range matches {
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		if m.Status == "" {
			m.Status = models.MatchScheduled
		}
		settings := m.Settings
		if settings == nil {
			settings = json.RawMessage(`{}`)
		}
		if _, err := exec.ExecContext(ctx, q, m.ID, m.TenantID, m.TournamentID, m.RoundNumber, m.RoundName,
			m.MatchNumber, m.BracketPosition, m.Team1, m.Team2, m.ScheduledAt, m.Status, settings); err != nil {
			return fmt.Errorf("insert match %s: %w", m.BracketPosition, err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) SetNextMatch(ctx context.Context, exec SQLExecutor, matchID, nextMatchID uuid.UUID, winnerToSlot int) error {
	const q = `UPDATE matches SET next_match_id = $1, winner_to_slot = $2 WHERE id = $3`
	_, err := exec.ExecContext(ctx, q, nextMatchID, winnerToSlot, matchID)
	if err != nil {
		return fmt.Errorf("set next match: %w", err)
	}
	return nil
}

const matchColumns = `id, tenant_id, tournament_id, round_number, round_name, match_number, bracket_position,
	team1, team2, scheduled_at, status, winner, loser, finished_at, next_match_id, winner_to_slot,
	pending_result, settings`

func (r *postgresMatchRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, tenantID, id uuid.UUID) (*models.Match, error) {
	q := `SELECT ` + matchColumns + ` FROM matches WHERE tenant_id = $1 AND id = $2 FOR UPDATE`
	return scanMatch(exec.QueryRowContext(ctx, q, tenantID, id))
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Match, error) {
	q := `SELECT ` + matchColumns + ` FROM matches WHERE tenant_id = $1 AND id = $2`
	return scanMatch(r.db.QueryRowContext(ctx, q, tenantID, id))
}

func scanMatch(row *sql.Row) (*models.Match, error) {
	var m models.Match
	var pendingJSON []byte
	err := row.Scan(&m.ID, &m.TenantID, &m.TournamentID, &m.RoundNumber, &m.RoundName, &m.MatchNumber,
		&m.BracketPosition, &m.Team1, &m.Team2, &m.ScheduledAt, &m.Status, &m.Winner, &m.Loser,
		&m.FinishedAt, &m.NextMatchID, &m.WinnerToSlot, &pendingJSON, &m.Settings)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan match: %w", err)
	}
	if len(pendingJSON) > 0 {
		var pr models.PendingResult
		if err := json.Unmarshal(pendingJSON, &pr); err != nil {
			return nil, fmt.Errorf("unmarshal pending_result: %w", err)
		}
		m.PendingResult = &pr
	}
	return &m, nil
}

func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	var pendingJSON []byte
	var err error
	if m.PendingResult != nil {
		pendingJSON, err = json.Marshal(m.PendingResult)
		if err != nil {
			return fmt.Errorf("marshal pending_result: %w", err)
		}
	}
	const q = `
		UPDATE matches SET
			team1 = $1, team2 = $2, scheduled_at = $3, status = $4, winner = $5, loser = $6,
			finished_at = $7, next_match_id = $8, winner_to_slot = $9, pending_result = $10, settings = $11
		WHERE id = $12`
	res, err := exec.ExecContext(ctx, q, m.Team1, m.Team2, m.ScheduledAt, m.Status, m.Winner, m.Loser,
		m.FinishedAt, m.NextMatchID, m.WinnerToSlot, pendingJSON, m.Settings, m.ID)
	if err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	return checkAffectedRows(res, ErrMatchNotFound)
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tenantID, tournamentID uuid.UUID) ([]*models.Match, error) {
	q := `SELECT ` + matchColumns + ` FROM matches WHERE tenant_id = $1 AND tournament_id = $2 ORDER BY round_number, match_number`
	rows, err := r.db.QueryContext(ctx, q, tenantID, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []*models.Match
	for rows.Next() {
		var m models.Match
		var pendingJSON []byte
		if err := rows.Scan(&m.ID, &m.TenantID, &m.TournamentID, &m.RoundNumber, &m.RoundName, &m.MatchNumber,
			&m.BracketPosition, &m.Team1, &m.Team2, &m.ScheduledAt, &m.Status, &m.Winner, &m.Loser,
			&m.FinishedAt, &m.NextMatchID, &m.WinnerToSlot, &pendingJSON, &m.Settings); err != nil {
			return nil, fmt.Errorf("scan match row: %w", err)
		}
		if len(pendingJSON) > 0 {
			var pr models.PendingResult
			if err := json.Unmarshal(pendingJSON, &pr); err == nil {
				m.PendingResult = &pr
			}
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// ListExpiredPendingConfirmations backs the auto-confirmation sweep
// (spec §4.7, §9 Open Question).
func (r *postgresMatchRepository) ListExpiredPendingConfirmations(ctx context.Context, tenantID uuid.UUID, olderThan time.Time) ([]*models.Match, error) {
	q := `SELECT ` + matchColumns + ` FROM matches
		WHERE tenant_id = $1 AND status = $2 AND pending_result->>'status' = $3
		AND (pending_result->>'reported_at')::timestamptz < $4`
	rows, err := r.db.QueryContext(ctx, q, tenantID, models.MatchInProgress, models.PendingConfirmation, olderThan)
	if err != nil {
		return nil, fmt.Errorf("list expired pending confirmations: %w", err)
	}
	defer rows.Close()

	var out []*models.Match
	for rows.Next() {
		var m models.Match
		var pendingJSON []byte
		if err := rows.Scan(&m.ID, &m.TenantID, &m.TournamentID, &m.RoundNumber, &m.RoundName, &m.MatchNumber,
			&m.BracketPosition, &m.Team1, &m.Team2, &m.ScheduledAt, &m.Status, &m.Winner, &m.Loser,
			&m.FinishedAt, &m.NextMatchID, &m.WinnerToSlot, &pendingJSON, &m.Settings); err != nil {
			return nil, fmt.Errorf("scan expired match row: %w", err)
		}
		if len(pendingJSON) > 0 {
			var pr models.PendingResult
			if err := json.Unmarshal(pendingJSON, &pr); err == nil {
				m.PendingResult = &pr
			}
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *postgresMatchRepository) ReplaceSetResults(ctx context.Context, exec SQLExecutor, matchID uuid.UUID, sets []models.SetScore) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM set_results WHERE match_id = $1`, matchID); err != nil {
		return fmt.Errorf("delete set results: %w", err)
	}
	const ins = `INSERT INTO set_results (id, match_id, set_number, team1_games, team2_games, tiebreak_team1, tiebreak_team2)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`
	for _, s := range sets {
		if _, err := exec.ExecContext(ctx, ins, uuid.New(), matchID, s.SetNumber, s.Team1Games, s.Team2Games, s.TiebreakTeam1, s.TiebreakTeam2); err != nil {
			return fmt.Errorf("insert set result: %w", err)
		}
	}
	return nil
}
