package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/padelhub/tournament-core/models"
)

type EntryRepository interface {
	// ListConfirmedForUpdate locks every confirmed Entry row ordered by
	// (seed NULLS LAST, confirmed_at ASC), per spec §4.6 step 2.
	ListConfirmedForUpdate(ctx context.Context, exec SQLExecutor, tenantID, tournamentID uuid.UUID) ([]*models.Entry, error)
	GetForUpdate(ctx context.Context, exec SQLExecutor, tenantID, id uuid.UUID) (*models.Entry, error)
	// GetByTeamForUpdate locks the Entry linking teamID to tournamentID,
	// needed by the Incident Engine's disqualify action (spec §4.8).
	GetByTeamForUpdate(ctx context.Context, exec SQLExecutor, tenantID, tournamentID, teamID uuid.UUID) (*models.Entry, error)
	Disqualify(ctx context.Context, exec SQLExecutor, tenantID, id uuid.UUID, at time.Time) error
	IsTeamMember(ctx context.Context, tenantID, teamID, profileID uuid.UUID) (bool, error)
	ListTeamMemberIDs(ctx context.Context, tenantID, teamID uuid.UUID) ([]uuid.UUID, error)
}

type postgresEntryRepository struct {
	db *sql.DB
}

func NewPostgresEntryRepository(db *sql.DB) EntryRepository {
	return &postgresEntryRepository{db: db}
}

func (r *postgresEntryRepository) ListConfirmedForUpdate(ctx context.Context, exec SQLExecutor, tenantID, tournamentID uuid.UUID) ([]*models.Entry, error) {
	const q = `
		SELECT id, tenant_id, tournament_id, team_id, seed, status, confirmed_at, disqualified_at
		FROM entries
		WHERE tenant_id = $1 AND tournament_id = $2 AND status = $3
		ORDER BY seed NULLS LAST, confirmed_at ASC
		FOR UPDATE`
	rows, err := exec.QueryContext(ctx, q, tenantID, tournamentID, models.EntryConfirmed)
	if err != nil {
		return nil, fmt.Errorf("list confirmed entries: %w", err)
	}
	defer rows.Close()

	var out []*models.Entry
	for rows.Next() {
		var e models.Entry
		if err := rows.Scan(&e.ID, &e.TenantID, &e.TournamentID, &e.TeamID, &e.Seed, &e.Status, &e.ConfirmedAt, &e.DisqualifiedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *postgresEntryRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, tenantID, id uuid.UUID) (*models.Entry, error) {
	const q = `
		SELECT id, tenant_id, tournament_id, team_id, seed, status, confirmed_at, disqualified_at
		FROM entries WHERE tenant_id = $1 AND id = $2 FOR UPDATE`
	var e models.Entry
	err := exec.QueryRowContext(ctx, q, tenantID, id).Scan(
		&e.ID, &e.TenantID, &e.TournamentID, &e.TeamID, &e.Seed, &e.Status, &e.ConfirmedAt, &e.DisqualifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return &e, nil
}

func (r *postgresEntryRepository) GetByTeamForUpdate(ctx context.Context, exec SQLExecutor, tenantID, tournamentID, teamID uuid.UUID) (*models.Entry, error) {
	const q = `
		SELECT id, tenant_id, tournament_id, team_id, seed, status, confirmed_at, disqualified_at
		FROM entries WHERE tenant_id = $1 AND tournament_id = $2 AND team_id = $3 FOR UPDATE`
	var e models.Entry
	err := exec.QueryRowContext(ctx, q, tenantID, tournamentID, teamID).Scan(
		&e.ID, &e.TenantID, &e.TournamentID, &e.TeamID, &e.Seed, &e.Status, &e.ConfirmedAt, &e.DisqualifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get entry by team: %w", err)
	}
	return &e, nil
}

func (r *postgresEntryRepository) Disqualify(ctx context.Context, exec SQLExecutor, tenantID, id uuid.UUID, at time.Time) error {
	const q = `
		UPDATE entries SET status = $1, disqualified_at = $2
		WHERE tenant_id = $3 AND id = $4`
	res, err := exec.ExecContext(ctx, q, models.EntryDisqualified, at, tenantID, id)
	if err != nil {
		return fmt.Errorf("disqualify entry: %w", err)
	}
	return checkAffectedRows(res, ErrEntryNotFound)
}

func (r *postgresEntryRepository) IsTeamMember(ctx context.Context, tenantID, teamID, profileID uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM team_members WHERE tenant_id = $1 AND team_id = $2 AND profile_id = $3)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, tenantID, teamID, profileID).Scan(&ok); err != nil {
		return false, fmt.Errorf("check team membership: %w", err)
	}
	return ok, nil
}

func (r *postgresEntryRepository) ListTeamMemberIDs(ctx context.Context, tenantID, teamID uuid.UUID) ([]uuid.UUID, error) {
	const q = `SELECT profile_id FROM team_members WHERE tenant_id = $1 AND team_id = $2`
	rows, err := r.db.QueryContext(ctx, q, tenantID, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
