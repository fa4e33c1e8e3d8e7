package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/padelhub/tournament-core/models"
)

// TournamentRepository mirrors the teacher's interface-plus-SQLExecutor
// shape: transactional methods take an explicit exec so the Fixture
// Orchestrator can run the whole read-modify-write sequence inside one
// serializable transaction.
type TournamentRepository interface {
	GetForUpdate(ctx context.Context, exec SQLExecutor, tenantID, id uuid.UUID) (*models.Tournament, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Tournament, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, tenantID, id uuid.UUID, status models.TournamentStatus, generatedAt *models.Tournament) error
	List(ctx context.Context, tenantID uuid.UUID, status *models.TournamentStatus) ([]*models.Tournament, error)
	ListActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

// GetForUpdate locks the Tournament row exclusively (spec §4.6 step 1).
func (r *postgresTournamentRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, tenantID, id uuid.UUID) (*models.Tournament, error) {
	const q = `
		SELECT id, tenant_id, name, status, sets_to_win, games_per_set, min_teams, max_teams,
		       start_date, settings, fixture_generated_at, fixture_generated_by, created_at, updated_at
		FROM tournaments
		WHERE tenant_id = $1 AND id = $2
		FOR UPDATE`
	row := exec.QueryRowContext(ctx, q, tenantID, id)
	return scanTournament(row)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Tournament, error) {
	const q = `
		SELECT id, tenant_id, name, status, sets_to_win, games_per_set, min_teams, max_teams,
		       start_date, settings, fixture_generated_at, fixture_generated_by, created_at, updated_at
		FROM tournaments
		WHERE tenant_id = $1 AND id = $2`
	row := r.db.QueryRowContext(ctx, q, tenantID, id)
	return scanTournament(row)
}

func scanTournament(row *sql.Row) (*models.Tournament, error) {
	var t models.Tournament
	err := row.Scan(&t.ID, &t.TenantID, &t.Name, &t.Status, &t.SetsToWin, &t.GamesPerSet,
		&t.MinTeams, &t.MaxTeams, &t.StartDate, &t.Settings, &t.FixtureGeneratedAt,
		&t.FixtureGeneratedBy, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTournamentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan tournament: %w", err)
	}
	return &t, nil
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, tenantID, id uuid.UUID, status models.TournamentStatus, stamped *models.Tournament) error {
	const q = `
		UPDATE tournaments
		SET status = $1, fixture_generated_at = $2, fixture_generated_by = $3, updated_at = now()
		WHERE tenant_id = $4 AND id = $5`
	res, err := exec.ExecContext(ctx, q, status, stamped.FixtureGeneratedAt, stamped.FixtureGeneratedBy, tenantID, id)
	if err != nil {
		return handleTournamentError(err)
	}
	return checkAffectedRows(res, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) List(ctx context.Context, tenantID uuid.UUID, status *models.TournamentStatus) ([]*models.Tournament, error) {
	q := `
		SELECT id, tenant_id, name, status, sets_to_win, games_per_set, min_teams, max_teams,
		       start_date, settings, fixture_generated_at, fixture_generated_by, created_at, updated_at
		FROM tournaments WHERE tenant_id = $1`
	args := []interface{}{tenantID}
	if status != nil {
		q += " AND status = $2"
		args = append(args, *status)
	}
	q += " ORDER BY start_date ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	defer rows.Close()

	var out []*models.Tournament
	for rows.Next() {
		var t models.Tournament
		if err := rows.Scan(&t.ID, &t.TenantID, &t.Name, &t.Status, &t.SetsToWin, &t.GamesPerSet,
			&t.MinTeams, &t.MaxTeams, &t.StartDate, &t.Settings, &t.FixtureGeneratedAt,
			&t.FixtureGeneratedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan tournament row: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// ListActiveTenantIDs returns every tenant with at least one
// in_progress tournament, letting cmd/sweeper fan its sweep out across
// tenants without a dedicated tenants table.
func (r *postgresTournamentRepository) ListActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	const q = `SELECT DISTINCT tenant_id FROM tournaments WHERE status = $1`
	rows, err := r.db.QueryContext(ctx, q, models.TournamentInProgress)
	if err != nil {
		return nil, fmt.Errorf("list active tenant ids: %w", err)
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan tenant id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// handleTournamentError classifies Postgres constraint violations the
// way the teacher's repository layer does, switching on pq.Error.Code.
func handleTournamentError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return fmt.Errorf("%w: %s", ErrConstraintViolated, pqErr.Constraint)
		case "foreign_key_violation":
			return fmt.Errorf("%w: %s", ErrConstraintViolated, pqErr.Constraint)
		}
	}
	return err
}
