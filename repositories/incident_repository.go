package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/padelhub/tournament-core/models"
)

type IncidentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, i *models.Incident) error
	GetForUpdate(ctx context.Context, exec SQLExecutor, tenantID, id uuid.UUID) (*models.Incident, error)
	Resolve(ctx context.Context, exec SQLExecutor, i *models.Incident) error
	AddTeamWarning(ctx context.Context, exec SQLExecutor, w *models.TeamWarning) error
}

type postgresIncidentRepository struct {
	db *sql.DB
}

func NewPostgresIncidentRepository(db *sql.DB) IncidentRepository {
	return &postgresIncidentRepository{db: db}
}

const incidentColumns = `id, tenant_id, tournament_id, match_id, affected_team_id, type, severity,
	title, description, reported_by, resolved_by, resolved_at, resolution_notes, created_at`

func (r *postgresIncidentRepository) Create(ctx context.Context, exec SQLExecutor, i *models.Incident) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	const q = `
		INSERT INTO incidents (` + incidentColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,now())`
	_, err := exec.ExecContext(ctx, q, i.ID, i.TenantID, i.TournamentID, i.MatchID, i.AffectedTeamID,
		i.Type, i.Severity, i.Title, i.Description, i.ReportedBy, i.ResolvedBy, i.ResolvedAt, i.ResolutionNotes)
	if err != nil {
		return fmt.Errorf("insert incident: %w", err)
	}
	return nil
}

func (r *postgresIncidentRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, tenantID, id uuid.UUID) (*models.Incident, error) {
	q := `SELECT ` + incidentColumns + ` FROM incidents WHERE tenant_id = $1 AND id = $2 FOR UPDATE`
	var i models.Incident
	err := exec.QueryRowContext(ctx, q, tenantID, id).Scan(&i.ID, &i.TenantID, &i.TournamentID, &i.MatchID,
		&i.AffectedTeamID, &i.Type, &i.Severity, &i.Title, &i.Description, &i.ReportedBy, &i.ResolvedBy,
		&i.ResolvedAt, &i.ResolutionNotes, &i.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrIncidentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get incident: %w", err)
	}
	return &i, nil
}

func (r *postgresIncidentRepository) Resolve(ctx context.Context, exec SQLExecutor, i *models.Incident) error {
	const q = `
		UPDATE incidents SET resolved_by = $1, resolved_at = $2, resolution_notes = $3
		WHERE tenant_id = $4 AND id = $5`
	res, err := exec.ExecContext(ctx, q, i.ResolvedBy, i.ResolvedAt, i.ResolutionNotes, i.TenantID, i.ID)
	if err != nil {
		return fmt.Errorf("resolve incident: %w", err)
	}
	return checkAffectedRows(res, ErrIncidentNotFound)
}

func (r *postgresIncidentRepository) AddTeamWarning(ctx context.Context, exec SQLExecutor, w *models.TeamWarning) error {
	const q = `INSERT INTO team_warnings (incident_id, team_id, reason, issued_at, issued_by) VALUES ($1,$2,$3,$4,$5)`
	_, err := exec.ExecContext(ctx, q, w.IncidentID, w.TeamID, w.Reason, w.IssuedAt, w.IssuedBy)
	if err != nil {
		return fmt.Errorf("insert team warning: %w", err)
	}
	return nil
}
