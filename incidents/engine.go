// Package incidents implements the Incident Engine (C8): adjudication
// of reported incidents via a fixed set of resolution actions, each
// with its own side effects on the Entry/Match it targets (spec §4.8).
package incidents

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/padelhub/tournament-core/advancer"
	"github.com/padelhub/tournament-core/audit"
	"github.com/padelhub/tournament-core/models"
	"github.com/padelhub/tournament-core/notify"
	"github.com/padelhub/tournament-core/repositories"
	"github.com/padelhub/tournament-core/store"
)

type Engine struct {
	db        *sql.DB
	incidents repositories.IncidentRepository
	matches   repositories.MatchRepository
	entries   repositories.EntryRepository
	advancer  *advancer.Advancer
	notifier  *notify.Producer
	hub       *notify.Hub
	auditSink *audit.Sink
	logger    *slog.Logger
}

func NewEngine(
	db *sql.DB,
	incidents repositories.IncidentRepository,
	matches repositories.MatchRepository,
	entries repositories.EntryRepository,
	adv *advancer.Advancer,
	notifier *notify.Producer,
	hub *notify.Hub,
	auditSink *audit.Sink,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		db:        db,
		incidents: incidents,
		matches:   matches,
		entries:   entries,
		advancer:  adv,
		notifier:  notifier,
		hub:       hub,
		auditSink: auditSink,
		logger:    logger,
	}
}

type ResolveIncidentRequest struct {
	IncidentID       uuid.UUID
	Action           models.IncidentAction
	ResolutionNotes  string
	OverrideWinnerID *uuid.UUID
	RescheduleTo     *time.Time
}

type ResolutionSummary struct {
	IncidentID      uuid.UUID             `json:"incident_id"`
	Action          models.IncidentAction `json:"action"`
	AlreadyResolved bool                  `json:"already_resolved"`
	ActionResult    string                `json:"action_result"`
	ResolvedAt      time.Time             `json:"resolved_at"`
	ResolvedBy      uuid.UUID             `json:"resolved_by"`
	NotifiedCount   int                   `json:"notified_count"`
}

var validActions = map[models.IncidentAction]bool{
	models.ActionDismiss:        true,
	models.ActionWarn:           true,
	models.ActionDisqualify:     true,
	models.ActionReschedule:     true,
	models.ActionOverrideResult: true,
}

// ResolveIncident dispatches on req.Action (spec §9 "polymorphism
// across resolution actions") and is idempotent: resolving an
// already-resolved incident is a no-op that reports the prior outcome
// rather than erroring or re-applying side effects (spec §4.8 P7).
func (e *Engine) ResolveIncident(ctx context.Context, rc models.RequestContext, req ResolveIncidentRequest) (*ResolutionSummary, error) {
	if !rc.Role.IsAdmin() {
		return nil, ErrNotAdmin
	}
	if !validActions[req.Action] {
		return nil, ErrUnknownAction
	}
	if len(req.ResolutionNotes) < 10 {
		return nil, ErrNotesTooShort
	}
	if len(req.ResolutionNotes) > 1000 {
		return nil, ErrNotesTooLong
	}
	if req.Action == models.ActionOverrideResult && req.OverrideWinnerID == nil {
		return nil, ErrMissingOverrideTeam
	}

	now := rc.Clock()
	var (
		summary      ResolutionSummary
		incidentOut  *models.Incident
		notifyGroups [][]uuid.UUID
	)

	err := store.WithTransaction(ctx, e.db, func(tx *sql.Tx) error {
		incident, err := e.incidents.GetForUpdate(ctx, tx, rc.TenantID, req.IncidentID)
		if err != nil {
			return err
		}

		if incident.IsResolved() {
			summary = ResolutionSummary{
				IncidentID:      incident.ID,
				Action:          req.Action,
				AlreadyResolved: true,
				ActionResult:    "incident was already resolved; no action taken",
				ResolvedAt:      *incident.ResolvedAt,
				ResolvedBy:      *incident.ResolvedBy,
			}
			return nil
		}

		var actionResult string
		switch req.Action {
		case models.ActionDismiss:
			actionResult = "dismissed with no further action"
		case models.ActionWarn:
			actionResult, err = e.applyWarn(ctx, tx, incident, rc, now)
		case models.ActionDisqualify:
			actionResult, err = e.applyDisqualify(ctx, tx, incident, rc, now)
		case models.ActionReschedule:
			actionResult, err = e.applyReschedule(ctx, tx, incident, req.RescheduleTo, now)
		case models.ActionOverrideResult:
			actionResult, err = e.applyOverrideResult(ctx, tx, incident, *req.OverrideWinnerID, now)
		}
		if err != nil {
			return err
		}

		incident.ResolvedBy = &rc.ProfileID
		incident.ResolvedAt = &now
		incident.ResolutionNotes = fmt.Sprintf("[%s] %s", req.Action, req.ResolutionNotes)
		if err := e.incidents.Resolve(ctx, tx, incident); err != nil {
			return err
		}

		incidentOut = incident
		notifyGroups = e.recipientGroups(ctx, incident)
		summary = ResolutionSummary{
			IncidentID:   incident.ID,
			Action:       req.Action,
			ActionResult: actionResult,
			ResolvedAt:   now,
			ResolvedBy:   rc.ProfileID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if summary.AlreadyResolved {
		return &summary, nil
	}

	recipients := notify.Dedup(notifyGroups...)
	summary.NotifiedCount = len(recipients)
	e.notifyResolved(ctx, rc.TenantID, incidentOut, recipients)
	e.recordAudit(ctx, rc, incidentOut, summary.ActionResult)

	return &summary, nil
}

func (e *Engine) applyWarn(ctx context.Context, tx *sql.Tx, incident *models.Incident, rc models.RequestContext, now time.Time) (string, error) {
	if incident.AffectedTeamID == nil {
		return "", ErrMissingAffectedTeam
	}
	w := &models.TeamWarning{
		IncidentID: incident.ID,
		TeamID:     *incident.AffectedTeamID,
		Reason:     incident.Description,
		IssuedAt:   now,
		IssuedBy:   rc.ProfileID,
	}
	if err := e.incidents.AddTeamWarning(ctx, tx, w); err != nil {
		return "", err
	}
	return "team warned", nil
}

// applyDisqualify disqualifies the affected team's Entry and, if the
// incident is linked to a non-finished Match, awards that match to the
// opposing team as a walkover (spec §4.8 P8).
func (e *Engine) applyDisqualify(ctx context.Context, tx *sql.Tx, incident *models.Incident, rc models.RequestContext, now time.Time) (string, error) {
	if incident.TournamentID == nil || incident.AffectedTeamID == nil {
		return "", ErrMissingTournament
	}

	entry, err := e.entries.GetByTeamForUpdate(ctx, tx, rc.TenantID, *incident.TournamentID, *incident.AffectedTeamID)
	if err != nil {
		return "", err
	}
	if err := e.entries.Disqualify(ctx, tx, rc.TenantID, entry.ID, now); err != nil {
		return "", err
	}

	if incident.MatchID == nil {
		return "team disqualified from the tournament", nil
	}

	match, err := e.matches.GetForUpdate(ctx, tx, rc.TenantID, *incident.MatchID)
	if err != nil {
		return "", err
	}
	if match.IsTerminal() {
		return "team disqualified; linked match was already finished", nil
	}

	opponent, ok := opposingTeam(match, *incident.AffectedTeamID)
	if !ok {
		return "team disqualified from the tournament", nil
	}

	match.Status = models.MatchWalkover
	match.Winner = &opponent
	match.Loser = incident.AffectedTeamID
	match.FinishedAt = &now
	match.PendingResult = nil
	if err := e.matches.Update(ctx, tx, match); err != nil {
		return "", err
	}
	if err := e.advancer.Advance(ctx, tx, rc.TenantID, match, now); err != nil {
		return "", err
	}
	return "team disqualified; linked match awarded to opponent by walkover", nil
}

// applyReschedule postpones the linked Match, archiving its prior
// scheduled_at under settings.reschedule_history (spec §4.8).
func (e *Engine) applyReschedule(ctx context.Context, tx *sql.Tx, incident *models.Incident, to *time.Time, now time.Time) (string, error) {
	if incident.MatchID == nil {
		return "", ErrMissingMatch
	}
	match, err := e.matches.GetForUpdate(ctx, tx, incident.TenantID, *incident.MatchID)
	if err != nil {
		return "", err
	}
	if match.IsTerminal() {
		return "", ErrMatchAlreadyFinished
	}

	settings, err := archiveSetting(match.Settings, "reschedule_history", map[string]any{
		"prior_scheduled_at": match.ScheduledAt,
		"rescheduled_at":     now,
	})
	if err != nil {
		return "", err
	}
	match.Settings = settings
	match.Status = models.MatchPostponed
	match.ScheduledAt = to
	if err := e.matches.Update(ctx, tx, match); err != nil {
		return "", err
	}
	if to != nil {
		return "match postponed and rescheduled", nil
	}
	return "match postponed with no new time set", nil
}

// applyOverrideResult finishes the linked Match with an admin-selected
// winner, archiving any displaced pending result (spec §4.8).
func (e *Engine) applyOverrideResult(ctx context.Context, tx *sql.Tx, incident *models.Incident, winner uuid.UUID, now time.Time) (string, error) {
	if incident.MatchID == nil {
		return "", ErrMissingMatch
	}
	match, err := e.matches.GetForUpdate(ctx, tx, incident.TenantID, *incident.MatchID)
	if err != nil {
		return "", err
	}
	if match.Status == models.MatchFinished {
		return "", ErrMatchAlreadyFinished
	}
	if !match.HasTeams() {
		return "", ErrMissingTournament
	}

	loser, ok := opposingTeam(match, winner)
	if !ok {
		return "", ErrOverrideNotAParty
	}

	settings, err := archiveSetting(match.Settings, "admin_override", map[string]any{
		"prior_pending_result": match.PendingResult,
		"overridden_at":        now,
	})
	if err != nil {
		return "", err
	}

	match.Settings = settings
	match.PendingResult = nil
	match.Status = models.MatchFinished
	match.Winner = &winner
	match.Loser = &loser
	match.FinishedAt = &now
	if err := e.matches.Update(ctx, tx, match); err != nil {
		return "", err
	}
	if err := e.advancer.Advance(ctx, tx, incident.TenantID, match, now); err != nil {
		return "", err
	}
	return "match result overridden by admin", nil
}

func opposingTeam(m *models.Match, team uuid.UUID) (uuid.UUID, bool) {
	switch {
	case m.Team1 != nil && *m.Team1 == team && m.Team2 != nil:
		return *m.Team2, true
	case m.Team2 != nil && *m.Team2 == team && m.Team1 != nil:
		return *m.Team1, true
	default:
		return uuid.Nil, false
	}
}

func archiveSetting(existing json.RawMessage, key string, value any) (json.RawMessage, error) {
	settings := map[string]any{}
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &settings); err != nil {
			return nil, fmt.Errorf("unmarshal match settings: %w", err)
		}
	}
	settings[key] = value
	out, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("marshal match settings: %w", err)
	}
	return out, nil
}

// recipientGroups computes the deduplicated notification audience: the
// reporter, the affected team, and both teams of any linked match
// (spec §4.8).
func (e *Engine) recipientGroups(ctx context.Context, incident *models.Incident) [][]uuid.UUID {
	groups := [][]uuid.UUID{{incident.ReportedBy}}

	if incident.AffectedTeamID != nil {
		if ids, err := e.entries.ListTeamMemberIDs(ctx, incident.TenantID, *incident.AffectedTeamID); err == nil {
			groups = append(groups, ids)
		}
	}

	if incident.MatchID != nil {
		if match, err := e.matches.GetByID(ctx, incident.TenantID, *incident.MatchID); err == nil {
			for _, teamID := range []*uuid.UUID{match.Team1, match.Team2} {
				if teamID == nil {
					continue
				}
				if ids, err := e.entries.ListTeamMemberIDs(ctx, incident.TenantID, *teamID); err == nil {
					groups = append(groups, ids)
				}
			}
		}
	}
	return groups
}

func (e *Engine) notifyResolved(ctx context.Context, tenantID uuid.UUID, incident *models.Incident, recipients []uuid.UUID) {
	if e.notifier == nil {
		return
	}
	ev := notify.Event{
		Tenant:     tenantID,
		Type:       notify.EventIncidentResolved,
		Recipients: recipients,
		Title:      "Incident resolved",
		Body:       incident.ResolutionNotes,
		Data:       map[string]any{"incident_id": incident.ID},
	}
	if err := e.notifier.Publish(ctx, ev); err != nil {
		e.logger.Warn("failed to publish incident_resolved notification", "incident_id", incident.ID, "error", err)
	}
	if e.hub != nil && incident.TournamentID != nil {
		e.hub.BroadcastToRoom(incident.TournamentID.String(), notify.LiveMessage{
			Type:    "incident_resolved",
			Payload: ev.Data,
			RoomID:  incident.TournamentID.String(),
		})
	}
}

func (e *Engine) recordAudit(ctx context.Context, rc models.RequestContext, incident *models.Incident, result string) {
	if e.auditSink == nil {
		return
	}
	err := e.auditSink.Record(ctx, audit.Event{
		TenantID:  rc.TenantID,
		RequestID: rc.RequestID,
		Actor:     rc.ProfileID,
		Action:    "resolve_incident",
		Entity:    "incident",
		EntityID:  incident.ID,
		Detail:    map[string]any{"result": result},
	})
	if err != nil {
		e.logger.Warn("failed to record audit event", "incident_id", incident.ID, "error", err)
	}
}
