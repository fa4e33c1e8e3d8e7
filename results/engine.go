// Package results implements the Result State Machine (C7): ingests
// reports, enforces the single-reporter lock, holds pending
// confirmations, and applies admin auto-approval (spec §4.7).
package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/padelhub/tournament-core/advancer"
	"github.com/padelhub/tournament-core/idempotency"
	"github.com/padelhub/tournament-core/models"
	"github.com/padelhub/tournament-core/notify"
	"github.com/padelhub/tournament-core/repositories"
	"github.com/padelhub/tournament-core/store"
	"github.com/padelhub/tournament-core/validator"
)

type Engine struct {
	db           *sql.DB
	tournaments  repositories.TournamentRepository
	matches      repositories.MatchRepository
	entries      repositories.EntryRepository
	incidents    repositories.IncidentRepository
	idempRepo    repositories.IdempotencyRepository
	idempCache   *idempotency.Cache
	advancer     *advancer.Advancer
	notifier     *notify.Producer
	hub          *notify.Hub
	logger       *slog.Logger
}

func NewEngine(
	db *sql.DB,
	tournaments repositories.TournamentRepository,
	matches repositories.MatchRepository,
	entries repositories.EntryRepository,
	incidents repositories.IncidentRepository,
	idempRepo repositories.IdempotencyRepository,
	idempCache *idempotency.Cache,
	adv *advancer.Advancer,
	notifier *notify.Producer,
	hub *notify.Hub,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		db: db, tournaments: tournaments, matches: matches, entries: entries,
		incidents: incidents, idempRepo: idempRepo, idempCache: idempCache,
		advancer: adv, notifier: notifier, hub: hub, logger: logger,
	}
}

type ReportResultRequest struct {
	MatchID         uuid.UUID
	Sets            []models.SetScore
	WinnerTeamID    uuid.UUID
	DurationMinutes *int
	Notes           string
	IdempotencyKey  string
}

type ReportResponse struct {
	MatchID           uuid.UUID          `json:"match_id"`
	Status            models.MatchStatus `json:"status"`
	NeedsConfirmation bool               `json:"needs_confirmation"`
	WinnerTeamID      uuid.UUID          `json:"winner_team_id"`
	Sets              []models.SetScore  `json:"sets"`
	Message           string             `json:"message"`
}

// ReportResult implements spec §4.7's reportResult contract.
func (e *Engine) ReportResult(ctx context.Context, rc models.RequestContext, req ReportResultRequest) (*ReportResponse, error) {
	if req.IdempotencyKey != "" {
		if cached, err := e.lookupIdempotent(ctx, rc.TenantID, req.IdempotencyKey); err != nil {
			return nil, err
		} else if cached != nil {
			return cached, nil
		}
	}

	var resp *ReportResponse
	var advanceMatch *models.Match

	err := store.WithTransaction(ctx, e.db, func(tx *sql.Tx) error {
		match, err := e.matches.GetForUpdate(ctx, tx, rc.TenantID, req.MatchID)
		if err != nil {
			return err
		}
		if match.IsTerminal() {
			return ErrMatchTerminal
		}
		if !match.HasTeams() {
			return ErrTeamsUnresolved
		}
		if match.PendingResult != nil && match.PendingResult.Status == models.PendingConfirmation {
			return ErrResultAlreadyPending
		}
		if !rc.Role.IsAdmin() {
			member, err := e.callerIsPartyMember(ctx, rc.TenantID, rc.ProfileID, *match.Team1, *match.Team2)
			if err != nil {
				return err
			}
			if !member {
				return ErrNotTeamMember
			}
		}
		if req.WinnerTeamID != *match.Team1 && req.WinnerTeamID != *match.Team2 {
			return ErrInvalidWinner
		}

		tournament, err := e.tournaments.GetByID(ctx, rc.TenantID, match.TournamentID)
		if err != nil {
			return err
		}
		rules := validator.Rules{SetsToWin: tournament.SetsToWin, GamesPerSet: tournament.GamesPerSet}
		if err := validator.Validate(req.Sets, req.WinnerTeamID, *match.Team1, *match.Team2, rules); err != nil {
			return err
		}

		loser := *match.Team1
		if req.WinnerTeamID == *match.Team1 {
			loser = *match.Team2
		}
		now := rc.Clock()
		needsConfirmation := !rc.Role.IsAdmin()

		if needsConfirmation {
			match.Status = models.MatchInProgress
			match.PendingResult = &models.PendingResult{
				ReportedBy: rc.ProfileID,
				ReportedAt: now,
				Winner:     req.WinnerTeamID,
				Loser:      loser,
				Sets:       req.Sets,
				Status:     models.PendingConfirmation,
			}
		} else {
			match.Status = models.MatchFinished
			match.Winner = &req.WinnerTeamID
			match.Loser = &loser
			match.FinishedAt = &now
			match.PendingResult = nil
			advanceMatch = match
		}

		if err := e.matches.Update(ctx, tx, match); err != nil {
			return err
		}
		if err := e.matches.ReplaceSetResults(ctx, tx, match.ID, req.Sets); err != nil {
			return err
		}
		if advanceMatch != nil {
			if err := e.advancer.Advance(ctx, tx, rc.TenantID, advanceMatch, now); err != nil {
				return err
			}
		}

		resp = &ReportResponse{
			MatchID:           match.ID,
			Status:            match.Status,
			NeedsConfirmation: needsConfirmation,
			WinnerTeamID:      req.WinnerTeamID,
			Sets:              req.Sets,
		}
		if needsConfirmation {
			resp.Message = "result reported, awaiting confirmation from the opposing team"
		} else {
			resp.Message = "result recorded by an administrator"
		}

		if req.IdempotencyKey != "" {
			body, merr := json.Marshal(resp)
			if merr != nil {
				return fmt.Errorf("marshal idempotent response: %w", merr)
			}
			rec := &models.IdempotencyRecord{
				TenantID:  rc.TenantID,
				Key:       req.IdempotencyKey,
				Response:  body,
				ExpiresAt: now.Add(models.IdempotencyTTL),
			}
			if err := e.idempRepo.Put(ctx, tx, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if req.IdempotencyKey != "" {
		if body, merr := json.Marshal(resp); merr == nil {
			if err := e.idempCache.Set(ctx, rc.TenantID.String(), req.IdempotencyKey, body, models.IdempotencyTTL); err != nil {
				e.logger.WarnContext(ctx, "idempotency cache set failed", "error", err)
			}
		}
	}

	eventType := notify.EventResultPendingConfirm
	if !resp.NeedsConfirmation {
		eventType = notify.EventResultReported
	}
	e.emitBestEffort(ctx, rc, eventType, resp.MatchID, "Match result reported", nil)

	return resp, nil
}

type AcceptResultRequest struct {
	MatchID       uuid.UUID
	Accept        bool
	DisputeReason string
}

type AcceptResponse struct {
	MatchID      uuid.UUID          `json:"match_id"`
	Status       models.MatchStatus `json:"status"`
	IncidentID   *uuid.UUID         `json:"incident_id,omitempty"`
	WinnerTeamID *uuid.UUID         `json:"winner_team_id,omitempty"`
	Message      string             `json:"message"`
}

// AcceptResult implements spec §4.7's acceptResult contract.
func (e *Engine) AcceptResult(ctx context.Context, rc models.RequestContext, req AcceptResultRequest) (*AcceptResponse, error) {
	if !req.Accept && len(req.DisputeReason) < 10 {
		return nil, ErrDisputeReasonTooShort
	}

	var resp *AcceptResponse
	var advanceMatch *models.Match
	var disputeIncident *models.Incident

	err := store.WithTransaction(ctx, e.db, func(tx *sql.Tx) error {
		match, err := e.matches.GetForUpdate(ctx, tx, rc.TenantID, req.MatchID)
		if err != nil {
			return err
		}
		if match.PendingResult == nil || match.PendingResult.Status != models.PendingConfirmation {
			return ErrNoPendingResult
		}

		isReporter, err := e.callerIsReporterParty(ctx, rc.TenantID, rc.ProfileID, match.PendingResult.ReportedBy, *match.Team1, *match.Team2)
		if err != nil {
			return err
		}
		if isReporter {
			return ErrSelfConfirm
		}

		now := rc.Clock()
		if req.Accept {
			match.PendingResult.Status = models.PendingConfirmed
			confirmedBy := rc.ProfileID
			match.PendingResult.ConfirmedBy = &confirmedBy
			match.Status = models.MatchFinished
			match.Winner = &match.PendingResult.Winner
			match.Loser = &match.PendingResult.Loser
			match.FinishedAt = &now
			advanceMatch = match

			resp = &AcceptResponse{MatchID: match.ID, Status: models.MatchFinished, WinnerTeamID: match.Winner, Message: "result confirmed"}
		} else {
			match.PendingResult.Status = models.PendingDisputed
			match.PendingResult.DisputeReason = req.DisputeReason

			disputeIncident = &models.Incident{
				ID:           uuid.New(),
				TenantID:     rc.TenantID,
				TournamentID: &match.TournamentID,
				MatchID:      &match.ID,
				Type:         models.IncidentDispute,
				Severity:     DefaultDisputeSeverity,
				Title:        "Result disputed",
				Description:  req.DisputeReason,
				ReportedBy:   rc.ProfileID,
			}
			if err := e.incidents.Create(ctx, tx, disputeIncident); err != nil {
				return err
			}
			resp = &AcceptResponse{MatchID: match.ID, Status: models.MatchInProgress, IncidentID: &disputeIncident.ID, Message: "result disputed; an incident was opened"}
		}

		if err := e.matches.Update(ctx, tx, match); err != nil {
			return err
		}
		if advanceMatch != nil {
			if err := e.advancer.Advance(ctx, tx, rc.TenantID, advanceMatch, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if req.Accept {
		e.emitBestEffort(ctx, rc, notify.EventResultConfirmed, resp.MatchID, "Match result confirmed", nil)
	} else {
		e.emitBestEffort(ctx, rc, notify.EventResultDisputed, resp.MatchID, "Match result disputed", map[string]any{"incident_id": disputeIncident.ID})
	}

	return resp, nil
}

// DefaultDisputeSeverity is the severity assigned to an
// auto-created dispute incident. spec §9 flags the source's
// hard-coded "medium" as unverified; kept here as a single named
// constant so the decision is easy to revisit.
const DefaultDisputeSeverity = models.SeverityMedium

func (e *Engine) callerIsPartyMember(ctx context.Context, tenantID, profileID, team1, team2 uuid.UUID) (bool, error) {
	inTeam1, err := e.entries.IsTeamMember(ctx, tenantID, team1, profileID)
	if err != nil {
		return false, err
	}
	if inTeam1 {
		return true, nil
	}
	return e.entries.IsTeamMember(ctx, tenantID, team2, profileID)
}

func (e *Engine) callerIsReporterParty(ctx context.Context, tenantID, profileID, reportedBy, team1, team2 uuid.UUID) (bool, error) {
	if profileID == reportedBy {
		return true, nil
	}
	for _, team := range []uuid.UUID{team1, team2} {
		reporterIn, err := e.entries.IsTeamMember(ctx, tenantID, team, reportedBy)
		if err != nil {
			return false, err
		}
		if !reporterIn {
			continue
		}
		callerIn, err := e.entries.IsTeamMember(ctx, tenantID, team, profileID)
		if err != nil {
			return false, err
		}
		if callerIn {
			return true, nil
		}
	}
	return false, nil
}

func (e *Engine) lookupIdempotent(ctx context.Context, tenantID uuid.UUID, key string) (*ReportResponse, error) {
	if cached, err := e.idempCache.Get(ctx, tenantID.String(), key); err != nil {
		e.logger.WarnContext(ctx, "idempotency cache get failed", "error", err)
	} else if cached != nil {
		var resp ReportResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			return &resp, nil
		}
	}

	rec, err := e.idempRepo.Get(ctx, tenantID, key)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	var resp ReportResponse
	if err := json.Unmarshal(rec.Response, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal stored idempotent response: %w", err)
	}
	return &resp, nil
}

// emitBestEffort publishes a notification post-commit. Failures are
// logged, never surfaced to the caller (spec §7).
func (e *Engine) emitBestEffort(ctx context.Context, rc models.RequestContext, eventType notify.EventType, matchID uuid.UUID, title string, data map[string]any) {
	if e.notifier == nil {
		return
	}
	ev := notify.Event{
		Tenant: rc.TenantID,
		Type:   eventType,
		Title:  title,
		Data:   data,
	}
	if err := e.notifier.Publish(ctx, ev); err != nil {
		e.logger.WarnContext(ctx, "notification publish failed", "error", err, "match_id", matchID)
	}
	if e.hub != nil {
		e.hub.BroadcastToRoom(matchID.String(), notify.LiveMessage{Type: "MATCH_UPDATED", Payload: matchID, RoomID: matchID.String()})
	}
}
