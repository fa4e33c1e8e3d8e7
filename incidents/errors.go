package incidents

import "github.com/padelhub/tournament-core/apperr"

var (
	ErrNotAdmin             = apperr.New(apperr.KindForbidden, "only a tenant admin or owner may resolve incidents")
	ErrUnknownAction        = apperr.New(apperr.KindValidation, "action is not one of the supported resolution actions")
	ErrNotesTooShort        = apperr.New(apperr.KindValidation, "resolution_notes must be at least 10 characters")
	ErrNotesTooLong         = apperr.New(apperr.KindValidation, "resolution_notes must be at most 1000 characters")
	ErrMissingAffectedTeam  = apperr.New(apperr.KindConflict, "incident has no affected_team_id to act on")
	ErrMissingTournament    = apperr.New(apperr.KindConflict, "incident has no tournament_id to act on")
	ErrMissingMatch         = apperr.New(apperr.KindConflict, "incident has no match_id to act on")
	ErrMissingOverrideTeam  = apperr.New(apperr.KindValidation, "override_result requires override_winner_id")
	ErrOverrideNotAParty    = apperr.New(apperr.KindValidation, "override_winner_id must equal one of the match's two teams")
	ErrMatchAlreadyFinished = apperr.New(apperr.KindConflict, "match is already finished and cannot be overridden or walked over")
)
