package results

import "github.com/padelhub/tournament-core/apperr"

var (
	ErrMatchTerminal         = apperr.New(apperr.KindConflict, "match is already finished or cancelled")
	ErrTeamsUnresolved       = apperr.New(apperr.KindConflict, "match has an unresolved feeder slot")
	ErrResultAlreadyPending  = apperr.New(apperr.KindConflict, "match already has a result awaiting confirmation")
	ErrNotTeamMember         = apperr.New(apperr.KindForbidden, "caller is not a member of either team")
	ErrInvalidWinner         = apperr.New(apperr.KindValidation, "winner_team_id must equal team1 or team2")
	ErrNoPendingResult       = apperr.New(apperr.KindConflict, "match has no pending result awaiting confirmation")
	ErrSelfConfirm           = apperr.New(apperr.KindForbidden, "the reporter cannot confirm their own report")
	ErrDisputeReasonTooShort = apperr.New(apperr.KindValidation, "dispute_reason must be at least 10 characters")
)
