package fixture

import "github.com/padelhub/tournament-core/apperr"

var (
	ErrNotAdmin            = apperr.New(apperr.KindForbidden, "only a tenant admin or owner may generate a fixture")
	ErrStatusIncompatible  = apperr.New(apperr.KindConflict, "tournament status does not allow fixture generation")
	ErrTeamCountOutOfRange = apperr.New(apperr.KindConflict, "confirmed team count is outside min_teams/max_teams")
	ErrLockContended       = apperr.New(apperr.KindConflict, "fixture generation is already in progress for this tournament")
)
