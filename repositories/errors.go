package repositories

import "errors"

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrEntryNotFound      = errors.New("entry not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrIncidentNotFound   = errors.New("incident not found")
	ErrConstraintViolated = errors.New("constraint violated")
)
