package incidents_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/padelhub/tournament-core/apperr"
	"github.com/padelhub/tournament-core/incidents"
	"github.com/padelhub/tournament-core/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These cases all fail the engine's role or input checks before it ever
// touches a database connection, so a nil-backed Engine is sufficient.

func TestResolveIncident_RejectsNonAdmin(t *testing.T) {
	e := incidents.NewEngine(nil, nil, nil, nil, nil, nil, nil, nil, nil)
	rc := models.RequestContext{Role: models.RoleMember}

	_, err := e.ResolveIncident(context.Background(), rc, incidents.ResolveIncidentRequest{
		IncidentID:      uuid.New(),
		Action:          models.ActionDismiss,
		ResolutionNotes: "reviewed and dismissed",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestResolveIncident_RejectsUnknownAction(t *testing.T) {
	e := incidents.NewEngine(nil, nil, nil, nil, nil, nil, nil, nil, nil)
	rc := models.RequestContext{Role: models.RoleAdmin}

	_, err := e.ResolveIncident(context.Background(), rc, incidents.ResolveIncidentRequest{
		IncidentID:      uuid.New(),
		Action:          "not_a_real_action",
		ResolutionNotes: "reviewed and dismissed",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestResolveIncident_RejectsShortNotes(t *testing.T) {
	e := incidents.NewEngine(nil, nil, nil, nil, nil, nil, nil, nil, nil)
	rc := models.RequestContext{Role: models.RoleAdmin}

	_, err := e.ResolveIncident(context.Background(), rc, incidents.ResolveIncidentRequest{
		IncidentID:      uuid.New(),
		Action:          models.ActionDismiss,
		ResolutionNotes: "too short",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestResolveIncident_OverrideResultRequiresWinner(t *testing.T) {
	e := incidents.NewEngine(nil, nil, nil, nil, nil, nil, nil, nil, nil)
	rc := models.RequestContext{Role: models.RoleOwner}

	_, err := e.ResolveIncident(context.Background(), rc, incidents.ResolveIncidentRequest{
		IncidentID:      uuid.New(),
		Action:          models.ActionOverrideResult,
		ResolutionNotes: "overriding disputed result",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
