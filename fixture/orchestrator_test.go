package fixture_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/padelhub/tournament-core/apperr"
	"github.com/padelhub/tournament-core/fixture"
	"github.com/padelhub/tournament-core/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFixture_RejectsNonAdmin(t *testing.T) {
	o := fixture.NewOrchestrator(nil, nil, nil, nil, nil)
	rc := models.RequestContext{Role: models.RoleMember}

	_, err := o.GenerateFixture(context.Background(), rc, uuid.New(), models.FixtureConfig{})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}
