package results_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/padelhub/tournament-core/models"
	"github.com/padelhub/tournament-core/results"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcceptResult_RejectsShortDisputeReason(t *testing.T) {
	engine := results.NewEngine(nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil)
	rc := models.RequestContext{TenantID: uuid.New(), ProfileID: uuid.New(), Role: models.RoleMember}

	_, err := engine.AcceptResult(context.Background(), rc, results.AcceptResultRequest{
		MatchID:       uuid.New(),
		Accept:        false,
		DisputeReason: "too short",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, results.ErrDisputeReasonTooShort)
}
