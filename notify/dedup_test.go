package notify_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/padelhub/tournament-core/notify"
	"github.com/stretchr/testify/assert"
)

func TestDedup_UnionsAndDropsDuplicates(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	out := notify.Dedup([]uuid.UUID{a, b}, []uuid.UUID{b, c}, nil, []uuid.UUID{a})

	assert.ElementsMatch(t, []uuid.UUID{a, b, c}, out)
}

func TestDedup_NoGroupsReturnsEmpty(t *testing.T) {
	assert.Empty(t, notify.Dedup())
}
