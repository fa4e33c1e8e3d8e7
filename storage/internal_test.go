package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIncidentEvidenceKey_NamespacesByTenantAndIncident(t *testing.T) {
	key := IncidentEvidenceKey("tenant-1", "incident-9", "photo.jpg")
	assert.Equal(t, "incidents/tenant-1/incident-9/photo.jpg", key)
}

func TestGetPublicURL_ResolvesAgainstBase(t *testing.T) {
	u := &cloudflareR2Uploader{publicBaseURL: "https://cdn.example.com/evidence/"}
	got := u.GetPublicURL("incidents/t1/i1/photo.jpg")
	assert.Equal(t, "https://cdn.example.com/evidence/incidents/t1/i1/photo.jpg", got)
}

func TestGetPublicURL_EmptyWhenUnconfigured(t *testing.T) {
	u := &cloudflareR2Uploader{}
	assert.Empty(t, u.GetPublicURL("key"))
}
