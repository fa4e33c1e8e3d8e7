package httpapi

import (
	"net/http"

	"github.com/padelhub/tournament-core/middleware"
	"github.com/padelhub/tournament-core/storage"
)

const maxEvidenceUploadBytes = 10 << 20 // 10MiB

// UploadIncidentEvidence handles POST /incidents/{incidentID}/evidence:
// a multipart file upload whose resulting public URL a caller then
// references from resolve-incident's resolution_notes.
func (h *Handlers) UploadIncidentEvidence(w http.ResponseWriter, r *http.Request) {
	rc, err := middleware.RequestContextFrom(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
		return
	}
	incidentID, err := pathUUID(r, "incidentID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid incident id"})
		return
	}

	if err := r.ParseMultipartForm(maxEvidenceUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed multipart upload"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "missing file field"})
		return
	}
	defer file.Close()

	key := storage.IncidentEvidenceKey(rc.TenantID.String(), incidentID.String(), header.Filename)
	result, err := h.uploader.Upload(r.Context(), key, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "evidence upload failed"})
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
