package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/padelhub/tournament-core/auth"
	"github.com/padelhub/tournament-core/fixture"
	"github.com/padelhub/tournament-core/incidents"
	"github.com/padelhub/tournament-core/middleware"
	"github.com/padelhub/tournament-core/results"
	"github.com/padelhub/tournament-core/storage"
)

// Handlers holds the three core engines behind the Gateway's four core
// operations, plus the evidence uploader and operator store. Every
// method here is pure plumbing: decode, delegate, encode (spec §6).
type Handlers struct {
	fixtures  *fixture.Orchestrator
	results   *results.Engine
	incidents *incidents.Engine
	uploader  storage.FileUploader
	operator  *auth.OperatorStore
	validate  *validator.Validate
	logger    *slog.Logger
}

func NewHandlers(fixtures *fixture.Orchestrator, results *results.Engine, incidents *incidents.Engine, uploader storage.FileUploader, operator *auth.OperatorStore, logger *slog.Logger) *Handlers {
	return &Handlers{
		fixtures:  fixtures,
		results:   results,
		incidents: incidents,
		uploader:  uploader,
		operator:  operator,
		validate:  validator.New(),
		logger:    logger,
	}
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, param))
}

// Login handles POST /auth/login: exchanges the seeded operator
// credential for a bearer token, standing in for the Gateway's own
// authentication service (spec §6).
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	token, err := h.operator.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid email or password"})
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

// GenerateFixture handles POST /tournaments/{tournamentID}/fixture.
func (h *Handlers) GenerateFixture(w http.ResponseWriter, r *http.Request) {
	rc, err := middleware.RequestContextFrom(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
		return
	}
	tournamentID, err := pathUUID(r, "tournamentID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid tournament id"})
		return
	}

	var req generateFixtureRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	summary, err := h.fixtures.GenerateFixture(r.Context(), rc, tournamentID, req.toConfig())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, summary)
}

// ReportResult handles POST /matches/{matchID}/result.
func (h *Handlers) ReportResult(w http.ResponseWriter, r *http.Request) {
	rc, err := middleware.RequestContextFrom(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
		return
	}
	matchID, err := pathUUID(r, "matchID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid match id"})
		return
	}

	var req reportResultRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	resp, err := h.results.ReportResult(r.Context(), rc, req.toCommand(matchID, r.Header.Get("Idempotency-Key")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// AcceptResult handles POST /matches/{matchID}/result/response.
func (h *Handlers) AcceptResult(w http.ResponseWriter, r *http.Request) {
	rc, err := middleware.RequestContextFrom(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
		return
	}
	matchID, err := pathUUID(r, "matchID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid match id"})
		return
	}

	var req acceptResultRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	resp, err := h.results.AcceptResult(r.Context(), rc, req.toCommand(matchID))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ResolveIncident handles POST /incidents/{incidentID}/resolve.
func (h *Handlers) ResolveIncident(w http.ResponseWriter, r *http.Request) {
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

	var req resolveIncidentRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	summary, err := h.incidents.ResolveIncident(r.Context(), rc, req.toCommand(incidentID))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
