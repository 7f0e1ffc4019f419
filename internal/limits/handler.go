package limits

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/caravel-labs/caravel/pkg/handlers"
	"github.com/caravel-labs/caravel/pkg/pagination"
	"github.com/caravel-labs/caravel/pkg/routes"
)

// Handler provides HTTP endpoints for limit-event operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "limits"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for limit-event endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/limit-events",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
		},
	}
}

// Create records a limit event from a JSON body. Storage failures degrade to
// a warning payload with a 200 status: event capture must never block or fail
// the caller's flow.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	identity := Identify(r)
	if identity.Authenticated {
		cmd.UserID = &identity.User
	}
	if ua := r.UserAgent(); ua != "" {
		cmd.UserAgent = &ua
	}

	e, err := h.sys.Record(r.Context(), cmd)
	if err != nil {
		h.logger.Warn("limit event store unavailable", "action", cmd.Action, "error", err)
		handlers.RespondJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"stored":  false,
			"warning": "event store unavailable",
		})
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"stored": true,
		"id":     e.ID,
	})
}

// List returns a paginated list of limit events with optional query parameter
// filters. This is the read path behind the external admin console.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search accepts a JSON body with pagination and filter criteria and returns
// matching limit events.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
