package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/ticket-insights/internal/adapters/primary/validation"
	"github.com/lorrc/ticket-insights/internal/core/ports"
)

const (
	minDashboardYear = 1970
	maxDashboardYear = 9999
)

// DashboardHandler serves the executive and manager dashboards
type DashboardHandler struct {
	dashboardService ports.DashboardService
	errorHandler     *ErrorHandler
	logger           *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	dashboardService ports.DashboardService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		errorHandler:     errorHandler,
		logger:           logger.With("handler", "dashboard"),
	}
}

// RegisterRoutes sets up the routing for dashboard endpoints.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/executive", h.HandleExecutive)
	r.Get("/manager", h.HandleManager)
}

// HandleExecutive handles GET /dashboards/executive?year=
func (h *DashboardHandler) HandleExecutive(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r, h.errorHandler)
	if !ok {
		return
	}

	year, err := validation.ParseOptionalIntQueryParam(r, "year")
	v := validation.NewValidator()
	v.Custom("year", err == nil, "Must be a whole number")
	if year != nil {
		v.Range("year", *year, minDashboardYear, maxDashboardYear)
	}
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	dashboard, err := h.dashboardService.Executive(r.Context(), session, year)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, dashboard)
}

// HandleManager handles GET /dashboards/manager
func (h *DashboardHandler) HandleManager(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r, h.errorHandler)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.Manager(r.Context(), session)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, dashboard)
}
