package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/ticket-insights/internal/adapters/primary/validation"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/kpi"
	"github.com/lorrc/ticket-insights/internal/core/ports"
)

const maxTicketsPerPage = 500

// TicketHandler serves the manager ticket table
type TicketHandler struct {
	ticketService ports.TicketService
	errorHandler  *ErrorHandler
	logger        *slog.Logger
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(
	ticketService ports.TicketService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "ticket"),
	}
}

// RegisterRoutes sets up the routing for all ticket endpoints.
func (h *TicketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListTickets)
	r.Get("/annotated", h.HandleAnnotatedTickets)
}

// AnnotatedTicketDTO is a ticket with its KPI classification
type AnnotatedTicketDTO struct {
	domain.TicketSnapshot
	WithinKPI      bool   `json:"withinKpi"`
	OutsideKPI     bool   `json:"outsideKpi"`
	DurationKnown  bool   `json:"durationKnown"`
	ElapsedMinutes *int64 `json:"elapsedMinutes"`
}

func toAnnotatedDTOs(items []kpi.Annotated) []AnnotatedTicketDTO {
	out := make([]AnnotatedTicketDTO, 0, len(items))
	for _, a := range items {
		dto := AnnotatedTicketDTO{
			TicketSnapshot: domain.NewTicketSnapshot(a.Ticket),
			WithinKPI:      a.WithinKPI,
			OutsideKPI:     a.OutsideKPI,
			DurationKnown:  a.DurationKnown,
		}
		if a.DurationKnown {
			minutes := int64(a.Elapsed.Minutes())
			dto.ElapsedMinutes = &minutes
		}
		out = append(out, dto)
	}
	return out
}

func toTicketSnapshots(tickets []domain.Ticket) []domain.TicketSnapshot {
	out := make([]domain.TicketSnapshot, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, domain.NewTicketSnapshot(t))
	}
	return out
}

// HandleListTickets handles GET /tickets
func (h *TicketHandler) HandleListTickets(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r, h.errorHandler)
	if !ok {
		return
	}

	pagination := validation.ParsePagination(r, maxTicketsPerPage)

	sort, ok := validation.ParseSort(r)
	if !ok {
		v := validation.NewValidator()
		v.Custom("order", false, "Must be one of: asc, desc")
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	page, err := h.ticketService.ListTickets(r.Context(), ports.ListTicketsParams{
		Session:  session,
		Search:   r.URL.Query().Get("q"),
		SortBy:   sort.Column,
		SortDesc: sort.Desc,
		Limit:    pagination.Limit,
		Offset:   pagination.Offset,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WritePaginated(w, toTicketSnapshots(page.Tickets), pagination.Limit, pagination.Offset, page.Total)
}

// HandleAnnotatedTickets handles GET /tickets/annotated
func (h *TicketHandler) HandleAnnotatedTickets(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r, h.errorHandler)
	if !ok {
		return
	}

	annotated, err := h.ticketService.AnnotatedTickets(r.Context(), session)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toAnnotatedDTOs(annotated))
}
