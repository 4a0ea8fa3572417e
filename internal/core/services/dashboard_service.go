package services

import (
	"context"
	"time"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/kpi"
	"github.com/lorrc/ticket-insights/internal/core/ports"
)

// DashboardService runs the KPI engine over the active dataset
type DashboardService struct {
	ticketRepo ports.TicketRepository
	authzSvc   ports.AuthorizationService
	engine     *kpi.Engine
	now        func() time.Time
}

var _ ports.DashboardService = (*DashboardService)(nil)

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	ticketRepo ports.TicketRepository,
	authzSvc ports.AuthorizationService,
	engine *kpi.Engine,
) ports.DashboardService {
	return &DashboardService{
		ticketRepo: ticketRepo,
		authzSvc:   authzSvc,
		engine:     engine,
		now:        time.Now,
	}
}

// Executive builds the executive summary for year, or the latest year in the data
func (s *DashboardService) Executive(ctx context.Context, session *domain.Session, year *int) (*domain.ExecutiveDashboard, error) {
	if err := authorize(ctx, s.authzSvc, session, ports.PermDashboardExecutive); err != nil {
		return nil, err
	}

	tickets, err := s.ticketRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	selected := kpi.DefaultYear(tickets, s.now())
	if year != nil {
		selected = *year
	}

	d := s.engine.BuildExecutive(tickets, selected)
	return &d, nil
}

// Manager builds the manager view over the whole dataset
func (s *DashboardService) Manager(ctx context.Context, session *domain.Session) (*domain.ManagerDashboard, error) {
	if err := authorize(ctx, s.authzSvc, session, ports.PermDashboardManager); err != nil {
		return nil, err
	}

	tickets, err := s.ticketRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	d := s.engine.BuildManager(tickets)
	return &d, nil
}
