package maintenance

import (
	"context"
	"math"

	"github.com/pankajbaid567/Fittlr-Backend/internal/apperr"
	"github.com/pankajbaid567/Fittlr-Backend/internal/logger"
	"github.com/pankajbaid567/Fittlr-Backend/internal/metrics"
)

type Service interface {
	ListMachinesNeedingService(ctx context.Context, gymID *int) ([]MachineServiceStatus, error)
	ServiceMachine(ctx context.Context, machineID int, req ServiceMachineRequest) (*ServiceOutcome, error)
	UpdateServiceInterval(ctx context.Context, machineID int, hours float64) (*ServiceRecord, error)
	GetMachineUsageStats(ctx context.Context, gymID *int) ([]MachineUsage, error)
	GetServiceTickets(ctx context.Context, status string, gymID *int) ([]Ticket, error)
	GetUpcomingService(ctx context.Context, gymID int) ([]UpcomingService, error)
}

// UpcomingChecker is satisfied by *Tracker.
type UpcomingChecker interface {
	CheckUpcomingService(ctx context.Context, gymID int) ([]UpcomingService, error)
}

type service struct {
	repo     Repository
	upcoming UpcomingChecker
}

func NewService(repo Repository, upcoming UpcomingChecker) Service {
	return &service{
		repo:     repo,
		upcoming: upcoming,
	}
}

func (s *service) ListMachinesNeedingService(ctx context.Context, gymID *int) ([]MachineServiceStatus, error) {
	return s.repo.ListMachinesNeedingService(ctx, gymID)
}

func (s *service) ServiceMachine(ctx context.Context, machineID int, req ServiceMachineRequest) (*ServiceOutcome, error) {
	name, err := s.repo.MachineName(ctx, machineID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperr.NotFound("No machine found with id %d", machineID)
	}

	rec, closed, err := s.repo.ServiceMachine(ctx, machineID, req.Notes, req.TicketID)
	if err != nil {
		return nil, err
	}

	for i := int64(0); i < closed; i++ {
		metrics.RecordServiceTicket("closed")
	}
	logger.Info("machine serviced", "machine_id", machineID, "tickets_closed", closed)

	return &ServiceOutcome{
		MachineID:     machineID,
		MachineName:   name,
		Record:        *rec,
		TicketsClosed: closed,
	}, nil
}

func (s *service) UpdateServiceInterval(ctx context.Context, machineID int, hours float64) (*ServiceRecord, error) {
	if hours <= 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return nil, apperr.BadRequest("Service interval must be a positive number of hours")
	}

	name, err := s.repo.MachineName(ctx, machineID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperr.NotFound("No machine found with id %d", machineID)
	}

	return s.repo.UpsertServiceInterval(ctx, machineID, hours)
}

func (s *service) GetMachineUsageStats(ctx context.Context, gymID *int) ([]MachineUsage, error) {
	machines, err := s.repo.ListMachineStatuses(ctx, gymID)
	if err != nil {
		return nil, err
	}

	stats := make([]MachineUsage, 0, len(machines))
	for _, m := range machines {
		u := MachineUsage{
			ID:              m.ID,
			Name:            m.Name,
			GymName:         m.GymName,
			TotalUses:       m.UsesCount,
			NeedsService:    m.NeedService,
			LastServiceDate: m.ServiceDate,
		}
		if m.TotalUsageHours != nil {
			u.UsageHoursSinceService = *m.TotalUsageHours
		}
		if m.ServiceIntervalHours != nil {
			u.ServiceIntervalHours = *m.ServiceIntervalHours
		}
		u.UsagePercentage = usagePercentage(u.UsageHoursSinceService, u.ServiceIntervalHours)
		stats = append(stats, u)
	}
	return stats, nil
}

// usagePercentage is rounded to a whole percent and capped at 100.
func usagePercentage(usage, interval float64) float64 {
	if interval <= 0 {
		return 0
	}
	return math.Min(100, math.Round(usage/interval*100))
}

func (s *service) GetServiceTickets(ctx context.Context, status string, gymID *int) ([]Ticket, error) {
	if status != "" && status != TicketOpen && status != TicketClosed {
		return nil, apperr.BadRequest("Status must be one of open, closed")
	}
	return s.repo.ListTickets(ctx, TicketFilter{Status: status, GymID: gymID})
}

func (s *service) GetUpcomingService(ctx context.Context, gymID int) ([]UpcomingService, error) {
	if gymID <= 0 {
		return nil, apperr.BadRequest("Gym ID is required")
	}
	return s.upcoming.CheckUpcomingService(ctx, gymID)
}
