package gym

import (
	"context"
	"time"

	"github.com/pankajbaid567/Fittlr-Backend/internal/apperr"
	"github.com/pankajbaid567/Fittlr-Backend/internal/logger"
	"github.com/pankajbaid567/Fittlr-Backend/internal/schedule"
)

type Service interface {
	CreateGym(ctx context.Context, req CreateGymRequest) (*Gym, error)
	GetAllGyms(ctx context.Context) ([]Gym, error)
	GetGymByID(ctx context.Context, id int) (*Gym, error)
	SetOpeningHours(ctx context.Context, gymID int, req SetOpeningHoursRequest) ([]OpeningHours, error)
	AddMachine(ctx context.Context, gymID int, req CreateMachineRequest) (*Machine, error)
	ListMachines(ctx context.Context, gymID int) ([]Machine, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) CreateGym(ctx context.Context, req CreateGymRequest) (*Gym, error) {
	if req.MaxCapacity <= 0 {
		return nil, apperr.BadRequest("Max capacity must be greater than 0")
	}
	g, err := s.repo.CreateGym(ctx, req)
	if err != nil {
		return nil, err
	}
	logger.Info("gym created", "gym_id", g.ID, "max_capacity", g.MaxCapacity)
	return g, nil
}

func (s *service) GetAllGyms(ctx context.Context) ([]Gym, error) {
	return s.repo.GetAllGyms(ctx)
}

func (s *service) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	g, err := s.repo.GetGymByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, apperr.NotFound("No gym found with id %d", id)
	}
	return g, nil
}

func (s *service) SetOpeningHours(ctx context.Context, gymID int, req SetOpeningHoursRequest) ([]OpeningHours, error) {
	if _, err := s.GetGymByID(ctx, gymID); err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(req.Hours))
	hours := make([]OpeningHours, 0, len(req.Hours))
	for _, h := range req.Hours {
		if h.DayOfWeek == nil || *h.DayOfWeek < 0 || *h.DayOfWeek > 6 {
			return nil, apperr.BadRequest("Day of week must be between 0 and 6")
		}
		day := *h.DayOfWeek
		if seen[day] {
			return nil, apperr.BadRequest("Opening hours for %s given more than once", time.Weekday(day))
		}
		seen[day] = true

		open, err := schedule.ParseClock(h.OpenTime)
		if err != nil {
			return nil, apperr.BadRequest("Invalid open time for %s: %s", time.Weekday(day), h.OpenTime)
		}
		closing, err := schedule.ParseClock(h.CloseTime)
		if err != nil {
			return nil, apperr.BadRequest("Invalid close time for %s: %s", time.Weekday(day), h.CloseTime)
		}
		if closing.Minutes() <= open.Minutes() {
			return nil, apperr.BadRequest("Close time must be after open time for %s", time.Weekday(day))
		}

		hours = append(hours, OpeningHours{
			GymID:     gymID,
			DayOfWeek: day,
			OpenTime:  open.String(),
			CloseTime: closing.String(),
		})
	}

	return s.repo.ReplaceOpeningHours(ctx, gymID, hours)
}

func (s *service) AddMachine(ctx context.Context, gymID int, req CreateMachineRequest) (*Machine, error) {
	if _, err := s.GetGymByID(ctx, gymID); err != nil {
		return nil, err
	}
	m, err := s.repo.CreateMachine(ctx, gymID, req)
	if err != nil {
		return nil, err
	}
	logger.Info("machine added", "gym_id", gymID, "machine_id", m.ID)
	return m, nil
}

func (s *service) ListMachines(ctx context.Context, gymID int) ([]Machine, error) {
	if _, err := s.GetGymByID(ctx, gymID); err != nil {
		return nil, err
	}
	return s.repo.ListMachines(ctx, gymID)
}
