package gym

import (
	"context"
	"time"
)

type Repository interface {
	CreateGym(ctx context.Context, req CreateGymRequest) (*Gym, error)
	GetAllGyms(ctx context.Context) ([]Gym, error)
	GetGymByID(ctx context.Context, id int) (*Gym, error)
	GetOpeningHours(ctx context.Context, gymID int) ([]OpeningHours, error)
	GetOpeningHoursForDay(ctx context.Context, gymID int, day time.Weekday) (*OpeningHours, error)
	ReplaceOpeningHours(ctx context.Context, gymID int, hours []OpeningHours) ([]OpeningHours, error)
	CreateMachine(ctx context.Context, gymID int, req CreateMachineRequest) (*Machine, error)
	ListMachines(ctx context.Context, gymID int) ([]Machine, error)
	// ListBookableMachines returns active machines that are not flagged for service.
	ListBookableMachines(ctx context.Context, gymID int) ([]Machine, error)
	// ListServiceableMachines returns machines not flagged for service, whatever their status.
	ListServiceableMachines(ctx context.Context, gymID int) ([]Machine, error)
}
