package availability

import (
	"context"
	"time"
)

type Repository interface {
	// OverlappingBookings returns pending or confirmed bookings of the gym that
	// overlap [start, end).
	OverlappingBookings(ctx context.Context, gymID int, start, end time.Time) ([]BookingWindow, error)
	// BookedMachineIDs returns machines attached to those same bookings.
	BookedMachineIDs(ctx context.Context, gymID int, start, end time.Time) ([]int, error)
}
