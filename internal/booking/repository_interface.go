package booking

import (
	"context"
	"time"
)

type Repository interface {
	// Create writes the booking, its machine bookings and the capacity
	// increment in one transaction.
	Create(ctx context.Context, nb NewBooking) (*BookingDetails, error)
	GetByID(ctx context.Context, id int) (*Booking, error)
	GetDetails(ctx context.Context, id int) (*BookingDetails, error)
	ListByUser(ctx context.Context, userID, status string) ([]BookingDetails, error)
	// HasOverlappingBooking reports whether the user holds a pending or
	// confirmed booking overlapping [start, end).
	HasOverlappingBooking(ctx context.Context, userID string, start, end time.Time) (bool, error)
	Cancel(ctx context.Context, id int) error
	// Complete records machine usage for every machine booking, then marks
	// the booking completed and frees its capacity.
	Complete(ctx context.Context, id int) (*CompletionResult, error)
	AddMachine(ctx context.Context, bookingID, machineID, durationMinutes int) (*MachineBooking, error)
	RemoveMachine(ctx context.Context, bookingID, machineBookingID int) (*MachineBooking, error)

	StatsByDay(ctx context.Context, from, to time.Time) ([]StatsByDay, error)
	StatsByGym(ctx context.Context, from, to time.Time) ([]StatsByGym, error)
}
