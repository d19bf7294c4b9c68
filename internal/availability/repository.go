package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pankajbaid567/Fittlr-Backend/internal/schedule"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) OverlappingBookings(ctx context.Context, gymID int, start, end time.Time) ([]BookingWindow, error) {
	query := `
		SELECT b.id, b.start_time, b.end_time
		FROM gym_bookings b
		WHERE b.gym_id = $1
		  AND b.status IN ('confirmed', 'pending')
		  AND ` + schedule.OverlapSQL("b.start_time", "b.end_time", "$2", "$3") + `
		ORDER BY b.start_time ASC`

	windows := []BookingWindow{}
	if err := r.db.SelectContext(ctx, &windows, query, gymID, start, end); err != nil {
		return nil, fmt.Errorf("select overlapping bookings: %w", err)
	}
	return windows, nil
}

func (r *repository) BookedMachineIDs(ctx context.Context, gymID int, start, end time.Time) ([]int, error) {
	query := `
		SELECT DISTINCT mb.machine_id
		FROM machine_bookings mb
		JOIN gym_bookings b ON b.id = mb.booking_id
		WHERE b.gym_id = $1
		  AND b.status IN ('confirmed', 'pending')
		  AND ` + schedule.OverlapSQL("b.start_time", "b.end_time", "$2", "$3") + `
		ORDER BY mb.machine_id ASC`

	ids := []int{}
	if err := r.db.SelectContext(ctx, &ids, query, gymID, start, end); err != nil {
		return nil, fmt.Errorf("select booked machines: %w", err)
	}
	return ids, nil
}
