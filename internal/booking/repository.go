package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pankajbaid567/Fittlr-Backend/internal/apperr"
	"github.com/pankajbaid567/Fittlr-Backend/internal/db"
	"github.com/pankajbaid567/Fittlr-Backend/internal/gym"
	"github.com/pankajbaid567/Fittlr-Backend/internal/maintenance"
	"github.com/pankajbaid567/Fittlr-Backend/internal/schedule"
)

// UsageRecorder feeds completed machine time into service tracking on the
// caller's transaction.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, q sqlx.ExtContext, machineID, usageMinutes int) (*maintenance.UsageResult, error)
}

type repository struct {
	db    *sqlx.DB
	usage UsageRecorder
}

func NewRepository(db *sqlx.DB, usage UsageRecorder) Repository {
	return &repository{db: db, usage: usage}
}

const bookingColumns = `b.id, b.user_id, b.gym_id, b.start_time, b.end_time, b.status, b.created_at, b.updated_at`

const detailColumns = bookingColumns + `,
		g.id AS "gym.id", g.name AS "gym.name", g.location AS "gym.location", g.image_url AS "gym.image_url"`

const machineBookingColumns = `mb.id, mb.booking_id, mb.machine_id, mb.duration_minutes,
		m.name AS machine_name, m.description AS machine_description, m.image_url AS machine_image_url`

var activeStatuses = `('` + StatusConfirmed + `', '` + StatusPending + `')`

func (r *repository) Create(ctx context.Context, nb NewBooking) (*BookingDetails, error) {
	var details BookingDetails
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		// Locking the user row serializes a member's bookings across gyms
		// for the overlap check that follows.
		var owner string
		err := tx.GetContext(ctx, &owner, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, nb.UserID)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("No user found with id %s", nb.UserID)
		}
		if err != nil {
			return fmt.Errorf("lock user %s: %w", nb.UserID, err)
		}

		overlap, err := userHasOverlap(ctx, tx, nb.UserID, nb.StartTime, nb.EndTime)
		if err != nil {
			return err
		}
		if overlap {
			return apperr.BadRequest("You already have a booking during this time")
		}

		var g struct {
			GymSummary
			MaxCapacity  int `db:"max_capacity"`
			CurrentUsers int `db:"current_users"`
		}
		err = tx.GetContext(ctx, &g, `
			SELECT id, name, location, image_url, max_capacity, current_users
			FROM gyms
			WHERE id = $1
			FOR UPDATE`, nb.GymID)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("No gym found with id %d", nb.GymID)
		}
		if err != nil {
			return fmt.Errorf("lock gym %d: %w", nb.GymID, err)
		}
		if g.CurrentUsers >= g.MaxCapacity {
			return apperr.BadRequest("Gym is at maximum capacity for this time slot")
		}

		err = tx.GetContext(ctx, &details.Booking, `
			INSERT INTO gym_bookings (user_id, gym_id, start_time, end_time, status)
			VALUES ($1, $2, $3, $4, 'confirmed')
			RETURNING id, user_id, gym_id, start_time, end_time, status, created_at, updated_at`,
			nb.UserID, nb.GymID, nb.StartTime, nb.EndTime)
		if err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
		details.Gym = g.GymSummary

		details.Machines = make([]MachineBooking, 0, len(nb.MachineIDs))
		for _, machineID := range nb.MachineIDs {
			mb, err := attachMachine(ctx, tx, &details.Booking, machineID, nb.DurationMinutes)
			if err != nil {
				return err
			}
			details.Machines = append(details.Machines, *mb)
		}

		if _, err := tx.ExecContext(ctx, `UPDATE gyms SET current_users = current_users + 1 WHERE id = $1`, nb.GymID); err != nil {
			return fmt.Errorf("increment gym occupancy: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &details, nil
}

// attachMachine re-validates a machine under its row lock and books it for the
// whole window of b. The lock serializes concurrent attempts on one machine.
func attachMachine(ctx context.Context, tx *sqlx.Tx, b *Booking, machineID, durationMinutes int) (*MachineBooking, error) {
	var m gym.Machine
	err := tx.GetContext(ctx, &m, `
		SELECT id, gym_id, name, description, image_url, status, need_service, uses_count, created_at
		FROM machines
		WHERE id = $1
		FOR UPDATE`, machineID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Machine with id %d not found", machineID)
	}
	if err != nil {
		return nil, fmt.Errorf("lock machine %d: %w", machineID, err)
	}

	switch {
	case m.GymID != b.GymID:
		return nil, apperr.BadRequest("Machine %s does not belong to this gym", m.Name)
	case m.NeedService:
		return nil, apperr.BadRequest("Machine %s is currently under maintenance", m.Name)
	case m.Status != gym.MachineActive:
		return nil, apperr.BadRequest("Machine %s is currently unavailable (%s)", m.Name, m.Status)
	}

	dup, err := db.Exists(ctx, tx, `
		SELECT EXISTS(SELECT 1 FROM machine_bookings WHERE booking_id = $1 AND machine_id = $2)`,
		b.ID, machineID)
	if err != nil {
		return nil, fmt.Errorf("check machine %d in booking: %w", machineID, err)
	}
	if dup {
		return nil, apperr.BadRequest("Machine %s is already added to this booking", m.Name)
	}

	taken, err := db.Exists(ctx, tx, `
		SELECT EXISTS(
			SELECT 1
			FROM machine_bookings mb
			JOIN gym_bookings b ON b.id = mb.booking_id
			WHERE mb.machine_id = $1
			  AND b.id <> $2
			  AND b.status IN `+activeStatuses+`
			  AND `+schedule.OverlapSQL("b.start_time", "b.end_time", "$3", "$4")+`
		)`, machineID, b.ID, b.StartTime, b.EndTime)
	if err != nil {
		return nil, fmt.Errorf("check machine %d overlap: %w", machineID, err)
	}
	if taken {
		return nil, apperr.BadRequest("Machine %s is already booked during this time", m.Name)
	}

	mb := MachineBooking{MachineName: m.Name, Description: m.Description, ImageURL: m.ImageURL}
	err = tx.GetContext(ctx, &mb, `
		INSERT INTO machine_bookings (booking_id, machine_id, duration_minutes)
		VALUES ($1, $2, $3)
		RETURNING id, booking_id, machine_id, duration_minutes`,
		b.ID, machineID, durationMinutes)
	if err != nil {
		return nil, fmt.Errorf("insert machine booking: %w", err)
	}
	return &mb, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM gym_bookings b WHERE b.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}
	return &b, nil
}

func (r *repository) GetDetails(ctx context.Context, id int) (*BookingDetails, error) {
	var d BookingDetails
	err := r.db.GetContext(ctx, &d, `
		SELECT `+detailColumns+`,
		       u.name AS "user.name", u.email AS "user.email", u.profile_img AS "user.profile_img"
		FROM gym_bookings b
		JOIN gyms g ON g.id = b.gym_id
		JOIN users u ON u.id = b.user_id
		WHERE b.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get booking details %d: %w", id, err)
	}

	machines, err := r.machineBookings(ctx, []int{id})
	if err != nil {
		return nil, err
	}
	d.Machines = machines[id]
	if d.Machines == nil {
		d.Machines = []MachineBooking{}
	}
	return &d, nil
}

func (r *repository) ListByUser(ctx context.Context, userID, status string) ([]BookingDetails, error) {
	bookings := []BookingDetails{}
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT `+detailColumns+`
		FROM gym_bookings b
		JOIN gyms g ON g.id = b.gym_id
		WHERE b.user_id = $1 AND ($2 = '' OR b.status = $2)
		ORDER BY b.start_time DESC`, userID, status)
	if err != nil {
		return nil, fmt.Errorf("list bookings for user: %w", err)
	}
	if len(bookings) == 0 {
		return bookings, nil
	}

	ids := make([]int, len(bookings))
	for i := range bookings {
		ids[i] = bookings[i].ID
	}
	machines, err := r.machineBookings(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		bookings[i].Machines = machines[bookings[i].ID]
		if bookings[i].Machines == nil {
			bookings[i].Machines = []MachineBooking{}
		}
	}
	return bookings, nil
}

// machineBookings loads machine bookings keyed by booking ID.
func (r *repository) machineBookings(ctx context.Context, bookingIDs []int) (map[int][]MachineBooking, error) {
	var rows []MachineBooking
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+machineBookingColumns+`
		FROM machine_bookings mb
		JOIN machines m ON m.id = mb.machine_id
		WHERE mb.booking_id = ANY($1)
		ORDER BY mb.id ASC`, pq.Array(bookingIDs))
	if err != nil {
		return nil, fmt.Errorf("list machine bookings: %w", err)
	}

	out := make(map[int][]MachineBooking, len(bookingIDs))
	for _, mb := range rows {
		out[mb.BookingID] = append(out[mb.BookingID], mb)
	}
	return out, nil
}

func (r *repository) HasOverlappingBooking(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	return userHasOverlap(ctx, r.db, userID, start, end)
}

func userHasOverlap(ctx context.Context, q sqlx.QueryerContext, userID string, start, end time.Time) (bool, error) {
	exists, err := db.Exists(ctx, q, `
		SELECT EXISTS(
			SELECT 1 FROM gym_bookings b
			WHERE b.user_id = $1
			  AND b.status IN `+activeStatuses+`
			  AND `+schedule.OverlapSQL("b.start_time", "b.end_time", "$2", "$3")+`
		)`, userID, start, end)
	if err != nil {
		return false, fmt.Errorf("check user overlap: %w", err)
	}
	return exists, nil
}

// lockBooking fetches a booking row FOR UPDATE.
func lockBooking(ctx context.Context, tx *sqlx.Tx, id int) (*Booking, error) {
	var b Booking
	err := tx.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM gym_bookings b WHERE b.id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("No booking found with id %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("lock booking %d: %w", id, err)
	}
	return &b, nil
}

func setStatusAndRelease(ctx context.Context, tx *sqlx.Tx, b *Booking, status string) error {
	if _, err := tx.ExecContext(ctx, `UPDATE gym_bookings SET status = $2, updated_at = NOW() WHERE id = $1`, b.ID, status); err != nil {
		return fmt.Errorf("set booking %d %s: %w", b.ID, status, err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE gyms SET current_users = GREATEST(current_users - 1, 0) WHERE id = $1`, b.GymID); err != nil {
		return fmt.Errorf("decrement gym occupancy: %w", err)
	}
	return nil
}

func (r *repository) Cancel(ctx context.Context, id int) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		b, err := lockBooking(ctx, tx, id)
		if err != nil {
			return err
		}
		switch b.Status {
		case StatusCompleted:
			return apperr.BadRequest("Cannot cancel a completed booking")
		case StatusCancelled:
			return apperr.BadRequest("Booking is already cancelled")
		}
		return setStatusAndRelease(ctx, tx, b, StatusCancelled)
	})
}

func (r *repository) Complete(ctx context.Context, id int) (*CompletionResult, error) {
	result := &CompletionResult{BookingID: id, MachineUsage: []maintenance.UsageResult{}}
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		b, err := lockBooking(ctx, tx, id)
		if err != nil {
			return err
		}
		if b.Status != StatusConfirmed {
			return apperr.BadRequest("Booking is already %s", b.Status)
		}

		var usage []MachineBooking
		err = tx.SelectContext(ctx, &usage, `
			SELECT id, booking_id, machine_id, duration_minutes
			FROM machine_bookings
			WHERE booking_id = $1
			ORDER BY id ASC`, id)
		if err != nil {
			return fmt.Errorf("list machine bookings for completion: %w", err)
		}

		for _, mb := range usage {
			res, err := r.usage.RecordUsage(ctx, tx, mb.MachineID, mb.DurationMinutes)
			if err != nil {
				return err
			}
			result.MachineUsage = append(result.MachineUsage, *res)
			result.UsageMinutes += mb.DurationMinutes
		}

		return setStatusAndRelease(ctx, tx, b, StatusCompleted)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *repository) AddMachine(ctx context.Context, bookingID, machineID, durationMinutes int) (*MachineBooking, error) {
	var mb *MachineBooking
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		b, err := lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if b.Status != StatusConfirmed {
			return apperr.BadRequest("Cannot add machine to a %s booking", b.Status)
		}
		mb, err = attachMachine(ctx, tx, b, machineID, durationMinutes)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mb, nil
}

func (r *repository) RemoveMachine(ctx context.Context, bookingID, machineBookingID int) (*MachineBooking, error) {
	var mb MachineBooking
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		b, err := lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if b.Status != StatusConfirmed {
			return apperr.BadRequest("Cannot modify a %s booking", b.Status)
		}

		err = tx.GetContext(ctx, &mb, `
			DELETE FROM machine_bookings mb
			USING machines m
			WHERE mb.id = $1 AND mb.booking_id = $2 AND m.id = mb.machine_id
			RETURNING `+machineBookingColumns, machineBookingID, bookingID)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("Machine booking not found in this booking")
		}
		if err != nil {
			return fmt.Errorf("delete machine booking %d: %w", machineBookingID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &mb, nil
}
