package integration_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pankajbaid567/Fittlr-Backend/internal/booking"
	"github.com/pankajbaid567/Fittlr-Backend/internal/maintenance"
)

func TestCompletion_FlagsMachineForService_Integration(t *testing.T) {
	s := newStack(setupTestDB(t))
	ctx := context.Background()

	g := s.createGym(t, 10)
	squat := s.addMachine(t, g.ID, "Squat Rack")
	s.createUser(t, "u1")

	_, err := s.db.Exec(`INSERT INTO services (machine_id, service_interval_hours, total_usage_hours) VALUES ($1, 1, 0.5)`, squat.ID)
	require.NoError(t, err)

	created, err := s.bookings.CreateBooking(ctx, "u1", booking.CreateBookingRequest{
		GymID: g.ID, StartTime: tomorrowAt(7), DurationMinutes: 60,
		Machines: []booking.MachineSelection{{ID: squat.ID}},
	})
	require.NoError(t, err)

	result, err := s.bookings.CompleteBooking(ctx, created.Booking.ID)
	require.NoError(t, err)
	require.Len(t, result.MachineUsage, 1)
	assert.True(t, result.MachineUsage[0].FlaggedForService)
	assert.InDelta(t, 1.5, result.MachineUsage[0].UsageHours, 0.001)

	var machine struct {
		Status      string `db:"status"`
		NeedService bool   `db:"need_service"`
		UsesCount   int    `db:"uses_count"`
	}
	require.NoError(t, s.db.Get(&machine, `SELECT status, need_service, uses_count FROM machines WHERE id = $1`, squat.ID))
	assert.Equal(t, "inactive", machine.Status)
	assert.True(t, machine.NeedService)
	assert.Equal(t, 1, machine.UsesCount)

	tickets, err := s.maintenance.GetServiceTickets(ctx, "open", &g.ID)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "Service Required: Squat Rack", tickets[0].Title)
	assert.Equal(t, systemUser, tickets[0].UserID)

	outcome, err := s.maintenance.ServiceMachine(ctx, squat.ID, maintenance.ServiceMachineRequest{Notes: "belt replaced"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, outcome.TicketsClosed)

	require.NoError(t, s.db.Get(&machine, `SELECT status, need_service, uses_count FROM machines WHERE id = $1`, squat.ID))
	assert.Equal(t, "active", machine.Status)
	assert.False(t, machine.NeedService)

	open, err := s.maintenance.GetServiceTickets(ctx, "open", &g.ID)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestCompletion_FirstUsageCreatesServiceRecord_Integration(t *testing.T) {
	s := newStack(setupTestDB(t))
	ctx := context.Background()

	g := s.createGym(t, 10)
	bike := s.addMachine(t, g.ID, "Spin Bike")
	s.createUser(t, "u1")

	created, err := s.bookings.CreateBooking(ctx, "u1", booking.CreateBookingRequest{
		GymID: g.ID, StartTime: tomorrowAt(8), DurationMinutes: 90,
		Machines: []booking.MachineSelection{{ID: bike.ID}},
	})
	require.NoError(t, err)

	_, err = s.bookings.CompleteBooking(ctx, created.Booking.ID)
	require.NoError(t, err)

	var svc struct {
		Interval float64 `db:"service_interval_hours"`
		Usage    float64 `db:"total_usage_hours"`
	}
	require.NoError(t, s.db.Get(&svc, `SELECT service_interval_hours, total_usage_hours FROM services WHERE machine_id = $1`, bike.ID))
	assert.Equal(t, 100.0, svc.Interval)
	assert.InDelta(t, 1.5, svc.Usage, 0.001)

	var status string
	require.NoError(t, s.db.Get(&status, `SELECT status FROM gym_bookings WHERE id = $1`, created.Booking.ID))
	assert.Equal(t, booking.StatusCompleted, status)
}
