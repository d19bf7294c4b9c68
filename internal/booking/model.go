package booking

import (
	"time"

	"github.com/pankajbaid567/Fittlr-Backend/internal/maintenance"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"

	GroupByDay = "day"
	GroupByGym = "gym"

	checkInLead = 15 * time.Minute
)

func validStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

type Booking struct {
	ID        int       `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	GymID     int       `db:"gym_id" json:"gymId"`
	StartTime time.Time `db:"start_time" json:"startTime"`
	EndTime   time.Time `db:"end_time" json:"endTime"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Active bookings occupy capacity and machines.
func (b *Booking) Active() bool {
	return b.Status == StatusConfirmed || b.Status == StatusPending
}

func (b *Booking) DurationMinutes() int {
	return int(b.EndTime.Sub(b.StartTime) / time.Minute)
}

type GymSummary struct {
	ID       int    `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Location string `db:"location" json:"location"`
	ImageURL string `db:"image_url" json:"imageUrl"`
}

type UserSummary struct {
	Name       string `db:"name" json:"name"`
	Email      string `db:"email" json:"email"`
	ProfileImg string `db:"profile_img" json:"profileImg"`
}

type MachineBooking struct {
	ID              int    `db:"id" json:"id"`
	BookingID       int    `db:"booking_id" json:"bookingId"`
	MachineID       int    `db:"machine_id" json:"machineId"`
	DurationMinutes int    `db:"duration_minutes" json:"duration"`
	MachineName     string `db:"machine_name" json:"machineName"`
	Description     string `db:"machine_description" json:"machineDescription"`
	ImageURL        string `db:"machine_image_url" json:"machineImageUrl"`
}

// BookingDetails is a booking with its gym, machines and, for single-booking
// reads, the member who made it.
type BookingDetails struct {
	Booking
	Gym      GymSummary       `db:"gym" json:"gym"`
	User     *UserSummary     `db:"user" json:"user,omitempty"`
	Machines []MachineBooking `db:"-" json:"machineBookings"`
}

func (d *BookingDetails) MachineNames() []string {
	names := make([]string, 0, len(d.Machines))
	for _, m := range d.Machines {
		names = append(names, m.MachineName)
	}
	return names
}

// NewBooking is a validated booking ready to be written.
type NewBooking struct {
	UserID          string
	GymID           int
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	MachineIDs      []int
}

type MachineSelection struct {
	ID int `json:"id" binding:"required,min=1"`
}

type CreateBookingRequest struct {
	GymID           int                `json:"gymId" binding:"required,min=1"`
	StartTime       time.Time          `json:"startTime" binding:"required"`
	DurationMinutes int                `json:"duration" binding:"required"`
	Machines        []MachineSelection `json:"selectedMachines" binding:"omitempty,dive"`
}

type CreateBookingResult struct {
	Booking           *BookingDetails `json:"booking"`
	Duration          int             `json:"duration"`
	CalculatedEndTime time.Time       `json:"calculatedEndTime"`
}

type AddMachineRequest struct {
	MachineID int `json:"machineId" binding:"required,min=1"`
	// Duration defaults to the length of the session.
	DurationMinutes *int `json:"duration"`
}

type CompletionResult struct {
	BookingID    int                       `json:"bookingId"`
	UsageMinutes int                       `json:"usageMinutes"`
	MachineUsage []maintenance.UsageResult `json:"machineUsage"`
}

type SummaryMachine struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	ImageURL          string `json:"imageUrl"`
	Duration          int    `json:"duration"`
	DurationFormatted string `json:"durationFormatted"`
}

// Summary is a display-ready view of one booking.
type Summary struct {
	ID              int              `json:"id"`
	Status          string           `json:"status"`
	Date            string           `json:"date" example:"Monday, March 10, 2025"`
	StartTime       string           `json:"startTime" example:"06:00 PM"`
	EndTime         string           `json:"endTime" example:"07:30 PM"`
	Duration        string           `json:"duration" example:"1 hour and 30 minutes"`
	DurationMinutes int              `json:"durationMinutes"`
	CreatedAt       time.Time        `json:"createdAt"`
	Gym             GymSummary       `json:"gym"`
	User            *UserSummary     `json:"user,omitempty"`
	Machines        []SummaryMachine `json:"machines"`
	CanCancel       bool             `json:"canCancel"`
	CanCheckIn      bool             `json:"canCheckIn"`
}

type AnalyticsQuery struct {
	GroupBy string
	From    string
	To      string
}

type StatsByDay struct {
	Bucket    string `db:"bucket" json:"bucket"`
	Total     int    `db:"total" json:"total"`
	Confirmed int    `db:"confirmed" json:"confirmed"`
	Cancelled int    `db:"cancelled" json:"cancelled"`
	Completed int    `db:"completed" json:"completed"`
}

type StatsByGym struct {
	GymID     int    `db:"gym_id" json:"gymId"`
	GymName   string `db:"gym_name" json:"gymName"`
	Total     int    `db:"total" json:"total"`
	Confirmed int    `db:"confirmed" json:"confirmed"`
	Cancelled int    `db:"cancelled" json:"cancelled"`
	Completed int    `db:"completed" json:"completed"`
}

type AnalyticsReport struct {
	GroupBy string    `json:"groupBy"`
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
	Data    any       `json:"data"`
}
