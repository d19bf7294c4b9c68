package gym

import (
	"time"
)

const (
	MachineActive   = "active"
	MachineInactive = "inactive"
)

type Gym struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Location     string    `db:"location" json:"location"`
	ImageURL     string    `db:"image_url" json:"imageUrl"`
	MaxCapacity  int       `db:"max_capacity" json:"maxCapacity"`
	CurrentUsers int       `db:"current_users" json:"currentUsers"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// CapacityPercentage is the live occupancy as a percentage of MaxCapacity.
func (g *Gym) CapacityPercentage() float64 {
	if g.MaxCapacity <= 0 {
		return 0
	}
	return float64(g.CurrentUsers) / float64(g.MaxCapacity) * 100
}

func (g *Gym) AtCapacity() bool {
	return g.CurrentUsers >= g.MaxCapacity
}

type OpeningHours struct {
	ID        int    `db:"id" json:"id"`
	GymID     int    `db:"gym_id" json:"gymId"`
	DayOfWeek int    `db:"day_of_week" json:"dayOfWeek"`
	OpenTime  string `db:"open_time" json:"openTime"`
	CloseTime string `db:"close_time" json:"closeTime"`
}

// HoursForDay finds the opening hours row for day, if the gym opens that day.
func HoursForDay(hours []OpeningHours, day time.Weekday) (OpeningHours, bool) {
	for _, h := range hours {
		if h.DayOfWeek == int(day) {
			return h, true
		}
	}
	return OpeningHours{}, false
}

type Machine struct {
	ID          int       `db:"id" json:"id"`
	GymID       int       `db:"gym_id" json:"gymId"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	ImageURL    string    `db:"image_url" json:"imageUrl"`
	Status      string    `db:"status" json:"status"`
	NeedService bool      `db:"need_service" json:"needService"`
	UsesCount   int       `db:"uses_count" json:"usesCount"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Bookable reports whether the machine can be assigned to a new session.
func (m *Machine) Bookable() bool {
	return m.Status == MachineActive && !m.NeedService
}

type CreateGymRequest struct {
	Name        string `json:"name" binding:"required"`
	Location    string `json:"location" binding:"required"`
	ImageURL    string `json:"imageUrl"`
	MaxCapacity int    `json:"maxCapacity" binding:"required,min=1"`
}

type DayHours struct {
	DayOfWeek *int   `json:"dayOfWeek" binding:"required,min=0,max=6"`
	OpenTime  string `json:"openTime" binding:"required"`
	CloseTime string `json:"closeTime" binding:"required"`
}

type SetOpeningHoursRequest struct {
	Hours []DayHours `json:"hours" binding:"required,dive"`
}

type CreateMachineRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}
