package availability

import (
	"time"

	"github.com/pankajbaid567/Fittlr-Backend/internal/schedule"
	"github.com/pankajbaid567/Fittlr-Backend/internal/traffic"
)

const (
	ModeDates    = "dates"
	ModeSlots    = "slots"
	ModeDay      = "day"
	ModeMachines = "machines"

	LookAheadDays = 30
	dateLayout    = "2006-01-02"
)

// Query selects what GetAvailability returns: upcoming open dates when Date is
// empty, hourly slots for Date, or free machines for Date+StartTime+Duration.
type Query struct {
	GymID           int
	Date            string
	StartTime       string
	DurationMinutes *int
}

type GymDetails struct {
	ID                 int           `json:"id"`
	Name               string        `json:"name"`
	Location           string        `json:"location"`
	ImageURL           string        `json:"imageUrl"`
	MaxCapacity        int           `json:"maxCapacity"`
	CurrentUsers       int           `json:"currentUsers"`
	CapacityPercentage int           `json:"capacityPercentage"`
	TrafficStatus      traffic.Level `json:"trafficStatus"`
	TrafficIndicator   string        `json:"trafficIndicator"`
}

type DateEntry struct {
	Date             string        `json:"date"`
	DayOfWeek        int           `json:"dayOfWeek"`
	OpenTime         string        `json:"openTime"`
	CloseTime        string        `json:"closeTime"`
	PredictedTraffic traffic.Level `json:"predictedTraffic"`
	TrafficIndicator string        `json:"trafficIndicator"`
}

type Slot struct {
	StartTime          time.Time           `json:"startTime"`
	EndTime            time.Time           `json:"endTime"`
	AvailableCapacity  int                 `json:"availableCapacity"`
	CapacityPercentage int                 `json:"capacityPercentage"`
	IsAvailable        bool                `json:"isAvailable"`
	TrafficStatus      traffic.Level       `json:"trafficStatus"`
	TrafficIndicator   string              `json:"trafficIndicator"`
	PossibleDurations  []schedule.Duration `json:"possibleDurations"`
}

type SelectedTimeSlot struct {
	StartTime          time.Time     `json:"startTime"`
	CalculatedEndTime  time.Time     `json:"calculatedEndTime"`
	Duration           int           `json:"duration"`
	AvailableCapacity  int           `json:"availableCapacity"`
	CapacityPercentage int           `json:"capacityPercentage"`
	TrafficStatus      traffic.Level `json:"trafficStatus"`
	TrafficIndicator   string        `json:"trafficIndicator"`
}

type MachineOption struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Type        string `json:"type"`
	Popularity  string `json:"popularity"`
}

type MachineAvailability struct {
	Total               int    `json:"total"`
	Available           int    `json:"available"`
	PercentageAvailable int    `json:"percentageAvailable"`
	AvailabilityStatus  string `json:"availabilityStatus"`
}

type Result struct {
	Mode                string                     `json:"mode"`
	GymDetails          GymDetails                 `json:"gymDetails"`
	AvailableDates      []DateEntry                `json:"availableDates,omitempty"`
	SelectedDate        *DateEntry                 `json:"selectedDate,omitempty"`
	TimeSlots           []Slot                     `json:"timeSlots,omitempty"`
	SelectedTimeSlot    *SelectedTimeSlot          `json:"selectedTimeSlot,omitempty"`
	AvailableMachines   []MachineOption            `json:"availableMachines,omitempty"`
	MachinesByType      map[string][]MachineOption `json:"machinesByType,omitempty"`
	MachineAvailability *MachineAvailability       `json:"machineAvailability,omitempty"`
}

// BookingWindow is the time range of a pending or confirmed booking.
type BookingWindow struct {
	ID        int       `db:"id"`
	StartTime time.Time `db:"start_time"`
	EndTime   time.Time `db:"end_time"`
}
