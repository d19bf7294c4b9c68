package maintenance

import (
	"time"
)

const (
	DefaultServiceIntervalHours = 100.0

	// UpcomingServiceThreshold is the share of the interval at which a machine
	// is reported as due soon.
	UpcomingServiceThreshold = 80.0

	TicketOpen   = "open"
	TicketClosed = "closed"

	TicketTypeService = "service"

	initialServiceNote = "Initial service record created automatically"
)

type ServiceRecord struct {
	ID                   int       `db:"id" json:"id"`
	MachineID            int       `db:"machine_id" json:"machineId"`
	ServiceIntervalHours float64   `db:"service_interval_hours" json:"serviceIntervalHours"`
	TotalUsageHours      float64   `db:"total_usage_hours" json:"totalUsageHours"`
	ServiceDate          time.Time `db:"service_date" json:"serviceDate"`
	Notes                string    `db:"notes" json:"notes"`
}

// UsageResult reports what RecordUsage did to one machine.
type UsageResult struct {
	MachineID     int     `json:"machineId"`
	MachineName   string  `json:"machineName"`
	GymID         int     `json:"gymId"`
	UsageHours    float64 `json:"usageHours"`
	IntervalHours float64 `json:"intervalHours"`
	// FlaggedForService is set when this call pushed the machine over its interval.
	FlaggedForService bool `json:"flaggedForService"`
	TicketID          int  `json:"ticketId,omitempty"`
}

type UpcomingService struct {
	MachineID               int     `db:"machine_id" json:"machineId"`
	MachineName             string  `db:"machine_name" json:"machineName"`
	GymID                   int     `db:"gym_id" json:"gymId"`
	TotalUsageHours         float64 `db:"total_usage_hours" json:"totalUsageHours"`
	ServiceIntervalHours    float64 `db:"service_interval_hours" json:"serviceIntervalHours"`
	PercentageUsed          float64 `db:"-" json:"percentageUsed"`
	EstimatedHoursRemaining float64 `db:"-" json:"estimatedHoursRemaining"`
}

// MachineServiceStatus is a machine joined with its gym and service row.
type MachineServiceStatus struct {
	ID                   int        `db:"id" json:"id"`
	GymID                int        `db:"gym_id" json:"gymId"`
	Name                 string     `db:"name" json:"name"`
	Status               string     `db:"status" json:"status"`
	NeedService          bool       `db:"need_service" json:"needService"`
	UsesCount            int        `db:"uses_count" json:"usesCount"`
	GymName              string     `db:"gym_name" json:"gymName"`
	GymLocation          string     `db:"gym_location" json:"gymLocation"`
	ServiceIntervalHours *float64   `db:"service_interval_hours" json:"serviceIntervalHours,omitempty"`
	TotalUsageHours      *float64   `db:"total_usage_hours" json:"totalUsageHours,omitempty"`
	ServiceDate          *time.Time `db:"service_date" json:"serviceDate,omitempty"`
	Notes                *string    `db:"notes" json:"notes,omitempty"`
}

type MachineUsage struct {
	ID                     int        `json:"id"`
	Name                   string     `json:"name"`
	GymName                string     `json:"gymName"`
	TotalUses              int        `json:"totalUses"`
	NeedsService           bool       `json:"needsService"`
	LastServiceDate        *time.Time `json:"lastServiceDate,omitempty"`
	UsageHoursSinceService float64    `json:"usageHoursSinceService"`
	ServiceIntervalHours   float64    `json:"serviceIntervalHours"`
	UsagePercentage        float64    `json:"usagePercentage"`
}

type Ticket struct {
	ID          int       `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Status      string    `db:"status" json:"status"`
	TicketType  string    `db:"ticket_type" json:"ticketType"`
	MachineID   *int      `db:"machine_id" json:"machineId,omitempty"`
	MachineName *string   `db:"machine_name" json:"machineName,omitempty"`
	GymID       *int      `db:"gym_id" json:"gymId,omitempty"`
	GymName     *string   `db:"gym_name" json:"gymName,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

type TicketFilter struct {
	Status string
	GymID  *int
}

type ServiceMachineRequest struct {
	Notes    string `json:"notes"`
	TicketID *int   `json:"ticketId"`
}

type UpdateIntervalRequest struct {
	ServiceIntervalHours float64 `json:"serviceIntervalHours" binding:"required"`
}

// ServiceOutcome is returned after a machine has been serviced.
type ServiceOutcome struct {
	MachineID     int           `json:"machineId"`
	MachineName   string        `json:"machineName"`
	Record        ServiceRecord `json:"service"`
	TicketsClosed int64         `json:"ticketsClosed"`
}
