package maintenance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/pankajbaid567/Fittlr-Backend/internal/apperr"
	"github.com/pankajbaid567/Fittlr-Backend/internal/logger"
	"github.com/pankajbaid567/Fittlr-Backend/internal/metrics"
)

// Tracker accumulates machine usage and takes machines out of rotation once
// they pass their service interval.
type Tracker struct {
	db           *sqlx.DB
	systemUserID string
}

func NewTracker(db *sqlx.DB, systemUserID string) *Tracker {
	return &Tracker{db: db, systemUserID: systemUserID}
}

type lockedMachine struct {
	ID          int    `db:"id"`
	GymID       int    `db:"gym_id"`
	Name        string `db:"name"`
	Status      string `db:"status"`
	NeedService bool   `db:"need_service"`
}

// RecordUsage adds usageMinutes to the machine's service counters. It must run
// on the caller's transaction so a failed ticket insert undoes everything.
func (t *Tracker) RecordUsage(ctx context.Context, q sqlx.ExtContext, machineID, usageMinutes int) (*UsageResult, error) {
	var m lockedMachine
	err := sqlx.GetContext(ctx, q, &m, `
		SELECT id, gym_id, name, status, need_service
		FROM machines
		WHERE id = $1
		FOR UPDATE`, machineID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("No machine found with id %d", machineID)
	}
	if err != nil {
		return nil, fmt.Errorf("lock machine %d: %w", machineID, err)
	}

	if _, err := q.ExecContext(ctx, `UPDATE machines SET uses_count = uses_count + 1 WHERE id = $1`, machineID); err != nil {
		return nil, fmt.Errorf("increment uses for machine %d: %w", machineID, err)
	}

	usageHours := float64(usageMinutes) / 60
	result := &UsageResult{MachineID: m.ID, MachineName: m.Name, GymID: m.GymID}

	var rec ServiceRecord
	err = sqlx.GetContext(ctx, q, &rec, `
		SELECT id, machine_id, service_interval_hours, total_usage_hours, service_date, notes
		FROM services
		WHERE machine_id = $1
		FOR UPDATE`, machineID)
	if errors.Is(err, sql.ErrNoRows) {
		_, err := q.ExecContext(ctx, `
			INSERT INTO services (machine_id, service_interval_hours, total_usage_hours, service_date, notes)
			VALUES ($1, $2, $3, NOW(), $4)`,
			machineID, DefaultServiceIntervalHours, usageHours, initialServiceNote)
		if err != nil {
			return nil, fmt.Errorf("create service record for machine %d: %w", machineID, err)
		}
		result.UsageHours = usageHours
		result.IntervalHours = DefaultServiceIntervalHours
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lock service record for machine %d: %w", machineID, err)
	}

	total := rec.TotalUsageHours + usageHours
	result.UsageHours = total
	result.IntervalHours = rec.ServiceIntervalHours

	if _, err := q.ExecContext(ctx, `UPDATE services SET total_usage_hours = $2 WHERE machine_id = $1`, machineID, total); err != nil {
		return nil, fmt.Errorf("update usage for machine %d: %w", machineID, err)
	}

	if total < rec.ServiceIntervalHours || m.Status != "active" || m.NeedService {
		return result, nil
	}

	if _, err := q.ExecContext(ctx, `
		UPDATE machines SET status = 'inactive', need_service = TRUE WHERE id = $1`, machineID); err != nil {
		return nil, fmt.Errorf("flag machine %d for service: %w", machineID, err)
	}

	var ticketID int
	err = sqlx.GetContext(ctx, q, &ticketID, `
		INSERT INTO tickets (user_id, title, description, status, ticket_type, machine_id)
		VALUES ($1, $2, $3, 'open', 'service', $4)
		RETURNING id`,
		t.systemUserID, serviceTicketTitle(m.Name), serviceTicketDescription(m.Name, rec.ServiceIntervalHours, total), machineID)
	if err != nil {
		return nil, fmt.Errorf("open service ticket for machine %d: %w", machineID, err)
	}

	result.FlaggedForService = true
	result.TicketID = ticketID
	metrics.RecordServiceTicket("opened")
	logger.Warn("machine flagged for service",
		"machine_id", machineID,
		"ticket_id", ticketID,
		"usage_hours", total,
		"interval_hours", rec.ServiceIntervalHours,
	)
	return result, nil
}

func serviceTicketTitle(name string) string {
	return "Service Required: " + name
}

func serviceTicketDescription(name string, interval, usage float64) string {
	return fmt.Sprintf("Machine %q requires service after reaching usage threshold of %s hours. Current usage: %.2f hours.",
		name, strconv.FormatFloat(interval, 'f', -1, 64), usage)
}

// CheckUpcomingService lists active machines of a gym that have used at least
// 80% of their service interval. It does not modify anything.
func (t *Tracker) CheckUpcomingService(ctx context.Context, gymID int) ([]UpcomingService, error) {
	var rows []UpcomingService
	err := t.db.SelectContext(ctx, &rows, `
		SELECT m.id AS machine_id, m.name AS machine_name, m.gym_id,
		       s.total_usage_hours, s.service_interval_hours
		FROM machines m
		JOIN services s ON s.machine_id = m.id
		WHERE m.gym_id = $1 AND m.status = 'active' AND m.need_service = FALSE
		  AND s.service_interval_hours > 0
		ORDER BY m.id ASC`, gymID)
	if err != nil {
		return nil, fmt.Errorf("select service counters: %w", err)
	}

	upcoming := make([]UpcomingService, 0, len(rows))
	for _, r := range rows {
		pct := r.TotalUsageHours / r.ServiceIntervalHours * 100
		if pct < UpcomingServiceThreshold {
			continue
		}
		r.PercentageUsed = math.Round(pct)
		r.EstimatedHoursRemaining = r.ServiceIntervalHours - r.TotalUsageHours
		upcoming = append(upcoming, r)
	}
	return upcoming, nil
}
