package maintenance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/pankajbaid567/Fittlr-Backend/internal/apperr"
	"github.com/pankajbaid567/Fittlr-Backend/internal/db"
)

const machineStatusQuery = `
	SELECT m.id, m.gym_id, m.name, m.status, m.need_service, m.uses_count,
	       g.name AS gym_name, g.location AS gym_location,
	       s.service_interval_hours, s.total_usage_hours, s.service_date, s.notes
	FROM machines m
	JOIN gyms g ON g.id = m.gym_id
	LEFT JOIN services s ON s.machine_id = m.id`

const serviceRecordColumns = `id, machine_id, service_interval_hours, total_usage_hours, service_date, notes`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) MachineName(ctx context.Context, machineID int) (string, error) {
	var name string
	err := r.db.GetContext(ctx, &name, `SELECT name FROM machines WHERE id = $1`, machineID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("select machine %d: %w", machineID, err)
	}
	return name, nil
}

func (r *repository) ListMachinesNeedingService(ctx context.Context, gymID *int) ([]MachineServiceStatus, error) {
	query := machineStatusQuery + ` WHERE m.need_service = TRUE`
	var args []any
	if gymID != nil {
		query += ` AND m.gym_id = $1`
		args = append(args, *gymID)
	}
	query += ` ORDER BY m.id ASC`

	machines := []MachineServiceStatus{}
	if err := r.db.SelectContext(ctx, &machines, query, args...); err != nil {
		return nil, fmt.Errorf("select machines needing service: %w", err)
	}
	return machines, nil
}

func (r *repository) ListMachineStatuses(ctx context.Context, gymID *int) ([]MachineServiceStatus, error) {
	query := machineStatusQuery
	var args []any
	if gymID != nil {
		query += ` WHERE m.gym_id = $1`
		args = append(args, *gymID)
	}
	query += ` ORDER BY m.uses_count DESC, m.id ASC`

	machines := []MachineServiceStatus{}
	if err := r.db.SelectContext(ctx, &machines, query, args...); err != nil {
		return nil, fmt.Errorf("select machine usage: %w", err)
	}
	return machines, nil
}

// ServiceMachine reactivates the machine, resets its usage counter and closes
// tickets in one transaction. With ticketID set only that ticket is closed, and
// it must belong to the machine.
func (r *repository) ServiceMachine(ctx context.Context, machineID int, notes string, ticketID *int) (*ServiceRecord, int64, error) {
	var (
		rec    ServiceRecord
		closed int64
	)

	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE machines SET need_service = FALSE, status = 'active' WHERE id = $1`, machineID)
		if err != nil {
			return fmt.Errorf("reactivate machine %d: %w", machineID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.NotFound("No machine found with id %d", machineID)
		}

		err = tx.GetContext(ctx, &rec, `
			INSERT INTO services (machine_id, service_interval_hours, total_usage_hours, service_date, notes)
			VALUES ($1, $2, 0, NOW(), COALESCE(NULLIF($3, ''), 'Initial service'))
			ON CONFLICT (machine_id) DO UPDATE
			SET total_usage_hours = 0,
			    service_date = NOW(),
			    notes = COALESCE(NULLIF($3, ''), services.notes)
			RETURNING `+serviceRecordColumns,
			machineID, DefaultServiceIntervalHours, notes)
		if err != nil {
			return fmt.Errorf("reset service record for machine %d: %w", machineID, err)
		}

		if ticketID != nil {
			res, err = tx.ExecContext(ctx, `
				UPDATE tickets SET status = 'closed', updated_at = NOW()
				WHERE id = $1 AND machine_id = $2`, *ticketID, machineID)
			if err != nil {
				return fmt.Errorf("close ticket %d: %w", *ticketID, err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return apperr.NotFound("No ticket found with id %d for machine %d", *ticketID, machineID)
			}
		} else {
			res, err = tx.ExecContext(ctx, `
				UPDATE tickets SET status = 'closed', updated_at = NOW()
				WHERE machine_id = $1 AND status = 'open' AND ticket_type = 'service'`, machineID)
			if err != nil {
				return fmt.Errorf("close tickets for machine %d: %w", machineID, err)
			}
		}
		closed, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &rec, closed, nil
}

func (r *repository) UpsertServiceInterval(ctx context.Context, machineID int, hours float64) (*ServiceRecord, error) {
	var rec ServiceRecord
	err := r.db.GetContext(ctx, &rec, `
		INSERT INTO services (machine_id, service_interval_hours, total_usage_hours, service_date)
		VALUES ($1, $2, 0, NOW())
		ON CONFLICT (machine_id) DO UPDATE
		SET service_interval_hours = EXCLUDED.service_interval_hours
		RETURNING `+serviceRecordColumns, machineID, hours)
	if err != nil {
		return nil, fmt.Errorf("upsert service interval for machine %d: %w", machineID, err)
	}
	return &rec, nil
}

func (r *repository) ListTickets(ctx context.Context, filter TicketFilter) ([]Ticket, error) {
	conds := []string{`t.ticket_type = 'service'`}
	var args []any
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, `t.status = $`+strconv.Itoa(len(args)))
	}
	if filter.GymID != nil {
		args = append(args, *filter.GymID)
		conds = append(conds, `m.gym_id = $`+strconv.Itoa(len(args)))
	}

	query := `
		SELECT t.id, t.user_id, t.title, t.description, t.status, t.ticket_type, t.machine_id,
		       m.name AS machine_name, m.gym_id, g.name AS gym_name,
		       t.created_at, t.updated_at
		FROM tickets t
		LEFT JOIN machines m ON m.id = t.machine_id
		LEFT JOIN gyms g ON g.id = m.gym_id
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY t.created_at DESC, t.id DESC`

	tickets := []Ticket{}
	if err := r.db.SelectContext(ctx, &tickets, query, args...); err != nil {
		return nil, fmt.Errorf("select tickets: %w", err)
	}
	return tickets, nil
}
