package gym

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pankajbaid567/Fittlr-Backend/internal/db"
)

const (
	gymColumns     = `id, name, location, image_url, max_capacity, current_users, created_at`
	hoursColumns   = `id, gym_id, day_of_week, open_time, close_time`
	machineColumns = `id, gym_id, name, description, image_url, status, need_service, uses_count, created_at`
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateGym(ctx context.Context, req CreateGymRequest) (*Gym, error) {
	query := `
		INSERT INTO gyms (name, location, image_url, max_capacity)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + gymColumns

	var g Gym
	if err := r.db.GetContext(ctx, &g, query, req.Name, req.Location, req.ImageURL, req.MaxCapacity); err != nil {
		return nil, fmt.Errorf("insert gym: %w", err)
	}
	return &g, nil
}

func (r *repository) GetAllGyms(ctx context.Context) ([]Gym, error) {
	query := `SELECT ` + gymColumns + ` FROM gyms ORDER BY name ASC`

	gyms := []Gym{}
	if err := r.db.SelectContext(ctx, &gyms, query); err != nil {
		return nil, fmt.Errorf("select gyms: %w", err)
	}
	return gyms, nil
}

// GetGymByID returns (nil, nil) when no gym has the id.
func (r *repository) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	query := `SELECT ` + gymColumns + ` FROM gyms WHERE id = $1`

	var g Gym
	err := r.db.GetContext(ctx, &g, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select gym %d: %w", id, err)
	}
	return &g, nil
}

func (r *repository) GetOpeningHours(ctx context.Context, gymID int) ([]OpeningHours, error) {
	query := `SELECT ` + hoursColumns + ` FROM opening_hours WHERE gym_id = $1 ORDER BY day_of_week ASC`

	hours := []OpeningHours{}
	if err := r.db.SelectContext(ctx, &hours, query, gymID); err != nil {
		return nil, fmt.Errorf("select opening hours: %w", err)
	}
	return hours, nil
}

// GetOpeningHoursForDay returns (nil, nil) when the gym is closed on day.
func (r *repository) GetOpeningHoursForDay(ctx context.Context, gymID int, day time.Weekday) (*OpeningHours, error) {
	query := `SELECT ` + hoursColumns + ` FROM opening_hours WHERE gym_id = $1 AND day_of_week = $2`

	var h OpeningHours
	err := r.db.GetContext(ctx, &h, query, gymID, int(day))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select opening hours for day %d: %w", day, err)
	}
	return &h, nil
}

func (r *repository) ReplaceOpeningHours(ctx context.Context, gymID int, hours []OpeningHours) ([]OpeningHours, error) {
	saved := make([]OpeningHours, 0, len(hours))

	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM opening_hours WHERE gym_id = $1`, gymID); err != nil {
			return fmt.Errorf("clear opening hours: %w", err)
		}

		insert := `
			INSERT INTO opening_hours (gym_id, day_of_week, open_time, close_time)
			VALUES ($1, $2, $3, $4)
			RETURNING ` + hoursColumns
		for _, h := range hours {
			var row OpeningHours
			if err := tx.GetContext(ctx, &row, insert, gymID, h.DayOfWeek, h.OpenTime, h.CloseTime); err != nil {
				return fmt.Errorf("insert opening hours for day %d: %w", h.DayOfWeek, err)
			}
			saved = append(saved, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *repository) CreateMachine(ctx context.Context, gymID int, req CreateMachineRequest) (*Machine, error) {
	query := `
		INSERT INTO machines (gym_id, name, description, image_url, status)
		VALUES ($1, $2, $3, $4, 'active')
		RETURNING ` + machineColumns

	var m Machine
	if err := r.db.GetContext(ctx, &m, query, gymID, req.Name, req.Description, req.ImageURL); err != nil {
		return nil, fmt.Errorf("insert machine: %w", err)
	}
	return &m, nil
}

func (r *repository) ListMachines(ctx context.Context, gymID int) ([]Machine, error) {
	return r.selectMachines(ctx, `SELECT `+machineColumns+` FROM machines WHERE gym_id = $1 ORDER BY name ASC`, gymID)
}

func (r *repository) ListBookableMachines(ctx context.Context, gymID int) ([]Machine, error) {
	return r.selectMachines(ctx, `
		SELECT `+machineColumns+`
		FROM machines
		WHERE gym_id = $1 AND status = 'active' AND need_service = FALSE
		ORDER BY name ASC`, gymID)
}

func (r *repository) ListServiceableMachines(ctx context.Context, gymID int) ([]Machine, error) {
	return r.selectMachines(ctx, `
		SELECT `+machineColumns+`
		FROM machines
		WHERE gym_id = $1 AND need_service = FALSE
		ORDER BY name ASC`, gymID)
}

func (r *repository) selectMachines(ctx context.Context, query string, args ...any) ([]Machine, error) {
	machines := []Machine{}
	if err := r.db.SelectContext(ctx, &machines, query, args...); err != nil {
		return nil, fmt.Errorf("select machines: %w", err)
	}
	return machines, nil
}
