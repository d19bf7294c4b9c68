package booking

import (
	"context"
	"fmt"
	"time"
)

func (r *repository) StatsByDay(ctx context.Context, from, to time.Time) ([]StatsByDay, error) {
	query := `
SELECT
  TO_CHAR(DATE(created_at), 'YYYY-MM-DD')        AS bucket,
  COUNT(*)                                        AS total,
  COUNT(*) FILTER (WHERE status = 'confirmed')    AS confirmed,
  COUNT(*) FILTER (WHERE status = 'cancelled')    AS cancelled,
  COUNT(*) FILTER (WHERE status = 'completed')    AS completed
FROM gym_bookings
WHERE created_at >= $1 AND created_at < $2
GROUP BY DATE(created_at)
ORDER BY DATE(created_at);
`
	stats := []StatsByDay{}
	if err := r.db.SelectContext(ctx, &stats, query, from, to); err != nil {
		return nil, fmt.Errorf("booking stats by day: %w", err)
	}
	return stats, nil
}

func (r *repository) StatsByGym(ctx context.Context, from, to time.Time) ([]StatsByGym, error) {
	query := `
SELECT
  g.id   AS gym_id,
  g.name AS gym_name,
  COUNT(b.id)                                       AS total,
  COUNT(b.id) FILTER (WHERE b.status = 'confirmed') AS confirmed,
  COUNT(b.id) FILTER (WHERE b.status = 'cancelled') AS cancelled,
  COUNT(b.id) FILTER (WHERE b.status = 'completed') AS completed
FROM gyms g
LEFT JOIN gym_bookings b
  ON b.gym_id = g.id AND b.created_at >= $1 AND b.created_at < $2
GROUP BY g.id, g.name
ORDER BY g.id;
`
	stats := []StatsByGym{}
	if err := r.db.SelectContext(ctx, &stats, query, from, to); err != nil {
		return nil, fmt.Errorf("booking stats by gym: %w", err)
	}
	return stats, nil
}
