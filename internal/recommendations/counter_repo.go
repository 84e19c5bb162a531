package recommendations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CounterRepository persists per-user request counters for the styling
// endpoint.
type CounterRepository struct {
	db *gorm.DB
}

// NewCounterRepository constructs a counter repository bound to the provided
// gorm DB.
func NewCounterRepository(db *gorm.DB) *CounterRepository {
	return &CounterRepository{db: db}
}

// Increment advances the user's counter and reports whether the request is
// inside the ceiling. A single statement resets expired windows, increments
// live ones, and refuses to advance past the limit, so two concurrent
// requests can never both claim the last slot. Every accepted request moves
// last_request_at forward, so the window is anchored on the most recent
// request. Zero rows back means the ceiling was hit and the stored row is
// untouched.
func (r *CounterRepository) Increment(ctx context.Context, userID uuid.UUID, now time.Time, window time.Duration, limit int) (int, bool, error) {
	if userID == uuid.Nil {
		return 0, false, gorm.ErrInvalidValue
	}

	windowStart := now.Add(-window)

	var rows []struct {
		RequestCount int
	}
	err := r.db.WithContext(ctx).
		Raw(`
INSERT INTO rate_limit_counters (user_id, request_count, last_request_at)
VALUES (?, 1, ?)
ON CONFLICT (user_id)
DO UPDATE SET
  request_count = CASE
    WHEN rate_limit_counters.last_request_at <= ? THEN 1
    ELSE rate_limit_counters.request_count + 1
  END,
  last_request_at = EXCLUDED.last_request_at
WHERE rate_limit_counters.last_request_at <= ?
   OR rate_limit_counters.request_count < ?
RETURNING request_count`,
			userID, now, windowStart, windowStart, limit).
		Scan(&rows).Error
	if err != nil {
		return 0, false, err
	}
	if len(rows) == 0 {
		return limit, false, nil
	}
	return rows[0].RequestCount, true, nil
}

// Current reports the stored count for the user, zero when absent.
func (r *CounterRepository) Current(ctx context.Context, userID uuid.UUID) (int, error) {
	var counter struct {
		RequestCount int
	}
	err := r.db.WithContext(ctx).
		Raw(`SELECT request_count FROM rate_limit_counters WHERE user_id = ?`, userID).
		Scan(&counter).Error
	if err != nil {
		return 0, err
	}
	return counter.RequestCount, nil
}
