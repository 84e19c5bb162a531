package models

import (
	"time"

	"github.com/google/uuid"
)

// RateLimitCounter tracks accepted recommendation requests per user inside
// the rolling window. Rejected requests never advance the counter.
type RateLimitCounter struct {
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	RequestCount  int       `gorm:"column:request_count;not null;default:0"`
	LastRequestAt time.Time `gorm:"column:last_request_at;not null"`
}
