package recommendations

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lmorales-dev/vestra-backend/pkg/config"
	pkgerrors "github.com/lmorales-dev/vestra-backend/pkg/errors"
)

type counterIncrementer interface {
	Increment(ctx context.Context, userID uuid.UUID, now time.Time, window time.Duration, limit int) (int, bool, error)
}

// Limiter enforces the per-user styling request budget.
type Limiter struct {
	counters counterIncrementer
	limit    int
	window   time.Duration
	now      func() time.Time
}

// NewLimiter builds a limiter from config.
func NewLimiter(counters counterIncrementer, cfg config.RecommendationsConfig) (*Limiter, error) {
	if counters == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "counter repo is required")
	}
	if cfg.Limit <= 0 || cfg.Window <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "limit and window must be positive")
	}
	return &Limiter{
		counters: counters,
		limit:    cfg.Limit,
		window:   cfg.Window,
		now:      time.Now,
	}, nil
}

// Allow claims one request slot. Denied requests leave the counter alone and
// come back as a rate-limit error the transport layer maps to 429.
func (l *Limiter) Allow(ctx context.Context, userID uuid.UUID) (int, error) {
	count, allowed, err := l.counters.Increment(ctx, userID, l.now(), l.window, l.limit)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advance rate limit counter")
	}
	if !allowed {
		return 0, pkgerrors.New(pkgerrors.CodeRateLimit, "styling request limit reached, try again later")
	}
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
