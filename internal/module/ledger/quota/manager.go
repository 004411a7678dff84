package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter reports whether a user may run another paid request today.
type Limiter interface {
	Allow(ctx context.Context, userID string) (bool, error)
}

// Manager enforces a per-user daily request cap backed by Redis. A zero
// limit or a nil client disables the cap. Redis outages fail open: a user
// is never blocked because the counter store is unreachable.
type Manager struct {
	client redis.UniversalClient
	limit  int64
	logger *zap.Logger
}

// NewManager creates a new quota manager.
func NewManager(client redis.UniversalClient, limit int64, logger *zap.Logger) *Manager {
	return &Manager{
		client: client,
		limit:  limit,
		logger: logger,
	}
}

func (m *Manager) Allow(ctx context.Context, userID string) (bool, error) {
	if m.limit <= 0 || m.client == nil {
		return true, nil
	}

	now := time.Now().UTC()
	key := dailyKey(userID, now)

	count, err := m.client.Incr(ctx, key).Result()
	if err != nil {
		m.logger.Warn("quota check skipped, counter store unreachable",
			zap.String("user_id", userID),
			zap.Error(err))
		return true, nil
	}

	// First hit of the day owns setting the expiry.
	if count == 1 {
		if err := m.client.Expire(ctx, key, time.Until(endOfDay(now))).Err(); err != nil {
			m.logger.Warn("failed to set quota key expiry",
				zap.String("key", key),
				zap.Error(err))
		}
	}

	return count <= m.limit, nil
}

func dailyKey(userID string, now time.Time) string {
	return fmt.Sprintf("quota:requests:%s:%s", userID, now.Format("2006-01-02"))
}

func endOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}
