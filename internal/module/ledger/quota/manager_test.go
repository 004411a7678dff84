package quota

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAllowDisabled(t *testing.T) {
	ctx := context.Background()

	t.Run("zero limit allows everything", func(t *testing.T) {
		m := NewManager(nil, 0, zap.NewNop())
		ok, err := m.Allow(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("nil client allows everything", func(t *testing.T) {
		m := NewManager(nil, 100, zap.NewNop())
		ok, err := m.Allow(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestDailyKey(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	assert.Equal(t, "quota:requests:user-1:2025-03-14", dailyKey("user-1", now))
}

func TestEndOfDay(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	end := endOfDay(now)

	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), end)
	assert.True(t, end.After(now))
}
