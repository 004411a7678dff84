package capability

import (
	"context"
	"errors"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/scizor/server/internal/shared/config"
	apperrors "github.com/scizor/server/internal/shared/errors"
	"github.com/scizor/server/internal/utils/metrics"
)

// Factory hands out the shared capability client, constructing it on first
// use. Concurrent callers during construction share one attempt, and a failed
// attempt never latches: every call re-resolves the credential, so one that
// appears after boot is picked up without a restart.
type Factory struct {
	cfg     *config.CapabilityConfig
	metrics *metrics.Metrics
	logger  *zap.Logger

	mu     sync.Mutex
	client Client

	// newClient builds the underlying client; replaced in tests.
	newClient func(apiKey string) Client
}

// NewFactory creates a capability client factory.
func NewFactory(cfg *config.CapabilityConfig, m *metrics.Metrics, logger *zap.Logger) *Factory {
	f := &Factory{
		cfg:     cfg,
		metrics: m,
		logger:  logger,
	}
	f.newClient = func(apiKey string) Client {
		return NewHTTPClient(cfg, apiKey, m, logger)
	}
	return f
}

// Ensure returns the shared client, constructing it if needed. Without a
// credential it fails with a retryable CapabilityUnavailable error.
func (f *Factory) Ensure(ctx context.Context) (Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.client != nil {
		return f.client, nil
	}

	apiKey := f.resolveAPIKey()
	if apiKey == "" {
		return nil, apperrors.CapabilityUnavailable(errors.New("capability credential is not configured"))
	}

	f.client = f.newClient(apiKey)
	f.logger.Info("capability client ready", zap.String("base_url", f.cfg.BaseURL))
	return f.client, nil
}

// resolveAPIKey prefers the loaded configuration and falls back to the
// environment on every attempt.
func (f *Factory) resolveAPIKey() string {
	if f.cfg.APIKey != "" {
		return f.cfg.APIKey
	}
	return os.Getenv(config.EnvCapabilityAPIKey)
}
