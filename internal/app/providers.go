package app

import (
	"fmt"

	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/scizor/server/internal/module/ai"
	"github.com/scizor/server/internal/module/ai/audio"
	"github.com/scizor/server/internal/module/ai/capability"
	"github.com/scizor/server/internal/module/ai/interaction"
	"github.com/scizor/server/internal/module/ledger"
	"github.com/scizor/server/internal/module/ledger/quota"
	sharedcache "github.com/scizor/server/internal/shared/cache"
	"github.com/scizor/server/internal/shared/config"
	"github.com/scizor/server/internal/shared/database"
	"github.com/scizor/server/internal/shared/logger"
	"github.com/scizor/server/internal/utils/metrics"
)

// interactionQueueSize bounds the recorder's in-memory backlog; writes beyond
// it are dropped rather than blocking request handling.
const interactionQueueSize = 256

// ===== Infrastructure Providers =====

// InfraSet provides infrastructure dependencies.
var InfraSet = wire.NewSet(
	ProvideLogger,
	ProvideDatabase,
	ProvideRedisClient,
	ProvideMetrics,
)

// ProvideLogger creates the shared zap logger.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}

// ProvideDatabase creates a database connection and runs migrations.
func ProvideDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, &ledger.Entry{}, &interaction.Record{}); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}

// ProvideRedisClient creates a Redis client. Redis is optional; features that
// depend on it degrade when the client is nil.
func ProvideRedisClient(cfg *config.Config, log *zap.Logger) goredis.UniversalClient {
	if cfg.Redis.Address == "" {
		return nil
	}
	client, err := sharedcache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warn("redis connection failed, continuing without daily caps", zap.Error(err))
		return nil
	}
	return client
}

// ProvideMetrics creates a metrics instance.
func ProvideMetrics() *metrics.Metrics {
	return metrics.New("scizor")
}

// ===== Ledger Module Providers =====

// LedgerSet provides usage ledger dependencies.
var LedgerSet = wire.NewSet(
	ledger.NewRepository,
	ProvideLedgerService,
	ProvideQuotaLimiter,
	ledger.NewHandler,
)

// ProvideLedgerService creates the ledger service.
func ProvideLedgerService(repo ledger.Repository, cfg *config.Config, log *zap.Logger) ledger.ServiceInterface {
	return ledger.NewService(repo, cfg.Ledger.InitialGrant, log)
}

// ProvideQuotaLimiter creates the daily request cap limiter.
func ProvideQuotaLimiter(redisClient goredis.UniversalClient, cfg *config.Config, log *zap.Logger) quota.Limiter {
	return quota.NewManager(redisClient, cfg.Quota.DailyRequestLimit, log)
}

// ===== AI Module Providers =====

// AISet provides AI operation dependencies.
var AISet = wire.NewSet(
	ProvideCapabilityFactory,
	ProvideClientProvider,
	interaction.NewRepository,
	ProvideInteractionRecorder,
	ProvideAudioStore,
	ProvideAIService,
	ai.NewHandler,
)

// ProvideCapabilityFactory creates the capability client factory.
func ProvideCapabilityFactory(cfg *config.Config, m *metrics.Metrics, log *zap.Logger) *capability.Factory {
	return capability.NewFactory(&cfg.Capability, m, log)
}

// ProvideClientProvider exposes the factory through the dispatcher's port.
func ProvideClientProvider(factory *capability.Factory) ai.ClientProvider {
	return factory
}

// ProvideInteractionRecorder creates the async interaction recorder.
func ProvideInteractionRecorder(repo interaction.Repository, m *metrics.Metrics, log *zap.Logger) *interaction.Recorder {
	return interaction.NewRecorder(repo, interactionQueueSize, m, log)
}

// ProvideAudioStore creates the audio archive store. Archiving is optional;
// without a configured bucket clips are served but not kept.
func ProvideAudioStore(cfg *config.Config, log *zap.Logger) (audio.Store, error) {
	if cfg.Storage.Bucket == "" {
		log.Info("audio archive disabled, storage not configured")
		return audio.NopStore{}, nil
	}
	store, err := audio.NewS3Store(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("create audio store: %w", err)
	}
	return store, nil
}

// ProvideAIService creates the operation dispatcher.
func ProvideAIService(
	provider ai.ClientProvider,
	ledgerSvc ledger.ServiceInterface,
	limiter quota.Limiter,
	recorder *interaction.Recorder,
	store audio.Store,
	cfg *config.Config,
	m *metrics.Metrics,
	log *zap.Logger,
) ai.ServiceInterface {
	return ai.NewService(provider, ledgerSvc, limiter, recorder, store, cfg.Ledger, m, log)
}

// ===== Application =====

// AppSet aggregates every provider needed to build the application.
var AppSet = wire.NewSet(
	InfraSet,
	LedgerSet,
	AISet,
	NewApp,
)
