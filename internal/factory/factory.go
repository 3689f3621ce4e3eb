package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/lifecompass/attribution/internal/backend"
	"github.com/lifecompass/attribution/internal/dependencies/clock"
	"github.com/lifecompass/attribution/internal/dependencies/random"
	"github.com/lifecompass/attribution/internal/services/attribution"
	"github.com/lifecompass/attribution/internal/services/founder"
	"github.com/lifecompass/attribution/internal/services/identity"
	"github.com/lifecompass/attribution/internal/services/notifier"
	"github.com/lifecompass/attribution/internal/storage"
	"github.com/lifecompass/attribution/internal/storage/memory"
	redisstorage "github.com/lifecompass/attribution/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Assigner mode constants
const (
	AssignerModeMock     = "mock"
	AssignerModeIdentity = "identity"
	AssignerModeReceipt  = "receipt"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Backend delivery
	BackendClient *backend.Client
	Outbox        *backend.Outbox

	// Services
	IdentityService    *identity.Service
	AttributionService *attribution.Service
	NotifierService    *notifier.Service
	FounderService     *founder.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// BackendConfig holds backend client settings (optional)
	// If zero value, defaults to backend.DefaultConfig()
	BackendConfig backend.Config
	// OutboxConfig holds outbound delivery settings (optional)
	OutboxConfig backend.OutboxConfig
	// AttributionConfig holds attribution settings (optional)
	AttributionConfig attribution.Config
	// NotifierConfig holds notification settings (optional)
	NotifierConfig notifier.Config
	// AssignerMode selects the founder code allocator
	// ("mock", "identity", or "receipt"); defaults to "mock"
	AssignerMode string
	// MockAssignerConfig tunes the mock allocator (mock mode only)
	MockAssignerConfig founder.MockConfig
	// ReceiptProvider supplies purchase receipts (required in receipt mode)
	ReceiptProvider founder.ReceiptProvider
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default backend config if not provided
	backendCfg := cfg.BackendConfig
	if backendCfg.BaseURL == "" {
		backendCfg = backend.DefaultConfig()
	}
	client := backend.NewClient(backendCfg)

	outboxCfg := cfg.OutboxConfig
	if outboxCfg.QueueSize == 0 && outboxCfg.MaxRetries == 0 {
		outboxCfg = backend.DefaultOutboxConfig()
	}
	outbox := backend.NewOutbox(client, outboxCfg, logger)

	// Choose the founder code allocator
	assigner, err := newAssigner(cfg, client, rnd)
	if err != nil {
		return nil, err
	}

	app := newWithDependencies(store, clk, rnd, outbox, assigner, cfg, logger)
	app.BackendClient = client
	app.Outbox = outbox
	return app, nil
}

// newAssigner builds the allocator variant selected by AssignerMode
func newAssigner(cfg Config, client *backend.Client, rnd random.Random) (founder.Assigner, error) {
	mode := cfg.AssignerMode
	if mode == "" {
		mode = AssignerModeMock
	}

	switch mode {
	case AssignerModeMock:
		return founder.NewMockAssigner(cfg.MockAssignerConfig, rnd), nil
	case AssignerModeIdentity:
		return founder.NewIdentityAssigner(client), nil
	case AssignerModeReceipt:
		if cfg.ReceiptProvider == nil {
			return nil, errors.New("ReceiptProvider required when AssignerMode is receipt")
		}
		return founder.NewReceiptAssigner(client, cfg.ReceiptProvider), nil
	default:
		return nil, fmt.Errorf("invalid AssignerMode: %q", mode)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	events backend.Sink,
	assigner founder.Assigner,
	cfg Config,
	logger *slog.Logger,
) *App {
	// Create services
	identityService := identity.New(store, logger)
	attributionService := attribution.New(store, identityService, events, clk, cfg.AttributionConfig, logger)
	notifierService := notifier.New(attributionService, store, identityService, events, clk, cfg.NotifierConfig, logger)
	founderService := founder.New(store, identityService, assigner, clk, logger)

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		IdentityService:    identityService,
		AttributionService: attributionService,
		NotifierService:    notifierService,
		FounderService:     founderService,
	}
}
