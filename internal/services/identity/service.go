package identity

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/lifecompass/attribution/internal/model"
	"github.com/lifecompass/attribution/internal/storage"
)

// Service owns the per-install device identity: a pseudo-unique correlation
// token generated lazily on first use and stable for the lifetime of the
// install. It is a correlation key, not a security credential.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger

	mu sync.Mutex
	// cached holds the identity once resolved. When the persistent layer is
	// down it holds an ephemeral fallback instead, so repeat callers within
	// the process at least correlate with each other.
	cached model.DeviceIdentity
	// ephemeral marks cached as a non-persisted fallback; persistence is
	// retried on the next call
	ephemeral bool
}

// New creates a new identity service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// GetOrCreate returns the device identity, generating and persisting it on
// first call. Concurrent callers always observe the same value. It never
// fails: when the persistent layer is unavailable it returns an in-memory
// fallback, which callers must treat as best-effort only.
func (s *Service) GetOrCreate(ctx context.Context) model.DeviceIdentity {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != "" && !s.ephemeral {
		return s.cached
	}

	stored, err := s.storage.GetDeviceIdentity(ctx)
	if err == nil {
		s.cached = stored
		s.ephemeral = false
		return stored
	}

	if !errors.Is(err, model.ErrIdentityNotFound) {
		// Storage unavailable; hand out an ephemeral identity rather than
		// failing the caller
		s.logger.Warn("identity store unavailable, using ephemeral identity",
			slog.String("error", err.Error()),
		)
		if s.cached == "" {
			s.cached = generate()
			s.ephemeral = true
		}
		return s.cached
	}

	// Nothing persisted yet: promote an earlier ephemeral identity if one
	// was handed out, otherwise mint a fresh one
	id := s.cached
	if id == "" {
		id = generate()
	}
	if saveErr := s.storage.SaveDeviceIdentity(ctx, id); saveErr != nil {
		s.logger.Warn("failed to persist device identity",
			slog.String("error", saveErr.Error()),
		)
		s.cached = id
		s.ephemeral = true
		return id
	}

	s.logger.Info("device identity created")
	s.cached = id
	s.ephemeral = false
	return id
}

// generate produces a 128-bit identity token
func generate() model.DeviceIdentity {
	return model.DeviceIdentity(uuid.NewString())
}
