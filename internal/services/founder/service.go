package founder

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/lifecompass/attribution/internal/dependencies/clock"
	"github.com/lifecompass/attribution/internal/model"
	"github.com/lifecompass/attribution/internal/services/identity"
	"github.com/lifecompass/attribution/internal/storage"
)

// Result is the outcome of a founder code request
type Result struct {
	FounderCode     string
	AlreadyAssigned bool
}

// Service requests founder codes and persists the authoritative answer. Per
// identity the transition is Unassigned -> Assigned and terminal: the
// allocator never mints a second code for the same identity, and this
// service always asks with the same persisted identity.
type Service struct {
	storage  storage.Storage
	identity *identity.Service
	assigner Assigner
	clock    clock.Clock
	logger   *slog.Logger

	// Serializes in-process assignment calls so a request burst cannot race
	// the persist step
	mu sync.Mutex
}

// New creates a new founder service with the given allocator variant
func New(
	storage storage.Storage,
	identity *identity.Service,
	assigner Assigner,
	clock clock.Clock,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:  storage,
		identity: identity,
		assigner: assigner,
		clock:    clock,
		logger:   logger,
	}
}

// AssignFounderCode requests a code for this install. Safe to call
// repeatedly: the allocator replays the original code with AlreadyAssigned
// set. The local copy is overwritten with whatever the allocator returns on
// a successful response, never on failure.
func (s *Service) AssignFounderCode(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deviceID := s.identity.GetOrCreate(ctx)

	allocation, err := s.assigner.Assign(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	assignment := &model.FounderAssignment{
		FounderCode:    allocation.FounderCode,
		DeviceIdentity: deviceID,
		AssignedAt:     s.clock.Now(),
	}
	if saveErr := s.storage.SaveFounderAssignment(ctx, assignment); saveErr != nil {
		// The allocator holds the authoritative record; next call replays it
		s.logger.Warn("failed to persist founder assignment",
			slog.String("error", saveErr.Error()),
		)
	}

	if !allocation.AlreadyAssigned {
		s.logger.Info("founder code assigned", slog.String("code", allocation.FounderCode))
	}

	return &Result{
		FounderCode:     allocation.FounderCode,
		AlreadyAssigned: allocation.AlreadyAssigned,
	}, nil
}

// GetFounderAssignment returns the locally persisted assignment, or nil when
// none has been granted yet
func (s *Service) GetFounderAssignment(ctx context.Context) (*model.FounderAssignment, error) {
	assignment, err := s.storage.GetFounderAssignment(ctx)
	if err != nil {
		if errors.Is(err, model.ErrNoAssignment) {
			return nil, nil
		}
		return nil, err
	}
	return assignment, nil
}
