package memory

import (
	"context"
	"sync"

	"github.com/lifecompass/attribution/internal/model"
	"github.com/lifecompass/attribution/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	identity      model.DeviceIdentity
	pending       *model.PendingReferral
	completed     []*model.CompletedReferral
	notifications []*model.ReferralNotification
	enteredCode   string
	assignment    *model.FounderAssignment
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Device identity operations

func (s *Storage) SaveDeviceIdentity(ctx context.Context, id model.DeviceIdentity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = id
	return nil
}

func (s *Storage) GetDeviceIdentity(ctx context.Context) (model.DeviceIdentity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == "" {
		return "", model.ErrIdentityNotFound
	}
	return s.identity, nil
}

// Pending referral operations

func (s *Storage) SavePendingReferral(ctx context.Context, p *model.PendingReferral) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *p
	s.pending = &copied
	return nil
}

func (s *Storage) GetPendingReferral(ctx context.Context) (*model.PendingReferral, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pending == nil {
		return nil, model.ErrNoPendingReferral
	}
	copied := *s.pending
	return &copied, nil
}

func (s *Storage) TakePendingReferral(ctx context.Context) (*model.PendingReferral, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil, model.ErrNoPendingReferral
	}
	taken := s.pending
	s.pending = nil
	return taken, nil
}

func (s *Storage) DeletePendingReferral(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	return nil
}

// Completed referral log operations

func (s *Storage) AppendCompletedReferral(ctx context.Context, c *model.CompletedReferral) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *c
	s.completed = append(s.completed, &copied)
	return nil
}

func (s *Storage) GetCompletedReferrals(ctx context.Context) ([]*model.CompletedReferral, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.CompletedReferral, len(s.completed))
	for i, c := range s.completed {
		copied := *c
		result[i] = &copied
	}
	return result, nil
}

// Referral notification operations

func (s *Storage) AppendNotification(ctx context.Context, n *model.ReferralNotification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *n
	s.notifications = append(s.notifications, &copied)
	return nil
}

func (s *Storage) GetNotifications(ctx context.Context) ([]*model.ReferralNotification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.ReferralNotification, len(s.notifications))
	for i, n := range s.notifications {
		copied := *n
		result[i] = &copied
	}
	return result, nil
}

func (s *Storage) MarkNotificationRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return model.ErrNotificationNotFound
}

// Manually entered referral code operations

func (s *Storage) SaveEnteredCode(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enteredCode = code
	return nil
}

func (s *Storage) TakeEnteredCode(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enteredCode == "" {
		return "", model.ErrNoEnteredCode
	}
	code := s.enteredCode
	s.enteredCode = ""
	return code, nil
}

// Founder assignment operations

func (s *Storage) SaveFounderAssignment(ctx context.Context, a *model.FounderAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *a
	s.assignment = &copied
	return nil
}

func (s *Storage) GetFounderAssignment(ctx context.Context) (*model.FounderAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.assignment == nil {
		return nil, model.ErrNoAssignment
	}
	copied := *s.assignment
	return &copied, nil
}
