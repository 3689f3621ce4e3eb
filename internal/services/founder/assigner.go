package founder

import (
	"context"
	"fmt"
	"sync"

	"github.com/lifecompass/attribution/internal/backend"
	"github.com/lifecompass/attribution/internal/dependencies/random"
	"github.com/lifecompass/attribution/internal/model"
)

// Allocation is an allocator's verdict: the code for this identity and
// whether this call was an idempotent replay rather than a first mint.
type Allocation struct {
	FounderCode     string
	AlreadyAssigned bool
}

// Assigner allocates a founder code for an identity. Implementations are the
// single source of truth for the at-most-one-mint-per-identity invariant;
// one variant is chosen at construction, never switched per call.
type Assigner interface {
	Assign(ctx context.Context, id model.DeviceIdentity) (*Allocation, error)
}

// Scenario forces a mock allocation outcome, for exercising caller error
// handling without a backend
type Scenario string

const (
	ScenarioSuccess         Scenario = "success"
	ScenarioAlreadyAssigned Scenario = "already-assigned"
	ScenarioOutOfSpots      Scenario = "out-of-spots"
	ScenarioError           Scenario = "error"
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// MockConfig holds settings for the mock assigner
type MockConfig struct {
	// Scenario forces an outcome; ScenarioSuccess behaves like a real
	// allocator with a bounded pool
	Scenario Scenario

	// SpotCap bounds how many codes the mock will mint
	SpotCap int
}

// DefaultMockConfig returns default mock assigner configuration
func DefaultMockConfig() MockConfig {
	return MockConfig{
		Scenario: ScenarioSuccess,
		SpotCap:  1000,
	}
}

// MockAssigner generates plausible-looking codes locally with no network
// call. Replays for a known identity return the original code.
type MockAssigner struct {
	cfg    MockConfig
	random random.Random

	mu       sync.Mutex
	assigned map[model.DeviceIdentity]string
}

// Ensure MockAssigner implements Assigner
var _ Assigner = (*MockAssigner)(nil)

// NewMockAssigner creates a mock assigner
func NewMockAssigner(cfg MockConfig, random random.Random) *MockAssigner {
	if cfg.SpotCap <= 0 {
		cfg.SpotCap = DefaultMockConfig().SpotCap
	}
	if cfg.Scenario == "" {
		cfg.Scenario = ScenarioSuccess
	}
	return &MockAssigner{
		cfg:      cfg,
		random:   random,
		assigned: make(map[model.DeviceIdentity]string),
	}
}

// Assign mints or replays a code according to the configured scenario
func (m *MockAssigner) Assign(ctx context.Context, id model.DeviceIdentity) (*Allocation, error) {
	switch m.cfg.Scenario {
	case ScenarioError:
		return nil, fmt.Errorf("%w: simulated backend error", model.ErrAssignmentFailed)
	case ScenarioOutOfSpots:
		return nil, model.ErrNoSpotsRemaining
	case ScenarioAlreadyAssigned:
		m.mu.Lock()
		defer m.mu.Unlock()
		code, ok := m.assigned[id]
		if !ok {
			code = m.mintLocked(id)
		}
		return &Allocation{FounderCode: code, AlreadyAssigned: true}, nil
	default:
		m.mu.Lock()
		defer m.mu.Unlock()
		if code, ok := m.assigned[id]; ok {
			return &Allocation{FounderCode: code, AlreadyAssigned: true}, nil
		}
		if len(m.assigned) >= m.cfg.SpotCap {
			return nil, model.ErrNoSpotsRemaining
		}
		return &Allocation{FounderCode: m.mintLocked(id)}, nil
	}
}

func (m *MockAssigner) mintLocked(id model.DeviceIdentity) string {
	code := fmt.Sprintf("FNDR-%s", m.random.String(8, codeAlphabet))
	m.assigned[id] = code
	return code
}

// IdentityAssigner calls the remote allocation endpoint with the device
// identity. The backend decides first-mint versus replay; AlreadyAssigned is
// surfaced unchanged.
type IdentityAssigner struct {
	client *backend.Client
}

// Ensure IdentityAssigner implements Assigner
var _ Assigner = (*IdentityAssigner)(nil)

// NewIdentityAssigner creates an identity-based assigner
func NewIdentityAssigner(client *backend.Client) *IdentityAssigner {
	return &IdentityAssigner{client: client}
}

// Assign asks the backend for a code bound to the given identity
func (a *IdentityAssigner) Assign(ctx context.Context, id model.DeviceIdentity) (*Allocation, error) {
	resp, err := a.client.AssignFounderCode(ctx, backend.AssignRequest{DeviceIdentity: id})
	if err != nil {
		return nil, err
	}
	return &Allocation{
		FounderCode:     resp.FounderCode,
		AlreadyAssigned: resp.AlreadyAssigned,
	}, nil
}

// ReceiptProvider supplies a verified purchase receipt. Receipt verification
// itself is an external collaborator.
type ReceiptProvider interface {
	Receipt(ctx context.Context) (string, error)
}

// ReceiptAssigner is the production variant: the allocation call is gated on
// a purchase receipt. The idempotency contract is identical to the
// identity-based variant.
type ReceiptAssigner struct {
	client   *backend.Client
	receipts ReceiptProvider
}

// Ensure ReceiptAssigner implements Assigner
var _ Assigner = (*ReceiptAssigner)(nil)

// NewReceiptAssigner creates a receipt-based assigner
func NewReceiptAssigner(client *backend.Client, receipts ReceiptProvider) *ReceiptAssigner {
	return &ReceiptAssigner{client: client, receipts: receipts}
}

// Assign fetches the purchase receipt and asks the backend for a code
func (a *ReceiptAssigner) Assign(ctx context.Context, id model.DeviceIdentity) (*Allocation, error) {
	receipt, err := a.receipts.Receipt(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrAssignmentFailed, err.Error())
	}

	resp, err := a.client.AssignFounderCode(ctx, backend.AssignRequest{
		DeviceIdentity: id,
		Receipt:        receipt,
	})
	if err != nil {
		return nil, err
	}
	return &Allocation{
		FounderCode:     resp.FounderCode,
		AlreadyAssigned: resp.AlreadyAssigned,
	}, nil
}
