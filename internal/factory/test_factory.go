package factory

import (
	"sync"
	"time"

	"github.com/lifecompass/attribution/internal/dependencies/mocks"
	"github.com/lifecompass/attribution/internal/model"
	"github.com/lifecompass/attribution/internal/services/founder"
	"github.com/lifecompass/attribution/internal/storage/memory"
	"github.com/lifecompass/attribution/internal/testutil"
)

// RecordedEvents is a backend sink that captures events instead of
// delivering them, for asserting on outbound traffic in tests
type RecordedEvents struct {
	mu     sync.Mutex
	events []model.OutboundEvent
}

// Enqueue records the event
func (r *RecordedEvents) Enqueue(event model.OutboundEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// All returns a copy of every recorded event
func (r *RecordedEvents) All() []model.OutboundEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.OutboundEvent, len(r.events))
	copy(out, r.events)
	return out
}

// ByType returns recorded events of the given type
func (r *RecordedEvents) ByType(t model.EventType) []model.OutboundEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.OutboundEvent
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom

	// Events captures outbound traffic instead of delivering it
	Events *RecordedEvents
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	events := &RecordedEvents{}
	assigner := founder.NewMockAssigner(founder.DefaultMockConfig(), mockRandom)

	app := newWithDependencies(store, mockClock, mockRandom, events, assigner, Config{}, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Events:     events,
	}
}
