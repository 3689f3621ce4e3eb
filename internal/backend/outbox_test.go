package backend

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/lifecompass/attribution/internal/model"
	"github.com/lifecompass/attribution/internal/testutil"
)

// fakeSender records sends and can fail a configurable number of times
type fakeSender struct {
	mu        sync.Mutex
	failures  int
	delivered []model.OutboundEvent
}

func (f *fakeSender) Send(ctx context.Context, event model.OutboundEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return errors.New("transient failure")
	}
	f.delivered = append(f.delivered, event)
	return nil
}

func (f *fakeSender) deliveredCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.delivered)
}

func (f *fakeSender) deliveredTypes() []model.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	types := make([]model.EventType, len(f.delivered))
	for i, e := range f.delivered {
		types[i] = e.Type
	}
	return types
}

type OutboxSuite struct {
	suite.Suite
	sender *fakeSender
	outbox *Outbox
}

func TestOutboxSuite(t *testing.T) {
	suite.Run(t, new(OutboxSuite))
}

func (s *OutboxSuite) SetupTest() {
	s.sender = &fakeSender{}

	cfg := DefaultOutboxConfig()
	cfg.InitialInterval = time.Millisecond
	s.outbox = NewOutbox(s.sender, cfg, testutil.NopLogger())
	s.outbox.Start()
}

func (s *OutboxSuite) TearDownTest() {
	s.outbox.Stop()
}

func (s *OutboxSuite) waitForDelivered(n int) {
	s.Require().Eventually(func() bool {
		return s.sender.deliveredCount() >= n
	}, 2*time.Second, 5*time.Millisecond)
}

func (s *OutboxSuite) TestDeliversEnqueuedEvent() {
	s.outbox.Enqueue(model.OutboundEvent{Type: model.EventClickObserved})

	s.waitForDelivered(1)
	s.Equal(model.EventClickObserved, s.sender.deliveredTypes()[0])
}

func (s *OutboxSuite) TestRetriesTransientFailures() {
	s.sender.failures = 2

	s.outbox.Enqueue(model.OutboundEvent{Type: model.EventConversionCompleted})

	s.waitForDelivered(1)
	s.Equal(model.EventConversionCompleted, s.sender.deliveredTypes()[0])
}

func (s *OutboxSuite) TestDropsAfterRetryBudget() {
	// MaxRetries 5 means 6 attempts per event; exactly exhaust the first
	s.sender.failures = 6

	s.outbox.Enqueue(model.OutboundEvent{Type: model.EventClickObserved})
	s.outbox.Enqueue(model.OutboundEvent{Type: model.EventReferralShared})

	// First event exhausts its retries and is dropped; second still arrives
	s.waitForDelivered(1)
	s.Equal(model.EventReferralShared, s.sender.deliveredTypes()[0])
}

func (s *OutboxSuite) TestEnqueueNeverBlocksWhenFull() {
	small := NewOutbox(s.sender, OutboxConfig{QueueSize: 1, MaxRetries: 0, InitialInterval: time.Millisecond}, testutil.NopLogger())
	// Not started, so the queue cannot drain
	for i := 0; i < 10; i++ {
		small.Enqueue(model.OutboundEvent{Type: model.EventClickObserved})
	}
	// Reaching here without deadlock is the assertion
}

func (s *OutboxSuite) TestPreservesOrder() {
	s.outbox.Enqueue(model.OutboundEvent{Type: model.EventClickObserved})
	s.outbox.Enqueue(model.OutboundEvent{Type: model.EventConversionCompleted})

	s.waitForDelivered(2)
	types := s.sender.deliveredTypes()
	s.Equal(model.EventClickObserved, types[0])
	s.Equal(model.EventConversionCompleted, types[1])
}
