package founder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/lifecompass/attribution/internal/backend"
	"github.com/lifecompass/attribution/internal/dependencies/mocks"
	"github.com/lifecompass/attribution/internal/dependencies/random"
	"github.com/lifecompass/attribution/internal/model"
	"github.com/lifecompass/attribution/internal/services/identity"
	"github.com/lifecompass/attribution/internal/storage/memory"
	"github.com/lifecompass/attribution/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.ctx = context.Background()
}

func (s *ServiceSuite) newService(assigner Assigner) *Service {
	logger := testutil.NopLogger()
	return New(s.storage, identity.New(s.storage, logger), assigner, s.clock, logger)
}

func (s *ServiceSuite) mockService(scenario Scenario) *Service {
	cfg := DefaultMockConfig()
	cfg.Scenario = scenario
	return s.newService(NewMockAssigner(cfg, random.New()))
}

// Mock scenario tests

func (s *ServiceSuite) TestMockSuccessAssignsCode() {
	service := s.mockService(ScenarioSuccess)

	result, err := service.AssignFounderCode(s.ctx)
	s.Require().NoError(err)
	s.NotEmpty(result.FounderCode)
	s.False(result.AlreadyAssigned)
}

func (s *ServiceSuite) TestMockRepeatCallReplaysSameCode() {
	service := s.mockService(ScenarioSuccess)

	first, err := service.AssignFounderCode(s.ctx)
	s.Require().NoError(err)
	s.False(first.AlreadyAssigned)

	second, err := service.AssignFounderCode(s.ctx)
	s.Require().NoError(err)
	s.Equal(first.FounderCode, second.FounderCode)
	s.True(second.AlreadyAssigned)
}

func (s *ServiceSuite) TestMockOutOfSpots() {
	service := s.mockService(ScenarioOutOfSpots)

	_, err := service.AssignFounderCode(s.ctx)
	s.ErrorIs(err, model.ErrNoSpotsRemaining)
}

func (s *ServiceSuite) TestMockSimulatedError() {
	service := s.mockService(ScenarioError)

	_, err := service.AssignFounderCode(s.ctx)
	s.ErrorIs(err, model.ErrAssignmentFailed)
}

func (s *ServiceSuite) TestMockForcedAlreadyAssigned() {
	service := s.mockService(ScenarioAlreadyAssigned)

	result, err := service.AssignFounderCode(s.ctx)
	s.Require().NoError(err)
	s.True(result.AlreadyAssigned)
	s.NotEmpty(result.FounderCode)
}

func (s *ServiceSuite) TestMockSpotCapExhaustion() {
	assigner := NewMockAssigner(MockConfig{Scenario: ScenarioSuccess, SpotCap: 2}, random.New())

	_, err := assigner.Assign(s.ctx, "device-1")
	s.Require().NoError(err)
	_, err = assigner.Assign(s.ctx, "device-2")
	s.Require().NoError(err)

	_, err = assigner.Assign(s.ctx, "device-3")
	s.ErrorIs(err, model.ErrNoSpotsRemaining)

	// Replay for a known identity still works once the pool is exhausted
	allocation, err := assigner.Assign(s.ctx, "device-1")
	s.Require().NoError(err)
	s.True(allocation.AlreadyAssigned)
}

// Persistence tests

func (s *ServiceSuite) TestAssignmentIsPersisted() {
	service := s.mockService(ScenarioSuccess)

	result, err := service.AssignFounderCode(s.ctx)
	s.Require().NoError(err)

	assignment, err := service.GetFounderAssignment(s.ctx)
	s.Require().NoError(err)
	s.Require().NotNil(assignment)
	s.Equal(result.FounderCode, assignment.FounderCode)
	s.NotEmpty(assignment.DeviceIdentity)
	s.True(assignment.AssignedAt.Equal(s.clock.Now()))
}

func (s *ServiceSuite) TestGetAssignmentNilBeforeAssigned() {
	service := s.mockService(ScenarioSuccess)

	assignment, err := service.GetFounderAssignment(s.ctx)
	s.Require().NoError(err)
	s.Nil(assignment)
}

func (s *ServiceSuite) TestFailedAssignmentPersistsNothing() {
	service := s.mockService(ScenarioError)

	_, err := service.AssignFounderCode(s.ctx)
	s.Require().Error(err)

	assignment, err := service.GetFounderAssignment(s.ctx)
	s.Require().NoError(err)
	s.Nil(assignment)
}

func (s *ServiceSuite) TestConcurrentCallsNeverMintTwoCodes() {
	service := s.mockService(ScenarioSuccess)

	const callers = 16
	var wg sync.WaitGroup
	codes := make(chan string, callers)
	firstMints := make(chan bool, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := service.AssignFounderCode(s.ctx)
			if err == nil {
				codes <- result.FounderCode
				if !result.AlreadyAssigned {
					firstMints <- true
				}
			}
		}()
	}
	wg.Wait()
	close(codes)
	close(firstMints)

	seen := map[string]bool{}
	for code := range codes {
		seen[code] = true
	}
	s.Len(seen, 1)
	s.Len(firstMints, 1)
}

// Identity-based assigner tests

func (s *ServiceSuite) TestIdentityAssignerCallsBackend() {
	var gotIdentity string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req backend.AssignRequest
		_ = jsonDecode(r, &req)
		gotIdentity = string(req.DeviceIdentity)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"founder_code":"FNDR-REMOTE1","already_assigned":false}`))
	}))
	defer server.Close()

	cfg := backend.DefaultConfig()
	cfg.BaseURL = server.URL
	service := s.newService(NewIdentityAssigner(backend.NewClient(cfg)))

	result, err := service.AssignFounderCode(s.ctx)
	s.Require().NoError(err)
	s.Equal("FNDR-REMOTE1", result.FounderCode)
	s.NotEmpty(gotIdentity)
}

// Receipt-based assigner tests

type staticReceipts struct {
	receipt string
}

func (r staticReceipts) Receipt(ctx context.Context) (string, error) {
	return r.receipt, nil
}

func (s *ServiceSuite) TestReceiptAssignerForwardsReceipt() {
	var gotReceipt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req backend.AssignRequest
		_ = jsonDecode(r, &req)
		gotReceipt = req.Receipt
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"founder_code":"FNDR-PROD1","already_assigned":true}`))
	}))
	defer server.Close()

	cfg := backend.DefaultConfig()
	cfg.BaseURL = server.URL
	service := s.newService(NewReceiptAssigner(backend.NewClient(cfg), staticReceipts{receipt: "receipt-data"}))

	result, err := service.AssignFounderCode(s.ctx)
	s.Require().NoError(err)
	s.Equal("FNDR-PROD1", result.FounderCode)
	s.True(result.AlreadyAssigned)
	s.Equal("receipt-data", gotReceipt)
}

func jsonDecode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
