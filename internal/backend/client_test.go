package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/lifecompass/attribution/internal/model"
)

type ClientSuite struct {
	suite.Suite
	server   *httptest.Server
	client   *Client
	ctx      context.Context
	requests []recordedRequest
	respond  func(w http.ResponseWriter, r *http.Request)
}

type recordedRequest struct {
	path string
	body map[string]any
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.requests = nil
	s.respond = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		s.requests = append(s.requests, recordedRequest{path: r.URL.Path, body: body})
		s.respond(w, r)
	}))

	cfg := DefaultConfig()
	cfg.BaseURL = s.server.URL
	cfg.AchievementURL = s.server.URL
	s.client = NewClient(cfg)
	s.ctx = context.Background()
}

func (s *ClientSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientSuite) TestReportClick() {
	err := s.client.ReportClick(s.ctx, model.ClickObservedPayload{
		ReferralCode:   "USER-1",
		Source:         model.SourceDeepLink,
		DeviceIdentity: "device-1",
		ObservedAt:     time.Now(),
	})
	s.Require().NoError(err)

	s.Require().Len(s.requests, 1)
	s.Equal("/v1/referrals/click", s.requests[0].path)
	s.Equal("USER-1", s.requests[0].body["referral_code"])
	s.Equal("deeplink", s.requests[0].body["source"])
}

func (s *ClientSuite) TestReportConversion() {
	err := s.client.ReportConversion(s.ctx, model.CompletedReferral{
		ReferralCode:     "USER-1",
		ReferredUserID:   "uid-42",
		SubscriptionType: "pro",
	})
	s.Require().NoError(err)

	s.Require().Len(s.requests, 1)
	s.Equal("/v1/referrals/conversion", s.requests[0].path)
	s.Equal("uid-42", s.requests[0].body["referred_user_id"])
}

func (s *ClientSuite) TestReportAchievementDisabledWithoutURL() {
	cfg := DefaultConfig()
	cfg.BaseURL = s.server.URL
	cfg.AchievementURL = ""
	client := NewClient(cfg)

	err := client.ReportAchievement(s.ctx, model.AchievementPayload{Achievement: model.EventReferralShared})
	s.NoError(err)
	s.Empty(s.requests)
}

func (s *ClientSuite) TestAssignFounderCodeSuccess() {
	s.respond = func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(AssignResponse{
			Success:     true,
			FounderCode: "FOUNDER-042",
		})
	}

	resp, err := s.client.AssignFounderCode(s.ctx, AssignRequest{DeviceIdentity: "device-1"})
	s.Require().NoError(err)
	s.Equal("FOUNDER-042", resp.FounderCode)
	s.False(resp.AlreadyAssigned)
	s.Equal("/v1/founders/assign", s.requests[0].path)
}

func (s *ClientSuite) TestAssignFounderCodeReplaySurfacesAlreadyAssigned() {
	s.respond = func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(AssignResponse{
			Success:         true,
			FounderCode:     "FOUNDER-042",
			AlreadyAssigned: true,
		})
	}

	resp, err := s.client.AssignFounderCode(s.ctx, AssignRequest{DeviceIdentity: "device-1"})
	s.Require().NoError(err)
	s.True(resp.AlreadyAssigned)
}

func (s *ClientSuite) TestAssignFounderCodeNoSpots() {
	s.respond = func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(AssignResponse{
			Success: false,
			Error:   "no_spots_remaining",
		})
	}

	_, err := s.client.AssignFounderCode(s.ctx, AssignRequest{DeviceIdentity: "device-1"})
	s.ErrorIs(err, model.ErrNoSpotsRemaining)
}

func (s *ClientSuite) TestAssignFounderCodeOtherRejection() {
	s.respond = func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(AssignResponse{
			Success: false,
			Error:   "receipt_invalid",
		})
	}

	_, err := s.client.AssignFounderCode(s.ctx, AssignRequest{DeviceIdentity: "device-1"})
	s.ErrorIs(err, model.ErrAssignmentFailed)
	s.ErrorContains(err, "receipt_invalid")
}

func (s *ClientSuite) TestAssignFounderCodeForwardsTestMode() {
	cfg := DefaultConfig()
	cfg.BaseURL = s.server.URL
	cfg.TestMode = true
	client := NewClient(cfg)

	s.respond = func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(AssignResponse{Success: true, FounderCode: "F-1"})
	}

	_, err := client.AssignFounderCode(s.ctx, AssignRequest{DeviceIdentity: "device-1"})
	s.Require().NoError(err)
	s.Equal(true, s.requests[0].body["test_mode"])
}

func (s *ClientSuite) TestServerErrorSurfaces() {
	s.respond = func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}

	err := s.client.ReportClick(s.ctx, model.ClickObservedPayload{ReferralCode: "X"})
	s.ErrorContains(err, "HTTP 500")
}

func (s *ClientSuite) TestSendDispatchesByEventType() {
	err := s.client.Send(s.ctx, model.OutboundEvent{
		Type:    model.EventClickObserved,
		Payload: model.ClickObservedPayload{ReferralCode: "USER-1"},
	})
	s.Require().NoError(err)
	s.Equal("/v1/referrals/click", s.requests[0].path)

	err = s.client.Send(s.ctx, model.OutboundEvent{
		Type:    model.EventReferralConverted,
		Payload: model.AchievementPayload{Achievement: model.EventReferralConverted},
	})
	s.Require().NoError(err)
	s.Equal("/v1/achievements", s.requests[1].path)
}

func (s *ClientSuite) TestSendRejectsMismatchedPayload() {
	err := s.client.Send(s.ctx, model.OutboundEvent{
		Type:    model.EventClickObserved,
		Payload: "not a click payload",
	})
	s.Error(err)
	s.Empty(s.requests)
}
