package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lifecompass/attribution/internal/model"
)

// Config holds settings for the backend HTTP client
type Config struct {
	// BaseURL is the root of the attribution backend
	BaseURL string

	// AchievementURL is the root of the external achievement tracker.
	// Empty disables achievement reporting.
	AchievementURL string

	// TestMode is forwarded on founder allocation calls so the backend can
	// segregate non-production mints
	TestMode bool

	// Timeout applies per request
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults for the backend client
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://api.lifecompass.app",
		Timeout: 10 * time.Second,
	}
}

// Client talks to the attribution backend and the achievement tracker.
// Every call here is best-effort from the core's perspective: callers treat
// any failure as non-fatal to the local state transition that triggered it.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a new backend client
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	cfg.AchievementURL = strings.TrimSuffix(cfg.AchievementURL, "/")

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// ReportClick reports a click observed event
func (c *Client) ReportClick(ctx context.Context, p model.ClickObservedPayload) error {
	return c.post(ctx, c.cfg.BaseURL+"/v1/referrals/click", p, nil)
}

// ReportConversion reports a completed conversion with its full record
func (c *Client) ReportConversion(ctx context.Context, completed model.CompletedReferral) error {
	return c.post(ctx, c.cfg.BaseURL+"/v1/referrals/conversion", completed, nil)
}

// ReportAchievement sends a one-way achievement signal to the external
// tracker. No return payload is consumed.
func (c *Client) ReportAchievement(ctx context.Context, p model.AchievementPayload) error {
	if c.cfg.AchievementURL == "" {
		return nil
	}
	return c.post(ctx, c.cfg.AchievementURL+"/v1/achievements", p, nil)
}

// AssignRequest is the payload for founder allocation calls
type AssignRequest struct {
	DeviceIdentity model.DeviceIdentity `json:"device_identity"`
	TestMode       bool                 `json:"test_mode"`
	Receipt        string               `json:"receipt,omitempty"`
}

// AssignResponse is the allocation endpoint's verdict. The backend is the
// authority on first-mint versus replay; AlreadyAssigned passes through
// unchanged.
type AssignResponse struct {
	Success         bool   `json:"success"`
	FounderCode     string `json:"founder_code,omitempty"`
	AlreadyAssigned bool   `json:"already_assigned,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Business-rule rejection codes returned by the allocation endpoint
const (
	rejectionNoSpots = "no_spots_remaining"
)

// AssignFounderCode asks the backend to allocate a founder code for the
// given identity. Repeated calls with the same identity return the same code
// with AlreadyAssigned set.
func (c *Client) AssignFounderCode(ctx context.Context, req AssignRequest) (*AssignResponse, error) {
	req.TestMode = req.TestMode || c.cfg.TestMode

	var resp AssignResponse
	if err := c.post(ctx, c.cfg.BaseURL+"/v1/founders/assign", req, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		if resp.Error == rejectionNoSpots {
			return nil, model.ErrNoSpotsRemaining
		}
		return nil, fmt.Errorf("%w: %s", model.ErrAssignmentFailed, resp.Error)
	}
	return &resp, nil
}

// post performs a JSON POST and optionally decodes the response body
func (c *Client) post(ctx context.Context, url string, body, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// Send delivers a queued outbound event, dispatching on its type.
// This makes Client usable as the outbox sender.
func (c *Client) Send(ctx context.Context, event model.OutboundEvent) error {
	switch event.Type {
	case model.EventClickObserved:
		p, ok := event.Payload.(model.ClickObservedPayload)
		if !ok {
			return fmt.Errorf("unexpected payload type for %s", event.Type)
		}
		return c.ReportClick(ctx, p)
	case model.EventConversionCompleted:
		p, ok := event.Payload.(model.ConversionCompletedPayload)
		if !ok {
			return fmt.Errorf("unexpected payload type for %s", event.Type)
		}
		return c.ReportConversion(ctx, p.Completed)
	case model.EventReferralShared, model.EventReferralConverted:
		p, ok := event.Payload.(model.AchievementPayload)
		if !ok {
			return fmt.Errorf("unexpected payload type for %s", event.Type)
		}
		return c.ReportAchievement(ctx, p)
	default:
		return fmt.Errorf("unknown event type %s", event.Type)
	}
}
