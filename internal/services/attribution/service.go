package attribution

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lifecompass/attribution/internal/backend"
	"github.com/lifecompass/attribution/internal/canonical"
	"github.com/lifecompass/attribution/internal/dependencies/clock"
	"github.com/lifecompass/attribution/internal/model"
	"github.com/lifecompass/attribution/internal/services/identity"
	"github.com/lifecompass/attribution/internal/storage"
)

// Config holds configuration for the attribution service
type Config struct {
	// ValidityWindow is how long a pending referral stays convertible.
	// Expiry is evaluated at read time against the injected clock.
	ValidityWindow time.Duration
}

// DefaultConfig returns default attribution configuration
func DefaultConfig() Config {
	return Config{
		ValidityWindow: 30 * 24 * time.Hour,
	}
}

// Service owns the pending-referral lifecycle and the completed-referral
// log. A referral moves Empty -> Pending on an inbound link, and Pending ->
// Empty on conversion, expiry, or explicit clear. Conversion claims the
// pending record with an atomic take, so concurrent conversion attempts
// attribute at most once.
type Service struct {
	storage  storage.Storage
	identity *identity.Service
	events   backend.Sink
	clock    clock.Clock
	logger   *slog.Logger
	window   time.Duration
}

// New creates a new attribution service
func New(
	storage storage.Storage,
	identity *identity.Service,
	events backend.Sink,
	clock clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Service {
	if cfg.ValidityWindow == 0 {
		cfg.ValidityWindow = DefaultConfig().ValidityWindow
	}
	return &Service{
		storage:  storage,
		identity: identity,
		events:   events,
		clock:    clock,
		logger:   logger,
		window:   cfg.ValidityWindow,
	}
}

// HandleIncomingURL is the sole entry point for OS link-opening events. It
// canonicalizes the raw link and stores the code as the pending referral,
// returning the extracted code or empty when the link carries none.
func (s *Service) HandleIncomingURL(ctx context.Context, rawURL string) (string, error) {
	match, ok := canonical.Extract(rawURL)
	if !ok {
		return "", nil
	}

	source := model.SourceDeepLink
	if match.Shape != canonical.ShapePath {
		source = model.SourceLegacyQuery
	}

	if err := s.StorePendingReferral(ctx, match.Code, source); err != nil {
		return "", err
	}
	return match.Code, nil
}

// StorePendingReferral records a referral code as pending. A newer inbound
// code replaces any existing pending record wholesale; there is no merge.
// A best-effort click-observed event is queued toward the backend; its fate
// has no bearing on the stored state.
func (s *Service) StorePendingReferral(ctx context.Context, code string, source model.ReferralSource) error {
	deviceID := s.identity.GetOrCreate(ctx)
	now := s.clock.Now()

	pending := &model.PendingReferral{
		ReferralCode:   code,
		Source:         source,
		DeviceIdentity: deviceID,
		CreatedAt:      now,
	}

	if err := s.storage.SavePendingReferral(ctx, pending); err != nil {
		return err
	}

	s.logger.Info("pending referral stored",
		slog.String("code", code),
		slog.String("source", string(source)),
	)

	s.events.Enqueue(model.OutboundEvent{
		Type:      model.EventClickObserved,
		Timestamp: now,
		Payload: model.ClickObservedPayload{
			ReferralCode:   code,
			Source:         source,
			DeviceIdentity: deviceID,
			ObservedAt:     now,
		},
	})

	return nil
}

// GetPendingReferral returns the current pending record, or nil when there
// is none or the record has aged past the validity window.
func (s *Service) GetPendingReferral(ctx context.Context) (*model.PendingReferral, error) {
	pending, err := s.storage.GetPendingReferral(ctx)
	if err != nil {
		if errors.Is(err, model.ErrNoPendingReferral) {
			return nil, nil
		}
		return nil, err
	}

	if pending.Expired(s.clock.Now(), s.window) {
		return nil, nil
	}
	return pending, nil
}

// ClearPendingReferral discards any pending referral. Calling with no
// pending record is a no-op success.
func (s *Service) ClearPendingReferral(ctx context.Context) error {
	return s.storage.DeletePendingReferral(ctx)
}

// ProcessPendingReferral converts the pending referral, if there is one and
// it is still within the validity window. It returns nil when there is
// nothing to attribute; an expired record is cleared without an entry in the
// completed log. The local append and clear commit regardless of whether the
// backend conversion notification can be delivered.
func (s *Service) ProcessPendingReferral(ctx context.Context, referredUserID, subscriptionType string) (*model.CompletedReferral, error) {
	pending, err := s.storage.TakePendingReferral(ctx)
	if err != nil {
		if errors.Is(err, model.ErrNoPendingReferral) {
			return nil, nil
		}
		return nil, err
	}

	now := s.clock.Now()
	if pending.Expired(now, s.window) {
		// The take already cleared the record; nothing is attributed
		s.logger.Info("pending referral expired",
			slog.String("code", pending.ReferralCode),
			slog.Duration("age", pending.Age(now)),
		)
		return nil, nil
	}

	completed := &model.CompletedReferral{
		ReferralCode:      pending.ReferralCode,
		ReferredUserID:    referredUserID,
		SubscriptionType:  subscriptionType,
		Source:            pending.Source,
		DeviceIdentity:    pending.DeviceIdentity,
		CompletedAt:       now,
		OriginalTimestamp: pending.CreatedAt,
	}

	if err := s.storage.AppendCompletedReferral(ctx, completed); err != nil {
		// Put the pending record back so the conversion can be retried
		if restoreErr := s.storage.SavePendingReferral(ctx, pending); restoreErr != nil {
			s.logger.Error("failed to restore pending referral after append failure",
				slog.String("error", restoreErr.Error()),
			)
		}
		return nil, err
	}

	s.logger.Info("referral converted",
		slog.String("code", completed.ReferralCode),
		slog.String("subscription", subscriptionType),
	)

	s.events.Enqueue(model.OutboundEvent{
		Type:      model.EventConversionCompleted,
		Timestamp: now,
		Payload:   model.ConversionCompletedPayload{Completed: *completed},
	})

	return completed, nil
}

// GetCompletedReferrals returns the append-only conversion log in order
func (s *Service) GetCompletedReferrals(ctx context.Context) ([]*model.CompletedReferral, error) {
	return s.storage.GetCompletedReferrals(ctx)
}
