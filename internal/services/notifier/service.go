package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lifecompass/attribution/internal/backend"
	"github.com/lifecompass/attribution/internal/dependencies/clock"
	"github.com/lifecompass/attribution/internal/model"
	"github.com/lifecompass/attribution/internal/services/attribution"
	"github.com/lifecompass/attribution/internal/services/identity"
	"github.com/lifecompass/attribution/internal/storage"
)

// Config holds configuration for the conversion notifier
type Config struct {
	// RewardAmount is the referrer reward recorded in success notifications
	RewardAmount int

	// MessageFormat renders the notification text; it receives the
	// subscription type
	MessageFormat string
}

// DefaultConfig returns default notifier configuration
func DefaultConfig() Config {
	return Config{
		RewardAmount:  100,
		MessageFormat: "Someone you invited just upgraded to %s. Your reward is on its way!",
	}
}

// Service runs the post-upgrade side effects. It is invoked after the
// upgrade itself is durably recorded, and nothing here may block or fail
// that upgrade: attribution commits locally first, and every later step
// logs and swallows its own failures.
type Service struct {
	attribution *attribution.Service
	storage     storage.Storage
	identity    *identity.Service
	events      backend.Sink
	clock       clock.Clock
	logger      *slog.Logger
	cfg         Config
}

// New creates a new conversion notifier
func New(
	attribution *attribution.Service,
	storage storage.Storage,
	identity *identity.Service,
	events backend.Sink,
	clock clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Service {
	if cfg.MessageFormat == "" {
		cfg.MessageFormat = DefaultConfig().MessageFormat
	}
	if cfg.RewardAmount == 0 {
		cfg.RewardAmount = DefaultConfig().RewardAmount
	}
	return &Service{
		attribution: attribution,
		storage:     storage,
		identity:    identity,
		events:      events,
		clock:       clock,
		logger:      logger,
		cfg:         cfg,
	}
}

// HandleUpgrade processes a completed paid upgrade: attribute any pending
// referral, record a success notification for the referrer view, and report
// a manually entered code if one is stored. Returns the attributed referral,
// or nil when there was nothing to attribute. Never returns an error.
func (s *Service) HandleUpgrade(ctx context.Context, referredUserID, subscriptionType string) *model.CompletedReferral {
	completed, err := s.attribution.ProcessPendingReferral(ctx, referredUserID, subscriptionType)
	if err != nil {
		s.logger.Warn("referral attribution failed during upgrade",
			slog.String("error", err.Error()),
		)
		completed = nil
	}

	if completed != nil {
		s.recordSuccessNotification(ctx, completed)
	}

	s.reportEnteredCode(ctx, referredUserID, subscriptionType)

	return completed
}

// recordSuccessNotification persists the unread "your referral converted"
// record shown to the referrer later
func (s *Service) recordSuccessNotification(ctx context.Context, completed *model.CompletedReferral) {
	notification := &model.ReferralNotification{
		ID:           uuid.NewString(),
		ReferralCode: completed.ReferralCode,
		RewardAmount: s.cfg.RewardAmount,
		Message:      fmt.Sprintf(s.cfg.MessageFormat, completed.SubscriptionType),
		CreatedAt:    s.clock.Now(),
		Read:         false,
	}

	if err := s.storage.AppendNotification(ctx, notification); err != nil {
		s.logger.Warn("failed to record referral notification",
			slog.String("error", err.Error()),
		)
	}
}

// reportEnteredCode reports a manually entered referral code at most once.
// The atomic take guarantees a second upgrade cannot report it again.
func (s *Service) reportEnteredCode(ctx context.Context, referredUserID, subscriptionType string) {
	code, err := s.storage.TakeEnteredCode(ctx)
	if err != nil {
		if !errors.Is(err, model.ErrNoEnteredCode) {
			s.logger.Warn("failed to read entered referral code",
				slog.String("error", err.Error()),
			)
		}
		return
	}

	deviceID := s.identity.GetOrCreate(ctx)
	now := s.clock.Now()

	s.events.Enqueue(model.OutboundEvent{
		Type:      model.EventConversionCompleted,
		Timestamp: now,
		Payload: model.ConversionCompletedPayload{
			Completed: model.CompletedReferral{
				ReferralCode:     code,
				ReferredUserID:   referredUserID,
				SubscriptionType: subscriptionType,
				Source:           model.SourceManualEntry,
				DeviceIdentity:   deviceID,
				CompletedAt:      now,
			},
		},
	})

	s.events.Enqueue(model.OutboundEvent{
		Type:      model.EventReferralConverted,
		Timestamp: now,
		Payload: model.AchievementPayload{
			Achievement:    model.EventReferralConverted,
			DeviceIdentity: deviceID,
			OccurredAt:     now,
		},
	})

	s.logger.Info("entered referral code reported", slog.String("code", code))
}

// SaveEnteredCode stores a manually entered referral code for the next
// upgrade to report
func (s *Service) SaveEnteredCode(ctx context.Context, code string) error {
	if code == "" {
		return errors.New("referral code is empty")
	}
	return s.storage.SaveEnteredCode(ctx, code)
}

// ReportShare fires the referral-shared achievement signal
func (s *Service) ReportShare(ctx context.Context) {
	now := s.clock.Now()
	s.events.Enqueue(model.OutboundEvent{
		Type:      model.EventReferralShared,
		Timestamp: now,
		Payload: model.AchievementPayload{
			Achievement:    model.EventReferralShared,
			DeviceIdentity: s.identity.GetOrCreate(ctx),
			OccurredAt:     now,
		},
	})
}

// Notifications returns the persisted referral notifications in order
func (s *Service) Notifications(ctx context.Context) ([]*model.ReferralNotification, error) {
	return s.storage.GetNotifications(ctx)
}

// MarkNotificationRead marks a notification as seen
func (s *Service) MarkNotificationRead(ctx context.Context, id string) error {
	return s.storage.MarkNotificationRead(ctx, id)
}
