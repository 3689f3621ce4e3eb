package storage

import (
	"context"

	"github.com/lifecompass/attribution/internal/model"
)

// Storage defines the interface for device-local persistence. Identity,
// pending referral, entered code and founder assignment live in the secure
// namespace (they gate monetary rewards); the append-only logs live in the
// general namespace.
type Storage interface {
	// Device identity operations
	SaveDeviceIdentity(ctx context.Context, id model.DeviceIdentity) error
	GetDeviceIdentity(ctx context.Context) (model.DeviceIdentity, error)

	// Pending referral operations. At most one pending referral exists at a
	// time; Save replaces wholesale. TakePendingReferral reads and deletes
	// atomically so two concurrent conversions cannot both observe the same
	// record.
	SavePendingReferral(ctx context.Context, p *model.PendingReferral) error
	GetPendingReferral(ctx context.Context) (*model.PendingReferral, error)
	TakePendingReferral(ctx context.Context) (*model.PendingReferral, error)
	DeletePendingReferral(ctx context.Context) error

	// Completed referral log operations (append-only)
	AppendCompletedReferral(ctx context.Context, c *model.CompletedReferral) error
	GetCompletedReferrals(ctx context.Context) ([]*model.CompletedReferral, error)

	// Referral notification operations
	AppendNotification(ctx context.Context, n *model.ReferralNotification) error
	GetNotifications(ctx context.Context) ([]*model.ReferralNotification, error)
	MarkNotificationRead(ctx context.Context, id string) error

	// Manually entered referral code operations. Take is atomic so a code is
	// reported at most once.
	SaveEnteredCode(ctx context.Context, code string) error
	TakeEnteredCode(ctx context.Context) (string, error)

	// Founder assignment operations
	SaveFounderAssignment(ctx context.Context, a *model.FounderAssignment) error
	GetFounderAssignment(ctx context.Context) (*model.FounderAssignment, error)
}
