package model

import "time"

// DeviceIdentity is the opaque correlation token generated once per install
type DeviceIdentity string

// ReferralSource identifies how a referral code reached the device
type ReferralSource string

const (
	SourceDeepLink    ReferralSource = "deeplink"
	SourceClipboard   ReferralSource = "clipboard"
	SourceLegacyQuery ReferralSource = "legacy-query"
	SourceManualEntry ReferralSource = "manual-entry"
)

// PendingReferral is a referral code observed on this device but not yet
// converted into a paid upgrade. At most one exists per device; a newer
// inbound link replaces it wholesale.
type PendingReferral struct {
	ReferralCode   string         `json:"referral_code"`
	Source         ReferralSource `json:"source"`
	DeviceIdentity DeviceIdentity `json:"device_identity"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Age returns how long the referral has been pending as of now
func (p *PendingReferral) Age(now time.Time) time.Duration {
	return now.Sub(p.CreatedAt)
}

// Expired reports whether the referral is older than the validity window
func (p *PendingReferral) Expired(now time.Time, window time.Duration) bool {
	return p.Age(now) > window
}

// CompletedReferral records a single successful conversion. Entries are
// appended to an ordered log exactly once per conversion and never mutated.
type CompletedReferral struct {
	ReferralCode      string         `json:"referral_code"`
	ReferredUserID    string         `json:"referred_user_id"`
	SubscriptionType  string         `json:"subscription_type"`
	Source            ReferralSource `json:"source"`
	DeviceIdentity    DeviceIdentity `json:"device_identity"`
	CompletedAt       time.Time      `json:"completed_at"`
	OriginalTimestamp time.Time      `json:"original_timestamp"`
}
