package model

import "time"

// EventType identifies the type of outbound event
type EventType string

const (
	// Attribution events reported to the backend
	EventClickObserved       EventType = "click_observed"
	EventConversionCompleted EventType = "conversion_completed"

	// Achievement signals reported to the external tracker
	EventReferralShared    EventType = "referral_shared"
	EventReferralConverted EventType = "referral_converted"
)

// OutboundEvent is a best-effort notification queued toward the backend.
// Delivery failure never affects the local state transition that produced it.
type OutboundEvent struct {
	Type      EventType
	Timestamp time.Time
	Payload   any
}

// ClickObservedPayload contains data for click observed events
type ClickObservedPayload struct {
	ReferralCode   string         `json:"referral_code"`
	Source         ReferralSource `json:"source"`
	DeviceIdentity DeviceIdentity `json:"device_identity"`
	ObservedAt     time.Time      `json:"observed_at"`
}

// ConversionCompletedPayload carries the full completed referral record
type ConversionCompletedPayload struct {
	Completed CompletedReferral `json:"completed"`
}

// AchievementPayload contains data for achievement signals
type AchievementPayload struct {
	Achievement    EventType      `json:"achievement"`
	DeviceIdentity DeviceIdentity `json:"device_identity"`
	OccurredAt     time.Time      `json:"occurred_at"`
}
