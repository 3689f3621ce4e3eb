package response

import (
	"time"

	"github.com/lifecompass/attribution/internal/model"
	"github.com/lifecompass/attribution/internal/services/founder"
)

// HandleLinkResponse is the result of canonicalizing an inbound link.
// ReferralCode is empty when the link carried no code.
type HandleLinkResponse struct {
	ReferralCode string `json:"referral_code"`
	Stored       bool   `json:"stored"`
}

// PendingReferral represents the pending record in API responses
type PendingReferral struct {
	ReferralCode   string    `json:"referral_code"`
	Source         string    `json:"source"`
	DeviceIdentity string    `json:"device_identity"`
	CreatedAt      time.Time `json:"created_at"`
}

// PendingReferralFromModel converts a model.PendingReferral
func PendingReferralFromModel(p *model.PendingReferral) PendingReferral {
	return PendingReferral{
		ReferralCode:   p.ReferralCode,
		Source:         string(p.Source),
		DeviceIdentity: string(p.DeviceIdentity),
		CreatedAt:      p.CreatedAt,
	}
}

// CompletedReferral represents a conversion log entry in API responses
type CompletedReferral struct {
	ReferralCode      string    `json:"referral_code"`
	ReferredUserID    string    `json:"referred_user_id"`
	SubscriptionType  string    `json:"subscription_type"`
	Source            string    `json:"source"`
	DeviceIdentity    string    `json:"device_identity"`
	CompletedAt       time.Time `json:"completed_at"`
	OriginalTimestamp time.Time `json:"original_timestamp"`
}

// CompletedReferralFromModel converts a model.CompletedReferral
func CompletedReferralFromModel(c *model.CompletedReferral) CompletedReferral {
	return CompletedReferral{
		ReferralCode:      c.ReferralCode,
		ReferredUserID:    c.ReferredUserID,
		SubscriptionType:  c.SubscriptionType,
		Source:            string(c.Source),
		DeviceIdentity:    string(c.DeviceIdentity),
		CompletedAt:       c.CompletedAt,
		OriginalTimestamp: c.OriginalTimestamp,
	}
}

// Notification represents a referral notification in API responses
type Notification struct {
	ID           string    `json:"id"`
	ReferralCode string    `json:"referral_code"`
	RewardAmount int       `json:"reward_amount"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
	Read         bool      `json:"read"`
}

// NotificationFromModel converts a model.ReferralNotification
func NotificationFromModel(n *model.ReferralNotification) Notification {
	return Notification{
		ID:           n.ID,
		ReferralCode: n.ReferralCode,
		RewardAmount: n.RewardAmount,
		Message:      n.Message,
		CreatedAt:    n.CreatedAt,
		Read:         n.Read,
	}
}

// Identity is the device identity response
type Identity struct {
	DeviceIdentity string `json:"device_identity"`
}

// AssignResult is the founder assignment response
type AssignResult struct {
	FounderCode     string `json:"founder_code"`
	AlreadyAssigned bool   `json:"already_assigned"`
}

// AssignResultFromModel converts a founder.Result
func AssignResultFromModel(r *founder.Result) AssignResult {
	return AssignResult{
		FounderCode:     r.FounderCode,
		AlreadyAssigned: r.AlreadyAssigned,
	}
}

// FounderAssignment represents the persisted assignment in API responses
type FounderAssignment struct {
	FounderCode    string    `json:"founder_code"`
	DeviceIdentity string    `json:"device_identity"`
	AssignedAt     time.Time `json:"assigned_at"`
}

// FounderAssignmentFromModel converts a model.FounderAssignment
func FounderAssignmentFromModel(a *model.FounderAssignment) FounderAssignment {
	return FounderAssignment{
		FounderCode:    a.FounderCode,
		DeviceIdentity: string(a.DeviceIdentity),
		AssignedAt:     a.AssignedAt,
	}
}
