package model

import "time"

// ReferralNotification is a locally persisted "your referral converted"
// record, held for later display to the referrer.
type ReferralNotification struct {
	ID           string    `json:"id"`
	ReferralCode string    `json:"referral_code"`
	RewardAmount int       `json:"reward_amount"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
	Read         bool      `json:"read"`
}
