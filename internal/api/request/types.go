package request

// HandleLinkRequest is the body for POST /api/v1/links
type HandleLinkRequest struct {
	URL string `json:"url"`
}

// StorePendingRequest is the body for POST /api/v1/referral/pending, used by
// the clipboard-fallback path where the UI already holds a canonical code
type StorePendingRequest struct {
	Code   string `json:"code"`
	Source string `json:"source"`
}

// ConvertRequest is the body for POST /api/v1/referral/convert
type ConvertRequest struct {
	ReferredUserID   string `json:"referred_user_id"`
	SubscriptionType string `json:"subscription_type"`
}

// EnteredCodeRequest is the body for POST /api/v1/referral/code
type EnteredCodeRequest struct {
	Code string `json:"code"`
}
