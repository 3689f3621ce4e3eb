package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lifecompass/attribution/internal/api/request"
	"github.com/lifecompass/attribution/internal/api/response"
	"github.com/lifecompass/attribution/internal/model"
	"github.com/lifecompass/attribution/internal/services/attribution"
	"github.com/lifecompass/attribution/internal/services/identity"
	"github.com/lifecompass/attribution/internal/services/notifier"
)

// ReferralHandler handles referral attribution endpoints
type ReferralHandler struct {
	attributionService *attribution.Service
	notifierService    *notifier.Service
	identityService    *identity.Service
}

// NewReferralHandler creates a new referral handler
func NewReferralHandler(attributionService *attribution.Service, notifierService *notifier.Service, identityService *identity.Service) *ReferralHandler {
	return &ReferralHandler{
		attributionService: attributionService,
		notifierService:    notifierService,
		identityService:    identityService,
	}
}

// GetIdentity handles GET /api/v1/identity
func (h *ReferralHandler) GetIdentity(w http.ResponseWriter, r *http.Request) {
	id := h.identityService.GetOrCreate(r.Context())
	response.JSON(w, http.StatusOK, response.Identity{DeviceIdentity: string(id)})
}

// HandleLink handles POST /api/v1/links
func (h *ReferralHandler) HandleLink(w http.ResponseWriter, r *http.Request) {
	var req request.HandleLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.URL == "" {
		WriteError(w, NewInvalidRequestError("url is required"))
		return
	}

	code, err := h.attributionService.HandleIncomingURL(r.Context(), req.URL)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HandleLinkResponse{
		ReferralCode: code,
		Stored:       code != "",
	})
}

// StorePending handles POST /api/v1/referral/pending
// The clipboard path lands here: the UI extracts the code itself and tells
// us which source it came from.
func (h *ReferralHandler) StorePending(w http.ResponseWriter, r *http.Request) {
	var req request.StorePendingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Code == "" {
		WriteError(w, NewInvalidRequestError("code is required"))
		return
	}

	source := model.ReferralSource(req.Source)
	if source == "" {
		source = model.SourceClipboard
	}

	if err := h.attributionService.StorePendingReferral(r.Context(), req.Code, source); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// GetPending handles GET /api/v1/referral/pending
func (h *ReferralHandler) GetPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.attributionService.GetPendingReferral(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	if pending == nil {
		response.NoContent(w)
		return
	}

	response.JSON(w, http.StatusOK, response.PendingReferralFromModel(pending))
}

// ClearPending handles DELETE /api/v1/referral/pending
func (h *ReferralHandler) ClearPending(w http.ResponseWriter, r *http.Request) {
	if err := h.attributionService.ClearPendingReferral(r.Context()); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Convert handles POST /api/v1/referral/convert
func (h *ReferralHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var req request.ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.ReferredUserID == "" {
		WriteError(w, NewInvalidRequestError("referred_user_id is required"))
		return
	}
	if req.SubscriptionType == "" {
		WriteError(w, NewInvalidRequestError("subscription_type is required"))
		return
	}

	completed := h.notifierService.HandleUpgrade(r.Context(), req.ReferredUserID, req.SubscriptionType)
	if completed == nil {
		response.NoContent(w)
		return
	}

	response.JSON(w, http.StatusOK, response.CompletedReferralFromModel(completed))
}

// GetCompleted handles GET /api/v1/referral/completed
func (h *ReferralHandler) GetCompleted(w http.ResponseWriter, r *http.Request) {
	completed, err := h.attributionService.GetCompletedReferrals(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	out := make([]response.CompletedReferral, 0, len(completed))
	for _, c := range completed {
		out = append(out, response.CompletedReferralFromModel(c))
	}

	response.JSON(w, http.StatusOK, out)
}

// EnterCode handles POST /api/v1/referral/code
func (h *ReferralHandler) EnterCode(w http.ResponseWriter, r *http.Request) {
	var req request.EnteredCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Code == "" {
		WriteError(w, NewInvalidRequestError("code is required"))
		return
	}

	if err := h.notifierService.SaveEnteredCode(r.Context(), req.Code); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// ReportShare handles POST /api/v1/referral/share
func (h *ReferralHandler) ReportShare(w http.ResponseWriter, r *http.Request) {
	h.notifierService.ReportShare(r.Context())
	response.NoContent(w)
}

// GetNotifications handles GET /api/v1/notifications
func (h *ReferralHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.notifierService.Notifications(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	out := make([]response.Notification, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, response.NotificationFromModel(n))
	}

	response.JSON(w, http.StatusOK, out)
}

// MarkNotificationRead handles POST /api/v1/notifications/{id}/read
func (h *ReferralHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.notifierService.MarkNotificationRead(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
