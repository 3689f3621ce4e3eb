package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lifecompass/attribution/internal/api/handler"
	apimiddleware "github.com/lifecompass/attribution/internal/api/middleware"
	"github.com/lifecompass/attribution/internal/middleware"
	"github.com/lifecompass/attribution/internal/services/attribution"
	"github.com/lifecompass/attribution/internal/services/founder"
	"github.com/lifecompass/attribution/internal/services/identity"
	"github.com/lifecompass/attribution/internal/services/notifier"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	IdentityService    *identity.Service
	AttributionService *attribution.Service
	NotifierService    *notifier.Service
	FounderService     *founder.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	referralHandler := handler.NewReferralHandler(cfg.AttributionService, cfg.NotifierService, cfg.IdentityService)
	founderHandler := handler.NewFounderHandler(cfg.FounderService)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Identity
	api.HandleFunc("/identity", referralHandler.GetIdentity).Methods(http.MethodGet)

	// Inbound links
	api.HandleFunc("/links", referralHandler.HandleLink).Methods(http.MethodPost)

	// Referral lifecycle
	referral := api.PathPrefix("/referral").Subrouter()
	referral.HandleFunc("/pending", referralHandler.StorePending).Methods(http.MethodPost)
	referral.HandleFunc("/pending", referralHandler.GetPending).Methods(http.MethodGet)
	referral.HandleFunc("/pending", referralHandler.ClearPending).Methods(http.MethodDelete)
	referral.HandleFunc("/convert", referralHandler.Convert).Methods(http.MethodPost)
	referral.HandleFunc("/completed", referralHandler.GetCompleted).Methods(http.MethodGet)
	referral.HandleFunc("/code", referralHandler.EnterCode).Methods(http.MethodPost)
	referral.HandleFunc("/share", referralHandler.ReportShare).Methods(http.MethodPost)

	// Notifications
	api.HandleFunc("/notifications", referralHandler.GetNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}/read", referralHandler.MarkNotificationRead).Methods(http.MethodPost)

	// Founder assignment
	api.HandleFunc("/founder/assign", founderHandler.Assign).Methods(http.MethodPost)
	api.HandleFunc("/founder", founderHandler.Get).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
