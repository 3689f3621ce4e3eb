package handler

import (
	"net/http"

	"github.com/lifecompass/attribution/internal/api/response"
	"github.com/lifecompass/attribution/internal/services/founder"
)

// FounderHandler handles founder code assignment endpoints
type FounderHandler struct {
	founderService *founder.Service
}

// NewFounderHandler creates a new founder handler
func NewFounderHandler(founderService *founder.Service) *FounderHandler {
	return &FounderHandler{
		founderService: founderService,
	}
}

// Assign handles POST /api/v1/founder/assign
func (h *FounderHandler) Assign(w http.ResponseWriter, r *http.Request) {
	result, err := h.founderService.AssignFounderCode(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AssignResultFromModel(result))
}

// Get handles GET /api/v1/founder
func (h *FounderHandler) Get(w http.ResponseWriter, r *http.Request) {
	assignment, err := h.founderService.GetFounderAssignment(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	if assignment == nil {
		response.NoContent(w)
		return
	}

	response.JSON(w, http.StatusOK, response.FounderAssignmentFromModel(assignment))
}
