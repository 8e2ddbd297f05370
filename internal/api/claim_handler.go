package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cablesur/crm-backend/internal/domain"
	"github.com/cablesur/crm-backend/pkg/response"
)

type ClaimHandler struct {
	service *domain.ClaimService
	logger  *zap.Logger
}

func NewClaimHandler(service *domain.ClaimService, logger *zap.Logger) *ClaimHandler {
	return &ClaimHandler{service: service, logger: logger}
}

// Create registers a new claim. A client with an open claim gets a
// 409 and the duplicate is flagged to admin instead of being stored.
func (h *ClaimHandler) Create(w http.ResponseWriter, r *http.Request) {
	var params domain.CreateClaimParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	claim, err := h.service.Create(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateClaim):
			response.Conflict(w, "client already has an open claim")
		case errors.Is(err, domain.ErrInvalidClaim):
			response.BadRequest(w, err.Error())
		default:
			h.logger.Error("create claim failed", zap.Error(err))
			response.InternalError(w, "failed to create claim")
		}
		return
	}

	response.Created(w, claim)
}

func (h *ClaimHandler) Get(w http.ResponseWriter, r *http.Request) {
	claim, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrClaimNotFound) {
			response.NotFound(w, "claim not found")
			return
		}
		h.logger.Error("get claim failed", zap.Error(err))
		response.InternalError(w, "failed to load claim")
		return
	}

	response.OK(w, claim)
}

func (h *ClaimHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	claims, err := h.service.List(r.Context(), domain.ClaimFilter{
		Status:       q.Get("status"),
		Technician:   q.Get("technician"),
		ClientNumber: q.Get("client"),
		Limit:        limit,
	})
	if err != nil {
		h.logger.Error("list claims failed", zap.Error(err))
		response.InternalError(w, "failed to load claims")
		return
	}

	response.OK(w, map[string]interface{}{
		"claims": claims,
		"count":  len(claims),
	})
}

// UpdateStatus moves a claim through the workflow states.
func (h *ClaimHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), strings.TrimSpace(req.Status))
	if err != nil {
		h.writeClaimError(w, err, "update status failed")
		return
	}

	response.OK(w, map[string]string{"status": "updated"})
}

// AssignTechnician hands a claim to a field technician.
func (h *ClaimHandler) AssignTechnician(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Technician string `json:"technician"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	technician := strings.TrimSpace(req.Technician)
	if technician == "" {
		response.BadRequest(w, "technician is required")
		return
	}

	if err := h.service.AssignTechnician(r.Context(), chi.URLParam(r, "id"), technician); err != nil {
		h.writeClaimError(w, err, "assign technician failed")
		return
	}

	response.OK(w, map[string]string{"status": "assigned"})
}

// Close resolves a claim with the seal number and closing notes.
func (h *ClaimHandler) Close(w http.ResponseWriter, r *http.Request) {
	var closure domain.ClaimClosure
	if err := json.NewDecoder(r.Body).Decode(&closure); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.service.Close(r.Context(), chi.URLParam(r, "id"), closure); err != nil {
		h.writeClaimError(w, err, "close claim failed")
		return
	}

	response.OK(w, map[string]string{"status": "closed"})
}

func (h *ClaimHandler) writeClaimError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, domain.ErrClaimNotFound):
		response.NotFound(w, "claim not found")
	case errors.Is(err, domain.ErrInvalidStatus):
		response.BadRequest(w, "invalid claim status")
	default:
		h.logger.Error(logMsg, zap.Error(err))
		response.InternalError(w, "operation failed")
	}
}
