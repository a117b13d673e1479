package handler

import (
	"net/http"

	"github.com/efreitasn/fxcredit/internal/domain"
	"github.com/efreitasn/fxcredit/internal/service"
	"github.com/go-chi/chi/v5"
)

// CreditHandler handles credit lookups, exposure checks and limit edits
// inside a simulation.
type CreditHandler struct {
	svc *service.SimulationService
}

// NewCreditHandler creates a new CreditHandler.
func NewCreditHandler(svc *service.SimulationService) *CreditHandler {
	return &CreditHandler{svc: svc}
}

// updateLimitRequest is the JSON body for both limit edit endpoints.
// LimitAmount is a pointer so a missing field is told apart from zero.
type updateLimitRequest struct {
	LimitAmount *float64 `json:"limit_amount"`
}

type customerCreditResponse struct {
	CustomerID           string                  `json:"customer_id"`
	Limits               []customerLimitResponse `json:"limits"`
	TotalAvailableCredit float64                 `json:"total_available_credit"`
}

// SessionPrimeBroker handles GET /simulations/{simulation_id}/sessions/{session_id}/prime-broker.
func (h *CreditHandler) SessionPrimeBroker(w http.ResponseWriter, r *http.Request) {
	pb, err := h.svc.FindPrimeBrokerForSession(chi.URLParam(r, "simulation_id"), chi.URLParam(r, "session_id"))
	if err != nil {
		mapError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, primeBrokerResponse{ID: pb.ID, Name: pb.Name, IsCentralPB: pb.IsCentral})
}

// CustomerLimits handles GET /simulations/{simulation_id}/customers/{customer_id}/limits.
func (h *CreditHandler) CustomerLimits(w http.ResponseWriter, r *http.Request) {
	credit, err := h.svc.CustomerCredit(chi.URLParam(r, "simulation_id"), chi.URLParam(r, "customer_id"))
	if err != nil {
		mapError(w, err)
		return
	}

	limits := make([]customerLimitResponse, len(credit.Limits))
	for i, l := range credit.Limits {
		limits[i] = buildCustomerLimitResponse(l)
	}
	WriteJSON(w, http.StatusOK, customerCreditResponse{
		CustomerID:           credit.CustomerID,
		Limits:               limits,
		TotalAvailableCredit: domain.AmountToFloat(credit.Total),
	})
}

// UpdateCustomerLimit handles PUT /simulations/{simulation_id}/customers/{customer_id}/limits/{pb_id}.
func (h *CreditHandler) UpdateCustomerLimit(w http.ResponseWriter, r *http.Request) {
	amount, ok := parseLimitBody(w, r)
	if !ok {
		return
	}

	lim, err := h.svc.UpdateCustomerLimit(
		chi.URLParam(r, "simulation_id"),
		chi.URLParam(r, "customer_id"),
		chi.URLParam(r, "pb_id"),
		amount,
	)
	if err != nil {
		mapError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildCustomerLimitResponse(lim))
}

// Exposure handles GET /simulations/{simulation_id}/prime-brokers/{pb_id}/exposure.
func (h *CreditHandler) Exposure(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.ValidatePBExposure(chi.URLParam(r, "simulation_id"), chi.URLParam(r, "pb_id"))
	if err != nil {
		mapError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildExposureResponse(report))
}

// UpdateCreditLine handles PUT /simulations/{simulation_id}/prime-brokers/{pb_id}/credit-line.
func (h *CreditHandler) UpdateCreditLine(w http.ResponseWriter, r *http.Request) {
	amount, ok := parseLimitBody(w, r)
	if !ok {
		return
	}

	line, err := h.svc.UpdatePBCreditLine(chi.URLParam(r, "simulation_id"), chi.URLParam(r, "pb_id"), amount)
	if err != nil {
		mapError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildCreditLineResponse(line))
}

// CreditData handles GET /simulations/{simulation_id}/credit-data. The body
// is the simulation's credit tables in credit_data.yaml form.
func (h *CreditHandler) CreditData(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.CreditData(chi.URLParam(r, "simulation_id"))
	if err != nil {
		mapError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func parseLimitBody(w http.ResponseWriter, r *http.Request) (float64, bool) {
	var req updateLimitRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return 0, false
	}
	if req.LimitAmount == nil {
		WriteError(w, http.StatusBadRequest, "validation_error", "limit_amount is required")
		return 0, false
	}
	return *req.LimitAmount, true
}
