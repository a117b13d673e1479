package handler

import (
	"net/http"
	"strconv"

	"github.com/efreitasn/fxcredit/internal/service"
	"github.com/go-chi/chi/v5"
)

// SimulationHandler handles simulation lifecycle, orders and positions.
type SimulationHandler struct {
	svc *service.SimulationService
}

// NewSimulationHandler creates a new SimulationHandler.
func NewSimulationHandler(svc *service.SimulationService) *SimulationHandler {
	return &SimulationHandler{svc: svc}
}

// submitOrderRequest is the JSON request body for POST /simulations/{id}/orders.
type submitOrderRequest struct {
	CustomerID string  `json:"customer_id"`
	SessionID  string  `json:"session_id"`
	Instrument string  `json:"instrument"`
	Side       string  `json:"side"`
	Notional   float64 `json:"notional"`
}

// Create handles POST /simulations.
func (h *SimulationHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := h.svc.CreateSimulation()
	if err != nil {
		mapError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{"simulation_id": id})
}

// Delete handles DELETE /simulations/{simulation_id}.
func (h *SimulationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSimulation(chi.URLParam(r, "simulation_id")); err != nil {
		mapError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reset handles POST /simulations/{simulation_id}/reset.
func (h *SimulationHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ResetSimulation(chi.URLParam(r, "simulation_id")); err != nil {
		mapError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubmitOrder handles POST /simulations/{simulation_id}/orders. Both
// executed and rejected orders are 201: a rejection is a recorded outcome.
func (h *SimulationHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	order, err := h.svc.SubmitOrder(chi.URLParam(r, "simulation_id"), service.SubmitOrderRequest{
		CustomerID: req.CustomerID,
		SessionID:  req.SessionID,
		Instrument: req.Instrument,
		Side:       req.Side,
		Notional:   req.Notional,
	})
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, buildOrderResponse(order))
}

// ListOrders handles GET /simulations/{simulation_id}/orders?limit=N.
func (h *SimulationHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			WriteError(w, http.StatusBadRequest, "validation_error", "limit must be a positive integer")
			return
		}
		limit = n
	}

	orders, err := h.svc.ListOrders(chi.URLParam(r, "simulation_id"), limit)
	if err != nil {
		mapError(w, err)
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = buildOrderResponse(o)
	}
	WriteJSON(w, http.StatusOK, map[string]any{"orders": resp})
}

// ListPositions handles GET /simulations/{simulation_id}/positions.
func (h *SimulationHandler) ListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.svc.Positions(chi.URLParam(r, "simulation_id"))
	if err != nil {
		mapError(w, err)
		return
	}

	resp := make([]positionResponse, len(positions))
	for i, p := range positions {
		resp[i] = buildPositionResponse(p)
	}
	WriteJSON(w, http.StatusOK, map[string]any{"positions": resp})
}

// Audit handles GET /simulations/{simulation_id}/audit.
func (h *SimulationHandler) Audit(w http.ResponseWriter, r *http.Request) {
	findings, err := h.svc.Audit(chi.URLParam(r, "simulation_id"))
	if err != nil {
		mapError(w, err)
		return
	}

	resp := make([]findingResponse, len(findings))
	for i, f := range findings {
		resp[i] = findingResponse{
			Kind:     string(f.Kind),
			Severity: string(f.Severity),
			Subject:  f.Subject,
			Message:  f.Message,
		}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"findings": resp})
}
