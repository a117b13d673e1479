package handler

import (
	"net/http"

	"github.com/efreitasn/fxcredit/internal/service"
)

// ReferenceHandler serves the loaded prime brokers, customers and sessions.
type ReferenceHandler struct {
	svc *service.SimulationService
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(svc *service.SimulationService) *ReferenceHandler {
	return &ReferenceHandler{svc: svc}
}

// ListPrimeBrokers handles GET /prime-brokers.
func (h *ReferenceHandler) ListPrimeBrokers(w http.ResponseWriter, r *http.Request) {
	pbs := h.svc.PrimeBrokers()
	resp := make([]primeBrokerResponse, len(pbs))
	for i, pb := range pbs {
		resp[i] = primeBrokerResponse{ID: pb.ID, Name: pb.Name, IsCentralPB: pb.IsCentral}
	}
	WriteJSON(w, http.StatusOK, resp)
}

// ListCustomers handles GET /customers.
func (h *ReferenceHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers := h.svc.Customers()
	resp := make([]customerResponse, len(customers))
	for i, c := range customers {
		resp[i] = customerResponse{ID: c.ID, Name: c.Name}
	}
	WriteJSON(w, http.StatusOK, resp)
}

// ListSessions handles GET /sessions.
func (h *ReferenceHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.svc.Sessions()
	resp := make([]sessionResponse, len(sessions))
	for i, s := range sessions {
		resp[i] = sessionResponse{
			SessionID:  s.SessionID,
			CustomerID: s.CustomerID,
			PBID:       s.PBID,
			Protocol:   s.Protocol,
		}
	}
	WriteJSON(w, http.StatusOK, resp)
}
