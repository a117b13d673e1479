package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/efreitasn/fxcredit/internal/domain"
	"github.com/efreitasn/fxcredit/internal/ledger"
	"github.com/efreitasn/fxcredit/internal/metrics"
)

const maxOrderLogLimit = domain.MaxOrderLogLimit

var instrumentRegex = regexp.MustCompile(`^[A-Z]{6}$`)

// SubmitOrderRequest represents the input for order simulation.
type SubmitOrderRequest struct {
	CustomerID string
	SessionID  string // optional; the customer's first session when empty
	Instrument string
	Side       string
	Notional   float64
}

// SubmitOrder validates the request and runs it through the simulation's
// ledger. A limit breach is reported as a REJECTED order, not an error.
func (s *SimulationService) SubmitOrder(simID string, req SubmitOrderRequest) (*domain.Order, error) {
	// Step 1: Validate the request shape.
	if err := validateID("customer_id", req.CustomerID); err != nil {
		return nil, err
	}
	if req.SessionID != "" {
		if err := validateID("session_id", req.SessionID); err != nil {
			return nil, err
		}
	}
	if !instrumentRegex.MatchString(req.Instrument) {
		return nil, &domain.ValidationError{Message: "instrument must be a currency pair matching ^[A-Z]{6}$"}
	}
	side := domain.OrderSide(strings.ToUpper(req.Side))
	if side != domain.OrderSideBuy && side != domain.OrderSideSell {
		return nil, &domain.ValidationError{Message: "side must be 'BUY' or 'SELL'"}
	}
	if req.Notional <= 0 {
		return nil, &domain.ValidationError{Message: "notional must be greater than 0"}
	}
	notional, err := domain.ParseAmount(req.Notional)
	if err != nil {
		return nil, &domain.ValidationError{Message: "notional must have at most 2 decimal places"}
	}

	// Step 2: Run it through the ledger.
	var order *domain.Order
	err = s.withLedger(simID, func(l *ledger.CreditLedger) error {
		var err error
		if req.SessionID != "" {
			order, err = l.SubmitOrderForSession(req.SessionID, req.CustomerID, req.Instrument, side, notional)
		} else {
			order, err = l.SubmitOrder(req.CustomerID, req.Instrument, side, notional)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersTotal.WithLabelValues(string(order.Status), string(order.RejectCode)).Inc()
	return order, nil
}

// ListOrders returns the simulation's order log newest first. A limit of 0
// uses the configured default.
func (s *SimulationService) ListOrders(simID string, limit int) ([]*domain.Order, error) {
	if limit < 0 || limit > maxOrderLogLimit {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("limit must be between 1 and %d", maxOrderLogLimit),
		}
	}
	if limit == 0 {
		limit = s.opts.OrderLogLimit
	}

	var orders []*domain.Order
	err := s.withLedger(simID, func(l *ledger.CreditLedger) error {
		orders = l.Orders(limit)
		return nil
	})
	return orders, err
}

// Positions returns the simulation's net positions ordered by prime
// broker, then customer.
func (s *SimulationService) Positions(simID string) ([]domain.Position, error) {
	var positions []domain.Position
	err := s.withLedger(simID, func(l *ledger.CreditLedger) error {
		positions = l.Positions()
		return nil
	})
	return positions, err
}
