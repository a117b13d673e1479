package ledger

import (
	"fmt"
	"log/slog"

	"github.com/efreitasn/fxcredit/internal/domain"
	"github.com/shopspring/decimal"
)

// SubmitOrder simulates an order for a customer, routing it through the
// customer's first session in stored order. Use SubmitOrderForSession when
// the customer has sessions with more than one prime broker.
//
// A limit breach is not an error: the order comes back REJECTED with a
// reason, is logged, and leaves positions untouched. Errors are returned
// only for invalid input or unknown ids.
func (l *CreditLedger) SubmitOrder(customerID, instrument string, side domain.OrderSide, notional decimal.Decimal) (*domain.Order, error) {
	if err := validateOrderInput(side, notional); err != nil {
		return nil, err
	}
	if _, err := l.ref.Customer(customerID); err != nil {
		return nil, err
	}
	sessions := l.ref.SessionsByCustomer(customerID)
	if len(sessions) == 0 {
		return nil, domain.ErrSessionNotFound
	}
	return l.submit(sessions[0], instrument, side, notional), nil
}

// SubmitOrderForSession simulates an order on an explicit session, which
// fixes the prime broker whose limits apply. The session must belong to
// the customer.
func (l *CreditLedger) SubmitOrderForSession(sessionID, customerID, instrument string, side domain.OrderSide, notional decimal.Decimal) (*domain.Order, error) {
	if err := validateOrderInput(side, notional); err != nil {
		return nil, err
	}
	if _, err := l.ref.Customer(customerID); err != nil {
		return nil, err
	}
	sess, err := l.ref.Session(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.CustomerID != customerID {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("session %s does not belong to customer %s", sessionID, customerID),
		}
	}
	return l.submit(sess, instrument, side, notional), nil
}

func validateOrderInput(side domain.OrderSide, notional decimal.Decimal) error {
	if side != domain.OrderSideBuy && side != domain.OrderSideSell {
		return &domain.ValidationError{Message: "side must be 'BUY' or 'SELL'"}
	}
	if !notional.IsPositive() {
		return &domain.ValidationError{Message: "notional must be greater than 0"}
	}
	return nil
}

func (l *CreditLedger) submit(sess domain.Session, instrument string, side domain.OrderSide, notional decimal.Decimal) *domain.Order {
	order := &domain.Order{
		TradeID:    l.nextTradeID,
		CustomerID: sess.CustomerID,
		PBID:       sess.PBID,
		SessionID:  sess.SessionID,
		Instrument: instrument,
		Side:       side,
		Notional:   notional,
		CreatedAt:  l.now(),
	}
	l.nextTradeID++

	// Step 1: Check both tiers against the prospective position.
	delta := order.Delta()
	if b := l.checkLimits(sess.CustomerID, sess.PBID, delta); b != nil {
		// Step 2a: Rejected. Log it, leave the position alone.
		order.Status = domain.OrderStatusRejected
		order.RejectCode = b.code
		order.RejectReason = b.reason
		l.orders.Append(order)

		l.logger.Debug("order rejected",
			slog.Int64("trade_id", order.TradeID),
			slog.String("customer_id", order.CustomerID),
			slog.String("pb_id", order.PBID),
			slog.String("code", string(b.code)),
			slog.String("limit", b.limit.String()),
			slog.String("attempted", b.attempted.String()),
		)
		return order
	}

	// Step 2b: Executed. Move the position and log the order.
	pos, _ := l.positions.Get(sess.CustomerID, sess.PBID)
	pos.Net = pos.Net.Add(delta)
	l.positions.Set(pos)

	order.Status = domain.OrderStatusExecuted
	l.orders.Append(order)

	l.logger.Debug("order executed",
		slog.Int64("trade_id", order.TradeID),
		slog.String("customer_id", order.CustomerID),
		slog.String("pb_id", order.PBID),
		slog.String("net", pos.Net.String()),
	)
	return order
}

// ResetSimulation clears positions and the order log and restarts trade
// ids at 1. Reference data and limit tables are untouched.
func (l *CreditLedger) ResetSimulation() {
	l.positions.Reset()
	l.orders.Reset()
	l.nextTradeID = 1
}

// Orders returns the order log newest first. A limit > 0 keeps only the
// most recent entries. Returned orders must not be modified.
func (l *CreditLedger) Orders(limit int) []*domain.Order {
	return l.orders.List("", nil, limit)
}

// CustomerOrders returns one customer's orders newest first, optionally
// filtered by status.
func (l *CreditLedger) CustomerOrders(customerID string, status *domain.OrderStatus, limit int) []*domain.Order {
	return l.orders.List(customerID, status, limit)
}

// Position returns the net position for a (customer, prime broker) pair;
// zero if no order has executed on it.
func (l *CreditLedger) Position(customerID, pbID string) domain.Position {
	p, _ := l.positions.Get(customerID, pbID)
	return p
}

// Positions returns every position ordered by prime broker, then customer.
func (l *CreditLedger) Positions() []domain.Position {
	return l.positions.All()
}
