package store

import "github.com/efreitasn/fxcredit/internal/domain"

// OrderLog is the append-only log of simulated orders, with a secondary
// index by customer_id. Not safe for concurrent use.
type OrderLog struct {
	orders         []*domain.Order
	customerOrders map[string][]*domain.Order // customer_id → orders (append-only)
}

// NewOrderLog creates an empty OrderLog.
func NewOrderLog() *OrderLog {
	return &OrderLog{
		customerOrders: make(map[string][]*domain.Order),
	}
}

// Append adds an order to the log and to the customer's secondary index.
func (s *OrderLog) Append(o *domain.Order) {
	s.orders = append(s.orders, o)
	s.customerOrders[o.CustomerID] = append(s.customerOrders[o.CustomerID], o)
}

// List returns orders newest first. If customerID is non-empty only that
// customer's orders are included; if status is non-nil only orders with
// that status are. A limit > 0 caps the result to the most recent matches.
func (s *OrderLog) List(customerID string, status *domain.OrderStatus, limit int) []*domain.Order {
	all := s.orders
	if customerID != "" {
		all = s.customerOrders[customerID]
	}

	// Filter by status if provided, collecting in reverse order.
	filtered := make([]*domain.Order, 0)
	for i := len(all) - 1; i >= 0; i-- {
		if status != nil && all[i].Status != *status {
			continue
		}
		filtered = append(filtered, all[i])
		if limit > 0 && len(filtered) == limit {
			break
		}
	}
	return filtered
}

// Len returns the number of logged orders.
func (s *OrderLog) Len() int {
	return len(s.orders)
}

// Reset empties the log.
func (s *OrderLog) Reset() {
	s.orders = nil
	s.customerOrders = make(map[string][]*domain.Order)
}
