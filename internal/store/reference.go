package store

import "github.com/efreitasn/fxcredit/internal/domain"

// ReferenceStore holds prime brokers, customers, and sessions indexed by id.
// It is immutable after construction and may be shared by many ledgers.
type ReferenceStore struct {
	primeBrokers []domain.PrimeBroker
	customers    []domain.Customer
	sessions     []domain.Session

	pbIndex       map[string]int
	customerIndex map[string]int
	sessionIndex  map[string]int
	// customer_id → positions in sessions, in stored order
	customerSessions map[string][]int
}

// NewReferenceStore indexes the reference tables of a snapshot. A nil
// snapshot yields an empty store on which every lookup fails.
func NewReferenceStore(snap *domain.Snapshot) *ReferenceStore {
	s := &ReferenceStore{
		pbIndex:          make(map[string]int),
		customerIndex:    make(map[string]int),
		sessionIndex:     make(map[string]int),
		customerSessions: make(map[string][]int),
	}
	if snap == nil {
		return s
	}

	s.primeBrokers = append([]domain.PrimeBroker(nil), snap.PrimeBrokers...)
	s.customers = append([]domain.Customer(nil), snap.Customers...)
	s.sessions = append([]domain.Session(nil), snap.Sessions...)

	for i, pb := range s.primeBrokers {
		s.pbIndex[pb.ID] = i
	}
	for i, c := range s.customers {
		s.customerIndex[c.ID] = i
	}
	for i, sess := range s.sessions {
		s.sessionIndex[sess.SessionID] = i
		s.customerSessions[sess.CustomerID] = append(s.customerSessions[sess.CustomerID], i)
	}
	return s
}

// PrimeBroker retrieves a prime broker by ID. It returns
// domain.ErrPrimeBrokerNotFound if it does not exist.
func (s *ReferenceStore) PrimeBroker(id string) (domain.PrimeBroker, error) {
	i, ok := s.pbIndex[id]
	if !ok {
		return domain.PrimeBroker{}, domain.ErrPrimeBrokerNotFound
	}
	return s.primeBrokers[i], nil
}

// Customer retrieves a customer by ID. It returns
// domain.ErrCustomerNotFound if it does not exist.
func (s *ReferenceStore) Customer(id string) (domain.Customer, error) {
	i, ok := s.customerIndex[id]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return s.customers[i], nil
}

// Session retrieves a session by ID. It returns
// domain.ErrSessionNotFound if it does not exist.
func (s *ReferenceStore) Session(id string) (domain.Session, error) {
	i, ok := s.sessionIndex[id]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return s.sessions[i], nil
}

// SessionsByCustomer returns the customer's sessions in stored order.
// Returns an empty slice if the customer has none.
func (s *ReferenceStore) SessionsByCustomer(customerID string) []domain.Session {
	idx := s.customerSessions[customerID]
	result := make([]domain.Session, len(idx))
	for i, j := range idx {
		result[i] = s.sessions[j]
	}
	return result
}

// Central returns the central prime broker, or false if none is loaded.
func (s *ReferenceStore) Central() (domain.PrimeBroker, bool) {
	for _, pb := range s.primeBrokers {
		if pb.IsCentral {
			return pb, true
		}
	}
	return domain.PrimeBroker{}, false
}

// PrimeBrokers returns a copy of all prime brokers in stored order.
func (s *ReferenceStore) PrimeBrokers() []domain.PrimeBroker {
	return append([]domain.PrimeBroker{}, s.primeBrokers...)
}

// Customers returns a copy of all customers in stored order.
func (s *ReferenceStore) Customers() []domain.Customer {
	return append([]domain.Customer{}, s.customers...)
}

// Sessions returns a copy of all sessions in stored order.
func (s *ReferenceStore) Sessions() []domain.Session {
	return append([]domain.Session{}, s.sessions...)
}
