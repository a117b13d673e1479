package store

import "github.com/efreitasn/fxcredit/internal/domain"

type limitKey struct {
	customerID string
	pbID       string
}

// LimitStore holds the two credit-limit tables for one ledger. Customer
// limits keep insertion order; rows are replaced in place on update so
// order is stable across edits. Not safe for concurrent use.
type LimitStore struct {
	customerLimits []domain.CustomerLimit
	limitIndex     map[limitKey]int

	creditLines []domain.PBCreditLine
	lineIndex   map[string]int // non_central_pb_id → position in creditLines
}

// NewLimitStore copies the given rows into a new store. Later rows with a
// duplicate key replace earlier ones.
func NewLimitStore(limits []domain.CustomerLimit, lines []domain.PBCreditLine) *LimitStore {
	s := &LimitStore{
		limitIndex: make(map[limitKey]int, len(limits)),
		lineIndex:  make(map[string]int, len(lines)),
	}
	for _, l := range limits {
		s.UpsertCustomerLimit(l)
	}
	for _, l := range lines {
		s.UpsertCreditLine(l)
	}
	return s
}

// CustomerLimit returns the limit row for a (customer, prime broker) pair.
func (s *LimitStore) CustomerLimit(customerID, pbID string) (domain.CustomerLimit, bool) {
	i, ok := s.limitIndex[limitKey{customerID, pbID}]
	if !ok {
		return domain.CustomerLimit{}, false
	}
	return s.customerLimits[i], true
}

// LimitsForCustomer returns the customer's limits in insertion order.
// Returns an empty slice if there are none.
func (s *LimitStore) LimitsForCustomer(customerID string) []domain.CustomerLimit {
	result := make([]domain.CustomerLimit, 0)
	for _, l := range s.customerLimits {
		if l.CustomerID == customerID {
			result = append(result, l)
		}
	}
	return result
}

// LimitsForPB returns every customer limit issued by the prime broker in
// insertion order.
func (s *LimitStore) LimitsForPB(pbID string) []domain.CustomerLimit {
	result := make([]domain.CustomerLimit, 0)
	for _, l := range s.customerLimits {
		if l.PBID == pbID {
			result = append(result, l)
		}
	}
	return result
}

// UpsertCustomerLimit replaces the row for the limit's pair, or appends it
// if the pair is new.
func (s *LimitStore) UpsertCustomerLimit(l domain.CustomerLimit) {
	key := limitKey{l.CustomerID, l.PBID}
	if i, ok := s.limitIndex[key]; ok {
		s.customerLimits[i] = l
		return
	}
	s.limitIndex[key] = len(s.customerLimits)
	s.customerLimits = append(s.customerLimits, l)
}

// CreditLine returns the credit line of a non-central prime broker.
func (s *LimitStore) CreditLine(pbID string) (domain.PBCreditLine, bool) {
	i, ok := s.lineIndex[pbID]
	if !ok {
		return domain.PBCreditLine{}, false
	}
	return s.creditLines[i], true
}

// UpsertCreditLine replaces the line for its non-central prime broker, or
// appends it.
func (s *LimitStore) UpsertCreditLine(l domain.PBCreditLine) {
	if i, ok := s.lineIndex[l.NonCentralPBID]; ok {
		s.creditLines[i] = l
		return
	}
	s.lineIndex[l.NonCentralPBID] = len(s.creditLines)
	s.creditLines = append(s.creditLines, l)
}

// CustomerLimits returns a copy of every customer limit in insertion order.
func (s *LimitStore) CustomerLimits() []domain.CustomerLimit {
	return append([]domain.CustomerLimit{}, s.customerLimits...)
}

// CreditLines returns a copy of every credit line in insertion order.
func (s *LimitStore) CreditLines() []domain.PBCreditLine {
	return append([]domain.PBCreditLine{}, s.creditLines...)
}
