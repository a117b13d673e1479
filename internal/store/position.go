package store

import (
	"github.com/efreitasn/fxcredit/internal/domain"
	"github.com/google/btree"
)

// positionLess orders positions by prime broker, then customer, so all
// positions held through one prime broker form a contiguous range.
func positionLess(a, b domain.Position) bool {
	if a.PBID != b.PBID {
		return a.PBID < b.PBID
	}
	return a.CustomerID < b.CustomerID
}

// PositionStore keeps simulated net positions in a B-tree keyed by
// (pb_id, customer_id). Not safe for concurrent use.
type PositionStore struct {
	tree *btree.BTreeG[domain.Position]
}

// NewPositionStore creates an empty PositionStore.
func NewPositionStore() *PositionStore {
	const degree = 16
	return &PositionStore{
		tree: btree.NewG[domain.Position](degree, positionLess),
	}
}

// Get returns the position for a pair. A pair with no executed orders has
// a zero position and ok == false.
func (s *PositionStore) Get(customerID, pbID string) (domain.Position, bool) {
	p, ok := s.tree.Get(domain.Position{CustomerID: customerID, PBID: pbID})
	if !ok {
		return domain.Position{CustomerID: customerID, PBID: pbID}, false
	}
	return p, true
}

// Set stores the position, creating it on first use.
func (s *PositionStore) Set(p domain.Position) {
	s.tree.ReplaceOrInsert(p)
}

// WalkPB calls fn for each position held through the prime broker, in
// customer order. fn returns false to stop.
func (s *PositionStore) WalkPB(pbID string, fn func(domain.Position) bool) {
	s.tree.AscendGreaterOrEqual(domain.Position{PBID: pbID}, func(p domain.Position) bool {
		if p.PBID != pbID {
			return false
		}
		return fn(p)
	})
}

// All returns every position ordered by prime broker, then customer.
func (s *PositionStore) All() []domain.Position {
	result := make([]domain.Position, 0, s.tree.Len())
	s.tree.Ascend(func(p domain.Position) bool {
		result = append(result, p)
		return true
	})
	return result
}

// Len returns the number of positions.
func (s *PositionStore) Len() int {
	return s.tree.Len()
}

// Reset removes every position.
func (s *PositionStore) Reset() {
	s.tree.Clear(false)
}
