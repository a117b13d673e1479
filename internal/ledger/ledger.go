// Package ledger implements the credit ledger: reference lookups, the
// two-tier exposure model (customer→PB limits, PB→central PB credit
// lines), and the order simulator that tracks positions against both tiers.
package ledger

import (
	"log/slog"
	"time"

	"github.com/efreitasn/fxcredit/internal/domain"
	"github.com/efreitasn/fxcredit/internal/store"
)

// CreditLedger owns one copy of the limit tables plus the simulated
// positions and order log. Reference data is shared and read-only.
//
// A CreditLedger is not safe for concurrent use: every caller that needs
// its own simulation gets its own ledger.
type CreditLedger struct {
	ref       *store.ReferenceStore
	limits    *store.LimitStore
	positions *store.PositionStore
	orders    *store.OrderLog

	nextTradeID int64
	now         func() time.Time
	logger      *slog.Logger
}

// New creates a ledger over shared reference data and a private copy of
// the snapshot's limit tables. A nil snapshot yields empty limit tables.
func New(ref *store.ReferenceStore, snap *domain.Snapshot, logger *slog.Logger) *CreditLedger {
	var limits *store.LimitStore
	if snap != nil {
		limits = store.NewLimitStore(snap.CustomerLimits, snap.PBCreditLines)
	} else {
		limits = store.NewLimitStore(nil, nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CreditLedger{
		ref:         ref,
		limits:      limits,
		positions:   store.NewPositionStore(),
		orders:      store.NewOrderLog(),
		nextTradeID: 1,
		now:         time.Now,
		logger:      logger,
	}
}

// FromSnapshot builds a standalone ledger that does not share its
// reference store with anyone.
func FromSnapshot(snap *domain.Snapshot, logger *slog.Logger) *CreditLedger {
	return New(store.NewReferenceStore(snap), snap, logger)
}

// PrimeBrokers returns every prime broker in stored order.
func (l *CreditLedger) PrimeBrokers() []domain.PrimeBroker {
	return l.ref.PrimeBrokers()
}

// Customers returns every customer in stored order.
func (l *CreditLedger) Customers() []domain.Customer {
	return l.ref.Customers()
}

// Sessions returns every session in stored order.
func (l *CreditLedger) Sessions() []domain.Session {
	return l.ref.Sessions()
}

// AllCustomerLimits returns the current customer limit table.
func (l *CreditLedger) AllCustomerLimits() []domain.CustomerLimit {
	return l.limits.CustomerLimits()
}

// PBCreditLines returns the current credit line table.
func (l *CreditLedger) PBCreditLines() []domain.PBCreditLine {
	return l.limits.CreditLines()
}
