package ledger

import (
	"github.com/efreitasn/fxcredit/internal/domain"
	"github.com/shopspring/decimal"
)

// FindPrimeBrokerForSession returns the prime broker a session routes to.
func (l *CreditLedger) FindPrimeBrokerForSession(sessionID string) (domain.PrimeBroker, error) {
	sess, err := l.ref.Session(sessionID)
	if err != nil {
		return domain.PrimeBroker{}, err
	}
	return l.ref.PrimeBroker(sess.PBID)
}

// CustomerLimits returns the customer's limits across prime brokers in
// insertion order. A known customer with no limits gets an empty slice; an
// unknown customer gets domain.ErrCustomerNotFound.
func (l *CreditLedger) CustomerLimits(customerID string) ([]domain.CustomerLimit, error) {
	if _, err := l.ref.Customer(customerID); err != nil {
		return nil, err
	}
	return l.limits.LimitsForCustomer(customerID), nil
}

// TotalAvailableCredit sums the customer's limits across prime brokers.
func (l *CreditLedger) TotalAvailableCredit(customerID string) (decimal.Decimal, error) {
	limits, err := l.CustomerLimits(customerID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, lim := range limits {
		total = total.Add(lim.LimitAmount)
	}
	return total, nil
}
