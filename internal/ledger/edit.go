package ledger

import (
	"fmt"

	"github.com/efreitasn/fxcredit/internal/domain"
	"github.com/shopspring/decimal"
)

const defaultCurrency = "USD"

// UpdateCustomerLimit sets the limit for a (customer, prime broker) pair,
// adding the row if the pair has none. The change applies to orders
// submitted afterwards; existing positions and logged orders are untouched.
func (l *CreditLedger) UpdateCustomerLimit(customerID, pbID string, amount decimal.Decimal) (domain.CustomerLimit, error) {
	if amount.IsNegative() {
		return domain.CustomerLimit{}, &domain.ValidationError{Message: "limit_amount must be >= 0"}
	}
	if _, err := l.ref.Customer(customerID); err != nil {
		return domain.CustomerLimit{}, err
	}
	if _, err := l.ref.PrimeBroker(pbID); err != nil {
		return domain.CustomerLimit{}, err
	}

	lim, ok := l.limits.CustomerLimit(customerID, pbID)
	if !ok {
		lim = domain.CustomerLimit{
			CustomerID: customerID,
			PBID:       pbID,
			Currency:   defaultCurrency,
		}
	}
	lim.LimitAmount = amount
	lim.LastUpdated = l.now().UTC()
	lim.LastUpdatedRaw = ""
	l.limits.UpsertCustomerLimit(lim)
	return lim, nil
}

// UpdatePBCreditLine sets a non-central prime broker's credit line with the
// central prime broker, creating the line if it has none.
func (l *CreditLedger) UpdatePBCreditLine(pbID string, amount decimal.Decimal) (domain.PBCreditLine, error) {
	if amount.IsNegative() {
		return domain.PBCreditLine{}, &domain.ValidationError{Message: "limit_amount must be >= 0"}
	}
	pb, err := l.ref.PrimeBroker(pbID)
	if err != nil {
		return domain.PBCreditLine{}, err
	}
	if pb.IsCentral {
		return domain.PBCreditLine{}, &domain.ValidationError{
			Message: fmt.Sprintf("prime broker %s is central and has no credit line", pbID),
		}
	}

	line, ok := l.limits.CreditLine(pbID)
	if !ok {
		central, found := l.ref.Central()
		if !found {
			return domain.PBCreditLine{}, domain.ErrPrimeBrokerNotFound
		}
		line = domain.PBCreditLine{
			NonCentralPBID: pbID,
			CentralPBID:    central.ID,
			Currency:       defaultCurrency,
		}
	}
	line.LimitAmount = amount
	line.LastUpdated = l.now().UTC()
	line.LastUpdatedRaw = ""
	l.limits.UpsertCreditLine(line)
	return line, nil
}
