package ledger

import (
	"fmt"

	"github.com/efreitasn/fxcredit/internal/domain"
	"github.com/shopspring/decimal"
)

// breach describes why a prospective order would exceed a limit.
type breach struct {
	code      domain.RejectCode
	limit     decimal.Decimal
	attempted decimal.Decimal
	reason    string
}

// checkLimits runs the two-tier check for a prospective order on
// (customerID, pbID) with signed position change delta. It returns nil
// when the order fits both tiers. Limits are inclusive.
func (l *CreditLedger) checkLimits(customerID, pbID string, delta decimal.Decimal) *breach {
	// 1. Customer limit: |position + delta| against the customer's limit
	// with this prime broker. No row means a zero limit.
	current, _ := l.positions.Get(customerID, pbID)
	prospective := current.Net.Add(delta).Abs()

	customerLimit := decimal.Zero
	if lim, ok := l.limits.CustomerLimit(customerID, pbID); ok {
		customerLimit = lim.LimitAmount
	}
	if prospective.GreaterThan(customerLimit) {
		return &breach{
			code:      domain.RejectCustomerLimitExceeded,
			limit:     customerLimit,
			attempted: prospective,
			reason: fmt.Sprintf("customer limit exceeded for %s with %s: limit %s, attempted exposure %s (over by %s)",
				customerID, pbID,
				domain.FormatAmount(customerLimit),
				domain.FormatAmount(prospective),
				domain.FormatAmount(prospective.Sub(customerLimit)),
			),
		}
	}

	// 2. PB credit line: sum of |position| across every customer of the
	// prime broker, with delta applied to this customer's term. The central
	// prime broker has no credit line of its own.
	pb, err := l.ref.PrimeBroker(pbID)
	if err != nil || pb.IsCentral {
		return nil
	}

	aggregate := l.pbOpenExposure(pbID, customerID, delta)
	creditLine := decimal.Zero
	if line, ok := l.limits.CreditLine(pbID); ok {
		creditLine = line.LimitAmount
	}
	if aggregate.GreaterThan(creditLine) {
		return &breach{
			code:      domain.RejectPBCreditLineExceeded,
			limit:     creditLine,
			attempted: aggregate,
			reason: fmt.Sprintf("prime broker credit line exceeded for %s: credit line %s, attempted aggregate exposure %s (over by %s)",
				pbID,
				domain.FormatAmount(creditLine),
				domain.FormatAmount(aggregate),
				domain.FormatAmount(aggregate.Sub(creditLine)),
			),
		}
	}

	return nil
}
