package ledger

import (
	"fmt"

	"github.com/efreitasn/fxcredit/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ValidatePBExposure compares the total credit a non-central prime broker
// has issued to its customers with its credit line to the central prime
// broker. It has no side effects.
//
// A missing credit line counts as zero; utilization is zero whenever the
// credit line is zero.
func (l *CreditLedger) ValidatePBExposure(pbID string) (domain.ExposureReport, error) {
	pb, err := l.ref.PrimeBroker(pbID)
	if err != nil {
		return domain.ExposureReport{}, err
	}
	if pb.IsCentral {
		return domain.ExposureReport{}, &domain.ValidationError{
			Message: fmt.Sprintf("prime broker %s is central; exposure is defined for non-central prime brokers only", pbID),
		}
	}

	issued := decimal.Zero
	customers := 0
	for _, lim := range l.limits.LimitsForPB(pbID) {
		issued = issued.Add(lim.LimitAmount)
		customers++
	}

	creditLine := decimal.Zero
	centralID := ""
	if line, ok := l.limits.CreditLine(pbID); ok {
		creditLine = line.LimitAmount
		centralID = line.CentralPBID
	} else if central, ok := l.ref.Central(); ok {
		centralID = central.ID
	}

	utilization := decimal.Zero
	if creditLine.IsPositive() {
		utilization = issued.Div(creditLine).Mul(hundred)
	}

	return domain.ExposureReport{
		PBID:            pb.ID,
		PBName:          pb.Name,
		CentralPBID:     centralID,
		TotalIssued:     issued,
		CreditLine:      creditLine,
		Utilization:     utilization,
		IsWithinLimit:   issued.LessThanOrEqual(creditLine),
		CustomerCount:   customers,
		AvailableCredit: creditLine.Sub(issued),
		OpenExposure:    l.pbOpenExposure(pbID, "", decimal.Zero),
	}, nil
}

// pbOpenExposure sums |position| over the prime broker's customers. When
// customerID is set, that customer's term uses its position plus delta.
func (l *CreditLedger) pbOpenExposure(pbID, customerID string, delta decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	seen := false
	l.positions.WalkPB(pbID, func(p domain.Position) bool {
		if p.CustomerID == customerID {
			seen = true
			total = total.Add(p.Net.Add(delta).Abs())
			return true
		}
		total = total.Add(p.Exposure())
		return true
	})
	if customerID != "" && !seen {
		total = total.Add(delta.Abs())
	}
	return total
}
