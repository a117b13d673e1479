package service

import (
	"regexp"
	"strconv"

	"github.com/efreitasn/fxcredit/internal/domain"
	"github.com/efreitasn/fxcredit/internal/ledger"
	"github.com/efreitasn/fxcredit/internal/loader"
	"github.com/efreitasn/fxcredit/internal/metrics"
	"github.com/shopspring/decimal"
)

var entityIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// CustomerCredit is a customer's limits with every prime broker and their sum.
type CustomerCredit struct {
	CustomerID string
	Limits     []domain.CustomerLimit
	Total      decimal.Decimal
}

func validateID(field, id string) error {
	if !entityIDRegex.MatchString(id) {
		return &domain.ValidationError{Message: field + " must match ^[a-zA-Z0-9_-]{1,64}$"}
	}
	return nil
}

// parseLimitAmount validates a limit amount: >= 0 with at most 2 decimal places.
func parseLimitAmount(f float64) (decimal.Decimal, error) {
	if f < 0 {
		return decimal.Zero, &domain.ValidationError{Message: "limit_amount must be >= 0"}
	}
	d, err := domain.ParseAmount(f)
	if err != nil {
		return decimal.Zero, &domain.ValidationError{Message: "limit_amount must have at most 2 decimal places"}
	}
	return d, nil
}

// FindPrimeBrokerForSession returns the prime broker a session routes to.
func (s *SimulationService) FindPrimeBrokerForSession(simID, sessionID string) (domain.PrimeBroker, error) {
	var pb domain.PrimeBroker
	err := s.withLedger(simID, func(l *ledger.CreditLedger) error {
		var err error
		pb, err = l.FindPrimeBrokerForSession(sessionID)
		return err
	})
	return pb, err
}

// CustomerCredit returns a customer's current limits and their total.
func (s *SimulationService) CustomerCredit(simID, customerID string) (*CustomerCredit, error) {
	var out *CustomerCredit
	err := s.withLedger(simID, func(l *ledger.CreditLedger) error {
		limits, err := l.CustomerLimits(customerID)
		if err != nil {
			return err
		}
		total, err := l.TotalAvailableCredit(customerID)
		if err != nil {
			return err
		}
		out = &CustomerCredit{CustomerID: customerID, Limits: limits, Total: total}
		return nil
	})
	return out, err
}

// UpdateCustomerLimit sets a customer's limit with a prime broker.
func (s *SimulationService) UpdateCustomerLimit(simID, customerID, pbID string, amount float64) (domain.CustomerLimit, error) {
	if err := validateID("customer_id", customerID); err != nil {
		return domain.CustomerLimit{}, err
	}
	if err := validateID("pb_id", pbID); err != nil {
		return domain.CustomerLimit{}, err
	}
	d, err := parseLimitAmount(amount)
	if err != nil {
		return domain.CustomerLimit{}, err
	}

	var lim domain.CustomerLimit
	err = s.withLedger(simID, func(l *ledger.CreditLedger) error {
		var err error
		lim, err = l.UpdateCustomerLimit(customerID, pbID, d)
		return err
	})
	if err != nil {
		return domain.CustomerLimit{}, err
	}
	metrics.LimitUpdatesTotal.WithLabelValues("customer_limit").Inc()
	return lim, nil
}

// ValidatePBExposure reports a non-central prime broker's issued credit
// against its credit line.
func (s *SimulationService) ValidatePBExposure(simID, pbID string) (domain.ExposureReport, error) {
	var report domain.ExposureReport
	err := s.withLedger(simID, func(l *ledger.CreditLedger) error {
		var err error
		report, err = l.ValidatePBExposure(pbID)
		return err
	})
	if err != nil {
		return domain.ExposureReport{}, err
	}
	metrics.ExposureChecksTotal.WithLabelValues(pbID, strconv.FormatBool(report.IsWithinLimit)).Inc()
	return report, nil
}

// UpdatePBCreditLine sets a non-central prime broker's credit line.
func (s *SimulationService) UpdatePBCreditLine(simID, pbID string, amount float64) (domain.PBCreditLine, error) {
	if err := validateID("pb_id", pbID); err != nil {
		return domain.PBCreditLine{}, err
	}
	d, err := parseLimitAmount(amount)
	if err != nil {
		return domain.PBCreditLine{}, err
	}

	var line domain.PBCreditLine
	err = s.withLedger(simID, func(l *ledger.CreditLedger) error {
		var err error
		line, err = l.UpdatePBCreditLine(pbID, d)
		return err
	})
	if err != nil {
		return domain.PBCreditLine{}, err
	}
	metrics.LimitUpdatesTotal.WithLabelValues("pb_credit_line").Inc()
	return line, nil
}

// Audit reports exposure warnings and configuration notices for the
// simulation's current tables.
func (s *SimulationService) Audit(simID string) ([]domain.Finding, error) {
	var findings []domain.Finding
	err := s.withLedger(simID, func(l *ledger.CreditLedger) error {
		findings = l.Audit(s.now(), s.opts.Audit)
		return nil
	})
	return findings, err
}

// CreditData renders the simulation's current credit tables as
// credit_data.yaml.
func (s *SimulationService) CreditData(simID string) ([]byte, error) {
	var out []byte
	err := s.withLedger(simID, func(l *ledger.CreditLedger) error {
		var err error
		out, err = loader.MarshalCreditData(l.AllCustomerLimits(), l.PBCreditLines())
		return err
	})
	return out, err
}
