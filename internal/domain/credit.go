package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerLimit is the maximum aggregate credit a customer may use with
// one prime broker. Unique per (CustomerID, PBID).
//
// LastUpdatedRaw holds a last_updated value that could not be parsed;
// LastUpdated is zero whenever it is set.
type CustomerLimit struct {
	CustomerID     string
	PBID           string
	LimitAmount    decimal.Decimal
	Currency       string
	LastUpdated    time.Time
	LastUpdatedRaw string
}

// PBCreditLine caps the aggregate credit a non-central prime broker may
// extend across all of its customers. Each non-central prime broker has at
// most one line, always to the central prime broker.
type PBCreditLine struct {
	NonCentralPBID string
	CentralPBID    string
	LimitAmount    decimal.Decimal
	Currency       string
	LastUpdated    time.Time
	LastUpdatedRaw string // unparseable last_updated, see CustomerLimit
}

// ExposureReport compares the credit a non-central prime broker has issued
// to its customers against its credit line with the central prime broker.
type ExposureReport struct {
	PBID            string
	PBName          string
	CentralPBID     string
	TotalIssued     decimal.Decimal // sum of customer limits with this PB
	CreditLine      decimal.Decimal // zero when no line is configured
	Utilization     decimal.Decimal // percent; zero when CreditLine is zero
	IsWithinLimit   bool
	CustomerCount   int
	AvailableCredit decimal.Decimal // CreditLine - TotalIssued, may be negative
	OpenExposure    decimal.Decimal // sum of |position| over this PB's customers
}

// FindingKind classifies an audit finding.
type FindingKind string

const (
	FindingOverExposure     FindingKind = "over_exposure"
	FindingHighUtilization  FindingKind = "high_utilization"
	FindingInvalidTimestamp FindingKind = "invalid_timestamp"
	FindingMultipleSessions FindingKind = "multiple_sessions"
	FindingNoCredit         FindingKind = "no_credit"
	FindingStaleLimit       FindingKind = "stale_limit"
)

// Severity of an audit finding.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityNotice  Severity = "notice"
)

// Finding is a single issue reported by a credit audit.
type Finding struct {
	Kind     FindingKind
	Severity Severity
	Subject  string // the customer or prime broker id the finding is about
	Message  string
}
