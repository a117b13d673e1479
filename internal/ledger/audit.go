package ledger

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/efreitasn/fxcredit/internal/domain"
	"github.com/shopspring/decimal"
)

// AuditOptions tunes the thresholds used by Audit.
type AuditOptions struct {
	StaleAfter         time.Duration
	UtilizationWarning decimal.Decimal // percent
}

// DefaultAuditOptions flags limits older than a day and utilization above 90%.
func DefaultAuditOptions() AuditOptions {
	return AuditOptions{
		StaleAfter:         24 * time.Hour,
		UtilizationWarning: decimal.NewFromInt(90),
	}
}

// Audit reports credit-exposure warnings and configuration notices over the
// ledger's current tables. Findings are sorted by kind, then subject.
func (l *CreditLedger) Audit(now time.Time, opts AuditOptions) []domain.Finding {
	findings := make([]domain.Finding, 0)

	for _, pb := range l.ref.PrimeBrokers() {
		if pb.IsCentral {
			continue
		}
		report, err := l.ValidatePBExposure(pb.ID)
		if err != nil {
			continue
		}
		if !report.IsWithinLimit {
			findings = append(findings, domain.Finding{
				Kind:     domain.FindingOverExposure,
				Severity: domain.SeverityWarning,
				Subject:  pb.ID,
				Message: fmt.Sprintf("PB %s: issued %s but only has %s credit line",
					pb.ID, domain.FormatAmount(report.TotalIssued), domain.FormatAmount(report.CreditLine)),
			})
		}
		if report.Utilization.GreaterThan(opts.UtilizationWarning) {
			findings = append(findings, domain.Finding{
				Kind:     domain.FindingHighUtilization,
				Severity: domain.SeverityWarning,
				Subject:  pb.ID,
				Message:  fmt.Sprintf("PB %s: %s%% credit utilization", pb.ID, report.Utilization.StringFixed(1)),
			})
		}
	}

	for _, c := range l.ref.Customers() {
		sessions := l.ref.SessionsByCustomer(c.ID)
		if len(sessions) > 1 {
			findings = append(findings, domain.Finding{
				Kind:     domain.FindingMultipleSessions,
				Severity: domain.SeverityNotice,
				Subject:  c.ID,
				Message:  fmt.Sprintf("Customer %s has %d sessions", c.ID, len(sessions)),
			})
		}
		if len(sessions) > 0 && len(l.limits.LimitsForCustomer(c.ID)) == 0 {
			findings = append(findings, domain.Finding{
				Kind:     domain.FindingNoCredit,
				Severity: domain.SeverityNotice,
				Subject:  c.ID,
				Message:  fmt.Sprintf("Customer %s has sessions but no credit limits", c.ID),
			})
		}
	}

	threshold := now.Add(-opts.StaleAfter)
	for _, lim := range l.limits.CustomerLimits() {
		if lim.LastUpdatedRaw != "" {
			findings = append(findings, invalidTimestamp(lim.CustomerID, lim.LastUpdatedRaw))
			continue
		}
		if lim.LastUpdated.Before(threshold) {
			findings = append(findings, domain.Finding{
				Kind:     domain.FindingStaleLimit,
				Severity: domain.SeverityNotice,
				Subject:  lim.CustomerID,
				Message:  fmt.Sprintf("Stale credit data for %s->%s", lim.CustomerID, lim.PBID),
			})
		}
	}

	for _, line := range l.limits.CreditLines() {
		if line.LastUpdatedRaw != "" {
			findings = append(findings, invalidTimestamp(line.NonCentralPBID, line.LastUpdatedRaw))
		}
	}

	slices.SortStableFunc(findings, func(a, b domain.Finding) int {
		if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
			return c
		}
		return cmp.Compare(a.Subject, b.Subject)
	})
	return findings
}

func invalidTimestamp(subject, raw string) domain.Finding {
	return domain.Finding{
		Kind:     domain.FindingInvalidTimestamp,
		Severity: domain.SeverityNotice,
		Subject:  subject,
		Message:  fmt.Sprintf("Invalid timestamp: %s", raw),
	}
}
