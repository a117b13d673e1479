package loader

import (
	"time"

	"github.com/efreitasn/fxcredit/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// yamlAmount writes a decimal as a plain YAML number (1000000, not 1e+06).
type yamlAmount decimal.Decimal

func (a yamlAmount) MarshalYAML() (any, error) {
	d := decimal.Decimal(a)
	tag := "!!float"
	if d.IsInteger() {
		tag = "!!int"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: d.String()}, nil
}

type exportLimit struct {
	CustomerID  string     `yaml:"customer_id"`
	PBID        string     `yaml:"pb_id"`
	LimitAmount yamlAmount `yaml:"limit_amount"`
	Currency    string     `yaml:"currency"`
	LastUpdated string     `yaml:"last_updated"`
}

type exportLine struct {
	NonCentralPBID string     `yaml:"non_central_pb_id"`
	CentralPBID    string     `yaml:"central_pb_id"`
	LimitAmount    yamlAmount `yaml:"limit_amount"`
	Currency       string     `yaml:"currency"`
	LastUpdated    string     `yaml:"last_updated"`
}

type exportDocument struct {
	CustomerPBLimits    []exportLimit `yaml:"customer_pb_limits"`
	PBToCentralPBLimits []exportLine  `yaml:"pb_to_central_pb_limits"`
}

// MarshalCreditData renders credit tables in the credit_data.yaml layout so
// edited limits can be reviewed before they are written back. The output
// loads again with Load.
func MarshalCreditData(limits []domain.CustomerLimit, lines []domain.PBCreditLine) ([]byte, error) {
	doc := exportDocument{
		CustomerPBLimits:    make([]exportLimit, 0, len(limits)),
		PBToCentralPBLimits: make([]exportLine, 0, len(lines)),
	}
	for _, lim := range limits {
		doc.CustomerPBLimits = append(doc.CustomerPBLimits, exportLimit{
			CustomerID:  lim.CustomerID,
			PBID:        lim.PBID,
			LimitAmount: yamlAmount(lim.LimitAmount),
			Currency:    lim.Currency,
			LastUpdated: formatTimestamp(lim.LastUpdated, lim.LastUpdatedRaw),
		})
	}
	for _, line := range lines {
		doc.PBToCentralPBLimits = append(doc.PBToCentralPBLimits, exportLine{
			NonCentralPBID: line.NonCentralPBID,
			CentralPBID:    line.CentralPBID,
			LimitAmount:    yamlAmount(line.LimitAmount),
			Currency:       line.Currency,
			LastUpdated:    formatTimestamp(line.LastUpdated, line.LastUpdatedRaw),
		})
	}
	return yaml.Marshal(&doc)
}

// formatTimestamp writes back an unparseable value unchanged so the export
// still shows what the file held.
func formatTimestamp(t time.Time, raw string) string {
	if raw != "" {
		return raw
	}
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
