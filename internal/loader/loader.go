// Package loader reads the four credit configuration files into a typed
// domain.Snapshot and checks their referential integrity.
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/efreitasn/fxcredit/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// File names expected in a configuration directory.
const (
	PrimeBrokersFile = "prime_brokers.yaml"
	CustomersFile    = "customers.yaml"
	SessionsFile     = "sessions.yaml"
	CreditDataFile   = "credit_data.yaml"
)

type primeBrokerRecord struct {
	ID        string `yaml:"id" validate:"required"`
	Name      string `yaml:"name" validate:"required"`
	IsCentral bool   `yaml:"is_central_pb"`
}

type customerRecord struct {
	ID   string `yaml:"id" validate:"required"`
	Name string `yaml:"name" validate:"required"`
}

type sessionRecord struct {
	SessionID  string `yaml:"session_id" validate:"required"`
	CustomerID string `yaml:"customer_id" validate:"required"`
	PBID       string `yaml:"pb_id" validate:"required"`
	Protocol   string `yaml:"protocol"`
}

type customerLimitRecord struct {
	CustomerID  string  `yaml:"customer_id" validate:"required"`
	PBID        string  `yaml:"pb_id" validate:"required"`
	LimitAmount float64 `yaml:"limit_amount" validate:"gte=0"`
	Currency    string  `yaml:"currency" validate:"required,len=3"`
	LastUpdated string  `yaml:"last_updated" validate:"required"`
}

type creditLineRecord struct {
	NonCentralPBID string  `yaml:"non_central_pb_id" validate:"required"`
	CentralPBID    string  `yaml:"central_pb_id" validate:"required"`
	LimitAmount    float64 `yaml:"limit_amount" validate:"gte=0"`
	Currency       string  `yaml:"currency" validate:"required,len=3"`
	LastUpdated    string  `yaml:"last_updated" validate:"required"`
}

type creditDataDocument struct {
	CustomerPBLimits    []customerLimitRecord `yaml:"customer_pb_limits"`
	PBToCentralPBLimits []creditLineRecord    `yaml:"pb_to_central_pb_limits"`
}

var validate = validator.New()

// LoadDir loads and validates the configuration files in dir.
func LoadDir(dir string) (*domain.Snapshot, error) {
	return Load(os.DirFS(dir))
}

// Load reads the four configuration files from fsys, converts them into
// typed records and runs Validate. Integrity problems are returned as an
// *IntegrityError together with the snapshot that was read.
func Load(fsys fs.FS) (*domain.Snapshot, error) {
	var (
		pbs       []primeBrokerRecord
		customers []customerRecord
		sessions  []sessionRecord
		credit    creditDataDocument
	)
	if err := decodeFile(fsys, PrimeBrokersFile, &pbs); err != nil {
		return nil, err
	}
	if err := decodeFile(fsys, CustomersFile, &customers); err != nil {
		return nil, err
	}
	if err := decodeFile(fsys, SessionsFile, &sessions); err != nil {
		return nil, err
	}
	if err := decodeFile(fsys, CreditDataFile, &credit); err != nil {
		return nil, err
	}

	// Step 1: Required fields on every raw record.
	if err := validateRecords(PrimeBrokersFile, pbs); err != nil {
		return nil, err
	}
	if err := validateRecords(CustomersFile, customers); err != nil {
		return nil, err
	}
	if err := validateRecords(SessionsFile, sessions); err != nil {
		return nil, err
	}
	if err := validateRecords(CreditDataFile+": customer_pb_limits", credit.CustomerPBLimits); err != nil {
		return nil, err
	}
	if err := validateRecords(CreditDataFile+": pb_to_central_pb_limits", credit.PBToCentralPBLimits); err != nil {
		return nil, err
	}

	// Step 2: Convert to domain types.
	snap := &domain.Snapshot{
		PrimeBrokers:   make([]domain.PrimeBroker, 0, len(pbs)),
		Customers:      make([]domain.Customer, 0, len(customers)),
		Sessions:       make([]domain.Session, 0, len(sessions)),
		CustomerLimits: make([]domain.CustomerLimit, 0, len(credit.CustomerPBLimits)),
		PBCreditLines:  make([]domain.PBCreditLine, 0, len(credit.PBToCentralPBLimits)),
	}
	for _, r := range pbs {
		snap.PrimeBrokers = append(snap.PrimeBrokers, domain.PrimeBroker{ID: r.ID, Name: r.Name, IsCentral: r.IsCentral})
	}
	for _, r := range customers {
		snap.Customers = append(snap.Customers, domain.Customer{ID: r.ID, Name: r.Name})
	}
	for _, r := range sessions {
		snap.Sessions = append(snap.Sessions, domain.Session{
			SessionID:  r.SessionID,
			CustomerID: r.CustomerID,
			PBID:       r.PBID,
			Protocol:   r.Protocol,
		})
	}
	for i, r := range credit.CustomerPBLimits {
		amount, err := convertAmount(r.LimitAmount)
		if err != nil {
			return nil, fmt.Errorf("%s: customer_pb_limits[%d]: %w", CreditDataFile, i, err)
		}
		updated, raw := parseTimestamp(r.LastUpdated)
		snap.CustomerLimits = append(snap.CustomerLimits, domain.CustomerLimit{
			CustomerID:     r.CustomerID,
			PBID:           r.PBID,
			LimitAmount:    amount,
			Currency:       r.Currency,
			LastUpdated:    updated,
			LastUpdatedRaw: raw,
		})
	}
	for i, r := range credit.PBToCentralPBLimits {
		amount, err := convertAmount(r.LimitAmount)
		if err != nil {
			return nil, fmt.Errorf("%s: pb_to_central_pb_limits[%d]: %w", CreditDataFile, i, err)
		}
		updated, raw := parseTimestamp(r.LastUpdated)
		snap.PBCreditLines = append(snap.PBCreditLines, domain.PBCreditLine{
			NonCentralPBID: r.NonCentralPBID,
			CentralPBID:    r.CentralPBID,
			LimitAmount:    amount,
			Currency:       r.Currency,
			LastUpdated:    updated,
			LastUpdatedRaw: raw,
		})
	}

	// Step 3: Cross-file integrity.
	if err := Validate(snap); err != nil {
		return snap, err
	}
	return snap, nil
}

func decodeFile(fsys fs.FS, name string, out any) error {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: empty file", name)
		}
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func validateRecords[T any](source string, records []T) error {
	for i := range records {
		if err := validate.Struct(&records[i]); err != nil {
			return fmt.Errorf("%s[%d]: %w", source, i, err)
		}
	}
	return nil
}

func convertAmount(amount float64) (decimal.Decimal, error) {
	d, err := domain.ParseAmount(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("limit_amount: %w", err)
	}
	return d, nil
}

// zonedLayouts and localLayouts are the ISO 8601 forms accepted for
// last_updated. Values without a zone are read as UTC.
var (
	zonedLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05Z07:00"}
	localLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02",
	}
)

// parseTimestamp parses an ISO 8601 last_updated value. A value that fits
// none of the accepted forms is returned as raw with a zero time, so one
// bad timestamp does not discard the rest of the configuration.
func parseTimestamp(s string) (updated time.Time, raw string) {
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), ""
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, ""
		}
	}
	return time.Time{}, s
}
