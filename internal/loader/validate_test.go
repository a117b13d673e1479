package loader

import (
	"testing"

	"github.com/efreitasn/fxcredit/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		PrimeBrokers: []domain.PrimeBroker{
			{ID: "CPB_1", Name: "Central", IsCentral: true},
			{ID: "PB_A", Name: "Alpha"},
		},
		Customers: []domain.Customer{{ID: "Cust_1", Name: "Gamma"}},
		Sessions:  []domain.Session{{SessionID: "S1", CustomerID: "Cust_1", PBID: "PB_A"}},
		CustomerLimits: []domain.CustomerLimit{
			{CustomerID: "Cust_1", PBID: "PB_A", LimitAmount: decimal.NewFromInt(100), Currency: "USD"},
		},
		PBCreditLines: []domain.PBCreditLine{
			{NonCentralPBID: "PB_A", CentralPBID: "CPB_1", LimitAmount: decimal.NewFromInt(1000), Currency: "USD"},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *domain.Snapshot)
		want   []string
	}{
		{
			name:   "valid",
			mutate: func(s *domain.Snapshot) {},
		},
		{
			name: "no central",
			mutate: func(s *domain.Snapshot) {
				s.PrimeBrokers[0].IsCentral = false
				s.PBCreditLines = nil
			},
			want: []string{"need exactly 1 central prime broker, found 0"},
		},
		{
			name: "two centrals",
			mutate: func(s *domain.Snapshot) {
				s.PrimeBrokers = append(s.PrimeBrokers, domain.PrimeBroker{ID: "CPB_2", IsCentral: true})
			},
			want: []string{"need exactly 1 central prime broker, found 2"},
		},
		{
			name: "duplicate ids",
			mutate: func(s *domain.Snapshot) {
				s.PrimeBrokers = append(s.PrimeBrokers, domain.PrimeBroker{ID: "PB_A"})
				s.Customers = append(s.Customers, domain.Customer{ID: "Cust_1"})
				s.Sessions = append(s.Sessions, domain.Session{SessionID: "S1", CustomerID: "Cust_1", PBID: "PB_A"})
			},
			want: []string{
				"duplicate prime broker id PB_A",
				"duplicate customer id Cust_1",
				"duplicate session id S1",
			},
		},
		{
			name: "dangling session",
			mutate: func(s *domain.Snapshot) {
				s.Sessions[0].CustomerID = "Cust_9"
				s.Sessions[0].PBID = "PB_Z"
			},
			want: []string{
				"session S1 has unknown customer Cust_9",
				"session S1 has unknown prime broker PB_Z",
			},
		},
		{
			name: "limit problems",
			mutate: func(s *domain.Snapshot) {
				s.CustomerLimits = append(s.CustomerLimits,
					domain.CustomerLimit{CustomerID: "Cust_1", PBID: "PB_A", LimitAmount: decimal.NewFromInt(-1)},
					domain.CustomerLimit{CustomerID: "Cust_9", PBID: "PB_Z"},
				)
			},
			want: []string{
				"duplicate credit limit Cust_1->PB_A",
				"credit limit Cust_1->PB_A is negative",
				"credit limit has unknown customer Cust_9",
				"credit limit for Cust_9 has unknown prime broker PB_Z",
			},
		},
		{
			name: "credit line problems",
			mutate: func(s *domain.Snapshot) {
				s.PBCreditLines = append(s.PBCreditLines,
					domain.PBCreditLine{NonCentralPBID: "CPB_1", CentralPBID: "PB_A"},
					domain.PBCreditLine{NonCentralPBID: "PB_A", CentralPBID: "CPB_1"},
				)
			},
			want: []string{
				"credit line from central prime broker CPB_1",
				"credit line for CPB_1 points at non-central prime broker PB_A",
				"duplicate credit line for PB_A",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := baseSnapshot()
			tt.mutate(snap)

			err := Validate(snap)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			var ie *IntegrityError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, tt.want, ie.Problems)
			assert.Contains(t, err.Error(), tt.want[0])
		})
	}
}
