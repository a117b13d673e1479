package store

import (
	"testing"

	"github.com/efreitasn/fxcredit/internal/domain"
	"github.com/shopspring/decimal"
)

func limit(customerID, pbID string, amount int64) domain.CustomerLimit {
	return domain.CustomerLimit{
		CustomerID:  customerID,
		PBID:        pbID,
		LimitAmount: decimal.NewFromInt(amount),
		Currency:    "USD",
	}
}

func TestLimitStore_LimitsForCustomer_InsertionOrder(t *testing.T) {
	s := NewLimitStore([]domain.CustomerLimit{
		limit("Cust_1", "PB_B", 500000),
		limit("Cust_2", "PB_A", 2000000),
		limit("Cust_1", "PB_A", 1000000),
	}, nil)

	got := s.LimitsForCustomer("Cust_1")
	if len(got) != 2 {
		t.Fatalf("expected 2 limits, got %d", len(got))
	}
	if got[0].PBID != "PB_B" || got[1].PBID != "PB_A" {
		t.Errorf("got %s,%s, want PB_B,PB_A", got[0].PBID, got[1].PBID)
	}

	if none := s.LimitsForCustomer("Cust_3"); none == nil || len(none) != 0 {
		t.Errorf("expected non-nil empty slice, got %#v", none)
	}
}

func TestLimitStore_UpsertCustomerLimit(t *testing.T) {
	s := NewLimitStore([]domain.CustomerLimit{
		limit("Cust_1", "PB_A", 1000000),
		limit("Cust_1", "PB_B", 500000),
	}, nil)

	s.UpsertCustomerLimit(limit("Cust_1", "PB_A", 750000))
	s.UpsertCustomerLimit(limit("Cust_2", "PB_B", 250000))

	got := s.CustomerLimits()
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	if got[0].PBID != "PB_A" || !got[0].LimitAmount.Equal(decimal.NewFromInt(750000)) {
		t.Errorf("row 0 = %+v, want PB_A replaced in place with 750000", got[0])
	}
	if got[2].CustomerID != "Cust_2" {
		t.Errorf("row 2 = %+v, want appended Cust_2 row", got[2])
	}

	l, ok := s.CustomerLimit("Cust_2", "PB_B")
	if !ok || !l.LimitAmount.Equal(decimal.NewFromInt(250000)) {
		t.Errorf("CustomerLimit(Cust_2, PB_B) = %+v, %v", l, ok)
	}
}

func TestLimitStore_LimitsForPB(t *testing.T) {
	s := NewLimitStore([]domain.CustomerLimit{
		limit("Cust_1", "PB_A", 1000000),
		limit("Cust_1", "PB_B", 500000),
		limit("Cust_2", "PB_A", 2000000),
	}, nil)

	got := s.LimitsForPB("PB_A")
	if len(got) != 2 {
		t.Fatalf("expected 2 limits for PB_A, got %d", len(got))
	}
}

func TestLimitStore_CreditLines(t *testing.T) {
	s := NewLimitStore(nil, []domain.PBCreditLine{
		{NonCentralPBID: "PB_A", CentralPBID: "CPB_1", LimitAmount: decimal.NewFromInt(5000000)},
	})

	if _, ok := s.CreditLine("PB_B"); ok {
		t.Fatal("expected no credit line for PB_B")
	}

	s.UpsertCreditLine(domain.PBCreditLine{NonCentralPBID: "PB_A", CentralPBID: "CPB_1", LimitAmount: decimal.NewFromInt(6000000)})
	s.UpsertCreditLine(domain.PBCreditLine{NonCentralPBID: "PB_B", CentralPBID: "CPB_1", LimitAmount: decimal.NewFromInt(3000000)})

	line, ok := s.CreditLine("PB_A")
	if !ok || !line.LimitAmount.Equal(decimal.NewFromInt(6000000)) {
		t.Errorf("CreditLine(PB_A) = %+v, %v, want 6000000", line, ok)
	}
	if n := len(s.CreditLines()); n != 2 {
		t.Errorf("CreditLines() returned %d rows, want 2", n)
	}
}

func TestLimitStore_CopiesInput(t *testing.T) {
	in := []domain.CustomerLimit{limit("Cust_1", "PB_A", 1000000)}
	s := NewLimitStore(in, nil)
	s.UpsertCustomerLimit(limit("Cust_1", "PB_A", 1))

	if !in[0].LimitAmount.Equal(decimal.NewFromInt(1000000)) {
		t.Error("store mutated the caller's slice")
	}
}
