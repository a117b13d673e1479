package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/efreitasn/fxcredit/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

func testSnapshot() *domain.Snapshot {
	updated := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return &domain.Snapshot{
		PrimeBrokers: []domain.PrimeBroker{
			{ID: "CPB_1", Name: "Central Prime Broker One", IsCentral: true},
			{ID: "PB_A", Name: "Prime Broker Alpha"},
			{ID: "PB_B", Name: "Prime Broker Beta"},
		},
		Customers: []domain.Customer{
			{ID: "Cust_1", Name: "Hedge Fund Gamma"},
			{ID: "Cust_2", Name: "Asset Manager Delta"},
		},
		Sessions: []domain.Session{
			{SessionID: "FIXS_C1_PBA_001", CustomerID: "Cust_1", PBID: "PB_A", Protocol: "FIX 4.2"},
			{SessionID: "FIXS_C1_PBB_001", CustomerID: "Cust_1", PBID: "PB_B", Protocol: "FIX 4.4"},
			{SessionID: "FIXS_C2_PBA_001", CustomerID: "Cust_2", PBID: "PB_A", Protocol: "FIX 4.2"},
		},
		CustomerLimits: []domain.CustomerLimit{
			{CustomerID: "Cust_1", PBID: "PB_A", LimitAmount: decimal.NewFromInt(1000000), Currency: "USD", LastUpdated: updated},
			{CustomerID: "Cust_1", PBID: "PB_B", LimitAmount: decimal.NewFromInt(500000), Currency: "USD", LastUpdated: updated},
			{CustomerID: "Cust_2", PBID: "PB_A", LimitAmount: decimal.NewFromInt(2000000), Currency: "USD", LastUpdated: updated},
		},
		PBCreditLines: []domain.PBCreditLine{
			{NonCentralPBID: "PB_A", CentralPBID: "CPB_1", LimitAmount: decimal.NewFromInt(5000000), Currency: "USD", LastUpdated: updated},
			{NonCentralPBID: "PB_B", CentralPBID: "CPB_1", LimitAmount: decimal.NewFromInt(3000000), Currency: "USD", LastUpdated: updated},
		},
	}
}

func newTestService(t *testing.T) *SimulationService {
	t.Helper()
	return NewSimulationService(testSnapshot(), DefaultOptions(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestSimulation(t *testing.T, svc *SimulationService) string {
	t.Helper()
	id, err := svc.CreateSimulation()
	if err != nil {
		t.Fatalf("CreateSimulation: %v", err)
	}
	return id
}

func TestCreateSimulation_Limit(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxSimulations = 2
	svc := NewSimulationService(testSnapshot(), opts, nil)

	a := newTestSimulation(t, svc)
	newTestSimulation(t, svc)

	if _, err := svc.CreateSimulation(); !errors.Is(err, domain.ErrTooManySimulations) {
		t.Fatalf("got %v, want ErrTooManySimulations", err)
	}

	if err := svc.DeleteSimulation(a); err != nil {
		t.Fatalf("DeleteSimulation: %v", err)
	}
	if _, err := svc.CreateSimulation(); err != nil {
		t.Errorf("CreateSimulation after delete: %v", err)
	}
}

func TestDeleteSimulation_NotFound(t *testing.T) {
	svc := newTestService(t)

	if err := svc.DeleteSimulation("nope"); err != domain.ErrSimulationNotFound {
		t.Errorf("got %v, want ErrSimulationNotFound", err)
	}
}

func TestUnknownSimulation(t *testing.T) {
	svc := newTestService(t)

	calls := map[string]func() error{
		"lookup": func() error { _, err := svc.FindPrimeBrokerForSession("nope", "FIXS_C1_PBA_001"); return err },
		"credit": func() error { _, err := svc.CustomerCredit("nope", "Cust_1"); return err },
		"exposure": func() error { _, err := svc.ValidatePBExposure("nope", "PB_A"); return err },
		"order": func() error {
			_, err := svc.SubmitOrder("nope", SubmitOrderRequest{CustomerID: "Cust_1", Instrument: "EURUSD", Side: "BUY", Notional: 1})
			return err
		},
		"orders":    func() error { _, err := svc.ListOrders("nope", 0); return err },
		"positions": func() error { _, err := svc.Positions("nope"); return err },
		"reset":     func() error { return svc.ResetSimulation("nope") },
		"audit":     func() error { _, err := svc.Audit("nope"); return err },
		"export":    func() error { _, err := svc.CreditData("nope"); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			if err := call(); err != domain.ErrSimulationNotFound {
				t.Errorf("got %v, want ErrSimulationNotFound", err)
			}
		})
	}
}

func TestSimulationsAreIsolated(t *testing.T) {
	svc := newTestService(t)
	a := newTestSimulation(t, svc)
	b := newTestSimulation(t, svc)

	if _, err := svc.UpdateCustomerLimit(a, "Cust_1", "PB_A", 10); err != nil {
		t.Fatalf("UpdateCustomerLimit: %v", err)
	}
	order, err := svc.SubmitOrder(b, SubmitOrderRequest{CustomerID: "Cust_1", Instrument: "EURUSD", Side: "buy", Notional: 600000})
	if err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	if order.Status != domain.OrderStatusExecuted {
		t.Errorf("simulation b status = %s, want EXECUTED with the original limit", order.Status)
	}

	orders, err := svc.ListOrders(a, 0)
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("simulation a has %d orders, want 0", len(orders))
	}
}

func TestCustomerCredit(t *testing.T) {
	svc := newTestService(t)
	id := newTestSimulation(t, svc)

	credit, err := svc.CustomerCredit(id, "Cust_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(credit.Limits) != 2 || !credit.Total.Equal(decimal.NewFromInt(1500000)) {
		t.Errorf("got %d limits totalling %s, want 2 totalling 1500000", len(credit.Limits), credit.Total)
	}

	if _, err := svc.CustomerCredit(id, "Cust_9"); err != domain.ErrCustomerNotFound {
		t.Errorf("got %v, want ErrCustomerNotFound", err)
	}
}

func TestUpdateCustomerLimit_Validation(t *testing.T) {
	svc := newTestService(t)
	id := newTestSimulation(t, svc)

	tests := []struct {
		name       string
		customerID string
		pbID       string
		amount     float64
	}{
		{"negative", "Cust_1", "PB_A", -1},
		{"three decimals", "Cust_1", "PB_A", 10.125},
		{"bad customer id", "Cust 1", "PB_A", 10},
		{"bad pb id", "Cust_1", "", 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateCustomerLimit(id, tt.customerID, tt.pbID, tt.amount)
			if !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("got %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestUpdatePBCreditLine(t *testing.T) {
	svc := newTestService(t)
	id := newTestSimulation(t, svc)

	line, err := svc.UpdatePBCreditLine(id, "PB_A", 2500000.50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !line.LimitAmount.Equal(decimal.RequireFromString("2500000.50")) {
		t.Errorf("LimitAmount = %s", line.LimitAmount)
	}

	report, err := svc.ValidatePBExposure(id, "PB_A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.IsWithinLimit {
		t.Error("IsWithinLimit = true, want false with 3000000 issued")
	}

	if _, err := svc.UpdatePBCreditLine(id, "CPB_1", 1); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("central: got %v, want ErrInvalidArgument", err)
	}
}

func TestSubmitOrder_Validation(t *testing.T) {
	svc := newTestService(t)
	id := newTestSimulation(t, svc)

	valid := SubmitOrderRequest{CustomerID: "Cust_1", Instrument: "EURUSD", Side: "BUY", Notional: 100}
	tests := []struct {
		name   string
		mutate func(r *SubmitOrderRequest)
	}{
		{"bad customer id", func(r *SubmitOrderRequest) { r.CustomerID = "" }},
		{"bad session id", func(r *SubmitOrderRequest) { r.SessionID = "a b" }},
		{"lowercase instrument", func(r *SubmitOrderRequest) { r.Instrument = "eurusd" }},
		{"short instrument", func(r *SubmitOrderRequest) { r.Instrument = "EUR" }},
		{"unknown side", func(r *SubmitOrderRequest) { r.Side = "HOLD" }},
		{"zero notional", func(r *SubmitOrderRequest) { r.Notional = 0 }},
		{"three decimals", func(r *SubmitOrderRequest) { r.Notional = 1.005 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			if _, err := svc.SubmitOrder(id, req); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("got %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestSubmitOrder_ExplicitSession(t *testing.T) {
	svc := newTestService(t)
	id := newTestSimulation(t, svc)

	order, err := svc.SubmitOrder(id, SubmitOrderRequest{
		CustomerID: "Cust_1",
		SessionID:  "FIXS_C1_PBB_001",
		Instrument: "GBPUSD",
		Side:       "SELL",
		Notional:   600000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.PBID != "PB_B" || order.Status != domain.OrderStatusRejected {
		t.Errorf("got %s via %s, want REJECTED via PB_B (limit 500000)", order.Status, order.PBID)
	}
	if !strings.Contains(order.RejectReason, "500,000") {
		t.Errorf("RejectReason = %q", order.RejectReason)
	}
}

func TestListOrders(t *testing.T) {
	opts := DefaultOptions()
	opts.OrderLogLimit = 3
	svc := NewSimulationService(testSnapshot(), opts, nil)
	id := newTestSimulation(t, svc)

	for i := 0; i < 5; i++ {
		if _, err := svc.SubmitOrder(id, SubmitOrderRequest{CustomerID: "Cust_2", Instrument: "EURUSD", Side: "BUY", Notional: 1}); err != nil {
			t.Fatalf("SubmitOrder: %v", err)
		}
	}

	orders, err := svc.ListOrders(id, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 3 || orders[0].TradeID != 5 {
		t.Errorf("default cap returned %d orders starting at %d, want 3 starting at 5", len(orders), orders[0].TradeID)
	}

	orders, _ = svc.ListOrders(id, 10)
	if len(orders) != 5 {
		t.Errorf("got %d orders, want 5", len(orders))
	}

	for _, limit := range []int{-1, maxOrderLogLimit + 1} {
		if _, err := svc.ListOrders(id, limit); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("limit %d: got %v, want ErrInvalidArgument", limit, err)
		}
	}
}

func TestResetSimulation(t *testing.T) {
	svc := newTestService(t)
	id := newTestSimulation(t, svc)

	if _, err := svc.SubmitOrder(id, SubmitOrderRequest{CustomerID: "Cust_1", Instrument: "EURUSD", Side: "BUY", Notional: 1000}); err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	if err := svc.ResetSimulation(id); err != nil {
		t.Fatalf("ResetSimulation: %v", err)
	}

	positions, _ := svc.Positions(id)
	orders, _ := svc.ListOrders(id, 0)
	if len(positions) != 0 || len(orders) != 0 {
		t.Errorf("got %d positions and %d orders after reset, want none", len(positions), len(orders))
	}
}

func TestAudit(t *testing.T) {
	svc := newTestService(t)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	id := newTestSimulation(t, svc)

	findings, err := svc.Audit(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 1 || findings[0].Kind != domain.FindingMultipleSessions {
		t.Errorf("got %+v, want one multiple_sessions finding", findings)
	}
}

func TestCreditData(t *testing.T) {
	svc := newTestService(t)
	id := newTestSimulation(t, svc)

	if _, err := svc.UpdateCustomerLimit(id, "Cust_2", "PB_B", 250000); err != nil {
		t.Fatalf("UpdateCustomerLimit: %v", err)
	}

	out, err := svc.CreditData(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc struct {
		Limits []struct {
			CustomerID  string  `yaml:"customer_id"`
			PBID        string  `yaml:"pb_id"`
			LimitAmount float64 `yaml:"limit_amount"`
		} `yaml:"customer_pb_limits"`
		Lines []map[string]any `yaml:"pb_to_central_pb_limits"`
	}
	if err := yaml.Unmarshal(out, &doc); err != nil {
		t.Fatalf("export is not valid YAML: %v", err)
	}
	if len(doc.Limits) != 4 || len(doc.Lines) != 2 {
		t.Fatalf("got %d limits and %d lines, want 4 and 2", len(doc.Limits), len(doc.Lines))
	}
	last := doc.Limits[3]
	if last.CustomerID != "Cust_2" || last.PBID != "PB_B" || last.LimitAmount != 250000 {
		t.Errorf("appended limit = %+v", last)
	}
}

func TestNilSnapshot(t *testing.T) {
	svc := NewSimulationService(nil, DefaultOptions(), nil)
	id := newTestSimulation(t, svc)

	if n := len(svc.PrimeBrokers()); n != 0 {
		t.Errorf("got %d prime brokers, want 0", n)
	}
	if _, err := svc.FindPrimeBrokerForSession(id, "FIXS_C1_PBA_001"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestConcurrentOrdersOnOneSimulation(t *testing.T) {
	svc := newTestService(t)
	id := newTestSimulation(t, svc)

	const workers, perWorker = 8, 25
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := svc.SubmitOrder(id, SubmitOrderRequest{CustomerID: "Cust_2", Instrument: "EURUSD", Side: "BUY", Notional: 100})
				if err != nil {
					panic(fmt.Sprintf("worker %d: %v", w, err))
				}
			}
		}(w)
	}
	wg.Wait()

	orders, err := svc.ListOrders(id, maxOrderLogLimit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != workers*perWorker {
		t.Fatalf("got %d orders, want %d", len(orders), workers*perWorker)
	}
	seen := make(map[int64]bool, len(orders))
	for _, o := range orders {
		if seen[o.TradeID] {
			t.Fatalf("duplicate trade id %d", o.TradeID)
		}
		seen[o.TradeID] = true
	}
	positions, _ := svc.Positions(id)
	if len(positions) != 1 || !positions[0].Net.Equal(decimal.NewFromInt(workers*perWorker*100)) {
		t.Errorf("positions = %+v, want Cust_2/PB_A at %d", positions, workers*perWorker*100)
	}
}
