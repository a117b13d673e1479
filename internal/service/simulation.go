package service

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/efreitasn/fxcredit/internal/domain"
	"github.com/efreitasn/fxcredit/internal/ledger"
	"github.com/efreitasn/fxcredit/internal/metrics"
	"github.com/efreitasn/fxcredit/internal/store"
	"github.com/google/uuid"
)

// Options tunes the simulation service.
type Options struct {
	MaxSimulations int
	OrderLogLimit  int           // default cap for ListOrders
	SimulationTTL  time.Duration // idle time before a simulation expires; 0 disables
	Audit          ledger.AuditOptions
}

// DefaultOptions matches the configuration defaults.
func DefaultOptions() Options {
	return Options{
		MaxSimulations: 100,
		OrderLogLimit:  50,
		SimulationTTL:  time.Hour,
		Audit:          ledger.DefaultAuditOptions(),
	}
}

// simulation is one caller's ledger. Its mutex serializes every call into
// the ledger, which is not safe for concurrent use.
type simulation struct {
	mu       sync.Mutex
	ledger   *ledger.CreditLedger
	lastUsed atomic.Int64 // unix nanoseconds
}

func (sim *simulation) touch(now time.Time) {
	sim.lastUsed.Store(now.UnixNano())
}

// SimulationService hands out independent credit ledgers built from one
// loaded configuration and routes calls to them by simulation id.
type SimulationService struct {
	snap   *domain.Snapshot
	ref    *store.ReferenceStore
	opts   Options
	logger *slog.Logger
	now    func() time.Time

	mu   sync.RWMutex
	sims map[string]*simulation
}

// NewSimulationService creates a service over a loaded snapshot. A nil
// snapshot means no configuration is available: every lookup in every
// simulation then fails with a not-found error.
func NewSimulationService(snap *domain.Snapshot, opts Options, logger *slog.Logger) *SimulationService {
	if snap == nil {
		snap = &domain.Snapshot{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &SimulationService{
		snap:   snap,
		ref:    store.NewReferenceStore(snap),
		opts:   opts,
		logger: logger,
		now:    time.Now,
		sims:   make(map[string]*simulation),
	}
	s.recordConfiguredUtilization()
	return s
}

// recordConfiguredUtilization publishes the loaded configuration's
// utilization per non-central prime broker.
func (s *SimulationService) recordConfiguredUtilization() {
	l := ledger.New(s.ref, s.snap, s.logger)
	for _, pb := range s.ref.PrimeBrokers() {
		if pb.IsCentral {
			continue
		}
		report, err := l.ValidatePBExposure(pb.ID)
		if err != nil {
			continue
		}
		metrics.PBUtilization.WithLabelValues(pb.ID).Set(report.Utilization.InexactFloat64())
	}
}

// CreateSimulation starts a fresh simulation with the configured limits,
// no positions and an empty order log.
func (s *SimulationService) CreateSimulation() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sims) >= s.opts.MaxSimulations {
		return "", domain.ErrTooManySimulations
	}

	id := uuid.New().String()
	sim := &simulation{
		ledger: ledger.New(s.ref, s.snap, s.logger.With(slog.String("simulation_id", id))),
	}
	sim.touch(s.now())
	s.sims[id] = sim
	metrics.ActiveSimulations.Inc()

	s.logger.Info("simulation created",
		slog.String("simulation_id", id),
		slog.Int("active", len(s.sims)),
	)
	return id, nil
}

// DeleteSimulation drops a simulation and everything it holds.
func (s *SimulationService) DeleteSimulation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sims[id]; !ok {
		return domain.ErrSimulationNotFound
	}
	delete(s.sims, id)
	metrics.ActiveSimulations.Dec()

	s.logger.Info("simulation deleted",
		slog.String("simulation_id", id),
		slog.Int("active", len(s.sims)),
	)
	return nil
}

// withLedger runs fn against the simulation's ledger while holding the
// simulation's lock.
func (s *SimulationService) withLedger(id string, fn func(l *ledger.CreditLedger) error) error {
	s.mu.RLock()
	sim, ok := s.sims[id]
	s.mu.RUnlock()
	if !ok {
		return domain.ErrSimulationNotFound
	}

	sim.mu.Lock()
	defer sim.mu.Unlock()
	sim.touch(s.now())
	return fn(sim.ledger)
}

// ResetSimulation clears positions and the order log of a simulation.
// Limit edits made in the simulation are kept.
func (s *SimulationService) ResetSimulation(id string) error {
	return s.withLedger(id, func(l *ledger.CreditLedger) error {
		l.ResetSimulation()
		s.logger.Info("simulation reset", slog.String("simulation_id", id))
		return nil
	})
}

// PrimeBrokers returns the loaded prime brokers.
func (s *SimulationService) PrimeBrokers() []domain.PrimeBroker {
	return s.ref.PrimeBrokers()
}

// Customers returns the loaded customers.
func (s *SimulationService) Customers() []domain.Customer {
	return s.ref.Customers()
}

// Sessions returns the loaded sessions.
func (s *SimulationService) Sessions() []domain.Session {
	return s.ref.Sessions()
}
