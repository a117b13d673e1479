package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/efreitasn/fxcredit/internal/metrics"
)

// Expirer periodically drops simulations that have been idle for longer
// than the service's SimulationTTL, freeing their slots.
type Expirer struct {
	interval time.Duration
	svc      *SimulationService
}

// NewExpirer creates an Expirer that checks svc every interval.
func NewExpirer(interval time.Duration, svc *SimulationService) *Expirer {
	return &Expirer{interval: interval, svc: svc}
}

// Start launches a background goroutine that ticks at the configured
// interval and expires idle simulations. It stops when ctx is cancelled.
// A zero SimulationTTL disables expiry and Start does nothing.
func (e *Expirer) Start(ctx context.Context) {
	if e.svc.opts.SimulationTTL <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				e.tick(t)
			}
		}
	}()
}

// tick removes every simulation last used at or before now - TTL and
// returns how many it removed.
func (e *Expirer) tick(now time.Time) int {
	cutoff := now.Add(-e.svc.opts.SimulationTTL).UnixNano()

	s := e.svc
	s.mu.Lock()
	defer s.mu.Unlock()

	expired := 0
	for id, sim := range s.sims {
		if sim.lastUsed.Load() > cutoff {
			continue
		}
		delete(s.sims, id)
		metrics.ActiveSimulations.Dec()
		expired++

		s.logger.Info("simulation expired",
			slog.String("simulation_id", id),
			slog.Time("last_used", time.Unix(0, sim.lastUsed.Load()).UTC()),
		)
	}
	return expired
}

// ActiveSimulationCount returns the number of live simulations.
func (s *SimulationService) ActiveSimulationCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sims)
}
