package loader

import (
	"fmt"
	"strings"

	"github.com/efreitasn/fxcredit/internal/domain"
)

// IntegrityError lists every business-rule violation found in a snapshot.
type IntegrityError struct {
	Problems []string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("invalid credit configuration (%d problems): %s",
		len(e.Problems), strings.Join(e.Problems, "; "))
}

// Validate checks the business rules a snapshot must satisfy before a
// ledger is built from it: exactly one central prime broker, unique ids,
// and references that resolve across files. It reports all problems at once.
func Validate(snap *domain.Snapshot) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	// 1. Exactly one central prime broker.
	pbs := make(map[string]domain.PrimeBroker, len(snap.PrimeBrokers))
	centrals := 0
	for _, pb := range snap.PrimeBrokers {
		if _, dup := pbs[pb.ID]; dup {
			add("duplicate prime broker id %s", pb.ID)
		}
		pbs[pb.ID] = pb
		if pb.IsCentral {
			centrals++
		}
	}
	if centrals != 1 {
		add("need exactly 1 central prime broker, found %d", centrals)
	}

	// 2. Unique customer and session ids.
	customers := make(map[string]struct{}, len(snap.Customers))
	for _, c := range snap.Customers {
		if _, dup := customers[c.ID]; dup {
			add("duplicate customer id %s", c.ID)
		}
		customers[c.ID] = struct{}{}
	}

	sessions := make(map[string]struct{}, len(snap.Sessions))
	for _, s := range snap.Sessions {
		if _, dup := sessions[s.SessionID]; dup {
			add("duplicate session id %s", s.SessionID)
		}
		sessions[s.SessionID] = struct{}{}

		// 3. Sessions reference known customers and prime brokers.
		if _, ok := customers[s.CustomerID]; !ok {
			add("session %s has unknown customer %s", s.SessionID, s.CustomerID)
		}
		if _, ok := pbs[s.PBID]; !ok {
			add("session %s has unknown prime broker %s", s.SessionID, s.PBID)
		}
	}

	// 4. Customer limits reference known entities, one row per pair.
	pairs := make(map[[2]string]struct{}, len(snap.CustomerLimits))
	for _, lim := range snap.CustomerLimits {
		if _, ok := customers[lim.CustomerID]; !ok {
			add("credit limit has unknown customer %s", lim.CustomerID)
		}
		if _, ok := pbs[lim.PBID]; !ok {
			add("credit limit for %s has unknown prime broker %s", lim.CustomerID, lim.PBID)
		}
		key := [2]string{lim.CustomerID, lim.PBID}
		if _, dup := pairs[key]; dup {
			add("duplicate credit limit %s->%s", lim.CustomerID, lim.PBID)
		}
		pairs[key] = struct{}{}
		if lim.LimitAmount.IsNegative() {
			add("credit limit %s->%s is negative", lim.CustomerID, lim.PBID)
		}
	}

	// 5. Credit lines run from a non-central prime broker to the central one.
	lines := make(map[string]struct{}, len(snap.PBCreditLines))
	for _, line := range snap.PBCreditLines {
		from, ok := pbs[line.NonCentralPBID]
		switch {
		case !ok:
			add("credit line has unknown prime broker %s", line.NonCentralPBID)
		case from.IsCentral:
			add("credit line from central prime broker %s", line.NonCentralPBID)
		}
		to, ok := pbs[line.CentralPBID]
		switch {
		case !ok:
			add("credit line for %s has unknown central prime broker %s", line.NonCentralPBID, line.CentralPBID)
		case !to.IsCentral:
			add("credit line for %s points at non-central prime broker %s", line.NonCentralPBID, line.CentralPBID)
		}
		if _, dup := lines[line.NonCentralPBID]; dup {
			add("duplicate credit line for %s", line.NonCentralPBID)
		}
		lines[line.NonCentralPBID] = struct{}{}
		if line.LimitAmount.IsNegative() {
			add("credit line for %s is negative", line.NonCentralPBID)
		}
	}

	if len(problems) > 0 {
		return &IntegrityError{Problems: problems}
	}
	return nil
}
