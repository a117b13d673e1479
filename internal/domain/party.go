package domain

// PrimeBroker provides venue access and credit to customers. Exactly one
// prime broker in a snapshot is central; every other one holds a credit
// line with it.
type PrimeBroker struct {
	ID        string
	Name      string
	IsCentral bool
}

// Customer is a trading entity that reaches the venue through sessions.
type Customer struct {
	ID   string
	Name string
}

// Session binds one customer to one prime broker. A customer may own
// several sessions, each possibly routed to a different prime broker.
type Session struct {
	SessionID  string
	CustomerID string
	PBID       string
	Protocol   string // informational, e.g. "FIX 4.4"
}

// Snapshot is the full set of typed tables produced by the configuration
// loader. A ledger assumes the snapshot is internally consistent (one
// central prime broker, unique ids, no dangling references); the loader's
// Validate enforces that before a snapshot is handed over.
type Snapshot struct {
	PrimeBrokers   []PrimeBroker
	Customers      []Customer
	Sessions       []Session
	CustomerLimits []CustomerLimit
	PBCreditLines  []PBCreditLine
}

// CentralPrimeBroker returns the central prime broker, or false if the
// snapshot has none.
func (s *Snapshot) CentralPrimeBroker() (PrimeBroker, bool) {
	for _, pb := range s.PrimeBrokers {
		if pb.IsCentral {
			return pb, true
		}
	}
	return PrimeBroker{}, false
}
