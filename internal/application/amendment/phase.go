package amendment

// Phase is a state of the amendment state machine
type Phase string

const (
	PhaseIdle            Phase = "IDLE"
	PhaseValidating      Phase = "VALIDATING"
	PhaseCutoffChecked   Phase = "CUTOFF_CHECKED"
	PhaseArchivingBefore Phase = "ARCHIVING_BEFORE"
	PhaseMutating        Phase = "MUTATING"
	PhaseRouteUnchanged  Phase = "ROUTE_UNCHANGED"
	PhasePurging         Phase = "PURGING"
	PhaseResolving       Phase = "RESOLVING"
	PhaseCalculating     Phase = "CALCULATING"
	PhaseSurcharging     Phase = "SURCHARGING"
	PhaseFeeGuarding     Phase = "FEE_GUARDING"
	PhaseAggregating     Phase = "AGGREGATING"
	PhaseArchivingAfter  Phase = "ARCHIVING_AFTER"
	PhaseCommitted       Phase = "COMMITTED"
	PhaseRolledBack      Phase = "ROLLED_BACK"
	PhaseRejected        Phase = "REJECTED"
)

// String returns the string representation of Phase
func (p Phase) String() string {
	return string(p)
}

// IsTerminal reports whether the amendment has finished in this phase
func (p Phase) IsTerminal() bool {
	switch p {
	case PhaseCommitted, PhaseRolledBack, PhaseRejected:
		return true
	}
	return false
}

// InTransaction reports whether the phase runs inside the unit of work
func (p Phase) InTransaction() bool {
	switch p {
	case PhaseArchivingBefore, PhaseMutating, PhaseRouteUnchanged, PhasePurging, PhaseResolving,
		PhaseCalculating, PhaseSurcharging, PhaseFeeGuarding, PhaseAggregating, PhaseArchivingAfter:
		return true
	}
	return false
}

// phaseTracker records the phase an amendment has reached
type phaseTracker struct {
	current Phase
	history []Phase
	onEnter func(Phase)
}

func newPhaseTracker(onEnter func(Phase)) *phaseTracker {
	return &phaseTracker{current: PhaseIdle, history: []Phase{PhaseIdle}, onEnter: onEnter}
}

func (t *phaseTracker) enter(p Phase) {
	t.current = p
	t.history = append(t.history, p)
	if t.onEnter != nil {
		t.onEnter(p)
	}
}
