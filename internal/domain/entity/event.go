package entity

// EventKind discriminates run events.
type EventKind string

const (
	// EventResolved carries the resolved identity; evaluation follows.
	EventResolved EventKind = "resolved"
	// EventDisplayName carries a display name found by the background reverse lookup.
	EventDisplayName EventKind = "display_name"
	// EventCheckStarted carries the optimistic placeholder outcome of a check.
	EventCheckStarted EventKind = "check_started"
	// EventNetworkSettled carries one network's result for the current check.
	EventNetworkSettled EventKind = "network_settled"
	// EventCheckFinished carries the aggregated status of the current check.
	EventCheckFinished EventKind = "check_finished"
	// EventFailed is terminal: resolution failed and no check ran.
	EventFailed EventKind = "failed"
	// EventDone is terminal: every check in the catalog was processed.
	EventDone EventKind = "done"
)

// Event is one step of a run. Only the fields relevant to Kind are set.
type Event struct {
	Kind        EventKind         `json:"kind"`
	CheckIndex  int               `json:"checkIndex"`
	Identity    *ResolvedIdentity `json:"identity,omitempty"`
	DisplayName string            `json:"displayName,omitempty"`
	Outcome     *CheckOutcome     `json:"outcome,omitempty"`
	Network     Network           `json:"network,omitempty"`
	Result      *CheckResult      `json:"result,omitempty"`
	Status      Status            `json:"status,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// Terminal reports whether no further events follow in the run.
func (e Event) Terminal() bool {
	return e.Kind == EventDone || e.Kind == EventFailed
}
