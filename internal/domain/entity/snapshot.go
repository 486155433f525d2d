package entity

// RunState is the phase of a lookup run.
type RunState string

const (
	RunStateIdle      RunState = "idle"
	RunStateResolving RunState = "resolving"
	RunStateRunning   RunState = "running"
	RunStateDone      RunState = "done"
	RunStateFailed    RunState = "failed"
)

// NetworkLink is a network together with the explorer page of the resolved address.
type NetworkLink struct {
	Network     Network `json:"network"`
	ExplorerURL string  `json:"explorerUrl,omitempty"`
}

// LookupSnapshot is an immutable copy of a view model at one point in time.
type LookupSnapshot struct {
	Input            string         `json:"input"`
	Address          string         `json:"address"`
	ShortAddress     string         `json:"shortAddress"`
	DisplayName      string         `json:"displayName"`
	State            RunState       `json:"state"`
	CurrentCheck     int            `json:"currentCheck"`
	Networks         []NetworkLink  `json:"networks"`
	DetectedNetworks []Network      `json:"detectedNetworks"`
	Outcomes         []CheckOutcome `json:"outcomes"`
	Error            string         `json:"error"`
	Version          uint64         `json:"version"`
}

// Finished reports whether the run reached a terminal state.
func (s LookupSnapshot) Finished() bool {
	return s.State == RunStateDone || s.State == RunStateFailed
}
