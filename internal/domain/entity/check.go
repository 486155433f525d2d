package entity

// Status is the outcome of a check, either on one network or aggregated.
type Status string

// Known statuses.
const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusWarning Status = "warning"
)

// StatusStrategy selects how per-network results are folded into one status.
type StatusStrategy string

const (
	// StrategyAll requires every network to succeed. It is the default.
	StrategyAll StatusStrategy = "all"
	// StrategyAny requires at least one network to succeed.
	StrategyAny StatusStrategy = "any"
)

// Metadata is check-specific data attached to a successful result.
type Metadata map[string]any

// CheckResult is the outcome of one check on one network.
type CheckResult struct {
	Status   Status   `json:"status"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// Success builds a successful result carrying optional metadata.
func Success(metadata Metadata) CheckResult {
	return CheckResult{Status: StatusSuccess, Metadata: metadata}
}

// Failure builds an error result.
func Failure() CheckResult {
	return CheckResult{Status: StatusError}
}

// HasMetadata reports whether the result carries any metadata.
func (r CheckResult) HasMetadata() bool {
	return len(r.Metadata) > 0
}

// Aggregate folds per-network results into one status. Warning counts as not-success.
// An unknown or empty strategy behaves as StrategyAll.
func Aggregate(strategy StatusStrategy, results []CheckResult) Status {
	if strategy == StrategyAny {
		for _, r := range results {
			if r.Status == StatusSuccess {
				return StatusSuccess
			}
		}
		return StatusError
	}

	for _, r := range results {
		if r.Status != StatusSuccess {
			return StatusError
		}
	}
	return StatusSuccess
}

// CheckOutcome is the aggregated state of one check across all networks.
type CheckOutcome struct {
	Description    string                  `json:"description"`
	Strategy       StatusStrategy          `json:"strategy"`
	NetworkResults map[Network]CheckResult `json:"networkResults"`
	Status         Status                  `json:"status"`
	Loading        bool                    `json:"loading"`
}

// NewPlaceholderOutcome builds the optimistic outcome published when a check starts:
// every network preset to success and loading set.
func NewPlaceholderOutcome(description string, strategy StatusStrategy, networks []Network) CheckOutcome {
	results := make(map[Network]CheckResult, len(networks))
	for _, n := range networks {
		results[n] = CheckResult{Status: StatusSuccess}
	}
	return CheckOutcome{
		Description:    description,
		Strategy:       strategy,
		NetworkResults: results,
		Status:         StatusSuccess,
		Loading:        true,
	}
}

// Clone returns a deep copy of the outcome's result map so snapshots never alias live state.
func (o CheckOutcome) Clone() CheckOutcome {
	cp := o
	cp.NetworkResults = make(map[Network]CheckResult, len(o.NetworkResults))
	for n, r := range o.NetworkResults {
		cp.NetworkResults[n] = r
	}
	return cp
}
