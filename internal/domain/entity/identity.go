package entity

// ResolvedIdentity is the canonical address derived from user input, plus the
// display name once a forward or reverse resolution succeeded.
type ResolvedIdentity struct {
	Address     string `json:"address"`
	DisplayName string `json:"displayName,omitempty"`
}

// Valid reports whether resolution produced an address.
func (r ResolvedIdentity) Valid() bool {
	return r.Address != ""
}
