package domain

import "errors"

var (
	// ErrInvalidIdentity means the input is neither a valid address nor a resolvable name.
	// The message is shown to users verbatim.
	ErrInvalidIdentity = errors.New("Invalid address or name")

	// ErrNameNotFound means the name service has no address (or no name) for the query.
	ErrNameNotFound = errors.New("name not found")

	// ErrUnknownNetwork means the network is not part of the registry.
	ErrUnknownNetwork = errors.New("unknown network")

	// ErrMalformedNetworkTable means the static network table failed validation.
	ErrMalformedNetworkTable = errors.New("malformed network table")

	// ErrLookupNotFound means no lookup session exists for the given id.
	ErrLookupNotFound = errors.New("lookup not found")
)
