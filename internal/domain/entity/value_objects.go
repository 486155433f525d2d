package entity

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// RPCURL represents a typed URL for an RPC endpoint.
type RPCURL string

// NewRPCURL creates a new RPCURL instance.
func NewRPCURL(rawURL string) (RPCURL, error) {
	if strings.TrimSpace(rawURL) == "" {
		return "", fmt.Errorf("rpc url cannot be empty")
	}

	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid rpc url format '%s': %w", rawURL, err)
	}

	scheme := strings.ToLower(u.Scheme)
	switch scheme {
	case "http", "https", "ws", "wss":
	default:
		return "", fmt.Errorf("rpc url '%s' has unsupported scheme: '%s'", rawURL, scheme)
	}

	return RPCURL(rawURL), nil
}

// String returns the string representation of the RPCURL.
func (r RPCURL) String() string {
	return string(r)
}

// IsWebSocket reports whether the endpoint is reached over ws or wss.
func (r RPCURL) IsWebSocket() bool {
	lower := strings.ToLower(string(r))
	return strings.HasPrefix(lower, "ws://") || strings.HasPrefix(lower, "wss://")
}

// IsAddress reports whether s is a syntactically valid address: 40 hex digits,
// optionally behind a lowercase 0x. Mixed-case input must carry a valid EIP-55 checksum.
func IsAddress(s string) bool {
	body := strings.TrimPrefix(s, "0x")
	if len(body) != 2*common.AddressLength || !common.IsHexAddress(body) {
		return false
	}
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return true
	}
	return common.HexToAddress(body).Hex() == "0x"+body
}

// ShortAddress renders the first 8 and last 6 characters joined by an ellipsis.
func ShortAddress(address string) string {
	if address == "" {
		return ""
	}
	if len(address) <= 14 {
		return address
	}
	return address[:8] + "..." + address[len(address)-6:]
}

// ExplorerAddressURL joins an explorer base such as "https://etherscan.io/" with an address page path.
func ExplorerAddressURL(explorerBase, address string) string {
	if explorerBase == "" {
		return ""
	}
	if !strings.HasSuffix(explorerBase, "/") {
		explorerBase += "/"
	}
	return explorerBase + "address/" + address
}
