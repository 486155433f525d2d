package ens

import (
	"fmt"
	"strings"

	"address-inspector/internal/pkg/apperrors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// reverseSuffix is the parent node of reverse records.
const reverseSuffix = "addr.reverse"

// Normalize lowercases and trims a name and rejects empty labels.
// Full UTS-46 normalization is not applied.
func Normalize(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", fmt.Errorf("%w: empty name", apperrors.ErrInvalidInput)
	}
	for _, label := range strings.Split(name, ".") {
		if label == "" {
			return "", fmt.Errorf("%w: name %q has an empty label", apperrors.ErrInvalidInput, name)
		}
	}
	return name, nil
}

// Namehash computes the EIP-137 node of a normalized name.
func Namehash(name string) common.Hash {
	var node common.Hash
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := crypto.Keccak256([]byte(labels[i]))
		node = common.BytesToHash(crypto.Keccak256(node.Bytes(), labelHash))
	}
	return node
}

// ReverseNode returns the node holding the reverse record of address.
func ReverseNode(address common.Address) common.Hash {
	hexAddr := strings.ToLower(strings.TrimPrefix(address.Hex(), "0x"))
	return Namehash(hexAddr + "." + reverseSuffix)
}
