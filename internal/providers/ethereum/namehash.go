package ethereum

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Namehash computes the EIP-137 node of name. Labels are lowercased; full UTS-46 normalization is not applied.
func Namehash(name string) common.Hash {
	var node common.Hash
	if name == "" {
		return node
	}

	labels := strings.Split(strings.ToLower(name), ".")
	for i := len(labels) - 1; i >= 0; i-- {
		label := crypto.Keccak256Hash([]byte(labels[i]))
		node = crypto.Keccak256Hash(node.Bytes(), label.Bytes())
	}
	return node
}

// ReverseName returns "<hex address without 0x>.<suffix>" for reverse resolution
func ReverseName(address common.Address, suffix string) string {
	return strings.ToLower(strings.TrimPrefix(address.Hex(), "0x")) + "." + suffix
}
