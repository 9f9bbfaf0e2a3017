package types

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
)

var evmChains = map[string]bool{
	"eth":       true,
	"ethereum":  true,
	"base":      true,
	"arb":       true,
	"arbitrum":  true,
	"op":        true,
	"optimism":  true,
	"polygon":   true,
	"bsc":       true,
	"avalanche": true,
	"gnosis":    true,
	"sepolia":   true,
}

// IsEVMChain reports whether addresses on chain are 20-byte hex.
func IsEVMChain(chain string) bool {
	return evmChains[strings.ToLower(chain)]
}

// ValidateDestination checks that addr is well formed for chain. Chains
// without a known address format are accepted as long as addr is non-empty.
func ValidateDestination(chain, addr string) error {
	if addr == "" {
		return fmt.Errorf("recipient address is required")
	}

	chain = strings.ToLower(chain)
	switch {
	case IsEVMChain(chain):
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("invalid %s address: %s", chain, addr)
		}
	case chain == "sol" || chain == "solana":
		if _, err := solana.PublicKeyFromBase58(addr); err != nil {
			return fmt.Errorf("invalid solana address: %w", err)
		}
	case chain == "near":
		if strings.ContainsAny(addr, " \t") || addr != strings.ToLower(addr) {
			return fmt.Errorf("invalid near account: %s", addr)
		}
	}
	return nil
}
