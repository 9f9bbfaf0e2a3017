package parser

import (
	"fmt"
	"regexp"
	"strings"

	"nexus-swap/pkg/types"
)

var (
	bridgePattern = regexp.MustCompile(`^(\d+\.?\d*)\s+([A-Z0-9]+)(?:\s+ON\s+([A-Z0-9]+))?\s+TO\s+([A-Z0-9]+)$`)
	swapPattern   = regexp.MustCompile(`^(\d+\.?\d*)\s+([A-Z0-9]+)\s+(?:TO|FOR)\s+([A-Z0-9]+)$`)
)

// ParseBridgeCommand parses a natural language bridge command
// Examples:
//   - "10 USDC to base"
//   - "bridge 0.5 ETH to arbitrum"
//   - "25 USDC on eth to solana"
func ParseBridgeCommand(command string) (*types.BridgeRequest, error) {
	command = strings.TrimSpace(strings.ToUpper(command))
	command = strings.TrimPrefix(command, "BRIDGE ")

	matches := bridgePattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid bridge command format. Expected: 'bridge <amount> <token> to <chain>' (e.g., 'bridge 10 USDC to base')")
	}

	token := NormalizeTokenSymbol(matches[2])
	return &types.BridgeRequest{
		Amount:      matches[1],
		SourceToken: token,
		SourceChain: strings.ToLower(matches[3]),
		DestToken:   token,
		DestChain:   strings.ToLower(matches[4]),
	}, nil
}

// ParseSwapCommand parses an on-chain swap such as "swap 1 ETH to USDC"
func ParseSwapCommand(command string) (*types.SwapOrder, error) {
	command = strings.TrimSpace(strings.ToUpper(command))
	command = strings.TrimPrefix(command, "SWAP ")

	matches := swapPattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid swap command format. Expected: 'swap <amount> <token> to <token>' (e.g., 'swap 1 ETH to USDC')")
	}

	return &types.SwapOrder{
		Amount:   matches[1],
		TokenIn:  NormalizeTokenSymbol(matches[2]),
		TokenOut: NormalizeTokenSymbol(matches[3]),
	}, nil
}

// ValidateBridgeRequest validates that a bridge request has all required fields
func ValidateBridgeRequest(req *types.BridgeRequest) error {
	if req.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	if req.SourceToken == "" {
		return fmt.Errorf("source token is required")
	}
	if req.DestChain == "" {
		return fmt.Errorf("destination chain is required")
	}
	return types.ValidateDestination(req.DestChain, req.Recipient)
}

// NormalizeTokenSymbol normalizes token symbols to standard format
func NormalizeTokenSymbol(symbol string) string {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))

	aliases := map[string]string{
		"WETH":   "ETH",
		"USDC.E": "USDC",
		"PYUSD0": "PYUSD",
	}

	if normalized, exists := aliases[symbol]; exists {
		return normalized
	}

	return symbol
}
