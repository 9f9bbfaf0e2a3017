package types

import (
	"math/big"
	"time"
)

// BridgeRequest represents a user's cross-chain transfer command
type BridgeRequest struct {
	Amount      string
	SourceToken string
	SourceChain string
	DestToken   string
	DestChain   string
	Recipient   string
	RefundTo    string
	// Dry requests a quote without a deposit address
	Dry bool
}

// TokenInfo describes a token supported by the settlement network
type TokenInfo struct {
	Symbol          string
	Chain           string
	AssetID         string
	ContractAddress string
	Decimals        int
}

// Native reports whether the token is the chain's gas token.
func (t TokenInfo) Native() bool {
	return t.ContractAddress == ""
}

// Quote is a priced route with the address that receives the deposit
type Quote struct {
	Source TokenInfo
	Dest   TokenInfo

	DepositAddress string
	DepositMemo    string

	// AmountIn in the source token's smallest unit
	AmountIn           *big.Int
	AmountInFormatted  string
	AmountOutFormatted string
	AmountInUSD        string
	AmountOutUSD       string
	TimeEstimate       time.Duration
	Deadline           time.Time
}

// QuoteDisplay holds formatted quote information for display
type QuoteDisplay struct {
	SourceAmount   string
	SourceToken    string
	DestAmount     string
	DestToken      string
	Fee            string
	EstimatedTime  string
	DepositAddress string
}

// SwapOrder is an on-chain swap against the pool contract
type SwapOrder struct {
	Amount   string
	TokenIn  string
	TokenOut string
}
