package client

import (
	"math/big"
	"testing"

	oneclick "github.com/defuse-protocol/one-click-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-swap/pkg/types"
)

func token(symbol, chain, assetID string) oneclick.TokenResponse {
	var t oneclick.TokenResponse
	t.SetSymbol(symbol)
	t.SetBlockchain(chain)
	t.SetAssetId(assetID)
	return t
}

func TestFindToken(t *testing.T) {
	tokens := []oneclick.TokenResponse{
		token("USDC", "eth", "nep141:eth-usdc"),
		token("USDC", "base", "nep141:base-usdc"),
		token("wNEAR", "near", "nep141:wrap.near"),
	}

	tests := []struct {
		name, symbol, chain string
		want                string
		wantErr             bool
	}{
		{"exact on chain", "usdc", "BASE", "nep141:base-usdc", false},
		{"first exact match", "USDC", "", "nep141:eth-usdc", false},
		{"partial match", "near", "", "nep141:wrap.near", false},
		{"missing on chain", "USDC", "solana", "", true},
		{"unknown", "DOGE", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := findToken(tokens, tt.symbol, tt.chain)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.GetAssetId())
		})
	}
}

func TestFeeUSD(t *testing.T) {
	q := &types.Quote{AmountIn: big.NewInt(1), AmountInUSD: "10.50", AmountOutUSD: "10.25"}
	assert.Equal(t, "0.25", FeeUSD(q))

	q.AmountOutUSD = ""
	assert.Equal(t, "", FeeUSD(q))
}
