package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-swap/pkg/types"
)

func TestParseBridgeCommand(t *testing.T) {
	tests := []struct {
		input   string
		want    *types.BridgeRequest
		wantErr bool
	}{
		{
			input: "10 USDC to base",
			want:  &types.BridgeRequest{Amount: "10", SourceToken: "USDC", DestToken: "USDC", DestChain: "base"},
		},
		{
			input: "bridge 0.5 ETH to arbitrum",
			want:  &types.BridgeRequest{Amount: "0.5", SourceToken: "ETH", DestToken: "ETH", DestChain: "arbitrum"},
		},
		{
			input: "  25 weth on eth to solana ",
			want:  &types.BridgeRequest{Amount: "25", SourceToken: "ETH", SourceChain: "eth", DestToken: "ETH", DestChain: "solana"},
		},
		{input: "USDC to base", wantErr: true},
		{input: "10 USDC base", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBridgeCommand(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSwapCommand(t *testing.T) {
	got, err := ParseSwapCommand("swap 1.25 usdc for pyusd")
	require.NoError(t, err)
	assert.Equal(t, &types.SwapOrder{Amount: "1.25", TokenIn: "USDC", TokenOut: "PYUSD"}, got)

	_, err = ParseSwapCommand("swap all the things")
	assert.Error(t, err)
}

func TestValidateBridgeRequest(t *testing.T) {
	req := &types.BridgeRequest{Amount: "1", SourceToken: "ETH", DestChain: "base", Recipient: "0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238"}
	assert.NoError(t, ValidateBridgeRequest(req))

	req.Recipient = "not-an-address"
	assert.Error(t, ValidateBridgeRequest(req))

	req.DestChain = ""
	assert.Error(t, ValidateBridgeRequest(req))
}
