package types

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		amount   string
		decimals int
		want     string
		wantErr  bool
	}{
		{"10", 6, "10000000", false},
		{"0.5", 18, "500000000000000000", false},
		{".25", 6, "250000", false},
		{"1.1234567", 6, "1123456", false},
		{"0", 6, "", true},
		{"-1", 6, "", true},
		{"abc", 6, "", true},
		{"", 6, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got, err := ToBaseUnits(tt.amount, tt.decimals)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestFromBaseUnits(t *testing.T) {
	assert.Equal(t, "10", FromBaseUnits(big.NewInt(10_000_000), 6))
	assert.Equal(t, "0.000001", FromBaseUnits(big.NewInt(1), 6))
	assert.Equal(t, "1.5", FromBaseUnits(big.NewInt(1_500_000), 6))
	assert.Equal(t, "42", FromBaseUnits(big.NewInt(42), 0))
	assert.Equal(t, "0", FromBaseUnits(nil, 6))
}

func TestValidateDestination(t *testing.T) {
	tests := []struct {
		chain, addr string
		ok          bool
	}{
		{"base", "0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238", true},
		{"eth", "0x1234", false},
		{"solana", "So11111111111111111111111111111111111111112", true},
		{"sol", "0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238", false},
		{"near", "alice.near", true},
		{"near", "Alice Near", false},
		{"btc", "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh", true},
		{"base", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.chain+"/"+tt.addr, func(t *testing.T) {
			err := ValidateDestination(tt.chain, tt.addr)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
