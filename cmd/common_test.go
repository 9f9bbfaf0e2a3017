package cmd

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-swap/config"
	"nexus-swap/pkg/contracts"
	"nexus-swap/pkg/wallet/wallettest"
)

func TestSwapPoolHonorsOverride(t *testing.T) {
	caller := wallettest.NewProvider().Caller()

	registered, err := contracts.Address("SWAP")
	require.NoError(t, err)
	assert.Equal(t, registered, swapPool(&config.Config{}, caller).Address())

	override := "0x00000000000000000000000000000000000000aa"
	assert.Equal(t, common.HexToAddress(override), swapPool(&config.Config{SwapAddress: override}, caller).Address())
}
