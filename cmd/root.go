package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nexus-swap",
	Short: "Bridge and swap ETH, USDC and PYUSD from a connected wallet",
	Long: `nexus-swap connects to your wallet over JSON-RPC and moves tokens across
chains through the NEAR Intents 1Click API, or swaps ETH, USDC and PYUSD
against the on-chain swap pool.

Commands that spend from your wallet require a connected wallet. Without one
you are shown a connect prompt and sent back here after a few seconds.

Examples:
  nexus-swap connect
  nexus-swap bridge 10 USDC to base --recipient 0x123...
  nexus-swap swap 1 ETH to USDC
  nexus-swap liquidity add --usdc 100 --pyusd 100
  nexus-swap balances
  nexus-swap contracts
  nexus-swap list-tokens --chain eth
  nexus-swap status <deposit-address>
  nexus-swap serve`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", message)
}
