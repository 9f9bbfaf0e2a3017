package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var connectTimeout time.Duration

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect to the configured wallet",
	Long: `Connect to the wallet behind the configured RPC endpoint and show the
active account.

Examples:
  nexus-swap connect
  NEXUS_SWAP_RPC_URL=https://sepolia.example nexus-swap connect`,
	Args: cobra.NoArgs,
	Run:  runConnect,
}

func init() {
	rootCmd.AddCommand(connectCmd)

	connectCmd.Flags().DurationVar(&connectTimeout, "timeout", 15*time.Second, "How long to wait for the wallet")
}

func runConnect(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	rt := mustRuntime(cmd)
	defer rt.close()

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Connecting to wallet..."
		s.Start()
	}

	err := rt.watcher.Connect(ctx)
	s.Stop()

	if err != nil {
		printError(err)
		printConnectPrompt(rt.cfg)
		os.Exit(1)
	}

	status := rt.watcher.Status()
	if jsonOutput {
		printJSON(map[string]interface{}{
			"connected": status.Connected,
			"address":   status.Address.Hex(),
			"chain_id":  status.ChainID.String(),
			"connector": status.Connector.ID(),
		})
		return
	}

	color.Green("\n✓ Wallet connected")
	fmt.Printf("  Account:   %s\n", color.CyanString(status.Address.Hex()))
	fmt.Printf("  Chain ID:  %s\n", status.ChainID)
	fmt.Printf("  Connector: %s\n\n", status.Connector.ID())
}
