package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	oneclick "github.com/defuse-protocol/one-click-sdk-go"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"nexus-swap/config"
	"nexus-swap/pkg/client"
	"nexus-swap/pkg/timers"
)

var (
	statusWatch    bool
	statusInterval time.Duration
)

var statusCmd = &cobra.Command{
	Use:   "status <deposit-address>",
	Short: "Show the settlement status of a bridge deposit",
	Long: `Look up a cross-chain transfer by the deposit address returned by "bridge".
With --watch the status is polled and printed whenever it changes, until the
transfer settles, fails or is refunded.

Examples:
  nexus-swap status 0x1234...abcd
  nexus-swap status 0x1234...abcd --watch --interval 10s`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "Poll until the transfer reaches a final status")
	statusCmd.Flags().DurationVar(&statusInterval, "interval", 5*time.Second, "Polling interval in watch mode")
}

func runStatus(cmd *cobra.Command, args []string) {
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err == nil {
		err = cfg.RequireJWT()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if statusWatch && asJSON {
		printError(fmt.Errorf("--watch cannot be combined with --json"))
		os.Exit(1)
	}

	api := client.NewOneClickClient(cfg.JWTToken, cfg.BaseURL)
	ctx, cancel := signalContext()
	defer cancel()

	if statusWatch {
		watchBridgeStatus(ctx, api, args[0])
		return
	}

	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !asJSON {
		sp.Suffix = " Fetching status..."
		sp.Start()
	}
	status, err := api.Status(ctx, args[0])
	sp.Stop()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if asJSON {
		printJSON(status)
		return
	}
	displayStatus(status, args[0])
}

// watchBridgeStatus polls until a final status or ctx ends. Poll errors are
// reported at most once per 30s.
func watchBridgeStatus(ctx context.Context, api *client.OneClickClient, depositAddress string) {
	color.Cyan("\nWatching %s every %s (Ctrl+C to stop)", depositAddress, statusInterval)

	reportErr := timers.Throttle(nil, 30*time.Second, func(err error) {
		color.Red("status check failed: %v", err)
	})

	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	var last string
	for {
		status, err := api.Status(ctx, depositAddress)
		switch {
		case err != nil:
			reportErr(err)
		case status.GetStatus() != last:
			last = status.GetStatus()
			displayStatus(status, depositAddress)
			if isFinalStatus(last) {
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func displayStatus(status *oneclick.GetExecutionStatusResponse, depositAddress string) {
	details := status.GetSwapDetails()

	fmt.Println()
	fmt.Printf("%s  %s\n", getColoredStatus(status.GetStatus()), color.HiBlackString(status.GetUpdatedAt().Format(time.RFC3339)))
	fmt.Printf("  deposit address  %s\n", color.CyanString(depositAddress))
	if details.HasAmountInFormatted() || details.HasAmountOutFormatted() {
		fmt.Printf("  amounts          %s in, %s out\n", orDash(details.GetAmountInFormatted()), orDash(details.GetAmountOutFormatted()))
	}
	printHashes("origin tx", details.GetOriginChainTxHashes())
	printHashes("destination tx", details.GetDestinationChainTxHashes())
}

func printHashes(label string, txs []oneclick.TransactionDetails) {
	for i := range txs {
		if h := txs[i].GetHash(); h != "" {
			fmt.Printf("  %-16s %s\n", label, color.HiBlackString(h))
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func isFinalStatus(status string) bool {
	switch strings.ToUpper(status) {
	case "SUCCESS", "COMPLETED", "FAILED", "REFUNDED":
		return true
	}
	return false
}

func getColoredStatus(status string) string {
	status = strings.ToUpper(status)
	switch status {
	case "SUCCESS", "COMPLETED":
		return color.GreenString(status)
	case "FAILED", "REFUNDED":
		return color.RedString(status)
	case "INCOMPLETE_DEPOSIT":
		return color.MagentaString(status)
	case "PENDING_DEPOSIT", "KNOWN_DEPOSIT_TX", "PENDING", "PROCESSING":
		return color.YellowString(status)
	}
	return status
}
