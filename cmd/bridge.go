package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"nexus-swap/pkg/client"
	"nexus-swap/pkg/intents"
	"nexus-swap/pkg/parser"
	"nexus-swap/pkg/types"
)

var (
	fromChain     string
	toChain       string
	toToken       string
	recipientAddr string
	refundAddr    string
	confirmBridge bool
	dryRun        bool
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge <amount> <token> to <chain>",
	Short: "Send tokens to another chain from the connected wallet",
	Long: `Bridge tokens to another blockchain using NEAR Intents 1Click API.

The deposit is sent from your connected wallet. ERC-20 sources may need a
token approval first. Both the approval and the transfer are auto-approved
unless --confirm is set or auto_approve is disabled in the configuration.

Examples:
  nexus-swap bridge 10 USDC to base --recipient 0x123...
  nexus-swap bridge 0.5 ETH on eth to arbitrum --recipient 0x123...
  nexus-swap bridge 25 USDC to solana --to-token USDC --recipient <solana-addr> --confirm
  nexus-swap bridge 10 USDC to base --recipient 0x123... --dry-run`,
	Args: cobra.MinimumNArgs(1),
	Run:  runBridge,
}

func init() {
	rootCmd.AddCommand(bridgeCmd)

	bridgeCmd.Flags().StringVar(&fromChain, "from-chain", "", "Source blockchain (optional)")
	bridgeCmd.Flags().StringVar(&toChain, "to-chain", "", "Destination blockchain (overrides the command)")
	bridgeCmd.Flags().StringVar(&toToken, "to-token", "", "Token to receive (defaults to the source token)")
	bridgeCmd.Flags().StringVar(&recipientAddr, "recipient", "", "Recipient address (defaults to your wallet on EVM chains)")
	bridgeCmd.Flags().StringVar(&refundAddr, "refund-to", "", "Refund address on source chain (defaults to your wallet)")
	bridgeCmd.Flags().BoolVar(&confirmBridge, "confirm", false, "Ask before approving allowances and intents")
	bridgeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only fetch a quote")
}

func runBridge(cmd *cobra.Command, args []string) {
	req, err := parser.ParseBridgeCommand(strings.Join(args, " "))
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if fromChain != "" {
		req.SourceChain = fromChain
	}
	if toChain != "" {
		req.DestChain = toChain
	}
	if toToken != "" {
		req.DestToken = parser.NormalizeTokenSymbol(toToken)
	}
	req.Recipient = recipientAddr
	req.RefundTo = refundAddr

	jsonOutput, _ := cmd.Flags().GetBool("json")

	rt := mustRuntime(cmd)
	defer rt.close()

	if err := rt.cfg.RequireJWT(); err != nil {
		printError(err)
		os.Exit(1)
	}

	ctx, cancel := signalContext()
	defer cancel()

	err = runGated(ctx, rt, func(ctx context.Context) error {
		return executeBridge(ctx, rt, req, jsonOutput)
	})
	if err != nil {
		if !errors.Is(err, errRedirected) {
			printInitError(err, rt.cfg)
		}
		os.Exit(1)
	}
}

func executeBridge(ctx context.Context, rt *runtime, req *types.BridgeRequest, jsonOutput bool) error {
	status := rt.watcher.Status()
	if req.Recipient == "" && types.IsEVMChain(req.DestChain) {
		req.Recipient = status.Address.Hex()
	}
	if err := parser.ValidateBridgeRequest(req); err != nil {
		return err
	}

	apiClient := client.NewOneClickClient(rt.cfg.JWTToken, rt.cfg.BaseURL)

	if dryRun {
		req.Dry = true
		return showQuote(ctx, apiClient, req, jsonOutput)
	}

	var opts []intents.SDKOption
	opts = append(opts, intents.WithSDKLogger(rt.logger), intents.WithSDKMetrics(rt.metrics))
	if rt.cfg.Spender != "" {
		if !common.IsHexAddress(rt.cfg.Spender) {
			return fmt.Errorf("invalid spender address: %s", rt.cfg.Spender)
		}
		opts = append(opts, intents.WithSpender(common.HexToAddress(rt.cfg.Spender)))
	}
	sdk := intents.NewOneClickSDK(apiClient, opts...)

	lifecycle := newLifecycle(rt, sdk, newApprover(rt, confirmBridge))
	if err := lifecycle.Initialize(ctx); err != nil {
		return err
	}
	defer lifecycle.Deinitialize(context.Background())
	lifecycle.AttachEventHooks()

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput && !confirmBridge {
		s.Suffix = " Fetching quote and sending deposit..."
		s.Start()
	}

	result, err := sdk.Bridge(ctx, *req)
	s.Stop()

	if err != nil {
		if result != nil && result.Quote != nil {
			color.Yellow("\nNothing was deposited to %s", result.Quote.DepositAddress)
		}
		return err
	}

	if jsonOutput {
		output := map[string]interface{}{
			"deposit_address":   result.Quote.DepositAddress,
			"deposit_tx":        result.DepositTx.Hex(),
			"source_amount":     result.Quote.AmountInFormatted,
			"source_token":      req.SourceToken,
			"dest_amount":       result.Quote.AmountOutFormatted,
			"dest_token":        req.DestToken,
			"dest_chain":        req.DestChain,
			"time_estimate_sec": result.Quote.TimeEstimate.Seconds(),
			"submitted":         result.Submitted,
			"status":            "deposit_sent",
		}
		if result.ApprovalTx != nil {
			output["approval_tx"] = result.ApprovalTx.Hex()
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return nil
	}

	displayQuote(result.Quote, req)
	displayBridgeResult(result)
	return nil
}

func showQuote(ctx context.Context, apiClient *client.OneClickClient, req *types.BridgeRequest, jsonOutput bool) error {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching quote..."
		s.Start()
	}

	quote, err := apiClient.Quote(ctx, req)
	s.Stop()
	if err != nil {
		return err
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(quote, "", "  ")
		fmt.Println(string(jsonData))
		return nil
	}

	displayQuote(quote, req)
	return nil
}

func displayQuote(quote *types.Quote, req *types.BridgeRequest) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                     BRIDGE QUOTE")
	fmt.Println(strings.Repeat("=", 60))

	if quote.DepositAddress != "" {
		fmt.Printf("\n  Deposit Address:   %s\n", color.CyanString(quote.DepositAddress))
	}
	fmt.Printf("  From:              %s %s on %s\n", quote.AmountInFormatted, color.YellowString(quote.Source.Symbol), quote.Source.Chain)
	fmt.Printf("  To:                ~%s %s on %s\n", quote.AmountOutFormatted, color.YellowString(quote.Dest.Symbol), quote.Dest.Chain)
	if fee := client.FeeUSD(quote); fee != "" {
		fmt.Printf("  Fees:              $%s\n", fee)
	}
	fmt.Printf("  Estimated Time:    %.0f seconds\n", quote.TimeEstimate.Seconds())
	fmt.Printf("  Recipient:         %s\n", req.Recipient)

	if quote.DepositMemo != "" {
		fmt.Printf("  Memo:              %s\n", color.MagentaString(quote.DepositMemo))
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

func displayBridgeResult(result *intents.BridgeResult) {
	if result.ApprovalTx != nil {
		fmt.Printf("  Approval Tx:       %s\n", color.HiBlackString(result.ApprovalTx.Hex()))
	}
	color.Green("\n✓ Deposit sent successfully!")
	fmt.Printf("  Transaction ID: %s\n", color.CyanString(result.DepositTx.Hex()))

	if !result.Submitted {
		color.Yellow("\nThe 1Click API did not acknowledge the deposit yet. It will be picked up once confirmed.")
	}

	fmt.Println("\nYou can monitor the bridge status using:")
	color.Cyan("  nexus-swap status %s\n", result.Quote.DepositAddress)
}
