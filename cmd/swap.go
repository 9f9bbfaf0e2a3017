package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"nexus-swap/pkg/contracts"
	"nexus-swap/pkg/intents"
	"nexus-swap/pkg/parser"
	"nexus-swap/pkg/types"
	"nexus-swap/pkg/wallet"
)

var (
	confirmSwap bool
	quoteOnly   bool
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <token> to <token>",
	Short: "Swap ETH, USDC and PYUSD against the swap pool",
	Long: `Swap between ETH, USDC and PYUSD using the on-chain swap contract.

USDC and PYUSD inputs need an allowance for the swap contract, which is
requested automatically unless --confirm is set.

Examples:
  nexus-swap swap 1 ETH to USDC
  nexus-swap swap 250 USDC to PYUSD --confirm
  nexus-swap swap 100 PYUSD for ETH --quote`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().BoolVar(&confirmSwap, "confirm", false, "Ask before approving allowances and sending the swap")
	swapCmd.Flags().BoolVar(&quoteOnly, "quote", false, "Only show the expected output")
}

func runSwap(cmd *cobra.Command, args []string) {
	order, err := parser.ParseSwapCommand(strings.Join(args, " "))
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")

	rt := mustRuntime(cmd)
	defer rt.close()

	ctx, cancel := signalContext()
	defer cancel()

	err = runGated(ctx, rt, func(ctx context.Context) error {
		return executeSwap(ctx, rt, order, jsonOutput)
	})
	if err != nil {
		if !errors.Is(err, errRedirected) {
			printError(err)
		}
		os.Exit(1)
	}
}

func executeSwap(ctx context.Context, rt *runtime, order *types.SwapOrder, jsonOutput bool) error {
	tokenIn, err := contracts.ParseAsset(order.TokenIn)
	if err != nil {
		return err
	}
	tokenOut, err := contracts.ParseAsset(order.TokenOut)
	if err != nil {
		return err
	}

	amountIn, err := types.ToBaseUnits(order.Amount, tokenIn.Decimals())
	if err != nil {
		return err
	}

	provider, status, err := connectedProvider(ctx, rt)
	if err != nil {
		return err
	}

	pool := swapPool(rt.cfg, provider.Caller())
	data, value, err := contracts.PackSwap(tokenIn, tokenOut, amountIn)
	if err != nil {
		return err
	}

	amountOut, err := pool.Quote(ctx, tokenIn, tokenOut, amountIn)
	if err != nil {
		return fmt.Errorf("failed to get pool quote: %w", err)
	}
	expected := types.FromBaseUnits(amountOut, tokenOut.Decimals())

	if quoteOnly {
		if jsonOutput {
			printJSON(map[string]interface{}{
				"token_in":   tokenIn,
				"token_out":  tokenOut,
				"amount_in":  order.Amount,
				"amount_out": expected,
			})
			return nil
		}
		fmt.Printf("\n  %s %s -> ~%s %s\n\n", order.Amount, color.YellowString(string(tokenIn)), expected, color.YellowString(string(tokenOut)))
		return nil
	}

	approver := newApprover(rt, confirmSwap)

	var approval *common.Hash
	if tokenIn != contracts.AssetETH {
		approval, err = intents.EnsureAllowance(ctx, provider, approver.OnAllowance, intents.Spend{
			Token:        string(tokenIn),
			Chain:        chainLabel(status),
			TokenAddress: tokenIn.TokenAddress(),
			Owner:        status.Address,
			Spender:      pool.Address(),
			Decimals:     tokenIn.Decimals(),
			Amount:       amountIn,
		})
		if err != nil {
			return err
		}
	}

	err = intents.ConfirmIntent(ctx, approver.OnIntent, intents.Intent{
		Sources:     []intents.IntentSource{{Token: string(tokenIn), Chain: chainLabel(status), Amount: order.Amount}},
		Total:       fmt.Sprintf("%s %s", expected, tokenOut),
		Destination: intents.Destination{Chain: chainLabel(status), Recipient: status.Address.Hex()},
	})
	if err != nil {
		return err
	}

	hash, err := sendWithSpinner(ctx, provider, pool.Address(), value, data, " Sending swap...", jsonOutput)
	if err != nil {
		return err
	}

	if jsonOutput {
		output := map[string]interface{}{
			"tx":         hash.Hex(),
			"token_in":   tokenIn,
			"token_out":  tokenOut,
			"amount_in":  order.Amount,
			"amount_out": expected,
		}
		if approval != nil {
			output["approval_tx"] = approval.Hex()
		}
		printJSON(output)
		return nil
	}

	if approval != nil {
		fmt.Printf("\n  Approval Tx:     %s\n", color.HiBlackString(approval.Hex()))
	}
	color.Green("\n✓ Swap sent: %s %s -> ~%s %s", order.Amount, tokenIn, expected, tokenOut)
	fmt.Printf("  Transaction ID: %s\n\n", color.CyanString(hash.Hex()))
	return nil
}

func sendWithSpinner(ctx context.Context, provider wallet.Provider, to common.Address, value *big.Int, data []byte, suffix string, jsonOutput bool) (common.Hash, error) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = suffix
		s.Start()
	}

	hash, err := provider.Transact(ctx, to, value, data)
	s.Stop()
	return hash, err
}

func chainLabel(status wallet.Status) string {
	if status.ChainID == nil {
		return "evm"
	}
	return "chain " + status.ChainID.String()
}

func printJSON(v interface{}) {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(jsonData))
}
