package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"nexus-swap/pkg/contracts"
	"nexus-swap/pkg/intents"
	"nexus-swap/pkg/types"
)

var (
	liquidityETH     string
	liquidityUSDC    string
	liquidityPYUSD   string
	confirmLiquidity bool
)

var liquidityCmd = &cobra.Command{
	Use:   "liquidity",
	Short: "Add or remove swap pool liquidity",
	Long: `Manage the swap contract's ETH, USDC and PYUSD reserves.

Examples:
  nexus-swap liquidity add --eth 1 --usdc 1000 --pyusd 1000
  nexus-swap liquidity remove --usdc 500`,
}

var liquidityAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Deposit ETH, USDC and PYUSD into the pool",
	Args:  cobra.NoArgs,
	Run:   runLiquidity(true),
}

var liquidityRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Withdraw ETH, USDC and PYUSD from the pool",
	Args:  cobra.NoArgs,
	Run:   runLiquidity(false),
}

func init() {
	rootCmd.AddCommand(liquidityCmd)
	liquidityCmd.AddCommand(liquidityAddCmd, liquidityRemoveCmd)

	liquidityCmd.PersistentFlags().StringVar(&liquidityETH, "eth", "0", "ETH amount")
	liquidityCmd.PersistentFlags().StringVar(&liquidityUSDC, "usdc", "0", "USDC amount")
	liquidityCmd.PersistentFlags().StringVar(&liquidityPYUSD, "pyusd", "0", "PYUSD amount")
	liquidityCmd.PersistentFlags().BoolVar(&confirmLiquidity, "confirm", false, "Ask before approving allowances")
}

// liquidityAmounts parses the flag amounts. Zero amounts are allowed.
type liquidityAmounts struct {
	eth, usdc, pyusd *big.Int
}

func parseLiquidityAmounts() (liquidityAmounts, error) {
	parse := func(amount string, asset contracts.Asset) (*big.Int, error) {
		if amount == "" || amount == "0" {
			return big.NewInt(0), nil
		}
		v, err := types.ToBaseUnits(amount, asset.Decimals())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", asset, err)
		}
		return v, nil
	}

	var out liquidityAmounts
	var err error
	if out.eth, err = parse(liquidityETH, contracts.AssetETH); err != nil {
		return out, err
	}
	if out.usdc, err = parse(liquidityUSDC, contracts.AssetUSDC); err != nil {
		return out, err
	}
	if out.pyusd, err = parse(liquidityPYUSD, contracts.AssetPYUSD); err != nil {
		return out, err
	}
	if out.eth.Sign() == 0 && out.usdc.Sign() == 0 && out.pyusd.Sign() == 0 {
		return out, fmt.Errorf("at least one of --eth, --usdc or --pyusd is required")
	}
	return out, nil
}

func runLiquidity(add bool) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		amounts, err := parseLiquidityAmounts()
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
			if add {
				return addLiquidity(ctx, rt, amounts, jsonOutput)
			}
			return removeLiquidity(ctx, rt, amounts, jsonOutput)
		})
		if err != nil {
			if !errors.Is(err, errRedirected) {
				printError(err)
			}
			os.Exit(1)
		}
	}
}

func addLiquidity(ctx context.Context, rt *runtime, amounts liquidityAmounts, jsonOutput bool) error {
	provider, status, err := connectedProvider(ctx, rt)
	if err != nil {
		return err
	}
	pool := swapPool(rt.cfg, provider.Caller())
	approver := newApprover(rt, confirmLiquidity)

	for _, leg := range []struct {
		asset  contracts.Asset
		amount *big.Int
	}{
		{contracts.AssetUSDC, amounts.usdc},
		{contracts.AssetPYUSD, amounts.pyusd},
	} {
		if leg.amount.Sign() == 0 {
			continue
		}
		hash, err := intents.EnsureAllowance(ctx, provider, approver.OnAllowance, intents.Spend{
			Token:        string(leg.asset),
			Chain:        chainLabel(status),
			TokenAddress: leg.asset.TokenAddress(),
			Owner:        status.Address,
			Spender:      pool.Address(),
			Decimals:     leg.asset.Decimals(),
			Amount:       leg.amount,
		})
		if err != nil {
			return err
		}
		if hash != nil && !jsonOutput {
			fmt.Printf("  %s approval: %s\n", leg.asset, color.HiBlackString(hash.Hex()))
		}
	}

	data, err := contracts.PackAddLiquidity(amounts.usdc, amounts.pyusd)
	if err != nil {
		return err
	}
	hash, err := sendWithSpinner(ctx, provider, pool.Address(), amounts.eth, data, " Adding liquidity...", jsonOutput)
	if err != nil {
		return err
	}
	return reportLiquidity("added", hash, amounts, jsonOutput)
}

func removeLiquidity(ctx context.Context, rt *runtime, amounts liquidityAmounts, jsonOutput bool) error {
	provider, _, err := connectedProvider(ctx, rt)
	if err != nil {
		return err
	}
	pool := swapPool(rt.cfg, provider.Caller())

	data, err := contracts.PackRemoveLiquidity(amounts.eth, amounts.usdc, amounts.pyusd)
	if err != nil {
		return err
	}
	hash, err := sendWithSpinner(ctx, provider, pool.Address(), nil, data, " Removing liquidity...", jsonOutput)
	if err != nil {
		return err
	}
	return reportLiquidity("removed", hash, amounts, jsonOutput)
}

func reportLiquidity(action string, hash common.Hash, amounts liquidityAmounts, jsonOutput bool) error {
	if jsonOutput {
		printJSON(map[string]interface{}{
			"action": action,
			"tx":     hash.Hex(),
			"eth":    types.FromBaseUnits(amounts.eth, contracts.AssetETH.Decimals()),
			"usdc":   types.FromBaseUnits(amounts.usdc, contracts.AssetUSDC.Decimals()),
			"pyusd":  types.FromBaseUnits(amounts.pyusd, contracts.AssetPYUSD.Decimals()),
		})
		return nil
	}

	printSuccess(color.GreenString("✓ Liquidity %s", action) + "\n  Transaction ID: " + color.CyanString(hash.Hex()))
	return nil
}
