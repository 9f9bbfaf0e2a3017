package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"nexus-swap/pkg/contracts"
	"nexus-swap/pkg/types"
	"nexus-swap/pkg/wallet"
)

var balancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Show wallet balances and swap pool reserves",
	Long: `Show the connected wallet's ETH, USDC and PYUSD balances together with
the swap contract's reserves.

Examples:
  nexus-swap balances
  nexus-swap balances --json`,
	Args: cobra.NoArgs,
	Run:  runBalances,
}

func init() {
	rootCmd.AddCommand(balancesCmd)
}

// Balances is the wallet and pool snapshot shown by the balances command.
type Balances struct {
	Account string            `json:"account"`
	Wallet  map[string]string `json:"wallet"`
	Pool    map[string]string `json:"pool"`
}

func runBalances(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	rt := mustRuntime(cmd)
	defer rt.close()

	ctx, cancel := signalContext()
	defer cancel()

	err := runGated(ctx, rt, func(ctx context.Context) error {
		provider, status, err := connectedProvider(ctx, rt)
		if err != nil {
			return err
		}

		balances, err := fetchBalances(ctx, swapPool(rt.cfg, provider.Caller()), provider, status.Address)
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(balances)
		} else {
			displayBalances(balances)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, errRedirected) {
			printError(err)
		}
		os.Exit(1)
	}
}

func fetchBalances(ctx context.Context, pool *contracts.Swap, provider wallet.Provider, account common.Address) (*Balances, error) {
	var eth hexutil.Big
	if err := provider.Request(ctx, &eth, "eth_getBalance", account, "latest"); err != nil {
		return nil, fmt.Errorf("failed to get ETH balance: %w", err)
	}

	out := &Balances{
		Account: account.Hex(),
		Wallet: map[string]string{
			string(contracts.AssetETH): types.FromBaseUnits((*big.Int)(&eth), contracts.AssetETH.Decimals()),
		},
		Pool: map[string]string{},
	}

	for _, asset := range []contracts.Asset{contracts.AssetUSDC, contracts.AssetPYUSD} {
		token, err := contracts.NewRegisteredERC20(string(asset), provider.Caller())
		if err != nil {
			return nil, err
		}
		balance, err := token.BalanceOf(ctx, account)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s balance: %w", asset, err)
		}
		out.Wallet[string(asset)] = types.FromBaseUnits(balance, asset.Decimals())
	}

	reserves, err := pool.Reserves(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool reserves: %w", err)
	}
	out.Pool[string(contracts.AssetETH)] = types.FromBaseUnits(reserves.ETH, contracts.AssetETH.Decimals())
	out.Pool[string(contracts.AssetUSDC)] = types.FromBaseUnits(reserves.USDC, contracts.AssetUSDC.Decimals())
	out.Pool[string(contracts.AssetPYUSD)] = types.FromBaseUnits(reserves.PYUSD, contracts.AssetPYUSD.Decimals())

	return out, nil
}

func displayBalances(b *Balances) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                       BALANCES")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("\n  Account: %s\n", color.CyanString(b.Account))

	assets := []contracts.Asset{contracts.AssetETH, contracts.AssetUSDC, contracts.AssetPYUSD}

	color.Cyan("\nWALLET")
	fmt.Println(strings.Repeat("-", 60))
	for _, asset := range assets {
		fmt.Printf("  %-16s  %s\n", color.YellowString(string(asset)), b.Wallet[string(asset)])
	}

	color.Cyan("\nSWAP POOL")
	fmt.Println(strings.Repeat("-", 60))
	for _, asset := range assets {
		fmt.Printf("  %-16s  %s\n", color.YellowString(string(asset)), b.Pool[string(asset)])
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}
