package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"nexus-swap/config"
	"nexus-swap/pkg/client"
	"nexus-swap/pkg/types"
)

var (
	tokenChain  string
	tokenSymbol string
	nativeOnly  bool
)

var tokensCmd = &cobra.Command{
	Use:     "list-tokens",
	Aliases: []string{"tokens", "ls"},
	Short:   "List tokens the 1Click API can bridge",
	Long: `List the assets accepted by the 1Click API, grouped by chain.

Examples:
  nexus-swap list-tokens
  nexus-swap list-tokens --chain base
  nexus-swap list-tokens --symbol usd --native=false`,
	Run: runListTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVar(&tokenChain, "chain", "", "Only show tokens on this chain")
	tokensCmd.Flags().StringVar(&tokenSymbol, "symbol", "", "Only show symbols containing this text")
	tokensCmd.Flags().BoolVar(&nativeOnly, "native", false, "Only show native gas tokens")
}

func runListTokens(cmd *cobra.Command, args []string) {
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err == nil {
		err = cfg.RequireJWT()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !asJSON {
		sp.Suffix = " Loading token list..."
		sp.Start()
	}
	tokens, err := client.NewOneClickClient(cfg.JWTToken, cfg.BaseURL).Tokens(ctx)
	sp.Stop()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	tokens = filterTokens(tokens, tokenFilter{chain: tokenChain, symbol: tokenSymbol, native: nativeOnly})
	if asJSON {
		printJSON(tokens)
		return
	}
	displayTokens(tokens)
}

type tokenFilter struct {
	chain  string
	symbol string
	native bool
}

func (f tokenFilter) match(t types.TokenInfo) bool {
	switch {
	case f.chain != "" && !strings.EqualFold(t.Chain, f.chain):
		return false
	case f.symbol != "" && !strings.Contains(strings.ToUpper(t.Symbol), strings.ToUpper(f.symbol)):
		return false
	case f.native && !t.Native():
		return false
	}
	return true
}

func filterTokens(tokens []types.TokenInfo, f tokenFilter) []types.TokenInfo {
	out := tokens[:0:0]
	for _, t := range tokens {
		if f.match(t) {
			out = append(out, t)
		}
	}
	return out
}

type chainTokens struct {
	chain  string
	tokens []types.TokenInfo
}

// groupByChain returns the tokens grouped per chain, chains sorted by name.
func groupByChain(tokens []types.TokenInfo) []chainTokens {
	index := make(map[string]int)
	var groups []chainTokens
	for _, t := range tokens {
		i, ok := index[t.Chain]
		if !ok {
			i = len(groups)
			index[t.Chain] = i
			groups = append(groups, chainTokens{chain: t.Chain})
		}
		groups[i].tokens = append(groups[i].tokens, t)
	}
	sort.Slice(groups, func(a, b int) bool { return groups[a].chain < groups[b].chain })
	return groups
}

func displayTokens(tokens []types.TokenInfo) {
	if len(tokens) == 0 {
		color.Yellow("\nNo tokens match these filters.")
		return
	}

	groups := groupByChain(tokens)
	for _, g := range groups {
		color.Cyan("\n%s (%d)", strings.ToUpper(g.chain), len(g.tokens))
		for _, t := range g.tokens {
			where := "native"
			if !t.Native() {
				where = shortenAddress(t.ContractAddress)
			}
			fmt.Printf("  %-12s %-3d %s\n", color.YellowString(t.Symbol), t.Decimals, color.HiBlackString(where))
		}
	}
	fmt.Printf("\n%d tokens on %d chains\n\n", len(tokens), len(groups))
}

func shortenAddress(addr string) string {
	if len(addr) <= 42 {
		return addr
	}
	return addr[:20] + "..." + addr[len(addr)-8:]
}
