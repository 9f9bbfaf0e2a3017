package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"nexus-swap/pkg/contracts"
)

var contractsCmd = &cobra.Command{
	Use:   "contracts [name]",
	Short: "Show contract addresses and ABI signatures",
	Long: `Show the registered SWAP, USDC and PYUSD contracts.

Examples:
  nexus-swap contracts
  nexus-swap contracts swap`,
	Args: cobra.MaximumNArgs(1),
	Run:  runContracts,
}

func init() {
	rootCmd.AddCommand(contractsCmd)
}

// contractView is the JSON form of a registry entry.
type contractView struct {
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Signatures []string `json:"signatures"`
}

func runContracts(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	names := contracts.Names()
	if len(args) == 1 {
		d, err := contracts.Lookup(args[0])
		if err != nil {
			printError(err)
			os.Exit(1)
		}
		names = []contracts.Name{d.Name}
	}

	views := make([]contractView, 0, len(names))
	for _, name := range names {
		d, err := contracts.Lookup(string(name))
		if err != nil {
			printError(err)
			os.Exit(1)
		}
		views = append(views, contractView{
			Name:       string(d.Name),
			Address:    d.Address.Hex(),
			Signatures: d.Signatures(),
		})
	}

	if jsonOutput {
		printJSON(views)
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("                              CONTRACTS")
	fmt.Println(strings.Repeat("=", 90))

	for _, v := range views {
		color.Cyan("\n%s  %s", v.Name, v.Address)
		fmt.Println(strings.Repeat("-", 90))
		for _, sig := range v.Signatures {
			fmt.Printf("  %s\n", color.HiBlackString(sig))
		}
	}
	fmt.Println()
}
