package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nexus-swap/config"
	"nexus-swap/pkg/contracts"
	"nexus-swap/pkg/gate"
	"nexus-swap/pkg/intents"
	"nexus-swap/pkg/logging"
	"nexus-swap/pkg/metrics"
	"nexus-swap/pkg/wallet"
)

var errRedirected = errors.New("wallet not connected")

// runtime bundles what every wallet-facing command needs.
type runtime struct {
	cfg       *config.Config
	logger    *zap.Logger
	metrics   *metrics.Collectors
	connector *wallet.RPCConnector
	watcher   *wallet.Watcher
}

func loadRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose && level == "" {
		level = "debug"
	}
	logger, err := logging.New(cfg.Mode, level)
	if err != nil {
		return nil, err
	}

	connector, err := wallet.NewRPCConnector(wallet.RPCConfig{
		RPCURL:     cfg.RPCURL,
		PrivateKey: cfg.PrivateKey,
	})
	if err != nil {
		return nil, err
	}

	return &runtime{
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics.New(),
		connector: connector,
		watcher: wallet.NewWatcher(connector, wallet.WatcherConfig{
			PollInterval: cfg.PollInterval,
			Logger:       logger,
		}),
	}, nil
}

func mustRuntime(cmd *cobra.Command) *runtime {
	rt, err := loadRuntime(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	return rt
}

func (rt *runtime) close() {
	rt.connector.Close()
	_ = rt.logger.Sync()
}

// swapPool binds the configured pool, falling back to the registered SWAP
// contract.
func swapPool(cfg *config.Config, caller bind.ContractCaller) *contracts.Swap {
	if cfg.SwapAddress != "" {
		return contracts.NewSwapAt(common.HexToAddress(cfg.SwapAddress), caller)
	}
	return contracts.NewSwap(caller)
}

// signalContext is cancelled on Ctrl+C.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// runGated runs children once the wallet is connected. While it is not, the
// connect prompt is shown and the gate redirects to the root help after the
// configured delay.
func runGated(ctx context.Context, rt *runtime, children func(ctx context.Context) error) error {
	status, _ := rt.watcher.Refresh(ctx)

	navigated := make(chan string, 1)
	g := gate.New(gate.Options{
		RedirectTo: rt.cfg.RedirectTo,
		Delay:      rt.cfg.RedirectDelay,
		Navigator: gate.NavigatorFunc(func(to string) {
			select {
			case navigated <- to:
			default:
			}
		}),
		Connect: rt.watcher.Connect,
		Logger:  rt.logger,
		Metrics: rt.metrics,
	})

	updates, unsubscribe := rt.watcher.Subscribe()
	defer unsubscribe()

	g.Mount(status.Connected)
	defer g.Unmount()

	view, err := g.Render(func() error { return children(ctx) })
	if view == gate.ViewProtected {
		return err
	}

	printConnectPrompt(rt.cfg)

	watchCtx, stopWatching := context.WithCancel(ctx)
	defer stopWatching()
	go rt.watcher.Run(watchCtx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s := <-updates:
			g.SetConnected(s.Connected)
			view, err := g.Render(func() error {
				stopWatching()
				color.Green("\nWallet connected: %s", s.Address.Hex())
				return children(ctx)
			})
			if view == gate.ViewProtected {
				return err
			}
		case to := <-navigated:
			navigate(to)
			return errRedirected
		}
	}
}

func printConnectPrompt(cfg *config.Config) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Yellow("                 WALLET NOT CONNECTED")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("\n  Please connect your wallet to continue.")
	fmt.Printf("  RPC endpoint:  %s\n", color.CyanString(cfg.RPCURL))
	fmt.Println("  Set NEXUS_SWAP_PRIVATE_KEY or unlock an account on your node,")
	fmt.Println("  then run: " + color.CyanString("nexus-swap connect"))
	fmt.Printf("\n  Redirecting in %s...\n", cfg.RedirectDelay)
	fmt.Println(strings.Repeat("=", 60))
}

// navigate maps a redirect target onto a command and shows its help.
func navigate(to string) {
	target := rootCmd
	if path := strings.Fields(strings.ReplaceAll(strings.Trim(to, "/"), "/", " ")); len(path) > 0 {
		if found, _, err := rootCmd.Find(path); err == nil {
			target = found
		}
	}
	fmt.Println()
	_ = target.Help()
}

// newApprover prompts when asked to or when auto approval is disabled.
func newApprover(rt *runtime, confirm bool) intents.Approver {
	if confirm || !rt.cfg.AutoApprove {
		return intents.NewPromptApprover(os.Stdin, os.Stdout)
	}
	return intents.AutoApprover{Logger: rt.logger}
}

func newLifecycle(rt *runtime, sdk intents.SDK, approver intents.Approver) *intents.Lifecycle {
	opts := []intents.Option{
		intents.WithLogger(rt.logger),
		intents.WithMetrics(rt.metrics),
	}
	if rt.cfg.ChainID != 0 {
		opts = append(opts, intents.WithExpectedChainID(big.NewInt(rt.cfg.ChainID)))
	}
	return intents.NewLifecycle(sdk, rt.watcher, approver, opts...)
}

// initHint suggests a fix for a failed SDK initialization.
func initHint(err error, cfg *config.Config) string {
	switch {
	case errors.Is(err, intents.ErrNoConnector), errors.Is(err, intents.ErrNoAccounts):
		return "Connect a wallet: set NEXUS_SWAP_PRIVATE_KEY or unlock an account on your node."
	case errors.Is(err, intents.ErrNoProvider):
		return fmt.Sprintf("Check that the RPC endpoint %s is reachable.", cfg.RPCURL)
	case errors.Is(err, intents.ErrWrongNetwork):
		return fmt.Sprintf("Switch your wallet to chain %d or update NEXUS_SWAP_CHAIN_ID.", cfg.ChainID)
	case errors.Is(err, intents.ErrSDKInit):
		return "The settlement SDK rejected the wallet. Retry with --verbose for details."
	}
	return ""
}

func printInitError(err error, cfg *config.Config) {
	printError(err)
	if hint := initHint(err, cfg); hint != "" {
		color.Yellow("  %s\n\n", hint)
	}
}

// connectedProvider returns the provider of the connected wallet.
func connectedProvider(ctx context.Context, rt *runtime) (wallet.Provider, wallet.Status, error) {
	status := rt.watcher.Status()
	if status.Connector == nil {
		return nil, status, intents.ErrNoConnector
	}
	provider, err := status.Connector.Provider(ctx)
	if err != nil {
		return nil, status, err
	}
	return provider, status, nil
}
