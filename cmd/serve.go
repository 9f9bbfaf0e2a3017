package cmd

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nexus-swap/pkg/intents"
	"nexus-swap/pkg/server"
	"nexus-swap/pkg/wallet"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve wallet status, contracts and metrics over HTTP",
	Long: `Start an HTTP server exposing the contract registry, the wallet connection
and prometheus metrics. Routes under /api/protected answer 401 with a
redirect hint until a wallet is connected.

Examples:
  nexus-swap serve
  nexus-swap serve --listen :9090`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (defaults to listen_addr from config)")
}

func runServe(cmd *cobra.Command, args []string) {
	rt := mustRuntime(cmd)
	defer rt.close()

	addr := listenAddr
	if addr == "" {
		addr = rt.cfg.ListenAddr
	}

	ctx, cancel := signalContext()
	defer cancel()

	go rt.watcher.Run(ctx)

	srv := server.New(server.Config{
		Addr:          addr,
		RedirectTo:    rt.cfg.RedirectTo,
		RedirectDelay: rt.cfg.RedirectDelay,
		Wallet:        rt.watcher,
		Metrics:       rt.metrics,
		Logger:        rt.logger,
		Balances: func(ctx context.Context, status wallet.Status) (interface{}, error) {
			if status.Connector == nil {
				return nil, intents.ErrNoConnector
			}
			provider, err := status.Connector.Provider(ctx)
			if err != nil {
				return nil, err
			}
			return fetchBalances(ctx, swapPool(rt.cfg, provider.Caller()), provider, status.Address)
		},
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	color.Green("\nListening on %s (Ctrl+C to stop)\n", addr)

	select {
	case err := <-errCh:
		if err != nil {
			printError(err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			rt.logger.Error("failed to shut down http server", zap.Error(err))
		}
	}
}
