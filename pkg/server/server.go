// Package server exposes contract, wallet and metrics endpoints over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nexus-swap/pkg/gate"
	"nexus-swap/pkg/metrics"
	"nexus-swap/pkg/wallet"
)

// WalletStatus reports the wallet connection.
type WalletStatus interface {
	Status() wallet.Status
	Connected() bool
}

// BalancesFunc loads balances for the connected wallet.
type BalancesFunc func(ctx context.Context, status wallet.Status) (interface{}, error)

type Config struct {
	Addr          string
	RedirectTo    string
	RedirectDelay time.Duration
	Wallet        WalletStatus
	Balances      BalancesFunc
	Metrics       *metrics.Collectors
	Logger        *zap.Logger
}

type Server struct {
	e      *echo.Echo
	addr   string
	logger *zap.Logger
}

func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(instrument(cfg.Metrics, logger))

	h := &handler{wallet: cfg.Wallet, balances: cfg.Balances, logger: logger}

	e.GET("/healthz", h.health)
	e.GET("/metrics", echo.WrapHandler(cfg.Metrics.Handler()))
	e.GET("/api/contracts", h.listContracts)
	e.GET("/api/contracts/:name", h.getContract)
	e.GET("/api/wallet", h.walletStatus)

	protected := e.Group("/api/protected", gate.Middleware(cfg.Wallet, cfg.RedirectTo, cfg.RedirectDelay))
	protected.GET("/account", h.account)
	protected.GET("/balances", h.getBalances)

	return &Server{e: e, addr: cfg.Addr, logger: logger}
}

// ServeHTTP lets the server be used as a plain handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

// Start blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) Start() error {
	s.logger.Info("starting http server", zap.String("address", s.addr))
	if err := s.e.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func instrument(m *metrics.Collectors, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			m.ObserveRequest(c.Request().Method, path, time.Since(start))
			logger.Debug("request served",
				zap.String("method", c.Request().Method),
				zap.String("path", path),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)))
			return err
		}
	}
}
