package intents

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"nexus-swap/pkg/metrics"
	"nexus-swap/pkg/wallet"
)

// ConnectorSource reports the active wallet connector, nil when none.
type ConnectorSource interface {
	Connector() wallet.Connector
}

// Handle describes the initialized SDK. Provider is borrowed from the
// wallet connector and never closed here.
type Handle struct {
	Initialized bool
	Provider    wallet.Provider
	Account     common.Address
}

// Option configures a Lifecycle.
type Option func(*Lifecycle)

func WithLogger(logger *zap.Logger) Option {
	return func(l *Lifecycle) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Collectors) Option {
	return func(l *Lifecycle) { l.metrics = m }
}

// WithExpectedChainID makes Initialize reject providers on another chain.
func WithExpectedChainID(id *big.Int) Option {
	return func(l *Lifecycle) { l.chainID = id }
}

// Lifecycle initializes the SDK against the connected wallet and routes its
// approval callbacks to an Approver. Callers serialize Initialize and
// Deinitialize.
type Lifecycle struct {
	sdk      SDK
	wallet   ConnectorSource
	approver Approver
	logger   *zap.Logger
	metrics  *metrics.Collectors
	chainID  *big.Int

	mu            sync.Mutex
	handle        Handle
	lastAllowance *AllowanceRequest
	lastIntent    *IntentRequest
}

// NewLifecycle uses AutoApprover when approver is nil.
func NewLifecycle(sdk SDK, source ConnectorSource, approver Approver, opts ...Option) *Lifecycle {
	l := &Lifecycle{
		sdk:    sdk,
		wallet: source,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if approver == nil {
		approver = AutoApprover{Logger: l.logger}
	}
	l.approver = approver
	return l
}

// Initialize binds the SDK to the connected wallet. An SDK that reports
// itself initialized is adopted as is.
func (l *Lifecycle) Initialize(ctx context.Context) (err error) {
	defer func() { l.metrics.Lifecycle("initialize", err) }()

	if l.sdk.IsInitialized() {
		l.logger.Debug("intent sdk already initialized")
		l.setHandle(Handle{Initialized: true})
		return nil
	}

	var connector wallet.Connector
	if l.wallet != nil {
		connector = l.wallet.Connector()
	}
	if connector == nil {
		return ErrNoConnector
	}

	provider, err := connector.Provider(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoProvider, err)
	}
	if provider == nil {
		return ErrNoProvider
	}

	accounts, err := provider.Accounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to get accounts: %w", err)
	}
	if len(accounts) == 0 {
		return ErrNoAccounts
	}

	if l.chainID != nil {
		id, err := provider.ChainID(ctx)
		if err != nil {
			return fmt.Errorf("failed to get chain id: %w", err)
		}
		if id.Cmp(l.chainID) != 0 {
			return fmt.Errorf("%w: connected to chain %s, expected %s", ErrWrongNetwork, id, l.chainID)
		}
	}

	l.logger.Debug("initializing intent sdk",
		zap.String("connector", connector.ID()),
		zap.String("account", accounts[0].Hex()))

	if err := l.sdk.Initialize(ctx, provider); err != nil {
		return &SDKInitError{Err: err}
	}

	l.setHandle(Handle{Initialized: true, Provider: provider, Account: accounts[0]})
	l.logger.Info("intent sdk initialized", zap.String("account", accounts[0].Hex()))
	return nil
}

// Deinitialize releases the SDK when it reports itself initialized, whoever
// initialized it. Failures are logged and the handle is cleared regardless.
func (l *Lifecycle) Deinitialize(ctx context.Context) {
	if !l.sdk.IsInitialized() {
		l.setHandle(Handle{})
		return
	}

	err := l.sdk.Deinit(ctx)
	if err != nil {
		l.logger.Error("failed to deinitialize intent sdk", zap.Error(&SDKDeinitError{Err: err}))
	}
	l.metrics.Lifecycle("deinitialize", err)

	l.setHandle(Handle{})
}

// AttachEventHooks registers the allowance and intent hooks. It does nothing
// while the SDK reports itself uninitialized.
func (l *Lifecycle) AttachEventHooks() {
	if !l.sdk.IsInitialized() {
		l.logger.Warn("intent sdk not initialized, skipping hook registration")
		return
	}

	l.sdk.SetOnAllowanceHook(func(ctx context.Context, req *AllowanceRequest) {
		l.mu.Lock()
		l.lastAllowance = req
		l.mu.Unlock()

		l.approver.OnAllowance(ctx, req)
		l.metrics.Approval("allowance", req.Decision())
	})

	l.sdk.SetOnIntentHook(func(ctx context.Context, req *IntentRequest) {
		l.mu.Lock()
		l.lastIntent = req
		l.mu.Unlock()

		l.approver.OnIntent(ctx, req)
		l.metrics.Approval("intent", req.Decision())
	})
}

func (l *Lifecycle) setHandle(h Handle) {
	l.mu.Lock()
	l.handle = h
	l.mu.Unlock()
	l.metrics.SetInitialized(h.Initialized)
}

func (l *Lifecycle) Handle() Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.handle
}

func (l *Lifecycle) IsInitialized() bool {
	return l.Handle().Initialized
}

// LastAllowance returns the most recent allowance request, or nil.
func (l *Lifecycle) LastAllowance() *AllowanceRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastAllowance
}

// LastIntent returns the most recent intent request, or nil.
func (l *Lifecycle) LastIntent() *IntentRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastIntent
}
