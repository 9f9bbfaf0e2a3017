package intents

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"nexus-swap/pkg/client"
	"nexus-swap/pkg/contracts"
	"nexus-swap/pkg/metrics"
	"nexus-swap/pkg/types"
	"nexus-swap/pkg/wallet"
)

// QuoteClient is the part of the 1Click API the SDK needs.
type QuoteClient interface {
	Quote(ctx context.Context, req *types.BridgeRequest) (*types.Quote, error)
	SubmitDeposit(ctx context.Context, depositAddress, txHash string) error
}

// SDKOption configures a OneClickSDK.
type SDKOption func(*OneClickSDK)

func WithSDKLogger(logger *zap.Logger) SDKOption {
	return func(s *OneClickSDK) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithSDKMetrics(m *metrics.Collectors) SDKOption {
	return func(s *OneClickSDK) { s.metrics = m }
}

// WithSpender checks ERC-20 allowances against spender instead of the quote's
// deposit address.
func WithSpender(spender common.Address) SDKOption {
	return func(s *OneClickSDK) { s.spender = &spender }
}

// OneClickSDK settles bridge intents through the 1Click API, depositing from
// the wallet provider it was initialized with.
type OneClickSDK struct {
	client  QuoteClient
	logger  *zap.Logger
	metrics *metrics.Collectors
	spender *common.Address

	mu          sync.Mutex
	provider    wallet.Provider
	onAllowance AllowanceHook
	onIntent    IntentHook
}

func NewOneClickSDK(c QuoteClient, opts ...SDKOption) *OneClickSDK {
	s := &OneClickSDK{client: c, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *OneClickSDK) IsInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider != nil
}

func (s *OneClickSDK) Initialize(ctx context.Context, provider wallet.Provider) error {
	if provider == nil {
		return ErrNoProvider
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = provider
	return nil
}

func (s *OneClickSDK) Deinit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.provider == nil {
		return ErrNotInitialized
	}
	s.provider = nil
	s.onAllowance = nil
	s.onIntent = nil
	return nil
}

func (s *OneClickSDK) SetOnAllowanceHook(hook AllowanceHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAllowance = hook
}

func (s *OneClickSDK) SetOnIntentHook(hook IntentHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onIntent = hook
}

// BridgeResult records what Bridge sent.
type BridgeResult struct {
	Quote      *types.Quote
	Account    common.Address
	ApprovalTx *common.Hash
	DepositTx  common.Hash
	// Submitted is false when the deposit went out but the API did not
	// acknowledge the hash. The bridge still completes.
	Submitted bool
}

// Bridge quotes req, asks for approval through the registered hooks and sends
// the deposit from the first wallet account.
func (s *OneClickSDK) Bridge(ctx context.Context, req types.BridgeRequest) (result *BridgeResult, err error) {
	s.mu.Lock()
	provider, onAllowance, onIntent := s.provider, s.onAllowance, s.onIntent
	s.mu.Unlock()

	if provider == nil {
		return nil, ErrNotInitialized
	}
	if onAllowance == nil || onIntent == nil {
		return nil, ErrHookNotSet
	}

	defer func() {
		if result != nil {
			s.metrics.Deposit(err)
		}
	}()

	accounts, err := provider.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}
	account := accounts[0]

	if req.RefundTo == "" {
		req.RefundTo = account.Hex()
	}

	quote, err := s.client.Quote(ctx, &req)
	if err != nil {
		return nil, err
	}
	if !common.IsHexAddress(quote.DepositAddress) {
		return nil, fmt.Errorf("deposit address %q is not an EVM address", quote.DepositAddress)
	}
	depositAddr := common.HexToAddress(quote.DepositAddress)

	result = &BridgeResult{Quote: quote, Account: account}

	if !quote.Source.Native() {
		hash, err := s.ensureAllowance(ctx, provider, onAllowance, account, depositAddr, quote)
		if err != nil {
			return result, err
		}
		result.ApprovalTx = hash
	}

	intent := Intent{
		Sources: []IntentSource{{
			Token:  quote.Source.Symbol,
			Chain:  quote.Source.Chain,
			Amount: types.FromBaseUnits(quote.AmountIn, quote.Source.Decimals),
		}},
		Total:       fmt.Sprintf("%s %s", quote.AmountOutFormatted, quote.Dest.Symbol),
		Fees:        client.FeeUSD(quote),
		Destination: Destination{Chain: quote.Dest.Chain, Recipient: req.Recipient},
	}
	if err := ConfirmIntent(ctx, onIntent, intent); err != nil {
		return result, err
	}

	var to common.Address
	var value *big.Int
	var data []byte
	if quote.Source.Native() {
		to, value = depositAddr, quote.AmountIn
	} else {
		to = common.HexToAddress(quote.Source.ContractAddress)
		if data, err = contracts.PackTransfer(depositAddr, quote.AmountIn); err != nil {
			return result, err
		}
	}

	hash, err := provider.Transact(ctx, to, value, data)
	if err != nil {
		return result, fmt.Errorf("failed to send deposit: %w", err)
	}
	result.DepositTx = hash
	s.logger.Info("deposit sent",
		zap.String("tx", hash.Hex()),
		zap.String("deposit_address", quote.DepositAddress))

	if err := s.client.SubmitDeposit(ctx, quote.DepositAddress, hash.Hex()); err != nil {
		s.logger.Warn("failed to submit deposit hash", zap.Error(err))
		return result, nil
	}
	result.Submitted = true
	return result, nil
}

func (s *OneClickSDK) ensureAllowance(ctx context.Context, provider wallet.Provider, hook AllowanceHook, owner, depositAddr common.Address, quote *types.Quote) (*common.Hash, error) {
	if !common.IsHexAddress(quote.Source.ContractAddress) {
		return nil, fmt.Errorf("token %s has no EVM contract address", quote.Source.Symbol)
	}

	spender := depositAddr
	if s.spender != nil {
		spender = *s.spender
	}

	hash, err := EnsureAllowance(ctx, provider, hook, Spend{
		Token:        quote.Source.Symbol,
		Chain:        quote.Source.Chain,
		TokenAddress: common.HexToAddress(quote.Source.ContractAddress),
		Owner:        owner,
		Spender:      spender,
		Decimals:     quote.Source.Decimals,
		Amount:       quote.AmountIn,
	})
	if err != nil {
		return nil, err
	}
	if hash != nil {
		s.logger.Info("allowance approved",
			zap.String("token", quote.Source.Symbol),
			zap.String("spender", spender.Hex()),
			zap.String("tx", hash.Hex()))
	}
	return hash, nil
}

// ConfirmIntent raises an intent request through hook and waits for it to
// resolve.
func ConfirmIntent(ctx context.Context, hook IntentHook, intent Intent) error {
	if hook == nil {
		return ErrHookNotSet
	}

	done := make(chan string, 1)
	allowed := make(chan struct{}, 1)
	req := NewIntentRequest(intent,
		func() { allowed <- struct{}{} },
		func(reason string) { done <- reason },
	)
	hook(ctx, req)

	select {
	case <-ctx.Done():
		req.Deny("context done")
		return ctx.Err()
	case <-allowed:
		return nil
	case reason := <-done:
		return fmt.Errorf("%w: %s", ErrIntentDenied, reason)
	}
}
