package intents_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-swap/pkg/intents"
	"nexus-swap/pkg/types"
	"nexus-swap/pkg/wallet/wallettest"
)

var (
	depositAddr = common.HexToAddress("0x00000000000000000000000000000000000de905")
	usdcAddr    = common.HexToAddress("0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238")
)

type fakeQuotes struct {
	quote     *types.Quote
	requests  []types.BridgeRequest
	submitted []string
	submitErr error
}

func (f *fakeQuotes) Quote(ctx context.Context, req *types.BridgeRequest) (*types.Quote, error) {
	f.requests = append(f.requests, *req)
	return f.quote, nil
}

func (f *fakeQuotes) SubmitDeposit(ctx context.Context, depositAddress, txHash string) error {
	f.submitted = append(f.submitted, txHash)
	return f.submitErr
}

// allowanceCaller answers every eth_call with a fixed uint256.
type allowanceCaller struct {
	value *big.Int
}

func (c allowanceCaller) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x60}, nil
}

func (c allowanceCaller) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	return common.LeftPadBytes(c.value.Bytes(), 32), nil
}

func nativeQuote() *types.Quote {
	return &types.Quote{
		Source:             types.TokenInfo{Symbol: "ETH", Chain: "eth", Decimals: 18},
		Dest:               types.TokenInfo{Symbol: "ETH", Chain: "base", Decimals: 18},
		DepositAddress:     depositAddr.Hex(),
		AmountIn:           big.NewInt(500_000_000_000_000_000),
		AmountOutFormatted: "0.499",
		AmountInUSD:        "1500.00",
		AmountOutUSD:       "1497.00",
	}
}

func usdcQuote() *types.Quote {
	return &types.Quote{
		Source:             types.TokenInfo{Symbol: "USDC", Chain: "eth", Decimals: 6, ContractAddress: usdcAddr.Hex()},
		Dest:               types.TokenInfo{Symbol: "USDC", Chain: "base", Decimals: 6},
		DepositAddress:     depositAddr.Hex(),
		AmountIn:           big.NewInt(10_000_000),
		AmountOutFormatted: "9.98",
	}
}

func bridgeRequest() types.BridgeRequest {
	return types.BridgeRequest{Amount: "0.5", SourceToken: "ETH", DestChain: "base", Recipient: alice.Hex()}
}

func initializedSDK(t *testing.T, quote *types.Quote, provider *wallettest.FakeProvider, approver intents.Approver) (*intents.OneClickSDK, *fakeQuotes) {
	t.Helper()
	quotes := &fakeQuotes{quote: quote}
	sdk := intents.NewOneClickSDK(quotes)
	l := intents.NewLifecycle(sdk, connectorSource{&wallettest.FakeConnector{Prov: provider}}, approver)
	require.NoError(t, l.Initialize(context.Background()))
	l.AttachEventHooks()
	return sdk, quotes
}

func TestBridgeNativeDeposit(t *testing.T) {
	provider := wallettest.NewProvider(alice)
	sdk, quotes := initializedSDK(t, nativeQuote(), provider, nil)

	result, err := sdk.Bridge(context.Background(), bridgeRequest())
	require.NoError(t, err)

	sent := provider.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, depositAddr, sent[0].To)
	assert.Equal(t, nativeQuote().AmountIn, sent[0].Value)
	assert.Empty(t, sent[0].Data)

	assert.Nil(t, result.ApprovalTx)
	assert.Equal(t, sent[0].Hash, result.DepositTx)
	assert.True(t, result.Submitted)
	assert.Equal(t, []string{sent[0].Hash.Hex()}, quotes.submitted)
	assert.Equal(t, alice.Hex(), quotes.requests[0].RefundTo)
}

func TestBridgeERC20RequestsAllowance(t *testing.T) {
	provider := wallettest.NewProvider(alice)
	provider.Contracts = allowanceCaller{value: big.NewInt(0)}
	sdk, _ := initializedSDK(t, usdcQuote(), provider, nil)

	result, err := sdk.Bridge(context.Background(), bridgeRequest())
	require.NoError(t, err)

	sent := provider.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, usdcAddr, sent[0].To)
	assert.Equal(t, "095ea7b3", common.Bytes2Hex(sent[0].Data[:4]))
	assert.Equal(t, usdcAddr, sent[1].To)
	assert.Equal(t, "a9059cbb", common.Bytes2Hex(sent[1].Data[:4]))

	require.NotNil(t, result.ApprovalTx)
	assert.Equal(t, sent[0].Hash, *result.ApprovalTx)
}

func TestBridgeERC20SkipsApprovalWhenAllowanceSuffices(t *testing.T) {
	provider := wallettest.NewProvider(alice)
	provider.Contracts = allowanceCaller{value: big.NewInt(10_000_000)}
	sdk, _ := initializedSDK(t, usdcQuote(), provider, nil)

	result, err := sdk.Bridge(context.Background(), bridgeRequest())
	require.NoError(t, err)
	assert.Nil(t, result.ApprovalTx)
	assert.Len(t, provider.Sent(), 1)
}

// denyAll rejects everything.
type denyAll struct{}

func (denyAll) OnAllowance(ctx context.Context, req *intents.AllowanceRequest) { req.Deny("no") }
func (denyAll) OnIntent(ctx context.Context, req *intents.IntentRequest)       { req.Deny("no") }

func TestBridgeDenied(t *testing.T) {
	provider := wallettest.NewProvider(alice)
	sdk, _ := initializedSDK(t, nativeQuote(), provider, denyAll{})

	_, err := sdk.Bridge(context.Background(), bridgeRequest())
	require.ErrorIs(t, err, intents.ErrIntentDenied)
	assert.Empty(t, provider.Sent())

	provider.Contracts = allowanceCaller{value: big.NewInt(0)}
	sdk, _ = initializedSDK(t, usdcQuote(), provider, denyAll{})

	_, err = sdk.Bridge(context.Background(), bridgeRequest())
	require.ErrorIs(t, err, intents.ErrAllowanceDenied)
	assert.Empty(t, provider.Sent())
}

// neverDecides leaves every request pending.
type neverDecides struct{}

func (neverDecides) OnAllowance(ctx context.Context, req *intents.AllowanceRequest) {}
func (neverDecides) OnIntent(ctx context.Context, req *intents.IntentRequest)       {}

func TestBridgeStopsWithContext(t *testing.T) {
	provider := wallettest.NewProvider(alice)
	sdk, _ := initializedSDK(t, nativeQuote(), provider, neverDecides{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := sdk.Bridge(ctx, bridgeRequest())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, provider.Sent())
}

func TestBridgePreconditions(t *testing.T) {
	sdk := intents.NewOneClickSDK(&fakeQuotes{quote: nativeQuote()})

	_, err := sdk.Bridge(context.Background(), bridgeRequest())
	assert.ErrorIs(t, err, intents.ErrNotInitialized)

	require.NoError(t, sdk.Initialize(context.Background(), wallettest.NewProvider(alice)))
	_, err = sdk.Bridge(context.Background(), bridgeRequest())
	assert.ErrorIs(t, err, intents.ErrHookNotSet)

	require.NoError(t, sdk.Deinit(context.Background()))
	assert.False(t, sdk.IsInitialized())
	assert.ErrorIs(t, sdk.Deinit(context.Background()), intents.ErrNotInitialized)
}

func TestBridgeKeepsResultWhenSubmitFails(t *testing.T) {
	provider := wallettest.NewProvider(alice)
	quotes := &fakeQuotes{quote: nativeQuote(), submitErr: errors.New("unavailable")}
	sdk := intents.NewOneClickSDK(quotes)
	l := intents.NewLifecycle(sdk, connectorSource{&wallettest.FakeConnector{Prov: provider}}, nil)
	require.NoError(t, l.Initialize(context.Background()))
	l.AttachEventHooks()

	result, err := sdk.Bridge(context.Background(), bridgeRequest())
	require.NoError(t, err)
	assert.False(t, result.Submitted)
	assert.Len(t, provider.Sent(), 1)
	assert.Equal(t, "3.00", l.LastIntent().Fees)
}

func TestLevelAmount(t *testing.T) {
	src := intents.AllowanceSource{Decimals: 6, Required: big.NewInt(10_000_000)}

	tests := []struct {
		level   intents.AllowanceLevel
		want    string
		wantErr bool
	}{
		{intents.AllowanceMin, "10000000", false},
		{intents.AllowanceMax, "115792089237316195423570985008687907853269984665640564039457584007913129639935", false},
		{"25", "25000000", false},
		{"5", "", true},
		{"lots", "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			got, err := intents.LevelAmount(tt.level, src)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
