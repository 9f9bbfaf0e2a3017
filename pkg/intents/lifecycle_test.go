package intents_test

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-swap/pkg/intents"
	"nexus-swap/pkg/wallet"
	"nexus-swap/pkg/wallet/wallettest"
)

var alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")

type fakeSDK struct {
	mu          sync.Mutex
	initialized bool
	initErr     error
	deinitErr   error
	initCalls   int
	deinitCalls int
	provider    wallet.Provider
	onAllowance intents.AllowanceHook
	onIntent    intents.IntentHook
}

func (f *fakeSDK) IsInitialized() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.initialized
}

func (f *fakeSDK) Initialize(ctx context.Context, p wallet.Provider) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initCalls++
	if f.initErr != nil {
		return f.initErr
	}
	f.initialized = true
	f.provider = p
	return nil
}

func (f *fakeSDK) Deinit(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deinitCalls++
	f.initialized = false
	return f.deinitErr
}

func (f *fakeSDK) SetOnAllowanceHook(h intents.AllowanceHook) { f.onAllowance = h }
func (f *fakeSDK) SetOnIntentHook(h intents.IntentHook)       { f.onIntent = h }

// connectorSource reports a fixed connector.
type connectorSource struct {
	c wallet.Connector
}

func (s connectorSource) Connector() wallet.Connector { return s.c }

func TestInitialize(t *testing.T) {
	sdk := &fakeSDK{}
	provider := wallettest.NewProvider(alice)
	connector := &wallettest.FakeConnector{Prov: provider}

	l := intents.NewLifecycle(sdk, connectorSource{connector}, nil)
	require.NoError(t, l.Initialize(context.Background()))

	assert.Equal(t, 1, sdk.initCalls)
	assert.Same(t, provider, sdk.provider)

	h := l.Handle()
	assert.True(t, h.Initialized)
	assert.Equal(t, alice, h.Account)
	assert.Same(t, provider, h.Provider)
}

func TestInitializeAdoptsInitializedSDK(t *testing.T) {
	sdk := &fakeSDK{initialized: true}
	connector := &wallettest.FakeConnector{Prov: wallettest.NewProvider(alice)}

	l := intents.NewLifecycle(sdk, connectorSource{connector}, nil)
	require.NoError(t, l.Initialize(context.Background()))

	assert.Zero(t, sdk.initCalls)
	assert.Zero(t, connector.Calls())
	assert.True(t, l.IsInitialized())
}

func TestInitializeFailures(t *testing.T) {
	boom := errors.New("boom")
	onChain5 := wallettest.NewProvider(alice)
	onChain5.Chain = big.NewInt(5)

	tests := []struct {
		name      string
		connector wallet.Connector
		sdkErr    error
		want      error
		sdkCalls  int
	}{
		{"no connector", nil, nil, intents.ErrNoConnector, 0},
		{"connector error", &wallettest.FakeConnector{Err: boom}, nil, intents.ErrNoProvider, 0},
		{"nil provider", &wallettest.FakeConnector{}, nil, intents.ErrNoProvider, 0},
		{"zero accounts", &wallettest.FakeConnector{Prov: wallettest.NewProvider()}, nil, intents.ErrNoAccounts, 0},
		{"wrong network", &wallettest.FakeConnector{Prov: onChain5}, nil, intents.ErrWrongNetwork, 0},
		{"sdk failure", &wallettest.FakeConnector{Prov: wallettest.NewProvider(alice)}, boom, intents.ErrSDKInit, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sdk := &fakeSDK{initErr: tt.sdkErr}
			l := intents.NewLifecycle(sdk, connectorSource{tt.connector}, nil,
				intents.WithExpectedChainID(big.NewInt(1)))

			err := l.Initialize(context.Background())
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.sdkCalls, sdk.initCalls)
			assert.False(t, l.IsInitialized())
		})
	}
}

func TestSDKInitErrorUnwraps(t *testing.T) {
	boom := errors.New("boom")
	sdk := &fakeSDK{initErr: boom}
	connector := &wallettest.FakeConnector{Prov: wallettest.NewProvider(alice)}

	err := intents.NewLifecycle(sdk, connectorSource{connector}, nil).Initialize(context.Background())

	var initErr *intents.SDKInitError
	require.True(t, errors.As(err, &initErr))
	assert.ErrorIs(t, err, boom)
}

func TestDeinitialize(t *testing.T) {
	sdk := &fakeSDK{}
	connector := &wallettest.FakeConnector{Prov: wallettest.NewProvider(alice)}
	l := intents.NewLifecycle(sdk, connectorSource{connector}, nil)

	l.Deinitialize(context.Background())
	assert.Zero(t, sdk.deinitCalls, "deinit before initialize is a no-op")

	require.NoError(t, l.Initialize(context.Background()))
	sdk.deinitErr = errors.New("already torn down")

	l.Deinitialize(context.Background())
	assert.Equal(t, 1, sdk.deinitCalls)
	assert.Equal(t, intents.Handle{}, l.Handle())
}

func TestAttachEventHooksRequiresInitialize(t *testing.T) {
	sdk := &fakeSDK{}
	connector := &wallettest.FakeConnector{Prov: wallettest.NewProvider(alice)}
	l := intents.NewLifecycle(sdk, connectorSource{connector}, nil)

	l.AttachEventHooks()
	assert.Nil(t, sdk.onAllowance)
	assert.Nil(t, sdk.onIntent)

	require.NoError(t, l.Initialize(context.Background()))
	l.AttachEventHooks()
	assert.NotNil(t, sdk.onAllowance)
	assert.NotNil(t, sdk.onIntent)
}

func TestHooksAndDeinitFollowSDKState(t *testing.T) {
	// initialized by another owner; this lifecycle never ran Initialize
	sdk := &fakeSDK{initialized: true}
	l := intents.NewLifecycle(sdk, connectorSource{}, nil)

	l.AttachEventHooks()
	assert.NotNil(t, sdk.onAllowance)
	assert.NotNil(t, sdk.onIntent)

	l.Deinitialize(context.Background())
	assert.Equal(t, 1, sdk.deinitCalls)
	assert.False(t, sdk.IsInitialized())
	assert.False(t, l.IsInitialized())

	l.Deinitialize(context.Background())
	assert.Equal(t, 1, sdk.deinitCalls, "second deinit is a no-op")
}

func attached(t *testing.T, approver intents.Approver) (*intents.Lifecycle, *fakeSDK) {
	t.Helper()
	sdk := &fakeSDK{}
	connector := &wallettest.FakeConnector{Prov: wallettest.NewProvider(alice)}
	l := intents.NewLifecycle(sdk, connectorSource{connector}, approver)
	require.NoError(t, l.Initialize(context.Background()))
	l.AttachEventHooks()
	return l, sdk
}

func TestAutoApproveAllowance(t *testing.T) {
	l, sdk := attached(t, nil)

	var calls [][]intents.AllowanceLevel
	denied := 0
	req := intents.NewAllowanceRequest(
		[]intents.AllowanceSource{{Token: "USDC"}, {Token: "PYUSD"}},
		func(levels []intents.AllowanceLevel) { calls = append(calls, levels) },
		func(string) { denied++ },
	)

	sdk.onAllowance(context.Background(), req)
	req.Allow([]intents.AllowanceLevel{intents.AllowanceMax, intents.AllowanceMax})
	req.Deny("too late")

	require.Len(t, calls, 1)
	assert.Equal(t, []intents.AllowanceLevel{"min", "min"}, calls[0])
	assert.Zero(t, denied)
	assert.Equal(t, intents.DecisionAllow, req.Decision())
	assert.Same(t, req, l.LastAllowance())
}

func TestAutoApproveIntent(t *testing.T) {
	l, sdk := attached(t, nil)

	allowed := 0
	req := intents.NewIntentRequest(intents.Intent{Total: "10 USDC"}, func() { allowed++ }, nil)

	sdk.onIntent(context.Background(), req)
	req.Allow()

	assert.Equal(t, 1, allowed)
	assert.Same(t, req, l.LastIntent())

	next := intents.NewIntentRequest(intents.Intent{Total: "5 USDC"}, func() {}, nil)
	sdk.onIntent(context.Background(), next)
	assert.Same(t, next, l.LastIntent(), "only the latest intent is kept")
}

func TestPromptApprover(t *testing.T) {
	var out bytes.Buffer
	p := intents.NewPromptApprover(strings.NewReader("y\nno\n"), &out)

	var levels []intents.AllowanceLevel
	allowance := intents.NewAllowanceRequest(
		[]intents.AllowanceSource{{Token: "USDC", Chain: "eth", Decimals: 6, Required: big.NewInt(10_000_000), Current: big.NewInt(0)}},
		func(l []intents.AllowanceLevel) { levels = l },
		nil,
	)
	p.OnAllowance(context.Background(), allowance)
	assert.Equal(t, []intents.AllowanceLevel{"min"}, levels)
	assert.Contains(t, out.String(), "needs 10 (current 0)")

	var reason string
	intent := intents.NewIntentRequest(intents.Intent{
		Total:       "9.9 USDC",
		Destination: intents.Destination{Chain: "base", Recipient: alice.Hex()},
	}, nil, func(r string) { reason = r })
	p.OnIntent(context.Background(), intent)

	assert.Equal(t, intents.DecisionDeny, intent.Decision())
	assert.Equal(t, "declined by user", reason)
}
