package wallet_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-swap/pkg/timers/timerstest"
	"nexus-swap/pkg/wallet"
	"nexus-swap/pkg/wallet/wallettest"
)

var alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")

func TestWatcherRefresh(t *testing.T) {
	tests := []struct {
		name      string
		connector wallet.Connector
		connected bool
		wantErr   bool
	}{
		{"no connector", nil, false, false},
		{"connector error", &wallettest.FakeConnector{Err: errors.New("dial failed")}, false, true},
		{"nil provider", &wallettest.FakeConnector{}, false, false},
		{"no accounts", &wallettest.FakeConnector{Prov: wallettest.NewProvider()}, false, false},
		{"account available", &wallettest.FakeConnector{Prov: wallettest.NewProvider(alice)}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := wallet.NewWatcher(tt.connector, wallet.WatcherConfig{Scheduler: timerstest.New()})

			status, err := w.Refresh(context.Background())
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.connected, status.Connected)
			assert.Equal(t, tt.connected, w.Connected())

			if tt.connected {
				assert.Equal(t, alice, status.Address)
				assert.Same(t, tt.connector, w.Connector())
			} else {
				assert.Nil(t, w.Connector())
			}
		})
	}
}

func TestWatcherConnect(t *testing.T) {
	w := wallet.NewWatcher(&wallettest.FakeConnector{Prov: wallettest.NewProvider()}, wallet.WatcherConfig{})
	assert.ErrorIs(t, w.Connect(context.Background()), wallet.ErrNotConnected)

	w = wallet.NewWatcher(&wallettest.FakeConnector{Prov: wallettest.NewProvider(alice)}, wallet.WatcherConfig{})
	require.NoError(t, w.Connect(context.Background()))
	assert.True(t, w.Connected())
}

func TestWatcherPublishesChangesOnly(t *testing.T) {
	provider := wallettest.NewProvider()
	w := wallet.NewWatcher(&wallettest.FakeConnector{Prov: provider}, wallet.WatcherConfig{})

	updates, unsubscribe := w.Subscribe()
	defer unsubscribe()

	ctx := context.Background()
	w.Refresh(ctx)
	select {
	case <-updates:
		t.Fatal("unexpected update while status is unchanged")
	default:
	}

	provider.Accts = []common.Address{alice}
	w.Refresh(ctx)
	status := <-updates
	assert.True(t, status.Connected)

	w.Refresh(ctx)
	select {
	case <-updates:
		t.Fatal("unexpected update for the same account")
	default:
	}

	provider.Accts = nil
	w.Refresh(ctx)
	status = <-updates
	assert.False(t, status.Connected)
}

func TestNewRPCConnectorRequiresURL(t *testing.T) {
	_, err := wallet.NewRPCConnector(wallet.RPCConfig{})
	require.Error(t, err)

	c, err := wallet.NewRPCConnector(wallet.RPCConfig{RPCURL: "http://localhost:8545"})
	require.NoError(t, err)
	assert.Equal(t, "rpc:http://localhost:8545", c.ID())
}
