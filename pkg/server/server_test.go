package server

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-swap/pkg/contracts"
	"nexus-swap/pkg/metrics"
	"nexus-swap/pkg/wallet"
	"nexus-swap/pkg/wallet/wallettest"
)

type staticWallet struct {
	status wallet.Status
}

func (w staticWallet) Status() wallet.Status { return w.status }
func (w staticWallet) Connected() bool       { return w.status.Connected }

var connected = wallet.Status{
	Connected: true,
	Address:   common.HexToAddress("0x00000000000000000000000000000000000a11ce"),
	ChainID:   big.NewInt(11155111),
	Connector: &wallettest.FakeConnector{Name: "rpc:test"},
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestContracts(t *testing.T) {
	s := New(Config{Wallet: staticWallet{}})

	rec := get(t, s, "/api/contracts")
	require.Equal(t, http.StatusOK, rec.Code)

	var list []Contract
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 3)
	assert.Equal(t, "SWAP", list[0].Name)

	rec = get(t, s, "/api/contracts/usdc")
	require.Equal(t, http.StatusOK, rec.Code)

	var usdc Contract
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &usdc))
	want, err := contracts.Address("USDC")
	require.NoError(t, err)
	assert.Equal(t, want.Hex(), usdc.Address)
	assert.Equal(t, uint8(6), usdc.Decimals)
	assert.Contains(t, usdc.Signatures, "function approve(address,uint256)")

	rec = get(t, s, "/api/contracts/dai")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWalletStatus(t *testing.T) {
	rec := get(t, New(Config{Wallet: staticWallet{}}), "/api/wallet")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"connected":false}`, rec.Body.String())

	rec = get(t, New(Config{Wallet: staticWallet{connected}}), "/api/wallet")
	require.Equal(t, http.StatusOK, rec.Code)

	var view WalletView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, WalletView{
		Connected: true,
		Address:   connected.Address.Hex(),
		ChainID:   "11155111",
		Connector: "rpc:test",
	}, view)
}

func TestProtectedRoutes(t *testing.T) {
	balances := func(ctx context.Context, status wallet.Status) (interface{}, error) {
		return map[string]string{"USDC": "10"}, nil
	}

	disconnected := New(Config{Wallet: staticWallet{}, RedirectTo: "/home", Balances: balances})
	for _, path := range []string{"/api/protected/account", "/api/protected/balances"} {
		rec := get(t, disconnected, path)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Equal(t, "5; url=/home", rec.Header().Get("Refresh"), path)
	}

	slow := New(Config{Wallet: staticWallet{}, RedirectDelay: 30 * time.Second})
	assert.Equal(t, "30; url=/", get(t, slow, "/api/protected/account").Header().Get("Refresh"))

	s := New(Config{Wallet: staticWallet{connected}, Balances: balances})
	rec := get(t, s, "/api/protected/balances")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"USDC":"10"}`, rec.Body.String())

	failing := New(Config{Wallet: staticWallet{connected}, Balances: func(context.Context, wallet.Status) (interface{}, error) {
		return nil, errors.New("rpc down")
	}})
	rec = get(t, failing, "/api/protected/balances")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	s := New(Config{Wallet: staticWallet{}, Metrics: m})

	assert.Equal(t, http.StatusOK, get(t, s, "/healthz").Code)

	rec := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `nexus_swap_requests_total{endpoint="/healthz",method="GET"} 1`))
}
