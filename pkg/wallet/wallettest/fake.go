// Package wallettest provides in-memory wallet doubles.
package wallettest

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"nexus-swap/pkg/wallet"
)

// FakeConnector hands out Prov, or fails with Err.
type FakeConnector struct {
	Name string
	Prov wallet.Provider
	Err  error

	mu    sync.Mutex
	calls int
}

func (c *FakeConnector) ID() string {
	if c.Name == "" {
		return "fake"
	}
	return c.Name
}

func (c *FakeConnector) Provider(ctx context.Context) (wallet.Provider, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()

	if c.Err != nil {
		return nil, c.Err
	}
	return c.Prov, nil
}

// Calls returns how many times Provider was asked for.
func (c *FakeConnector) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Tx is a transaction recorded by FakeProvider.
type Tx struct {
	To    common.Address
	Value *big.Int
	Data  []byte
	Hash  common.Hash
}

// FakeProvider serves fixed accounts and chain id and records transactions.
type FakeProvider struct {
	Accts      []common.Address
	Chain      *big.Int
	AccountErr error
	SendErr    error
	// Contracts serves Caller. Nil means contract reads are unsupported.
	Contracts bind.ContractCaller

	mu  sync.Mutex
	txs []Tx
}

// NewProvider returns a provider with the given accounts on chain 1.
func NewProvider(accounts ...common.Address) *FakeProvider {
	return &FakeProvider{Accts: accounts, Chain: big.NewInt(1)}
}

func (p *FakeProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	if p.AccountErr != nil {
		return nil, p.AccountErr
	}
	return p.Accts, nil
}

func (p *FakeProvider) ChainID(ctx context.Context) (*big.Int, error) {
	return p.Chain, nil
}

func (p *FakeProvider) Request(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	return nil
}

func (p *FakeProvider) Caller() bind.ContractCaller {
	return p.Contracts
}

func (p *FakeProvider) Transact(ctx context.Context, to common.Address, value *big.Int, data []byte) (common.Hash, error) {
	if p.SendErr != nil {
		return common.Hash{}, p.SendErr
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	hash := common.BigToHash(big.NewInt(int64(len(p.txs) + 1)))
	p.txs = append(p.txs, Tx{To: to, Value: value, Data: data, Hash: hash})
	return hash, nil
}

// Sent returns the recorded transactions.
func (p *FakeProvider) Sent() []Tx {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Tx(nil), p.txs...)
}
