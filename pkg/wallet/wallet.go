// Package wallet connects to the user's wallet over JSON-RPC and tracks
// whether a usable account is available.
package wallet

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// ErrNotConnected is returned by Connect when no account could be reached.
var ErrNotConnected = errors.New("wallet not connected")

// Provider exposes blockchain RPC for the connected account.
type Provider interface {
	// Accounts lists the accounts the wallet can sign for.
	Accounts(ctx context.Context) ([]common.Address, error)
	ChainID(ctx context.Context) (*big.Int, error)
	// Request issues a raw JSON-RPC call and decodes the result into result.
	Request(ctx context.Context, result interface{}, method string, args ...interface{}) error
	// Caller serves read-only contract calls.
	Caller() bind.ContractCaller
	// Transact signs and sends a transaction from the first account.
	Transact(ctx context.Context, to common.Address, value *big.Int, data []byte) (common.Hash, error)
}

// Connector is the active wallet adapter.
type Connector interface {
	ID() string
	Provider(ctx context.Context) (Provider, error)
}

// Status is a snapshot of the wallet connection.
type Status struct {
	Connected bool
	Address   common.Address
	ChainID   *big.Int
	// Connector is nil while disconnected.
	Connector Connector
}
