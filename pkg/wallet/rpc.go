package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// RPCConfig configures an RPCConnector.
type RPCConfig struct {
	RPCURL string
	// PrivateKey signs locally when set. Otherwise transactions go through
	// the node's eth_sendTransaction with its managed accounts.
	PrivateKey string
	GasLimit   uint64
}

// RPCConnector dials a JSON-RPC endpoint once and hands out the same provider.
type RPCConnector struct {
	config RPCConfig

	mu       sync.Mutex
	provider *rpcProvider
}

// NewRPCConnector validates cfg without dialing.
func NewRPCConnector(cfg RPCConfig) (*RPCConnector, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("RPC URL not configured")
	}
	return &RPCConnector{config: cfg}, nil
}

// ID identifies the connector by endpoint.
func (c *RPCConnector) ID() string {
	return "rpc:" + c.config.RPCURL
}

// Provider dials the endpoint on first use.
func (c *RPCConnector) Provider(ctx context.Context) (Provider, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.provider != nil {
		return c.provider, nil
	}

	client, err := rpc.DialContext(ctx, c.config.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	p := &rpcProvider{
		rpc:      client,
		eth:      ethclient.NewClient(client),
		gasLimit: c.config.GasLimit,
	}

	if c.config.PrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(c.config.PrivateKey, "0x"))
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("invalid private key: %w", err)
		}
		p.key = key
		p.from = crypto.PubkeyToAddress(key.PublicKey)
	}

	c.provider = p
	return p, nil
}

// Close releases the RPC connection.
func (c *RPCConnector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.provider != nil {
		c.provider.rpc.Close()
		c.provider = nil
	}
}

type rpcProvider struct {
	rpc      *rpc.Client
	eth      *ethclient.Client
	key      *ecdsa.PrivateKey
	from     common.Address
	gasLimit uint64
}

func (p *rpcProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	if p.key != nil {
		return []common.Address{p.from}, nil
	}

	var accounts []common.Address
	if err := p.rpc.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}
	return accounts, nil
}

func (p *rpcProvider) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := p.eth.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}
	return id, nil
}

func (p *rpcProvider) Request(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	return p.rpc.CallContext(ctx, result, method, args...)
}

func (p *rpcProvider) Caller() bind.ContractCaller {
	return p.eth
}

func (p *rpcProvider) Transact(ctx context.Context, to common.Address, value *big.Int, data []byte) (common.Hash, error) {
	if value == nil {
		value = big.NewInt(0)
	}
	if p.key == nil {
		return p.sendManaged(ctx, to, value, data)
	}

	nonce, err := p.eth.PendingNonceAt(ctx, p.from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := p.eth.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get gas price: %w", err)
	}

	gasLimit := p.gasLimit
	if gasLimit == 0 {
		estimated, err := p.eth.EstimateGas(ctx, ethereum.CallMsg{
			From:  p.from,
			To:    &to,
			Value: value,
			Data:  data,
		})
		if err != nil {
			return common.Hash{}, fmt.Errorf("failed to estimate gas: %w", err)
		}
		gasLimit = estimated * 120 / 100 // 20% buffer
	}

	chainID, err := p.ChainID(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	tx := types.NewTransaction(nonce, to, value, gasLimit, gasPrice, data)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), p.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := p.eth.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	return signed.Hash(), nil
}

// sendManaged lets the node sign with its first unlocked account.
func (p *rpcProvider) sendManaged(ctx context.Context, to common.Address, value *big.Int, data []byte) (common.Hash, error) {
	accounts, err := p.Accounts(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	if len(accounts) == 0 {
		return common.Hash{}, ErrNotConnected
	}

	args := map[string]interface{}{
		"from":  accounts[0],
		"to":    to,
		"value": (*hexutil.Big)(value),
	}
	if len(data) > 0 {
		args["data"] = hexutil.Bytes(data)
	}

	var hash common.Hash
	if err := p.rpc.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	return hash, nil
}
