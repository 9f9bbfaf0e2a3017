package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// ERC20 reads token state and packs token calls for an external signer.
type ERC20 struct {
	address  common.Address
	contract *bind.BoundContract
}

// NewERC20 binds the token at address for read calls through caller.
func NewERC20(address common.Address, caller bind.ContractCaller) *ERC20 {
	return &ERC20{
		address:  address,
		contract: bind.NewBoundContract(address, erc20ABI, caller, nil, nil),
	}
}

// NewRegisteredERC20 binds a token from the registry by name.
func NewRegisteredERC20(name string, caller bind.ContractCaller) (*ERC20, error) {
	d, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if d.Name == SWAP {
		return nil, fmt.Errorf("%s is not a token", d.Name)
	}
	return NewERC20(d.Address, caller), nil
}

// Address returns the token contract address.
func (t *ERC20) Address() common.Address {
	return t.address
}

// BalanceOf returns owner's balance in base units.
func (t *ERC20) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	var out []interface{}
	if err := t.contract.Call(&bind.CallOpts{Context: ctx}, &out, "balanceOf", owner); err != nil {
		return nil, fmt.Errorf("failed to call balanceOf: %w", err)
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// Allowance returns how much spender may pull from owner.
func (t *ERC20) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	var out []interface{}
	if err := t.contract.Call(&bind.CallOpts{Context: ctx}, &out, "allowance", owner, spender); err != nil {
		return nil, fmt.Errorf("failed to call allowance: %w", err)
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// Decimals returns the token's decimals.
func (t *ERC20) Decimals(ctx context.Context) (uint8, error) {
	var out []interface{}
	if err := t.contract.Call(&bind.CallOpts{Context: ctx}, &out, "decimals"); err != nil {
		return 0, fmt.Errorf("failed to call decimals: %w", err)
	}
	return *abi.ConvertType(out[0], new(uint8)).(*uint8), nil
}

// PackApprove encodes approve(spender, value).
func PackApprove(spender common.Address, value *big.Int) ([]byte, error) {
	data, err := erc20ABI.Pack("approve", spender, value)
	if err != nil {
		return nil, fmt.Errorf("failed to pack approve data: %w", err)
	}
	return data, nil
}

// PackTransfer encodes transfer(to, value).
func PackTransfer(to common.Address, value *big.Int) ([]byte, error) {
	data, err := erc20TransferABI.Pack("transfer", to, value)
	if err != nil {
		return nil, fmt.Errorf("failed to pack transfer data: %w", err)
	}
	return data, nil
}
