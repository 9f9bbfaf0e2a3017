package contracts

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Asset is one of the three assets held by the swap pool.
type Asset string

const (
	AssetETH   Asset = "ETH"
	AssetUSDC  Asset = "USDC"
	AssetPYUSD Asset = "PYUSD"
)

var (
	// ErrUnsupportedPair is returned when a swap names an unknown asset or the
	// same asset on both sides.
	ErrUnsupportedPair = errors.New("unsupported swap pair")
	// ErrNotSwapped is returned by ParseSwapped for logs of other events.
	ErrNotSwapped = errors.New("log is not a Swapped event")
)

// ParseAsset matches an asset symbol case-insensitively. WETH is treated as ETH.
func ParseAsset(symbol string) (Asset, error) {
	switch strings.ToUpper(strings.TrimSpace(symbol)) {
	case "ETH", "WETH":
		return AssetETH, nil
	case "USDC":
		return AssetUSDC, nil
	case "PYUSD":
		return AssetPYUSD, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPair, symbol)
	}
}

// Decimals returns the asset's base unit exponent.
func (a Asset) Decimals() int {
	if a == AssetETH {
		return 18
	}
	return int(registry[Name(a)].Decimals)
}

// TokenAddress returns the ERC-20 address for the asset, or the zero address
// for ETH.
func (a Asset) TokenAddress() common.Address {
	if a == AssetETH {
		return common.Address{}
	}
	return registry[Name(a)].Address
}

// Reserves are the pool balances in base units.
type Reserves struct {
	ETH   *big.Int
	USDC  *big.Int
	PYUSD *big.Int
}

// SwappedEvent is a decoded Swapped log.
type SwappedEvent struct {
	User      common.Address
	TokenIn   common.Address
	TokenOut  common.Address
	AmountIn  *big.Int
	AmountOut *big.Int
	TxHash    common.Hash
}

// Swap reads the swap pool and packs its calls.
type Swap struct {
	address  common.Address
	contract *bind.BoundContract
}

// NewSwap binds the registered swap contract for read calls through caller.
func NewSwap(caller bind.ContractCaller) *Swap {
	return NewSwapAt(registry[SWAP].Address, caller)
}

// NewSwapAt binds a swap pool deployed at address. The pool must expose the
// registered SWAP ABI.
func NewSwapAt(address common.Address, caller bind.ContractCaller) *Swap {
	return &Swap{
		address:  address,
		contract: bind.NewBoundContract(address, swapABI, caller, nil, nil),
	}
}

// Address returns the swap contract address.
func (s *Swap) Address() common.Address {
	return s.address
}

func (s *Swap) callUint(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	var out []interface{}
	if err := s.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", method, err)
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// Quote returns the expected output for swapping amountIn of tokenIn.
func (s *Swap) Quote(ctx context.Context, tokenIn, tokenOut Asset, amountIn *big.Int) (*big.Int, error) {
	if err := checkPair(tokenIn, tokenOut); err != nil {
		return nil, err
	}
	return s.callUint(ctx, "getQuote", tokenIn.TokenAddress(), tokenOut.TokenAddress(), amountIn)
}

// Reserves returns the pool balances of all three assets.
func (s *Swap) Reserves(ctx context.Context) (*Reserves, error) {
	eth, err := s.callUint(ctx, "getETHBalance")
	if err != nil {
		return nil, err
	}
	usdc, err := s.callUint(ctx, "getUSDCBalance")
	if err != nil {
		return nil, err
	}
	pyusd, err := s.callUint(ctx, "getPYUSDBalance")
	if err != nil {
		return nil, err
	}
	return &Reserves{ETH: eth, USDC: usdc, PYUSD: pyusd}, nil
}

func checkPair(tokenIn, tokenOut Asset) error {
	for _, a := range []Asset{tokenIn, tokenOut} {
		if a != AssetETH && a != AssetUSDC && a != AssetPYUSD {
			return fmt.Errorf("%w: %s", ErrUnsupportedPair, a)
		}
	}
	if tokenIn == tokenOut {
		return fmt.Errorf("%w: %s to %s", ErrUnsupportedPair, tokenIn, tokenOut)
	}
	return nil
}

// PackSwap encodes the swap call for the pair. ETH input is sent as value and
// the returned value is zero for token inputs.
func PackSwap(tokenIn, tokenOut Asset, amountIn *big.Int) (data []byte, value *big.Int, err error) {
	if err := checkPair(tokenIn, tokenOut); err != nil {
		return nil, nil, err
	}

	method := fmt.Sprintf("swap%sFor%s", tokenIn, tokenOut)
	if tokenIn == AssetETH {
		data, err = swapABI.Pack(method)
		value = new(big.Int).Set(amountIn)
	} else {
		data, err = swapABI.Pack(method, amountIn)
		value = big.NewInt(0)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to pack %s data: %w", method, err)
	}
	return data, value, nil
}

// PackAddLiquidity encodes addLiquidity. The ETH share travels as value.
func PackAddLiquidity(usdcAmount, pyusdAmount *big.Int) ([]byte, error) {
	data, err := swapABI.Pack("addLiquidity", usdcAmount, pyusdAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to pack addLiquidity data: %w", err)
	}
	return data, nil
}

// PackRemoveLiquidity encodes removeLiquidity.
func PackRemoveLiquidity(ethAmount, usdcAmount, pyusdAmount *big.Int) ([]byte, error) {
	data, err := swapABI.Pack("removeLiquidity", ethAmount, usdcAmount, pyusdAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to pack removeLiquidity data: %w", err)
	}
	return data, nil
}

// ParseSwapped decodes a Swapped log emitted by the swap contract.
func ParseSwapped(log types.Log) (*SwappedEvent, error) {
	event := swapABI.Events["Swapped"]
	if len(log.Topics) < 2 || log.Topics[0] != event.ID {
		return nil, ErrNotSwapped
	}

	values, err := swapABI.Unpack("Swapped", log.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack Swapped: %w", err)
	}
	if len(values) != 4 {
		return nil, fmt.Errorf("failed to unpack Swapped: got %d values", len(values))
	}

	return &SwappedEvent{
		User:      common.BytesToAddress(log.Topics[1].Bytes()),
		TokenIn:   *abi.ConvertType(values[0], new(common.Address)).(*common.Address),
		TokenOut:  *abi.ConvertType(values[1], new(common.Address)).(*common.Address),
		AmountIn:  *abi.ConvertType(values[2], new(*big.Int)).(**big.Int),
		AmountOut: *abi.ConvertType(values[3], new(*big.Int)).(**big.Int),
		TxHash:    log.TxHash,
	}, nil
}
