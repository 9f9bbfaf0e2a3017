package contracts

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Name is the logical name of a deployed contract.
type Name string

const (
	SWAP  Name = "SWAP"
	USDC  Name = "USDC"
	PYUSD Name = "PYUSD"
)

// ErrUnknownContract is returned for names outside the registry.
var ErrUnknownContract = errors.New("unknown contract")

// Descriptor describes one deployed contract. Descriptors are built once at
// package load and never mutated.
type Descriptor struct {
	Name     Name
	Address  common.Address
	Decimals uint8 // token decimals, zero for SWAP
	ABI      abi.ABI

	signatures []string
}

// Signatures returns the contract's function and event signatures. The slice
// is a copy.
func (d Descriptor) Signatures() []string {
	out := make([]string, len(d.signatures))
	copy(out, d.signatures)
	return out
}

var (
	erc20ABI         = mustParseABI(erc20ABIJSON)
	erc20TransferABI = mustParseABI(erc20TransferABIJSON)
	swapABI          = mustParseABI(swapABIJSON)

	registry = map[Name]Descriptor{
		// placeholder pool address; deployments set swap_address
		SWAP:  newDescriptor(SWAP, "0x3b5f0a1E8D2c7B9a4F6e1D0C8b7A6f5E4d3C2b1A", 0, swapABI),
		USDC:  newDescriptor(USDC, "0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238", 6, erc20ABI),
		PYUSD: newDescriptor(PYUSD, "0xCaC524BcA292aaade2DF8A05cC58F0a65B1B3bB9", 6, erc20ABI),
	}
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("contracts: invalid ABI: %v", err))
	}
	return parsed
}

func newDescriptor(name Name, address string, decimals uint8, parsed abi.ABI) Descriptor {
	sigs := make([]string, 0, len(parsed.Methods)+len(parsed.Events))
	for _, m := range parsed.Methods {
		sigs = append(sigs, "function "+m.Sig)
	}
	for _, e := range parsed.Events {
		sigs = append(sigs, "event "+e.Sig)
	}
	sort.Strings(sigs)

	return Descriptor{
		Name:       name,
		Address:    common.HexToAddress(address),
		Decimals:   decimals,
		ABI:        parsed,
		signatures: sigs,
	}
}

// Lookup returns the descriptor for name, matched case-insensitively.
func Lookup(name string) (Descriptor, error) {
	d, ok := registry[Name(strings.ToUpper(strings.TrimSpace(name)))]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownContract, name)
	}
	return d, nil
}

// Address returns the on-chain address registered under name.
func Address(name string) (common.Address, error) {
	d, err := Lookup(name)
	if err != nil {
		return common.Address{}, err
	}
	return d.Address, nil
}

// Signatures returns the signature list registered under name.
func Signatures(name string) ([]string, error) {
	d, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return d.Signatures(), nil
}

// Names lists the registered contracts in a stable order.
func Names() []Name {
	return []Name{SWAP, USDC, PYUSD}
}
