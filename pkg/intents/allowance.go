package intents

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"

	"nexus-swap/pkg/contracts"
	"nexus-swap/pkg/types"
	"nexus-swap/pkg/wallet"
)

// Spend is a token amount that Spender must be allowed to move from Owner.
type Spend struct {
	Token        string
	Chain        string
	TokenAddress common.Address
	Owner        common.Address
	Spender      common.Address
	Decimals     int
	Amount       *big.Int
}

// EnsureAllowance reads the current allowance and, when it is short of
// spend.Amount, raises an allowance request through hook and sends an approve
// for the granted level. The hash is nil when no approval was needed.
func EnsureAllowance(ctx context.Context, provider wallet.Provider, hook AllowanceHook, spend Spend) (*common.Hash, error) {
	caller := provider.Caller()
	if caller == nil {
		return nil, fmt.Errorf("wallet provider does not support contract calls")
	}

	current, err := contracts.NewERC20(spend.TokenAddress, caller).Allowance(ctx, spend.Owner, spend.Spender)
	if err != nil {
		return nil, err
	}
	if current.Cmp(spend.Amount) >= 0 {
		return nil, nil
	}

	source := AllowanceSource{
		Token:        spend.Token,
		Chain:        spend.Chain,
		TokenAddress: spend.TokenAddress,
		Spender:      spend.Spender,
		Decimals:     spend.Decimals,
		Required:     spend.Amount,
		Current:      current,
	}
	levels, err := RequestAllowance(ctx, hook, []AllowanceSource{source})
	if err != nil {
		return nil, err
	}

	amount, err := LevelAmount(levels[0], source)
	if err != nil {
		return nil, err
	}

	data, err := contracts.PackApprove(spend.Spender, amount)
	if err != nil {
		return nil, err
	}
	hash, err := provider.Transact(ctx, spend.TokenAddress, nil, data)
	if err != nil {
		return nil, fmt.Errorf("failed to send approval: %w", err)
	}
	return &hash, nil
}

type allowanceOutcome struct {
	levels []AllowanceLevel
	reason string
	denied bool
}

// RequestAllowance raises an allowance request through hook and waits for it
// to resolve. It returns one level per source.
func RequestAllowance(ctx context.Context, hook AllowanceHook, sources []AllowanceSource) ([]AllowanceLevel, error) {
	if hook == nil {
		return nil, ErrHookNotSet
	}

	done := make(chan allowanceOutcome, 1)
	req := NewAllowanceRequest(sources,
		func(levels []AllowanceLevel) { done <- allowanceOutcome{levels: levels} },
		func(reason string) { done <- allowanceOutcome{denied: true, reason: reason} },
	)
	hook(ctx, req)

	select {
	case <-ctx.Done():
		req.Deny("context done")
		return nil, ctx.Err()
	case out := <-done:
		if out.denied {
			return nil, fmt.Errorf("%w: %s", ErrAllowanceDenied, out.reason)
		}
		if len(out.levels) != len(sources) {
			return nil, fmt.Errorf("expected %d allowance levels, got %d", len(sources), len(out.levels))
		}
		return out.levels, nil
	}
}

// LevelAmount resolves an allowance level to a token amount. Explicit amounts
// below the required amount are rejected.
func LevelAmount(level AllowanceLevel, src AllowanceSource) (*big.Int, error) {
	switch level {
	case AllowanceMin:
		return src.Required, nil
	case AllowanceMax:
		return new(big.Int).Set(math.MaxBig256), nil
	}

	amount, err := types.ToBaseUnits(string(level), src.Decimals)
	if err != nil {
		return nil, fmt.Errorf("invalid allowance level %q: %w", level, err)
	}
	if amount.Cmp(src.Required) < 0 {
		return nil, fmt.Errorf("allowance %s below required %s", level, types.FromBaseUnits(src.Required, src.Decimals))
	}
	return amount, nil
}
