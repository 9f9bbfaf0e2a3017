// Package intents wraps the intent-settlement SDK lifecycle around the
// connected wallet and decides on allowance and intent requests.
package intents

import (
	"context"

	"nexus-swap/pkg/wallet"
)

// AllowanceHook is invoked synchronously by the SDK when token approval is
// needed. The SDK waits until the request resolves or ctx is done.
type AllowanceHook func(ctx context.Context, req *AllowanceRequest)

// IntentHook is invoked synchronously by the SDK before an intent executes.
type IntentHook func(ctx context.Context, req *IntentRequest)

// SDK is the settlement SDK contract the lifecycle drives.
type SDK interface {
	IsInitialized() bool
	Initialize(ctx context.Context, provider wallet.Provider) error
	Deinit(ctx context.Context) error
	SetOnAllowanceHook(hook AllowanceHook)
	SetOnIntentHook(hook IntentHook)
}
