package intents

import (
	"errors"
	"fmt"
)

var (
	ErrNoConnector     = errors.New("no wallet connector found, connect a wallet first")
	ErrNoProvider      = errors.New("wallet connector returned no provider")
	ErrNoAccounts      = errors.New("no accounts available from wallet provider")
	ErrWrongNetwork    = errors.New("wallet is connected to the wrong network")
	ErrNotInitialized  = errors.New("intent sdk not initialized")
	ErrHookNotSet      = errors.New("approval hook not registered")
	ErrAllowanceDenied = errors.New("allowance request denied")
	ErrIntentDenied    = errors.New("intent request denied")

	// ErrSDKInit matches any *SDKInitError.
	ErrSDKInit = errors.New("intent sdk initialization failed")
)

// SDKInitError wraps a failure reported by SDK.Initialize.
type SDKInitError struct {
	Err error
}

func (e *SDKInitError) Error() string {
	return fmt.Sprintf("%v: %v", ErrSDKInit, e.Err)
}

func (e *SDKInitError) Unwrap() error { return e.Err }

func (e *SDKInitError) Is(target error) bool { return target == ErrSDKInit }

// SDKDeinitError wraps a failure reported by SDK.Deinit. It is logged, never
// returned to callers.
type SDKDeinitError struct {
	Err error
}

func (e *SDKDeinitError) Error() string {
	return fmt.Sprintf("intent sdk deinitialization failed: %v", e.Err)
}

func (e *SDKDeinitError) Unwrap() error { return e.Err }
