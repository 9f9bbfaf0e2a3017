package cmd

import (
	"testing"

	oneclick "github.com/defuse-protocol/one-click-sdk-go"
	"github.com/stretchr/testify/assert"
)

func TestIsFinalStatus(t *testing.T) {
	tests := []struct {
		status string
		final  bool
	}{
		{"SUCCESS", true},
		{"refunded", true},
		{"FAILED", true},
		{"PENDING_DEPOSIT", false},
		{"KNOWN_DEPOSIT_TX", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.final, isFinalStatus(tt.status), tt.status)
	}
}

func TestPrintHashesSkipsEmpty(t *testing.T) {
	// zero-value entries carry no hash and print nothing
	assert.NotPanics(t, func() {
		printHashes("origin tx", make([]oneclick.TransactionDetails, 2))
		printHashes("destination tx", nil)
	})
}

func TestOrDash(t *testing.T) {
	assert.Equal(t, "-", orDash(""))
	assert.Equal(t, "1.5", orDash("1.5"))
}
