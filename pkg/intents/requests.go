package intents

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// AllowanceLevel is "min", "max" or a decimal token amount.
type AllowanceLevel string

const (
	AllowanceMin AllowanceLevel = "min"
	AllowanceMax AllowanceLevel = "max"
)

// Decision values reported by requests.
const (
	DecisionPending = "pending"
	DecisionAllow   = "allow"
	DecisionDeny    = "deny"
)

// AllowanceSource is a token that needs spending approval.
type AllowanceSource struct {
	Token        string
	Chain        string
	TokenAddress common.Address
	Spender      common.Address
	Decimals     int
	Required     *big.Int
	Current      *big.Int
}

type decision struct {
	state  string
	reason string
}

func (d *decision) set(state, reason string) {
	d.state = state
	d.reason = reason
}

// AllowanceRequest asks for token spending approval. It resolves once: the
// first Allow or Deny wins and later calls are ignored.
type AllowanceRequest struct {
	ID      string
	Sources []AllowanceSource

	allow func([]AllowanceLevel)
	deny  func(string)

	once sync.Once
	mu   sync.Mutex
	d    decision
}

// NewAllowanceRequest builds a request whose resolution is delivered to allow
// or deny.
func NewAllowanceRequest(sources []AllowanceSource, allow func([]AllowanceLevel), deny func(string)) *AllowanceRequest {
	return &AllowanceRequest{
		ID:      uuid.NewString(),
		Sources: sources,
		allow:   allow,
		deny:    deny,
		d:       decision{state: DecisionPending},
	}
}

// Allow approves with one level per source.
func (r *AllowanceRequest) Allow(levels []AllowanceLevel) {
	r.once.Do(func() {
		r.record(DecisionAllow, "")
		if r.allow != nil {
			r.allow(levels)
		}
	})
}

func (r *AllowanceRequest) Deny(reason string) {
	r.once.Do(func() {
		r.record(DecisionDeny, reason)
		if r.deny != nil {
			r.deny(reason)
		}
	})
}

// Decision returns DecisionPending until the request resolves.
func (r *AllowanceRequest) Decision() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.d.state
}

func (r *AllowanceRequest) record(state, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.d.set(state, reason)
}

// IntentSource is one leg funding an intent.
type IntentSource struct {
	Token  string
	Chain  string
	Amount string
}

// Destination is where the intent delivers funds.
type Destination struct {
	Chain     string
	Recipient string
}

// IntentRequest asks for confirmation of a transfer. It resolves once.
type IntentRequest struct {
	ID          string
	Sources     []IntentSource
	Total       string
	Fees        string
	Destination Destination

	allow func()
	deny  func(string)

	once sync.Once
	mu   sync.Mutex
	d    decision
}

// Intent is the descriptive part of an IntentRequest.
type Intent struct {
	Sources     []IntentSource
	Total       string
	Fees        string
	Destination Destination
}

func NewIntentRequest(intent Intent, allow func(), deny func(string)) *IntentRequest {
	return &IntentRequest{
		ID:          uuid.NewString(),
		Sources:     intent.Sources,
		Total:       intent.Total,
		Fees:        intent.Fees,
		Destination: intent.Destination,
		allow:       allow,
		deny:        deny,
		d:           decision{state: DecisionPending},
	}
}

func (r *IntentRequest) Allow() {
	r.once.Do(func() {
		r.record(DecisionAllow, "")
		if r.allow != nil {
			r.allow()
		}
	})
}

func (r *IntentRequest) Deny(reason string) {
	r.once.Do(func() {
		r.record(DecisionDeny, reason)
		if r.deny != nil {
			r.deny(reason)
		}
	})
}

func (r *IntentRequest) Decision() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.d.state
}

func (r *IntentRequest) record(state, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.d.set(state, reason)
}
