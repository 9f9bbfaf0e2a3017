// Package gate blocks protected views until a wallet is connected and
// redirects away when the connection does not arrive in time.
package gate

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"nexus-swap/pkg/metrics"
	"nexus-swap/pkg/timers"
)

const (
	DefaultRedirectTo = "/"
	DefaultDelay      = 5 * time.Second
)

// View is what the gate shows.
type View int

const (
	ViewConnectPrompt View = iota
	ViewProtected
)

func (v View) String() string {
	if v == ViewProtected {
		return "protected"
	}
	return "connect-prompt"
}

// Navigator performs the redirect.
type Navigator interface {
	Navigate(to string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(to string)

func (f NavigatorFunc) Navigate(to string) { f(to) }

type Options struct {
	RedirectTo string
	Delay      time.Duration
	Navigator  Navigator
	// Connect is the external connect action behind the prompt's button.
	Connect   func(ctx context.Context) error
	Scheduler timers.Scheduler
	Logger    *zap.Logger
	Metrics   *metrics.Collectors
}

// Gate tracks the connection signal for one mounted protected view.
type Gate struct {
	opts     Options
	timeouts *timers.TimeoutManager
	logger   *zap.Logger

	mu        sync.Mutex
	mounted   bool
	connected bool
	pending   timers.Handle
	armed     bool
	gen       uint64
}

func New(opts Options) *Gate {
	if opts.RedirectTo == "" {
		opts.RedirectTo = DefaultRedirectTo
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Gate{
		opts:     opts,
		timeouts: timers.NewTimeoutManager(opts.Scheduler),
		logger:   logger,
	}
}

// Mount starts tracking with the initial connection state.
func (g *Gate) Mount(connected bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.mounted {
		return
	}
	g.mounted = true
	g.apply(connected)
}

// SetConnected feeds a connection change. Repeating the current value does
// nothing, so a pending redirect keeps its original deadline.
func (g *Gate) SetConnected(connected bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.mounted || connected == g.connected {
		return
	}
	g.apply(connected)
}

// apply is called with mu held.
func (g *Gate) apply(connected bool) {
	g.connected = connected

	if g.armed {
		g.timeouts.Cancel(g.pending)
		g.armed = false
	}
	if connected {
		return
	}

	g.gen++
	gen := g.gen
	g.pending = g.timeouts.Schedule(func() { g.redirect(gen) }, g.opts.Delay)
	g.armed = true
	g.logger.Debug("wallet not connected, redirect scheduled",
		zap.String("to", g.opts.RedirectTo),
		zap.Duration("delay", g.opts.Delay))
}

// redirect runs from the timer armed as generation gen. A callback that fired
// before being re-armed sees a newer generation and does nothing.
func (g *Gate) redirect(gen uint64) {
	g.mu.Lock()
	if !g.mounted || g.connected || !g.armed || gen != g.gen {
		g.mu.Unlock()
		return
	}
	g.armed = false
	g.mu.Unlock()

	g.logger.Info("redirecting unconnected user", zap.String("to", g.opts.RedirectTo))
	g.opts.Metrics.GateRedirect()
	if g.opts.Navigator != nil {
		g.opts.Navigator.Navigate(g.opts.RedirectTo)
	}
}

// Render runs children and returns ViewProtected iff the latest signal is
// connected. Otherwise the connect prompt is shown and children never run.
func (g *Gate) Render(children func() error) (View, error) {
	g.mu.Lock()
	connected := g.mounted && g.connected
	g.mu.Unlock()

	if !connected {
		return ViewConnectPrompt, nil
	}
	if children == nil {
		return ViewProtected, nil
	}
	return ViewProtected, children()
}

// Connect triggers the external connect action.
func (g *Gate) Connect(ctx context.Context) error {
	if g.opts.Connect == nil {
		return nil
	}
	return g.opts.Connect(ctx)
}

// Unmount cancels any pending redirect. The gate never navigates afterwards.
func (g *Gate) Unmount() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.mounted = false
	g.armed = false
	g.timeouts.CancelAll()
}

// Pending reports whether a redirect is scheduled.
func (g *Gate) Pending() bool {
	return g.timeouts.Pending() > 0
}

// RedirectTo returns the redirect target.
func (g *Gate) RedirectTo() string {
	return g.opts.RedirectTo
}
