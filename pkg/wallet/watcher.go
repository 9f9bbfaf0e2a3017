package wallet

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"nexus-swap/pkg/timers"
)

const (
	defaultPollInterval = 3 * time.Second
	failureLogWindow    = 30 * time.Second
)

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	PollInterval time.Duration
	Logger       *zap.Logger
	Scheduler    timers.Scheduler
}

// Watcher derives the connection status from a connector and publishes
// changes to subscribers.
type Watcher struct {
	connector Connector
	interval  time.Duration
	logger    *zap.Logger
	warn      func(error)

	mu     sync.Mutex
	status Status
	subs   map[int]chan Status
	nextID int
}

// NewWatcher starts disconnected. connector may be nil, in which case the
// watcher never reports a connection.
func NewWatcher(connector Connector, cfg WatcherConfig) *Watcher {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	w := &Watcher{
		connector: connector,
		interval:  interval,
		logger:    logger,
		subs:      make(map[int]chan Status),
	}
	// a dead RPC endpoint fails on every poll
	w.warn = timers.Throttle(cfg.Scheduler, failureLogWindow, func(err error) {
		w.logger.Warn("wallet refresh failed", zap.Error(err))
	})
	return w
}

// Status returns the latest snapshot.
func (w *Watcher) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Connected reports whether an account is available.
func (w *Watcher) Connected() bool {
	return w.Status().Connected
}

// Connector returns the active connector, or nil while disconnected.
func (w *Watcher) Connector() Connector {
	return w.Status().Connector
}

// Refresh queries the connector and updates the status.
func (w *Watcher) Refresh(ctx context.Context) (Status, error) {
	next, err := w.query(ctx)
	if err != nil {
		w.warn(err)
	}
	w.set(next)
	return next, err
}

func (w *Watcher) query(ctx context.Context) (Status, error) {
	if w.connector == nil {
		return Status{}, nil
	}

	provider, err := w.connector.Provider(ctx)
	if err != nil {
		return Status{}, err
	}
	if provider == nil {
		return Status{}, nil
	}

	accounts, err := provider.Accounts(ctx)
	if err != nil {
		return Status{}, err
	}
	if len(accounts) == 0 {
		return Status{}, nil
	}

	chainID, err := provider.ChainID(ctx)
	if err != nil {
		return Status{}, err
	}

	return Status{
		Connected: true,
		Address:   accounts[0],
		ChainID:   chainID,
		Connector: w.connector,
	}, nil
}

// Connect performs a refresh and fails when no account is reachable.
func (w *Watcher) Connect(ctx context.Context) error {
	status, err := w.Refresh(ctx)
	if err != nil {
		return err
	}
	if !status.Connected {
		return ErrNotConnected
	}
	w.logger.Info("wallet connected",
		zap.String("connector", w.connector.ID()),
		zap.String("address", status.Address.Hex()))
	return nil
}

// Run refreshes on every poll interval until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Refresh(ctx)
		}
	}
}

// Subscribe returns a channel carrying the latest status after each change
// and a function that unsubscribes. Slow readers only see the newest value.
func (w *Watcher) Subscribe() (<-chan Status, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextID
	w.nextID++
	ch := make(chan Status, 1)
	w.subs[id] = ch

	return ch, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.subs, id)
	}
}

func (w *Watcher) set(next Status) {
	w.mu.Lock()
	defer w.mu.Unlock()

	prev := w.status
	w.status = next
	if prev.Connected == next.Connected && prev.Address == next.Address {
		return
	}

	for _, ch := range w.subs {
		select {
		case <-ch:
		default:
		}
		ch <- next
	}
}
