package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rmeissner/simple-safe/internal/domain/config"
	"github.com/rmeissner/simple-safe/internal/domain/models"
)

// PollFunc performs one iteration of a periodic check
type PollFunc func(ctx context.Context) error

// Poller repeats a PollFunc on a fixed interval until the context ends.
// A failed iteration is logged and the loop continues.
type Poller struct {
	interval time.Duration
	timeout  time.Duration
	log      *slog.Logger
}

// NewPoller creates a Poller using the configured poll interval
func NewPoller(cfg *config.RuntimeConfig, log *slog.Logger) *Poller {
	return &Poller{
		interval: cfg.PollInterval,
		timeout:  cfg.PollInterval,
		log:      log.With("component", "poller"),
	}
}

// Run polls immediately and then on every tick
func (p *Poller) Run(ctx context.Context, name string, pollOnce PollFunc) {
	p.log.Debug("poller started", "name", name, "interval", p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Initial poll
	p.poll(ctx, name, pollOnce)

	for {
		select {
		case <-ctx.Done():
			p.log.Debug("poller stopping", "name", name)
			return
		case <-ticker.C:
			p.poll(ctx, name, pollOnce)
		}
	}
}

func (p *Poller) poll(ctx context.Context, name string, pollOnce PollFunc) {
	pollCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := pollOnce(pollCtx); err != nil && ctx.Err() == nil {
		p.log.Warn("poll failed", "name", name, "error", err)
	}
}

// WatchAccount keeps the account state current by polling the relay and
// the chain in the background
type WatchAccount struct {
	store   accountStore
	tracker *SafeStatusTracker
	pending *CheckPendingTransaction
	poller  *Poller
}

// NewWatchAccount creates a new WatchAccount use case
func NewWatchAccount(store StateStore, tracker *SafeStatusTracker, pending *CheckPendingTransaction, poller *Poller) *WatchAccount {
	return &WatchAccount{
		store:   accountStore{store: store},
		tracker: tracker,
		pending: pending,
		poller:  poller,
	}
}

// InitialState builds the state from the persisted flags
func (uc *WatchAccount) InitialState(ctx context.Context) (AccountState, error) {
	safe, err := uc.store.requireSafe(ctx)
	if err != nil {
		return AccountState{}, err
	}
	status, err := uc.tracker.Status(ctx)
	if err != nil {
		return AccountState{}, err
	}
	pending, err := uc.pending.PendingHash(ctx)
	if err != nil {
		return AccountState{}, err
	}
	return AccountState{Safe: safe, Status: status, Pending: pending}, nil
}

// Run starts the status, funding and pending pollers and blocks until ctx ends
func (uc *WatchAccount) Run(ctx context.Context, broadcaster *StateBroadcaster) {
	polls := map[string]PollFunc{
		"status":  func(ctx context.Context) error { return uc.PollStatus(ctx, broadcaster) },
		"funding": func(ctx context.Context) error { return uc.PollFunding(ctx, broadcaster) },
		"pending": func(ctx context.Context) error { return uc.PollPending(ctx, broadcaster) },
	}

	var wg sync.WaitGroup
	for name, pollOnce := range polls {
		wg.Add(1)
		go func(name string, pollOnce PollFunc) {
			defer wg.Done()
			uc.poller.Run(ctx, name, pollOnce)
		}(name, pollOnce)
	}
	wg.Wait()
}

// PollStatus refreshes the deployment status once
func (uc *WatchAccount) PollStatus(ctx context.Context, broadcaster *StateBroadcaster) error {
	if broadcaster.State().Status.Kind == models.SafeStatusReady {
		return nil
	}
	status, err := uc.tracker.Refresh(ctx)
	if err != nil {
		broadcaster.Dispatch(Event{Kind: EventPollFailed, Source: "status", Err: err})
		return err
	}
	broadcaster.Dispatch(Event{Kind: EventStatusRefreshed, Status: status})
	return nil
}

// PollFunding checks the balance of an unfunded Safe once
func (uc *WatchAccount) PollFunding(ctx context.Context, broadcaster *StateBroadcaster) error {
	if broadcaster.State().Status.Kind != models.SafeStatusUnfunded {
		return nil
	}
	result, err := uc.tracker.CheckFunding(ctx)
	if err != nil {
		broadcaster.Dispatch(Event{Kind: EventPollFailed, Source: "funding", Err: err})
		return err
	}
	broadcaster.Dispatch(Event{Kind: EventFundingChecked, Status: result.Status, Balance: result.Balance})
	return nil
}

// PollPending checks the pending transaction once
func (uc *WatchAccount) PollPending(ctx context.Context, broadcaster *StateBroadcaster) error {
	status, err := uc.pending.Run(ctx)
	if err != nil {
		broadcaster.Dispatch(Event{Kind: EventPollFailed, Source: "pending", Err: err})
		return err
	}
	broadcaster.Dispatch(Event{Kind: EventPendingChecked, TxStatus: status})
	return nil
}
