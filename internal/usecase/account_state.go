package usecase

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rmeissner/simple-safe/internal/domain/models"
)

// AccountState is the observable state of the account
type AccountState struct {
	Safe      common.Address
	Status    models.SafeStatus
	Balance   *big.Int
	Pending   *common.Hash
	LastTx    *models.TxStatus
	LastError error
	Version   uint64
}

// EventKind tags account state events
type EventKind int

const (
	EventStatusRefreshed EventKind = iota
	EventFundingChecked
	EventPendingChecked
	EventPollFailed
)

// Event is one observation fed into Reduce
type Event struct {
	Kind     EventKind
	Source   string
	Status   models.SafeStatus
	Balance  *big.Int
	TxStatus *models.TxStatus
	Err      error
}

// Reduce applies an event to the state. The Safe status never regresses
// from Ready.
func Reduce(state AccountState, event Event) AccountState {
	next := state
	next.Version++

	switch event.Kind {
	case EventStatusRefreshed:
		if state.Status.Kind != models.SafeStatusReady {
			next.Status = event.Status
		}
		next.LastError = nil
	case EventFundingChecked:
		if event.Balance != nil {
			next.Balance = event.Balance
		}
		next.LastError = nil
	case EventPendingChecked:
		next.LastError = nil
		if event.TxStatus == nil {
			next.Pending = nil
			break
		}
		if event.TxStatus.Kind == models.TxPending {
			hash := event.TxStatus.Hash
			next.Pending = &hash
			break
		}
		next.Pending = nil
		next.LastTx = event.TxStatus
	case EventPollFailed:
		next.LastError = event.Err
	}
	return next
}

// StateBroadcaster owns the account state and fans out every change
type StateBroadcaster struct {
	mu     sync.Mutex
	state  AccountState
	subs   map[int]chan AccountState
	nextID int
}

// NewStateBroadcaster creates a broadcaster starting at initial
func NewStateBroadcaster(initial AccountState) *StateBroadcaster {
	return &StateBroadcaster{
		state: initial,
		subs:  make(map[int]chan AccountState),
	}
}

// State returns the current state
func (b *StateBroadcaster) State() AccountState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Dispatch reduces the event into the state and notifies subscribers.
// Slow subscribers only ever see the latest state.
func (b *StateBroadcaster) Dispatch(event Event) AccountState {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = Reduce(b.state, event)
	for _, ch := range b.subs {
		select {
		case ch <- b.state:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- b.state
		}
	}
	return b.state
}

// Subscribe returns a channel of state updates and a cancel func
func (b *StateBroadcaster) Subscribe() (<-chan AccountState, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan AccountState, 1)
	b.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
}
