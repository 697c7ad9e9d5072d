package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rmeissner/simple-safe/internal/domain/config"
	"github.com/rmeissner/simple-safe/internal/domain/models"
)

// SafeFlags is the raw persisted deployment state
type SafeFlags struct {
	CreationTx    *common.Hash
	PaymentAmount *big.Int
	HasBlock      bool
}

// DeriveSafeStatus applies the fixed precedence creation tx > payment > block
func DeriveSafeStatus(flags SafeFlags) models.SafeStatus {
	switch {
	case flags.CreationTx != nil:
		return models.Deploying(*flags.CreationTx)
	case flags.PaymentAmount != nil:
		return models.Unfunded(flags.PaymentAmount)
	case flags.HasBlock:
		return models.Ready()
	default:
		return models.Unknown()
	}
}

// FundingResult describes one funding check
type FundingResult struct {
	Status    models.SafeStatus
	Balance   *big.Int
	Triggered bool
}

// SafeStatusTracker derives and refreshes the deployment status of the Safe
type SafeStatusTracker struct {
	store  accountStore
	relay  RelayService
	chain  ChainReader
	config *config.RuntimeConfig
	log    *slog.Logger
}

// NewSafeStatusTracker creates a new SafeStatusTracker
func NewSafeStatusTracker(store StateStore, relay RelayService, chain ChainReader, cfg *config.RuntimeConfig, log *slog.Logger) *SafeStatusTracker {
	return &SafeStatusTracker{
		store:  accountStore{store: store},
		relay:  relay,
		chain:  chain,
		config: cfg,
		log:    log.With("component", "safe-status"),
	}
}

// Flags reads the persisted deployment flags
func (t *SafeStatusTracker) Flags(ctx context.Context) (SafeFlags, error) {
	var flags SafeFlags

	creationTx, ok, err := t.store.store.Get(ctx, KeySafeCreationTx)
	if err != nil {
		return flags, fmt.Errorf("failed to read creation tx: %w", err)
	}
	if ok {
		hash := common.HexToHash(creationTx)
		flags.CreationTx = &hash
	}

	payment, ok, err := t.store.bigInt(ctx, KeySafePaymentAmount)
	if err != nil {
		return flags, fmt.Errorf("failed to read payment amount: %w", err)
	}
	if ok {
		flags.PaymentAmount = payment
	}

	_, flags.HasBlock, err = t.store.store.Get(ctx, KeySafeBlock)
	if err != nil {
		return flags, fmt.Errorf("failed to read deployment block: %w", err)
	}
	return flags, nil
}

// Status derives the status from the persisted flags without remote calls
func (t *SafeStatusTracker) Status(ctx context.Context) (models.SafeStatus, error) {
	flags, err := t.Flags(ctx)
	if err != nil {
		return models.Unknown(), err
	}
	return DeriveSafeStatus(flags), nil
}

// Refresh asks the relay for the deployment state. Ready is terminal and
// never re-polled. Once a block is known the creation and payment flags are
// cleared so that the derived status converges to Ready.
func (t *SafeStatusTracker) Refresh(ctx context.Context) (models.SafeStatus, error) {
	current, err := t.Status(ctx)
	if err != nil {
		return current, err
	}
	if current.Kind == models.SafeStatusReady {
		return current, nil
	}

	safe, err := t.store.requireSafe(ctx)
	if err != nil {
		return current, err
	}

	fund, err := t.relay.SafeFundStatus(ctx, safe)
	if err != nil {
		return current, fmt.Errorf("failed to load fund status: %w", err)
	}

	if fund.TxHash == nil {
		return current, nil
	}

	if fund.BlockNumber == nil {
		if err := t.store.store.Set(ctx, KeySafeCreationTx, fund.TxHash.Hex()); err != nil {
			return current, fmt.Errorf("failed to persist creation tx: %w", err)
		}
		t.log.Debug("safe deploying", "safe", safe.Hex(), "tx", fund.TxHash.Hex())
		return models.Deploying(*fund.TxHash), nil
	}

	if err := t.store.setBlock(ctx, *fund.BlockNumber); err != nil {
		return current, fmt.Errorf("failed to persist deployment block: %w", err)
	}
	if err := t.store.store.Remove(ctx, KeySafeCreationTx); err != nil {
		return current, fmt.Errorf("failed to clear creation tx: %w", err)
	}
	if err := t.store.store.Remove(ctx, KeySafePaymentAmount); err != nil {
		return current, fmt.Errorf("failed to clear payment amount: %w", err)
	}
	t.log.Info("safe deployed", "safe", safe.Hex(), "block", *fund.BlockNumber)
	return models.Ready(), nil
}

// TriggerDeployment tells the relay the Safe has been funded
func (t *SafeStatusTracker) TriggerDeployment(ctx context.Context) error {
	safe, err := t.store.requireSafe(ctx)
	if err != nil {
		return err
	}
	if err := t.relay.NotifySafeFunded(ctx, safe); err != nil {
		return fmt.Errorf("failed to notify relay: %w", err)
	}
	return nil
}

// CheckFunding triggers the deployment once an unfunded Safe holds at least
// the payment amount in the payment token
func (t *SafeStatusTracker) CheckFunding(ctx context.Context) (*FundingResult, error) {
	status, err := t.Status(ctx)
	if err != nil {
		return nil, err
	}
	result := &FundingResult{Status: status}
	if status.Kind != models.SafeStatusUnfunded {
		return result, nil
	}

	safe, err := t.store.requireSafe(ctx)
	if err != nil {
		return nil, err
	}
	balance, err := t.chain.TokenBalance(ctx, t.config.PaymentToken, safe)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment token balance: %w", err)
	}
	result.Balance = balance

	if balance.Cmp(status.PaymentAmount) < 0 {
		return result, nil
	}
	if err := t.TriggerDeployment(ctx); err != nil {
		return nil, err
	}
	result.Triggered = true
	t.log.Info("safe funded, deployment triggered", "safe", safe.Hex(), "balance", balance.String())
	return result, nil
}
