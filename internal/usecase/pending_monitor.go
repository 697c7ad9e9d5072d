package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/rmeissner/simple-safe/internal/domain/models"
)

// Event ids a Safe emits when the inner call of execTransaction reverts
var executionFailureTopics = []common.Hash{
	crypto.Keccak256Hash([]byte("ExecutionFailed(bytes32)")),
	crypto.Keccak256Hash([]byte("ExecutionFailure(bytes32,uint256)")),
}

// CheckPendingTransaction resolves the outcome of the submitted transaction
type CheckPendingTransaction struct {
	store accountStore
	chain ChainReader
	log   *slog.Logger
}

// NewCheckPendingTransaction creates a new CheckPendingTransaction use case
func NewCheckPendingTransaction(store StateStore, chain ChainReader, log *slog.Logger) *CheckPendingTransaction {
	return &CheckPendingTransaction{
		store: accountStore{store: store},
		chain: chain,
		log:   log.With("component", "pending-monitor"),
	}
}

// PendingHash returns the recorded hash, nil when nothing is pending
func (uc *CheckPendingTransaction) PendingHash(ctx context.Context) (*common.Hash, error) {
	return uc.store.pendingHash(ctx)
}

// Run returns nil when nothing is pending. A found receipt clears the
// pending slot whatever its outcome.
func (uc *CheckPendingTransaction) Run(ctx context.Context) (*models.TxStatus, error) {
	hash, err := uc.store.pendingHash(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending transaction: %w", err)
	}
	if hash == nil {
		return nil, nil
	}

	receipt, err := uc.chain.TransactionReceipt(ctx, *hash)
	if err != nil {
		return nil, fmt.Errorf("failed to load receipt for %s: %w", hash.Hex(), err)
	}
	if receipt == nil {
		return &models.TxStatus{Kind: models.TxPending, Hash: *hash}, nil
	}

	if err := uc.store.clearPendingHash(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear pending transaction: %w", err)
	}

	status := &models.TxStatus{Kind: ClassifyReceipt(receipt), Hash: *hash}
	uc.log.Info("pending transaction resolved", "tx", hash.Hex(), "status", status.String())
	return status, nil
}

// ClassifyReceipt maps a mined receipt to success or failure. A reverted
// transaction or a Safe execution-failure event counts as failed.
func ClassifyReceipt(receipt *models.Receipt) models.TxStatusKind {
	if receipt.Status == 0 {
		return models.TxFailed
	}
	for _, log := range receipt.Logs {
		if len(log.Topics) == 0 {
			continue
		}
		for _, topic := range executionFailureTopics {
			if log.Topics[0] == topic {
				return models.TxFailed
			}
		}
	}
	return models.TxSuccess
}
