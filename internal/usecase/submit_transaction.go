package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"

	"github.com/rmeissner/simple-safe/internal/domain/models"
	"github.com/rmeissner/simple-safe/internal/domain/safehash"
)

// SubmitTransaction relays fully signed transactions for execution
type SubmitTransaction struct {
	store   accountStore
	keys    *DeviceKeys
	relay   RelayService
	history TransactionService
	chain   ChainReader
	log     *slog.Logger
}

// NewSubmitTransaction creates a new SubmitTransaction use case
func NewSubmitTransaction(store StateStore, keys *DeviceKeys, relay RelayService, history TransactionService, chain ChainReader, log *slog.Logger) *SubmitTransaction {
	return &SubmitTransaction{
		store:   accountStore{store: store},
		keys:    keys,
		relay:   relay,
		history: history,
		chain:   chain,
		log:     log.With("component", "submitter"),
	}
}

// ExecuteOnChain submits tx with signatures ordered by ascending signer
// address and records the returned hash as the pending transaction
func (uc *SubmitTransaction) ExecuteOnChain(
	ctx context.Context,
	safe common.Address,
	tx models.SafeTx,
	execInfo models.SafeTxExecInfo,
	signatures map[common.Address]models.Signature,
) (common.Hash, error) {
	ordered := OrderSignatures(signatures)

	ethHash, err := uc.relay.Execute(ctx, safe, models.ExecuteRequest{
		Tx:         tx,
		ExecInfo:   execInfo,
		Signatures: ordered,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to execute transaction: %w", err)
	}

	if err := uc.store.setPendingHash(ctx, ethHash); err != nil {
		return ethHash, fmt.Errorf("failed to persist pending transaction: %w", err)
	}
	uc.log.Info("transaction submitted", "safe", safe.Hex(), "tx", ethHash.Hex(), "signatures", len(ordered))
	return ethHash, nil
}

// NotifyHistoryServiceBestEffort posts an execution record. Failures are
// logged and never returned since the transaction is already on its way.
func (uc *SubmitTransaction) NotifyHistoryServiceBestEffort(ctx context.Context, safe common.Address, record models.HistoryRecord, ethHash common.Hash) {
	record.Type = models.ConfirmationTypeExecution
	record.Signature = nil
	record.TransactionHash = &ethHash

	if err := uc.history.PostTransaction(ctx, safe, record); err != nil {
		uc.log.Warn("failed to notify history service", "safe", safe.Hex(), "tx", ethHash.Hex(), "error", err)
	}
}

// SubmitSingle signs tx with the device key and executes it with that single
// signature, for Safes where the device alone meets the threshold
func (uc *SubmitTransaction) SubmitSingle(ctx context.Context, tx models.SafeTx, execInfo models.SafeTxExecInfo) (common.Hash, error) {
	if err := uc.store.ensureNoPending(ctx); err != nil {
		return common.Hash{}, err
	}
	safe, err := uc.store.requireSafe(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	if err := ensureCurrentNonce(ctx, uc.chain, safe, execInfo); err != nil {
		return common.Hash{}, err
	}

	digest, err := safehash.Hash(safe, tx, execInfo)
	if err != nil {
		return common.Hash{}, err
	}
	signer, err := uc.keys.Signer(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	signature, err := signer.Sign(digest)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	ethHash, err := uc.ExecuteOnChain(ctx, safe, tx, execInfo, map[common.Address]models.Signature{
		signer.Address(): signature,
	})
	if err != nil {
		return common.Hash{}, err
	}

	uc.NotifyHistoryServiceBestEffort(ctx, safe, models.HistoryRecord{
		SafeTxHash: digest,
		Tx:         tx,
		ExecInfo:   execInfo,
		Sender:     signer.Address(),
	}, ethHash)
	return ethHash, nil
}

// OrderSignatures sorts signatures by ascending signer address
func OrderSignatures(signatures map[common.Address]models.Signature) []models.Signature {
	signers := lo.Keys(signatures)
	slices.SortFunc(signers, func(a, b common.Address) int {
		return a.Cmp(b)
	})
	return lo.Map(signers, func(signer common.Address, _ int) models.Signature {
		return signatures[signer]
	})
}
