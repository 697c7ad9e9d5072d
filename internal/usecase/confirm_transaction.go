package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rmeissner/simple-safe/internal/domain/models"
	"github.com/rmeissner/simple-safe/internal/domain/safehash"
)

// ConfirmTransactionParams contains parameters for confirming a transaction
type ConfirmTransactionParams struct {
	Tx       models.SafeTx
	ExecInfo models.SafeTxExecInfo
	// Confirmations already known to the history service, nil for a new transaction
	Confirmations []models.Confirmation
}

// ConfirmTransactionResult contains the result of a confirmation
type ConfirmTransactionResult struct {
	SafeTxHash common.Hash
	Signer     common.Address
	Signature  models.Signature
	Signatures int
	Threshold  int64
	// TransactionHash is nil when the transaction was not submitted
	TransactionHash *common.Hash
}

// Submitted reports whether the confirmation triggered an execution
func (r *ConfirmTransactionResult) Submitted() bool {
	return r.TransactionHash != nil
}

// ConfirmTransaction signs a transaction, publishes the confirmation and
// relays it once the Safe threshold is met
type ConfirmTransaction struct {
	store     accountStore
	keys      *DeviceKeys
	history   TransactionService
	chain     ChainReader
	submitter *SubmitTransaction
	log       *slog.Logger
}

// NewConfirmTransaction creates a new ConfirmTransaction use case
func NewConfirmTransaction(
	store StateStore,
	keys *DeviceKeys,
	history TransactionService,
	chain ChainReader,
	submitter *SubmitTransaction,
	log *slog.Logger,
) *ConfirmTransaction {
	return &ConfirmTransaction{
		store:     accountStore{store: store},
		keys:      keys,
		history:   history,
		chain:     chain,
		submitter: submitter,
		log:       log.With("component", "confirm"),
	}
}

// Run confirms the transaction
func (uc *ConfirmTransaction) Run(ctx context.Context, params ConfirmTransactionParams) (*ConfirmTransactionResult, error) {
	if err := uc.store.ensureNoPending(ctx); err != nil {
		return nil, err
	}
	safe, err := uc.store.requireSafe(ctx)
	if err != nil {
		return nil, err
	}
	if err := ensureCurrentNonce(ctx, uc.chain, safe, params.ExecInfo); err != nil {
		return nil, err
	}

	digest, err := safehash.Hash(safe, params.Tx, params.ExecInfo)
	if err != nil {
		return nil, err
	}
	signer, err := uc.keys.Signer(ctx)
	if err != nil {
		return nil, err
	}
	signature, err := signer.Sign(digest)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	record := models.HistoryRecord{
		SafeTxHash: digest,
		Tx:         params.Tx,
		ExecInfo:   params.ExecInfo,
		Sender:     signer.Address(),
		Type:       models.ConfirmationTypeConfirmation,
		Signature:  &signature,
	}
	if err := uc.history.PostTransaction(ctx, safe, record); err != nil {
		return nil, fmt.Errorf("failed to publish confirmation: %w", err)
	}

	result := &ConfirmTransactionResult{
		SafeTxHash: digest,
		Signer:     signer.Address(),
		Signature:  signature,
	}

	// The relay only executes transactions that pay a refund
	if params.ExecInfo.GasPrice == nil || params.ExecInfo.GasPrice.Sign() == 0 {
		uc.log.Debug("gas price is zero, not submitting", "safeTxHash", digest.Hex())
		return result, nil
	}

	info, err := uc.chain.SafeInfo(ctx, safe)
	if err != nil {
		return nil, fmt.Errorf("failed to load safe info: %w", err)
	}
	result.Threshold = info.Threshold

	signatures := MergeSignatures(params.Confirmations, signer.Address(), signature)
	result.Signatures = len(signatures)

	if big.NewInt(info.Threshold).Cmp(big.NewInt(int64(len(signatures)))) > 0 {
		uc.log.Info("waiting for more confirmations", "safeTxHash", digest.Hex(), "signatures", len(signatures), "threshold", info.Threshold)
		return result, nil
	}

	ethHash, err := uc.submitter.ExecuteOnChain(ctx, safe, params.Tx, params.ExecInfo, signatures)
	if err != nil {
		return nil, err
	}
	result.TransactionHash = &ethHash

	uc.submitter.NotifyHistoryServiceBestEffort(ctx, safe, record, ethHash)
	return result, nil
}

// MergeSignatures collects the ECDSA signatures of known confirmations and
// adds the local one, which replaces any earlier signature of the same owner
func MergeSignatures(confirmations []models.Confirmation, local common.Address, signature models.Signature) map[common.Address]models.Signature {
	signatures := make(map[common.Address]models.Signature, len(confirmations)+1)
	for _, confirmation := range confirmations {
		if confirmation.Signature == nil {
			continue
		}
		signatures[confirmation.Owner] = *confirmation.Signature
	}
	signatures[local] = signature
	return signatures
}
