package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rmeissner/simple-safe/internal/domain/models"
)

// SendTransactionParams contains parameters for a new transaction
type SendTransactionParams struct {
	Tx models.SafeTx
	// Direct executes with the device signature only, skipping the history service confirmation
	Direct bool
}

// SendTransactionResult contains the result of a new transaction
type SendTransactionResult struct {
	ExecInfo     *models.SafeTxExecInfo
	Confirmation *ConfirmTransactionResult
	// TransactionHash is nil while the transaction waits for confirmations
	TransactionHash *common.Hash
}

// SendTransaction prices a new transaction, checks the Safe can pay for it
// and either confirms or directly executes it
type SendTransaction struct {
	store     accountStore
	execInfo  *ResolveExecInfo
	confirm   *ConfirmTransaction
	submitter *SubmitTransaction
	reference *ReferenceBalance
	chain     ChainReader
	progress  ProgressSink
	log       *slog.Logger
}

// NewSendTransaction creates a new SendTransaction use case
func NewSendTransaction(
	store StateStore,
	execInfo *ResolveExecInfo,
	confirm *ConfirmTransaction,
	submitter *SubmitTransaction,
	reference *ReferenceBalance,
	chain ChainReader,
	progress ProgressSink,
	log *slog.Logger,
) *SendTransaction {
	return &SendTransaction{
		store:     accountStore{store: store},
		execInfo:  execInfo,
		confirm:   confirm,
		submitter: submitter,
		reference: reference,
		chain:     chain,
		progress:  progress,
		log:       log.With("component", "send"),
	}
}

// Run executes the send transaction use case
func (uc *SendTransaction) Run(ctx context.Context, params SendTransactionParams) (*SendTransactionResult, error) {
	if err := uc.store.ensureNoPending(ctx); err != nil {
		return nil, err
	}
	safe, err := uc.store.requireSafe(ctx)
	if err != nil {
		return nil, err
	}

	defer uc.progress.OnProgress(ctx, ProgressEvent{Stage: "completed"})

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "estimating", Message: "asking relay for fees", Spinner: true})
	execInfo, err := uc.execInfo.Run(ctx, params.Tx)
	if err != nil {
		return nil, err
	}
	if err := uc.checkFunds(ctx, safe, params.Tx, *execInfo); err != nil {
		return nil, err
	}

	result := &SendTransactionResult{ExecInfo: execInfo}
	if params.Direct {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: "submitting", Message: "relaying transaction", Spinner: true})
		hash, err := uc.submitter.SubmitSingle(ctx, params.Tx, *execInfo)
		if err != nil {
			return nil, err
		}
		result.TransactionHash = &hash
		uc.recordSpend(ctx, params.Tx, *execInfo)
		return result, nil
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "signing", Message: "publishing confirmation", Spinner: true})
	confirmation, err := uc.confirm.Run(ctx, ConfirmTransactionParams{Tx: params.Tx, ExecInfo: *execInfo})
	if err != nil {
		return nil, err
	}
	result.Confirmation = confirmation
	result.TransactionHash = confirmation.TransactionHash
	if result.TransactionHash != nil {
		uc.recordSpend(ctx, params.Tx, *execInfo)
	}
	return result, nil
}

// recordSpend lowers the reference balance by what the submitted
// transaction costs in the gas token
func (uc *SendTransaction) recordSpend(ctx context.Context, tx models.SafeTx, execInfo models.SafeTxExecInfo) {
	if _, err := uc.reference.Remove(ctx, spentGasToken(tx, execInfo)); err != nil {
		uc.log.Warn("failed to update reference balance", "error", err)
	}
}

// spentGasToken is the fee, plus the value when fees are paid in ether
func spentGasToken(tx models.SafeTx, execInfo models.SafeTxExecInfo) *big.Int {
	spent := execInfo.Fees()
	if execInfo.GasToken == (common.Address{}) && tx.Value != nil {
		spent = new(big.Int).Add(spent, tx.Value)
	}
	return spent
}

// checkFunds requires the gas token balance to cover the fees, plus the
// value when fees are paid in ether
func (uc *SendTransaction) checkFunds(ctx context.Context, safe common.Address, tx models.SafeTx, execInfo models.SafeTxExecInfo) error {
	required := spentGasToken(tx, execInfo)
	if required.Sign() == 0 {
		return nil
	}

	balance, err := uc.chain.TokenBalance(ctx, execInfo.GasToken, safe)
	if err != nil {
		return fmt.Errorf("failed to load balance: %w", err)
	}
	if balance.Cmp(required) < 0 {
		return fmt.Errorf("insufficient balance: need %s, have %s", required, balance)
	}
	return nil
}
