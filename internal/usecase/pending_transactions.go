package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/samber/lo"

	"github.com/rmeissner/simple-safe/internal/domain/models"
)

// ListPendingTransactions loads unexecuted transactions from the history service
type ListPendingTransactions struct {
	store   accountStore
	history TransactionService
	chain   ChainReader
}

// NewListPendingTransactions creates a new ListPendingTransactions use case
func NewListPendingTransactions(store StateStore, history TransactionService, chain ChainReader) *ListPendingTransactions {
	return &ListPendingTransactions{
		store:   accountStore{store: store},
		history: history,
		chain:   chain,
	}
}

// PendingTransactionsResult contains the pending transactions of the Safe
type PendingTransactionsResult struct {
	Transactions []models.PendingSafeTx
	SafeNonce    *big.Int
}

// Run drops executed transactions, unparseable nonces and nonces the Safe
// already used
func (uc *ListPendingTransactions) Run(ctx context.Context) (*PendingTransactionsResult, error) {
	safe, err := uc.store.requireSafe(ctx)
	if err != nil {
		return nil, err
	}

	currentNonce, err := uc.chain.SafeNonce(ctx, safe)
	if err != nil {
		return nil, fmt.Errorf("failed to load safe nonce: %w", err)
	}

	transactions, err := uc.history.ListTransactions(ctx, safe)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	open := lo.Filter(transactions, func(tx models.ServiceTransaction, _ int) bool {
		return !tx.IsExecuted && tx.Nonce != nil && tx.Nonce.Cmp(currentNonce) >= 0
	})

	pending := make([]models.PendingSafeTx, 0, len(open))
	for _, tx := range open {
		item, err := ToPendingSafeTx(tx)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", tx.SafeTxHash.Hex(), err)
		}
		pending = append(pending, item)
	}

	return &PendingTransactionsResult{Transactions: pending, SafeNonce: currentNonce}, nil
}

// ToPendingSafeTx maps a history service entry, rejecting unknown operations
func ToPendingSafeTx(tx models.ServiceTransaction) (models.PendingSafeTx, error) {
	operation, err := models.ParseOperation(tx.OperationCode)
	if err != nil {
		return models.PendingSafeTx{}, err
	}
	return models.PendingSafeTx{
		Hash: tx.SafeTxHash,
		Tx: models.SafeTx{
			To:        tx.To,
			Value:     orZero(tx.Value),
			Data:      tx.Data,
			Operation: operation,
		},
		ExecInfo: models.SafeTxExecInfo{
			BaseGas:        orZero(tx.BaseGas),
			TxGas:          orZero(tx.SafeTxGas),
			GasPrice:       orZero(tx.GasPrice),
			GasToken:       tx.GasToken,
			RefundReceiver: tx.RefundReceiver,
			Nonce:          tx.Nonce,
		},
		Confirmations: tx.Confirmations,
	}, nil
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return v
}
