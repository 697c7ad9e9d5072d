package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmeissner/simple-safe/internal/domain/models"
)

func TestClassifyReceipt(t *testing.T) {
	transfer := crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))
	failed := crypto.Keccak256Hash([]byte("ExecutionFailed(bytes32)"))
	failure := crypto.Keccak256Hash([]byte("ExecutionFailure(bytes32,uint256)"))

	tests := []struct {
		name    string
		receipt models.Receipt
		want    models.TxStatusKind
	}{
		{name: "reverted", receipt: models.Receipt{Status: 0}, want: models.TxFailed},
		{name: "success without logs", receipt: models.Receipt{Status: 1}, want: models.TxSuccess},
		{
			name:    "success with unrelated log",
			receipt: models.Receipt{Status: 1, Logs: []models.ReceiptLog{{Topics: []common.Hash{transfer}}}},
			want:    models.TxSuccess,
		},
		{
			name:    "execution failed event",
			receipt: models.Receipt{Status: 1, Logs: []models.ReceiptLog{{Topics: []common.Hash{transfer}}, {Topics: []common.Hash{failed}}}},
			want:    models.TxFailed,
		},
		{
			name:    "execution failure event",
			receipt: models.Receipt{Status: 1, Logs: []models.ReceiptLog{{Topics: []common.Hash{failure, common.HexToHash("0x01")}}}},
			want:    models.TxFailed,
		},
		{
			name:    "failure topic not in first position",
			receipt: models.Receipt{Status: 1, Logs: []models.ReceiptLog{{Topics: []common.Hash{transfer, failed}}}},
			want:    models.TxSuccess,
		},
		{
			name:    "anonymous log",
			receipt: models.Receipt{Status: 1, Logs: []models.ReceiptLog{{}}},
			want:    models.TxSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyReceipt(&tt.receipt))
		})
	}
}

func TestCheckPendingTransaction(t *testing.T) {
	ctx := context.Background()
	hash := common.HexToHash("0xabcdef")

	t.Run("nothing pending", func(t *testing.T) {
		status, err := NewCheckPendingTransaction(newMemStore(), &fakeChain{}, testLogger()).Run(ctx)
		require.NoError(t, err)
		assert.Nil(t, status)
	})

	t.Run("not yet mined", func(t *testing.T) {
		store := newMemStore()
		require.NoError(t, store.Set(ctx, KeyPendingTransactionHash, hash.Hex()))

		status, err := NewCheckPendingTransaction(store, &fakeChain{}, testLogger()).Run(ctx)
		require.NoError(t, err)

		require.NotNil(t, status)
		assert.Equal(t, models.TxPending, status.Kind)
		assert.Equal(t, hash, status.Hash)
		assert.True(t, store.has(KeyPendingTransactionHash))
	})

	t.Run("mined clears the slot", func(t *testing.T) {
		store := newMemStore()
		require.NoError(t, store.Set(ctx, KeyPendingTransactionHash, hash.Hex()))
		chain := &fakeChain{receipt: &models.Receipt{Status: 1}}

		status, err := NewCheckPendingTransaction(store, chain, testLogger()).Run(ctx)
		require.NoError(t, err)

		assert.Equal(t, models.TxSuccess, status.Kind)
		assert.False(t, store.has(KeyPendingTransactionHash))
	})

	t.Run("failed clears the slot", func(t *testing.T) {
		store := newMemStore()
		require.NoError(t, store.Set(ctx, KeyPendingTransactionHash, hash.Hex()))
		chain := &fakeChain{receipt: &models.Receipt{Status: 0}}

		status, err := NewCheckPendingTransaction(store, chain, testLogger()).Run(ctx)
		require.NoError(t, err)

		assert.Equal(t, models.TxFailed, status.Kind)
		assert.False(t, store.has(KeyPendingTransactionHash))
	})

	t.Run("rpc error keeps the slot", func(t *testing.T) {
		store := newMemStore()
		require.NoError(t, store.Set(ctx, KeyPendingTransactionHash, hash.Hex()))
		chain := &fakeChain{receiptErr: errors.New("connection refused")}

		_, err := NewCheckPendingTransaction(store, chain, testLogger()).Run(ctx)
		require.Error(t, err)
		assert.True(t, store.has(KeyPendingTransactionHash))
	})
}
