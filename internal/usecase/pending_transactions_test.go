package usecase

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmeissner/simple-safe/internal/domain"
	"github.com/rmeissner/simple-safe/internal/domain/models"
)

func serviceTx(hash string, nonce *big.Int, executed bool) models.ServiceTransaction {
	return models.ServiceTransaction{
		SafeTxHash: common.HexToHash(hash),
		To:         testReceiver,
		Value:      big.NewInt(1),
		Data:       "0x",
		SafeTxGas:  big.NewInt(21_000),
		BaseGas:    big.NewInt(48_000),
		GasPrice:   big.NewInt(1),
		GasToken:   testGasToken,
		Nonce:      nonce,
		IsExecuted: executed,
	}
}

func TestListPendingTransactions(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	require.NoError(t, store.Set(ctx, KeySafeAddress, testSafe.Hex()))

	history := &fakeHistory{transactions: []models.ServiceTransaction{
		serviceTx("0x01", big.NewInt(3), false),
		serviceTx("0x02", big.NewInt(4), true),
		serviceTx("0x03", big.NewInt(5), false),
		serviceTx("0x04", nil, false),
		serviceTx("0x05", big.NewInt(2), false),
	}}
	chain := &fakeChain{nonce: big.NewInt(3)}

	result, err := NewListPendingTransactions(store, history, chain).Run(ctx)
	require.NoError(t, err)

	require.Len(t, result.Transactions, 2)
	assert.Equal(t, common.HexToHash("0x01"), result.Transactions[0].Hash)
	assert.Equal(t, common.HexToHash("0x03"), result.Transactions[1].Hash)
	assert.Equal(t, "3", result.SafeNonce.String())
}

func TestListPendingTransactionsRejectsUnknownOperation(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	require.NoError(t, store.Set(ctx, KeySafeAddress, testSafe.Hex()))

	tx := serviceTx("0x01", big.NewInt(0), false)
	tx.OperationCode = 2
	history := &fakeHistory{transactions: []models.ServiceTransaction{tx}}

	_, err := NewListPendingTransactions(store, history, &fakeChain{}).Run(ctx)
	assert.ErrorIs(t, err, domain.ErrUnsupportedOperation)
}

func TestToPendingSafeTx(t *testing.T) {
	signature := models.Signature{R: big.NewInt(1), S: big.NewInt(2), V: 27}
	tx := models.ServiceTransaction{
		SafeTxHash:    common.HexToHash("0xaa"),
		To:            testReceiver,
		Data:          "0x1234",
		OperationCode: 1,
		GasToken:      testGasToken,
		Nonce:         big.NewInt(9),
		Confirmations: []models.Confirmation{{Owner: testReceiver, Signature: &signature}},
	}

	pending, err := ToPendingSafeTx(tx)
	require.NoError(t, err)

	assert.Equal(t, models.OperationDelegateCall, pending.Tx.Operation)
	assert.Equal(t, "0", pending.Tx.Value.String())
	assert.Equal(t, "0", pending.ExecInfo.GasPrice.String())
	assert.Equal(t, "9", pending.ExecInfo.Nonce.String())
	assert.Equal(t, "0x1234", pending.Tx.Data)
	require.Len(t, pending.Confirmations, 1)
	assert.Equal(t, testReceiver, pending.Confirmations[0].Owner)
}
