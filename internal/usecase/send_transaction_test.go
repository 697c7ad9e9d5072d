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

type sendFixture struct {
	store     *memStore
	relay     *fakeRelay
	history   *fakeHistory
	chain     *fakeChain
	reference *ReferenceBalance
	uc        *SendTransaction
}

func newSendFixture(t *testing.T, gasToken common.Address, threshold int64, balance int64) *sendFixture {
	ctx := context.Background()
	store := newMemStore()
	require.NoError(t, store.Set(ctx, KeySafeAddress, testSafe.Hex()))

	signer := newKeySigner(t)
	keys, _, _ := newDeviceKeys(signer)
	relay := &fakeRelay{
		estimate: &models.Estimate{
			SafeTxGas: big.NewInt(10),
			DataGas:   big.NewInt(20),
			GasPrice:  big.NewInt(2),
			GasToken:  gasToken,
		},
		executeHash: common.HexToHash("0xbeef"),
	}
	history := &fakeHistory{}
	chain := &fakeChain{
		info:    &models.SafeInfo{Threshold: threshold},
		balance: big.NewInt(balance),
	}
	cfg := testConfig()
	cfg.GasToken = gasToken

	reference := NewReferenceBalance(store)
	submitter := NewSubmitTransaction(store, keys, relay, history, chain, testLogger())
	confirm := NewConfirmTransaction(store, keys, history, chain, submitter, testLogger())
	execInfo := NewResolveExecInfo(store, relay, chain, cfg)

	return &sendFixture{
		store:     store,
		relay:     relay,
		history:   history,
		chain:     chain,
		reference: reference,
		uc:        NewSendTransaction(store, execInfo, confirm, submitter, reference, chain, NopProgress{}, testLogger()),
	}
}

func TestSendTransactionConfirmsAndExecutes(t *testing.T) {
	ctx := context.Background()
	f := newSendFixture(t, testGasToken, 1, 1_000)
	_, err := f.reference.Add(ctx, big.NewInt(500))
	require.NoError(t, err)

	result, err := f.uc.Run(ctx, SendTransactionParams{Tx: sampleTx()})
	require.NoError(t, err)

	require.NotNil(t, result.TransactionHash)
	assert.Equal(t, common.HexToHash("0xbeef"), *result.TransactionHash)
	require.NotNil(t, result.Confirmation)
	assert.Equal(t, "60", result.ExecInfo.Fees().String())

	// confirmation and execution records
	assert.Len(t, f.history.records, 2)

	reference, err := f.reference.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "440", reference.String())
}

func TestSendTransactionAwaitsConfirmations(t *testing.T) {
	ctx := context.Background()
	f := newSendFixture(t, testGasToken, 2, 1_000)

	result, err := f.uc.Run(ctx, SendTransactionParams{Tx: sampleTx()})
	require.NoError(t, err)

	assert.Nil(t, result.TransactionHash)
	assert.Empty(t, f.relay.executed)
	assert.Len(t, f.history.records, 1)
}

func TestSendTransactionDirect(t *testing.T) {
	ctx := context.Background()
	f := newSendFixture(t, testGasToken, 2, 1_000)

	result, err := f.uc.Run(ctx, SendTransactionParams{Tx: sampleTx(), Direct: true})
	require.NoError(t, err)

	require.NotNil(t, result.TransactionHash)
	assert.Nil(t, result.Confirmation)
	require.Len(t, f.relay.executed, 1)
	assert.Len(t, f.relay.executed[0].Signatures, 1)

	require.Len(t, f.history.records, 1)
	assert.Equal(t, models.ConfirmationTypeExecution, f.history.records[0].Type)
	assert.True(t, f.store.has(KeyPendingTransactionHash))
}

func TestSendTransactionInsufficientFunds(t *testing.T) {
	tests := []struct {
		name     string
		gasToken common.Address
		balance  int64
		wantErr  bool
	}{
		{name: "token covers fees", gasToken: testGasToken, balance: 60},
		{name: "token below fees", gasToken: testGasToken, balance: 59, wantErr: true},
		// ether pays for the 1000 wei value too
		{name: "ether covers value and fees", gasToken: common.Address{}, balance: 1_060},
		{name: "ether below value and fees", gasToken: common.Address{}, balance: 1_000, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSendFixture(t, tt.gasToken, 2, tt.balance)

			_, err := f.uc.Run(context.Background(), SendTransactionParams{Tx: sampleTx()})
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "insufficient balance")
				assert.Empty(t, f.history.records)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSendTransactionPendingGuard(t *testing.T) {
	ctx := context.Background()
	f := newSendFixture(t, testGasToken, 1, 1_000)
	require.NoError(t, f.store.Set(ctx, KeyPendingTransactionHash, common.HexToHash("0x01").Hex()))

	_, err := f.uc.Run(ctx, SendTransactionParams{Tx: sampleTx()})

	assert.ErrorIs(t, err, domain.ErrPendingActionExists)
	assert.Empty(t, f.relay.estimateReq)
}
