package txservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmeissner/simple-safe/internal/domain/config"
	"github.com/rmeissner/simple-safe/internal/domain/models"
)

var (
	safeAddress = common.HexToAddress("0x1C8b9B78e3085866521FE206fa4c1a67F49f153A")
	owner       = common.HexToAddress("0x8e6A5aDb2B88257A3DAc7A76A7B4EcaCdA090b66")
	gasToken    = common.HexToAddress("0xb3a4Bc89d8517E0e2C9B66703d09D3029ffa1e6d")
)

const validSignature = "0x" +
	"0000000000000000000000000000000000000000000000000000000000000001" +
	"0000000000000000000000000000000000000000000000000000000000000002" +
	"1b"

func newTestServer(t *testing.T, router *mux.Router) (*Client, *httptest.Server) {
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	cfg := &config.RuntimeConfig{TransactionServiceURL: server.URL, Timeout: 5 * time.Second}
	return NewClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))), server
}

func TestListTransactions(t *testing.T) {
	router := mux.NewRouter()
	var serverURL string

	router.HandleFunc("/v1/safes/{address}/transactions/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, safeAddress.Hex(), mux.Vars(r)["address"])

		if r.URL.Query().Get("page") == "2" {
			_, _ = w.Write([]byte(`{"next": null, "results": [
				{"safeTxHash": "0x00000000000000000000000000000000000000000000000000000000000000b2", "to": "0x8e6A5aDb2B88257A3DAc7A76A7B4EcaCdA090b66", "value": "0", "operation": 0, "nonce": null, "isExecuted": false, "confirmations": []}
			]}`))
			return
		}

		fmt.Fprintf(w, `{"next": "%s/v1/safes/%s/transactions/?page=2", "results": [
			{
				"safeTxHash": "0x00000000000000000000000000000000000000000000000000000000000000b1",
				"to": "0x8e6A5aDb2B88257A3DAc7A76A7B4EcaCdA090b66",
				"value": "1000",
				"data": null,
				"operation": 1,
				"nonce": "7",
				"baseGas": "48000",
				"safeTxGas": 21000,
				"gasPrice": "1",
				"gasToken": "0xb3a4Bc89d8517E0e2C9B66703d09D3029ffa1e6d",
				"refundReceiver": "0x0000000000000000000000000000000000000000",
				"isExecuted": true,
				"confirmations": [
					{"owner": "0x8e6A5aDb2B88257A3DAc7A76A7B4EcaCdA090b66", "signature": "%s"},
					{"owner": "0x1C8b9B78e3085866521FE206fa4c1a67F49f153A", "signature": null},
					{"owner": "0x0000000000000000000000000000000000000003", "signature": "0x1234"}
				]
			}
		]}`, serverURL, safeAddress.Hex(), validSignature)
	}).Methods(http.MethodGet)

	client, server := newTestServer(t, router)
	serverURL = server.URL

	transactions, err := client.ListTransactions(context.Background(), safeAddress)
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	first := transactions[0]
	assert.Equal(t, common.HexToHash("0xb1"), first.SafeTxHash)
	assert.Equal(t, owner, first.To)
	assert.Equal(t, "1000", first.Value.String())
	assert.Equal(t, "0x", first.Data)
	assert.Equal(t, 1, first.OperationCode)
	assert.Equal(t, "7", first.Nonce.String())
	assert.Equal(t, "21000", first.SafeTxGas.String())
	assert.Equal(t, gasToken, first.GasToken)
	assert.True(t, first.IsExecuted)

	require.Len(t, first.Confirmations, 3)
	require.NotNil(t, first.Confirmations[0].Signature)
	assert.Equal(t, byte(27), first.Confirmations[0].Signature.V)
	assert.Nil(t, first.Confirmations[1].Signature)
	assert.Nil(t, first.Confirmations[2].Signature)

	second := transactions[1]
	assert.Nil(t, second.Nonce)
	assert.False(t, second.IsExecuted)
}

func TestPostTransaction(t *testing.T) {
	signature, err := models.ParseSignature(validSignature)
	require.NoError(t, err)
	ethHash := common.HexToHash("0xee")

	tests := []struct {
		name   string
		record models.HistoryRecord
		check  func(t *testing.T, body map[string]any)
	}{
		{
			name: "confirmation",
			record: models.HistoryRecord{
				Type:      models.ConfirmationTypeConfirmation,
				Signature: &signature,
			},
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "CONFIRMATION", body["confirmationType"])
				assert.Equal(t, strings.TrimPrefix(validSignature, "0x"), body["signature"])
				assert.NotContains(t, body, "transactionHash")
			},
		},
		{
			name: "execution",
			record: models.HistoryRecord{
				Type:            models.ConfirmationTypeExecution,
				TransactionHash: &ethHash,
			},
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "EXECUTION", body["confirmationType"])
				assert.Equal(t, ethHash.Hex(), body["transactionHash"])
				assert.NotContains(t, body, "signature")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]any
			router := mux.NewRouter()
			router.HandleFunc("/v1/safes/{address}/transactions/", func(w http.ResponseWriter, r *http.Request) {
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				w.WriteHeader(http.StatusCreated)
			}).Methods(http.MethodPost)

			record := tt.record
			record.SafeTxHash = common.HexToHash("0xb1")
			record.Sender = owner
			record.Tx = models.SafeTx{To: owner, Value: big.NewInt(1000), Data: "0xabcd"}
			record.ExecInfo = models.SafeTxExecInfo{
				BaseGas:  big.NewInt(48_000),
				TxGas:    big.NewInt(21_000),
				GasPrice: big.NewInt(1),
				GasToken: gasToken,
				Nonce:    big.NewInt(7),
			}

			client, _ := newTestServer(t, router)
			require.NoError(t, client.PostTransaction(context.Background(), safeAddress, record))

			require.NotNil(t, body)
			assert.Equal(t, "1000", body["value"])
			assert.Equal(t, "0xabcd", body["data"])
			assert.Equal(t, "7", body["nonce"])
			assert.Equal(t, "48000", body["baseGas"])
			assert.Equal(t, "21000", body["safeTxGas"])
			assert.Equal(t, strings.ToLower(owner.Hex()), body["sender"])
			tt.check(t, body)
		})
	}
}
