package relay

import (
	"context"
	"encoding/json"
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

	"github.com/rmeissner/simple-safe/internal/domain"
	"github.com/rmeissner/simple-safe/internal/domain/config"
	"github.com/rmeissner/simple-safe/internal/domain/models"
)

var (
	safeAddress = common.HexToAddress("0x1C8b9B78e3085866521FE206fa4c1a67F49f153A")
	owner       = common.HexToAddress("0x8e6A5aDb2B88257A3DAc7A76A7B4EcaCdA090b66")
	gasToken    = common.HexToAddress("0xb3a4Bc89d8517E0e2C9B66703d09D3029ffa1e6d")
)

func newTestClient(t *testing.T, router *mux.Router) *Client {
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	cfg := &config.RuntimeConfig{RelayURL: server.URL + "/api/", Timeout: 5 * time.Second}
	return NewClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	var body map[string]any
	assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func TestCreateSafe(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/v2/safes/", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, float64(1), body["threshold"])
		assert.Equal(t, float64(1700000000000), body["saltNonce"])
		assert.Equal(t, []any{strings.ToLower(owner.Hex())}, body["owners"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"safe": "0x1C8b9B78e3085866521FE206fa4c1a67F49f153A",
			"masterCopy": "0x34CfAC646f301356fAa8B21e94227e3583Fe3F5F",
			"proxyFactory": "0x12302fE9c02ff50939BaAaaf415fc226C078613C",
			"setupData": "0xabcd",
			"payment": 123456789012345678901,
			"paymentToken": "0xb3a4Bc89d8517E0e2C9B66703d09D3029ffa1e6d",
			"paymentReceiver": "0x0000000000000000000000000000000000000000"
		}`))
	}).Methods(http.MethodPost)

	creation, err := newTestClient(t, router).CreateSafe(context.Background(), models.SafeCreationRequest{
		Owners:       []common.Address{owner},
		Threshold:    1,
		SaltNonce:    1_700_000_000_000,
		PaymentToken: gasToken,
	})
	require.NoError(t, err)

	assert.Equal(t, safeAddress, creation.Safe)
	assert.Equal(t, "123456789012345678901", creation.Payment.String())
	assert.Equal(t, gasToken, creation.PaymentToken)
	assert.Equal(t, "0xabcd", creation.SetupData)
}

func TestFundStatus(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantBlock *uint64
		wantTx    bool
	}{
		{name: "empty", body: `{}`},
		{name: "deploying", body: `{"txHash": "0x00000000000000000000000000000000000000000000000000000000000000aa"}`, wantTx: true},
		{name: "deployed", body: `{"blockNumber": 42, "txHash": "0x00000000000000000000000000000000000000000000000000000000000000aa"}`, wantBlock: uint64Ptr(42), wantTx: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := mux.NewRouter()
			router.HandleFunc("/api/v2/safes/{address}/funded/", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, safeAddress.Hex(), mux.Vars(r)["address"])
				_, _ = w.Write([]byte(tt.body))
			}).Methods(http.MethodGet)

			status, err := newTestClient(t, router).SafeFundStatus(context.Background(), safeAddress)
			require.NoError(t, err)

			assert.Equal(t, tt.wantBlock, status.BlockNumber)
			assert.Equal(t, tt.wantTx, status.TxHash != nil)
		})
	}
}

func uint64Ptr(v uint64) *uint64 { return &v }

func TestNotifySafeFunded(t *testing.T) {
	called := false
	router := mux.NewRouter()
	router.HandleFunc("/api/v2/safes/{address}/funded/", func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusAccepted)
	}).Methods(http.MethodPut)

	require.NoError(t, newTestClient(t, router).NotifySafeFunded(context.Background(), safeAddress))
	assert.True(t, called)
}

func TestEstimate(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/safes/{address}/transactions/estimate/", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, "1000", body["value"])
		assert.Equal(t, "0x", body["data"])
		assert.Equal(t, float64(0), body["operation"])
		assert.Equal(t, float64(1), body["threshold"])

		_, _ = w.Write([]byte(`{
			"safeTxGas": "21000",
			"dataGas": 48000,
			"operationalGas": "10000",
			"gasPrice": "1000000000",
			"gasToken": "0xb3a4Bc89d8517E0e2C9B66703d09D3029ffa1e6d",
			"lastUsedNonce": null
		}`))
	}).Methods(http.MethodPost)

	estimate, err := newTestClient(t, router).Estimate(context.Background(), safeAddress, models.EstimateRequest{
		Tx:        models.SafeTx{To: owner, Value: big.NewInt(1000), Data: "0x"},
		Threshold: 1,
		GasToken:  gasToken,
	})
	require.NoError(t, err)

	assert.Equal(t, "21000", estimate.SafeTxGas.String())
	assert.Equal(t, "48000", estimate.DataGas.String())
	assert.Equal(t, "1000000000", estimate.GasPrice.String())
	assert.Equal(t, gasToken, estimate.GasToken)
	assert.Nil(t, estimate.LastUsedNonce)
}

func TestExecute(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/safes/{address}/transactions/", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, "48000", body["dataGas"])
		assert.Equal(t, "21000", body["safeTxGas"])
		assert.Equal(t, float64(3), body["nonce"])

		signatures, _ := body["signatures"].([]any)
		if !assert.Len(t, signatures, 1) {
			return
		}
		sig, _ := signatures[0].(map[string]any)
		assert.Equal(t, float64(27), sig["v"])
		assert.Equal(t, "1", sig["r"])
		assert.Equal(t, "2", sig["s"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"transactionHash": "0x00000000000000000000000000000000000000000000000000000000000000bb"}`))
	}).Methods(http.MethodPost)

	hash, err := newTestClient(t, router).Execute(context.Background(), safeAddress, models.ExecuteRequest{
		Tx: models.SafeTx{To: owner, Value: big.NewInt(0), Data: "0x"},
		ExecInfo: models.SafeTxExecInfo{
			BaseGas:  big.NewInt(48_000),
			TxGas:    big.NewInt(21_000),
			GasPrice: big.NewInt(1),
			GasToken: gasToken,
			Nonce:    big.NewInt(3),
		},
		Signatures: []models.Signature{{R: big.NewInt(1), S: big.NewInt(2), V: 27}},
	})
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash("0xbb"), hash)
}

func TestErrorStatus(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/v2/safes/{address}/funded/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := newTestClient(t, router).SafeFundStatus(context.Background(), safeAddress)

	var httpErr *domain.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Contains(t, err.Error(), "unexpected status code: 404")
}

func TestUnconfigured(t *testing.T) {
	client := NewClient(&config.RuntimeConfig{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := client.SafeFundStatus(context.Background(), safeAddress)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relay_url is not configured")
}
