package usecase

import (
	"context"
	"crypto/ecdsa"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/rmeissner/simple-safe/internal/domain"
	"github.com/rmeissner/simple-safe/internal/domain/config"
	"github.com/rmeissner/simple-safe/internal/domain/models"
)

var (
	testSafe     = common.HexToAddress("0x1C8b9B78e3085866521FE206fa4c1a67F49f153A")
	testReceiver = common.HexToAddress("0x8e6A5aDb2B88257A3DAc7A76A7B4EcaCdA090b66")
	testGasToken = common.HexToAddress("0xb3a4Bc89d8517E0e2C9B66703d09D3029ffa1e6d")
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.RuntimeConfig {
	return &config.RuntimeConfig{
		GasToken:     testGasToken,
		PaymentToken: testGasToken,
		PollInterval: 10 * time.Millisecond,
	}
}

// memStore is an in-memory StateStore
type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}}
}

func (s *memStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *memStore) Close() error { return nil }

func (s *memStore) has(key string) bool {
	_, ok, _ := s.Get(context.Background(), key)
	return ok
}

// keySigner signs with a raw ecdsa key
type keySigner struct {
	key *ecdsa.PrivateKey
}

func newKeySigner(t *testing.T) *keySigner {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return &keySigner{key: key}
}

func (s *keySigner) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

func (s *keySigner) Sign(digest common.Hash) (models.Signature, error) {
	raw, err := crypto.Sign(digest.Bytes(), s.key)
	if err != nil {
		return models.Signature{}, err
	}
	return models.SignatureFromBytes(raw)
}

// fakeVault stores the mnemonic in plain text
type fakeVault struct {
	mnemonic string
	storeErr error
}

func (v *fakeVault) HasMnemonic(context.Context) (bool, error) { return v.mnemonic != "", nil }

func (v *fakeVault) LoadMnemonic(context.Context) (string, error) {
	if v.mnemonic == "" {
		return "", domain.ErrNotInitialized
	}
	return v.mnemonic, nil
}

func (v *fakeVault) StoreMnemonic(_ context.Context, mnemonic string) error {
	if v.storeErr != nil {
		return v.storeErr
	}
	v.mnemonic = mnemonic
	return nil
}

// fakeDeriver maps every mnemonic to one signer
type fakeDeriver struct {
	signer    *keySigner
	generated int
}

func (d *fakeDeriver) GenerateMnemonic() (string, error) {
	d.generated++
	return "generated mnemonic", nil
}

func (d *fakeDeriver) ValidateMnemonic(mnemonic string) error {
	if mnemonic == "invalid" {
		return domain.ErrInvalidMnemonic
	}
	return nil
}

func (d *fakeDeriver) DeriveKey(string) (DeviceSigner, error) { return d.signer, nil }

func newDeviceKeys(signer *keySigner) (*DeviceKeys, *fakeVault, *fakeDeriver) {
	vault := &fakeVault{}
	deriver := &fakeDeriver{signer: signer}
	return NewDeviceKeys(vault, deriver), vault, deriver
}

// fakeRelay records relay calls
type fakeRelay struct {
	mu sync.Mutex

	creation   *models.SafeCreation
	createReqs []models.SafeCreationRequest

	fundStatus  *models.FundStatus
	fundErr     error
	fundCalls   int
	funded      int
	estimate    *models.Estimate
	estimateReq []models.EstimateRequest

	executeHash common.Hash
	executeErr  error
	executed    []models.ExecuteRequest
}

func (r *fakeRelay) CreateSafe(_ context.Context, req models.SafeCreationRequest) (*models.SafeCreation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createReqs = append(r.createReqs, req)
	return r.creation, nil
}

func (r *fakeRelay) NotifySafeFunded(context.Context, common.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funded++
	return nil
}

func (r *fakeRelay) SafeFundStatus(context.Context, common.Address) (*models.FundStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fundCalls++
	if r.fundErr != nil {
		return nil, r.fundErr
	}
	if r.fundStatus == nil {
		return &models.FundStatus{}, nil
	}
	return r.fundStatus, nil
}

func (r *fakeRelay) Estimate(_ context.Context, _ common.Address, req models.EstimateRequest) (*models.Estimate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.estimateReq = append(r.estimateReq, req)
	return r.estimate, nil
}

func (r *fakeRelay) Execute(_ context.Context, _ common.Address, req models.ExecuteRequest) (common.Hash, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.executeErr != nil {
		return common.Hash{}, r.executeErr
	}
	r.executed = append(r.executed, req)
	return r.executeHash, nil
}

// fakeHistory is a shared in-memory history service
type fakeHistory struct {
	mu           sync.Mutex
	records      []models.HistoryRecord
	transactions []models.ServiceTransaction
	postErr      func(record models.HistoryRecord) error
}

func (h *fakeHistory) ListTransactions(context.Context, common.Address) ([]models.ServiceTransaction, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.transactions, nil
}

func (h *fakeHistory) PostTransaction(_ context.Context, _ common.Address, record models.HistoryRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.postErr != nil {
		if err := h.postErr(record); err != nil {
			return err
		}
	}
	h.records = append(h.records, record)
	return nil
}

// fakeChain serves canned chain reads
type fakeChain struct {
	mu         sync.Mutex
	nonce      *big.Int
	info       *models.SafeInfo
	modules    []models.SafeModule
	balance    *big.Int
	receipt    *models.Receipt
	receiptErr error
	infoCalls  int
}

func (c *fakeChain) SafeNonce(context.Context, common.Address) (*big.Int, error) {
	if c.nonce == nil {
		return big.NewInt(0), nil
	}
	return c.nonce, nil
}

func (c *fakeChain) SafeInfo(_ context.Context, safe common.Address) (*models.SafeInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.infoCalls++
	info := *c.info
	info.Address = safe
	return &info, nil
}

func (c *fakeChain) SafeModules(context.Context, common.Address) ([]models.SafeModule, error) {
	return c.modules, nil
}

func (c *fakeChain) TokenBalance(context.Context, common.Address, common.Address) (*big.Int, error) {
	if c.balance == nil {
		return big.NewInt(0), nil
	}
	return c.balance, nil
}

func (c *fakeChain) TransactionReceipt(context.Context, common.Hash) (*models.Receipt, error) {
	return c.receipt, c.receiptErr
}

func sampleTx() models.SafeTx {
	return models.SafeTx{
		To:        testReceiver,
		Value:     big.NewInt(1000),
		Data:      "0x",
		Operation: models.OperationCall,
	}
}

func sampleExecInfo(gasPrice int64) models.SafeTxExecInfo {
	return models.SafeTxExecInfo{
		BaseGas:  big.NewInt(48_000),
		TxGas:    big.NewInt(21_000),
		GasPrice: big.NewInt(gasPrice),
		GasToken: testGasToken,
		Nonce:    big.NewInt(0),
	}
}
