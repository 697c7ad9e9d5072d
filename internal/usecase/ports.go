package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rmeissner/simple-safe/internal/domain/config"
	"github.com/rmeissner/simple-safe/internal/domain/models"
)

// StateStore persists the account flags as independent string keys
type StateStore interface {
	// Get returns the value and whether the key exists
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes a key; removing a missing key is not an error
	Remove(ctx context.Context, key string) error
	Close() error
}

// MnemonicVault keeps the device mnemonic encrypted at rest
type MnemonicVault interface {
	HasMnemonic(ctx context.Context) (bool, error)
	// LoadMnemonic returns domain.ErrNotInitialized when nothing is stored
	LoadMnemonic(ctx context.Context) (string, error)
	StoreMnemonic(ctx context.Context, mnemonic string) error
}

// KeyDeriver turns a mnemonic into the device signing key
type KeyDeriver interface {
	GenerateMnemonic() (string, error)
	ValidateMnemonic(mnemonic string) error
	DeriveKey(mnemonic string) (DeviceSigner, error)
}

// DeviceSigner signs Safe digests with the device key
type DeviceSigner interface {
	Address() common.Address
	Sign(digest common.Hash) (models.Signature, error)
}

// RelayService prices, deploys and executes Safe transactions
type RelayService interface {
	CreateSafe(ctx context.Context, req models.SafeCreationRequest) (*models.SafeCreation, error)
	NotifySafeFunded(ctx context.Context, safe common.Address) error
	SafeFundStatus(ctx context.Context, safe common.Address) (*models.FundStatus, error)
	Estimate(ctx context.Context, safe common.Address, req models.EstimateRequest) (*models.Estimate, error)
	// Execute returns the Ethereum transaction hash of the relayed execution
	Execute(ctx context.Context, safe common.Address, req models.ExecuteRequest) (common.Hash, error)
}

// TransactionService is the shared transaction history service
type TransactionService interface {
	ListTransactions(ctx context.Context, safe common.Address) ([]models.ServiceTransaction, error)
	PostTransaction(ctx context.Context, safe common.Address, record models.HistoryRecord) error
}

// ChainReader reads Safe state from an Ethereum node
type ChainReader interface {
	SafeNonce(ctx context.Context, safe common.Address) (*big.Int, error)
	SafeInfo(ctx context.Context, safe common.Address) (*models.SafeInfo, error)
	SafeModules(ctx context.Context, safe common.Address) ([]models.SafeModule, error)
	// TokenBalance reads an ERC20 balance, or the ether balance for the zero address
	TokenBalance(ctx context.Context, token, owner common.Address) (*big.Int, error)
	// TransactionReceipt returns nil without error while the transaction is unmined
	TransactionReceipt(ctx context.Context, hash common.Hash) (*models.Receipt, error)
}

// TransactionSelector lets the user pick and approve transactions
type TransactionSelector interface {
	SelectPendingTransaction(ctx context.Context, txs []models.PendingSafeTx) (*models.PendingSafeTx, error)
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// LocalConfigRepository manages local configuration persistence
type LocalConfigRepository interface {
	Exists() bool
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, config *config.LocalConfig) error
	GetPath() string
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
