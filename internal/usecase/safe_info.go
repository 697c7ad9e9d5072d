package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rmeissner/simple-safe/internal/domain/config"
	"github.com/rmeissner/simple-safe/internal/domain/models"
)

// ShowSafeResult contains the on-chain view of the Safe
type ShowSafeResult struct {
	Info    *models.SafeInfo
	Modules []models.SafeModule
	Status  models.SafeStatus
}

// ShowSafe loads owners, threshold, master copy, nonce and modules
type ShowSafe struct {
	store   accountStore
	chain   ChainReader
	tracker *SafeStatusTracker
}

// NewShowSafe creates a new ShowSafe use case
func NewShowSafe(store StateStore, chain ChainReader, tracker *SafeStatusTracker) *ShowSafe {
	return &ShowSafe{
		store:   accountStore{store: store},
		chain:   chain,
		tracker: tracker,
	}
}

// Run executes the show safe use case
func (uc *ShowSafe) Run(ctx context.Context) (*ShowSafeResult, error) {
	safe, err := uc.store.requireSafe(ctx)
	if err != nil {
		return nil, err
	}

	status, err := uc.tracker.Status(ctx)
	if err != nil {
		return nil, err
	}

	info, err := uc.chain.SafeInfo(ctx, safe)
	if err != nil {
		return nil, fmt.Errorf("failed to load safe info: %w", err)
	}
	info.Nonce, err = uc.chain.SafeNonce(ctx, safe)
	if err != nil {
		return nil, fmt.Errorf("failed to load safe nonce: %w", err)
	}

	modules, err := uc.chain.SafeModules(ctx, safe)
	if err != nil {
		return nil, fmt.Errorf("failed to load modules: %w", err)
	}

	return &ShowSafeResult{Info: info, Modules: modules, Status: status}, nil
}

// BalanceResult contains the Safe balance of one token
type BalanceResult struct {
	Safe    common.Address
	Token   common.Address
	Balance *big.Int
	// Reference is only set for the gas token
	Reference *big.Int
}

// ShowBalance reads the Safe balance of the gas token
type ShowBalance struct {
	store     accountStore
	chain     ChainReader
	reference *ReferenceBalance
	config    *config.RuntimeConfig
}

// NewShowBalance creates a new ShowBalance use case
func NewShowBalance(store StateStore, chain ChainReader, reference *ReferenceBalance, cfg *config.RuntimeConfig) *ShowBalance {
	return &ShowBalance{store: accountStore{store: store}, chain: chain, reference: reference, config: cfg}
}

// RecordDeposit adds amount to the reference balance
func (uc *ShowBalance) RecordDeposit(ctx context.Context, amount *big.Int) (*big.Int, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, fmt.Errorf("deposit must be positive")
	}
	return uc.reference.Add(ctx, amount)
}

// Run returns the balance of token, or of the gas token when token is nil
func (uc *ShowBalance) Run(ctx context.Context, token *common.Address) (*BalanceResult, error) {
	safe, err := uc.store.requireSafe(ctx)
	if err != nil {
		return nil, err
	}
	t := uc.config.GasToken
	if token != nil {
		t = *token
	}
	balance, err := uc.chain.TokenBalance(ctx, t, safe)
	if err != nil {
		return nil, fmt.Errorf("failed to load balance: %w", err)
	}
	result := &BalanceResult{Safe: safe, Token: t, Balance: balance}
	if t == uc.config.GasToken {
		result.Reference, err = uc.reference.Get(ctx)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}
