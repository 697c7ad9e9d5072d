package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rmeissner/simple-safe/internal/domain"
	"github.com/rmeissner/simple-safe/internal/domain/config"
	"github.com/rmeissner/simple-safe/internal/domain/models"
)

// ResolveExecInfo prices a transaction with the relay and picks its nonce
type ResolveExecInfo struct {
	store  accountStore
	relay  RelayService
	chain  ChainReader
	config *config.RuntimeConfig
}

// NewResolveExecInfo creates a new ResolveExecInfo use case
func NewResolveExecInfo(store StateStore, relay RelayService, chain ChainReader, cfg *config.RuntimeConfig) *ResolveExecInfo {
	return &ResolveExecInfo{
		store:  accountStore{store: store},
		relay:  relay,
		chain:  chain,
		config: cfg,
	}
}

// Run returns the execution parameters for tx on the configured Safe
func (uc *ResolveExecInfo) Run(ctx context.Context, tx models.SafeTx) (*models.SafeTxExecInfo, error) {
	safe, err := uc.store.requireSafe(ctx)
	if err != nil {
		return nil, err
	}

	estimate, err := uc.relay.Estimate(ctx, safe, models.EstimateRequest{
		Tx:        tx,
		Threshold: 1,
		GasToken:  uc.config.GasToken,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to estimate transaction: %w", err)
	}

	onChainNonce, err := uc.chain.SafeNonce(ctx, safe)
	if err != nil {
		return nil, fmt.Errorf("failed to load safe nonce: %w", err)
	}

	return &models.SafeTxExecInfo{
		BaseGas:        estimate.DataGas,
		TxGas:          estimate.SafeTxGas,
		GasPrice:       estimate.GasPrice,
		GasToken:       estimate.GasToken,
		RefundReceiver: common.Address{},
		Nonce:          ReconcileNonce(onChainNonce, estimate.LastUsedNonce),
	}, nil
}

// ReconcileNonce is max(onChainNonce, lastUsedNonce + 1), with a missing
// relay nonce counting as 0
func ReconcileNonce(onChainNonce, lastUsedNonce *big.Int) *big.Int {
	relayNonce := big.NewInt(0)
	if lastUsedNonce != nil {
		relayNonce.Add(lastUsedNonce, big.NewInt(1))
	}
	if onChainNonce.Cmp(relayNonce) > 0 {
		return new(big.Int).Set(onChainNonce)
	}
	return relayNonce
}

// ensureCurrentNonce rejects exec info whose nonce is missing or below the
// on-chain Safe nonce. Such a transaction can never execute.
func ensureCurrentNonce(ctx context.Context, chain ChainReader, safe common.Address, execInfo models.SafeTxExecInfo) error {
	if execInfo.Nonce == nil {
		return fmt.Errorf("%w: nonce missing", domain.ErrStaleNonce)
	}
	onChainNonce, err := chain.SafeNonce(ctx, safe)
	if err != nil {
		return fmt.Errorf("failed to load safe nonce: %w", err)
	}
	if execInfo.Nonce.Cmp(onChainNonce) < 0 {
		return fmt.Errorf("%w: nonce %s is below safe nonce %s", domain.ErrStaleNonce, execInfo.Nonce, onChainNonce)
	}
	return nil
}
