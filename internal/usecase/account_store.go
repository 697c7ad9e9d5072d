package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rmeissner/simple-safe/internal/domain"
)

// Persisted account keys. Each is written independently.
const (
	KeyMnemonic               = "accounts.mnemonic"
	KeySafeAddress            = "accounts.safe_address"
	KeySafePaymentAmount      = "accounts.safe_payment_amount"
	KeySafeBlock              = "accounts.safe_block"
	KeySafeCreationTx         = "accounts.safe_creation_tx"
	KeyPendingTransactionHash = "accounts.pending_transaction_hash"
	KeyReferenceBalance       = "accounts.reference_balance"
)

// accountStore gives typed access to the account flags
type accountStore struct {
	store StateStore
}

func (s accountStore) safeAddress(ctx context.Context) (common.Address, bool, error) {
	raw, ok, err := s.store.Get(ctx, KeySafeAddress)
	if err != nil || !ok {
		return common.Address{}, false, err
	}
	if !common.IsHexAddress(raw) {
		return common.Address{}, false, fmt.Errorf("stored safe address %q: %w", raw, domain.ErrInvalidAddress)
	}
	return common.HexToAddress(raw), true, nil
}

// requireSafe returns domain.ErrNoSafe when no Safe has been created or joined
func (s accountStore) requireSafe(ctx context.Context) (common.Address, error) {
	safe, ok, err := s.safeAddress(ctx)
	if err != nil {
		return common.Address{}, err
	}
	if !ok {
		return common.Address{}, domain.ErrNoSafe
	}
	return safe, nil
}

func (s accountStore) setSafeAddress(ctx context.Context, safe common.Address) error {
	return s.store.Set(ctx, KeySafeAddress, safe.Hex())
}

// switchSafe persists safe as the account Safe. State tracked for a
// different previous Safe is dropped first.
func (s accountStore) switchSafe(ctx context.Context, safe common.Address) error {
	current, ok, err := s.safeAddress(ctx)
	if err != nil && !errors.Is(err, domain.ErrInvalidAddress) {
		return err
	}
	if !ok || current != safe {
		for _, key := range []string{
			KeySafeCreationTx,
			KeySafePaymentAmount,
			KeySafeBlock,
			KeyPendingTransactionHash,
			KeyReferenceBalance,
		} {
			if err := s.store.Remove(ctx, key); err != nil {
				return fmt.Errorf("failed to clear %s: %w", key, err)
			}
		}
	}
	return s.setSafeAddress(ctx, safe)
}

func (s accountStore) setBlock(ctx context.Context, block uint64) error {
	return s.store.Set(ctx, KeySafeBlock, strconv.FormatUint(block, 10))
}

func (s accountStore) pendingHash(ctx context.Context) (*common.Hash, error) {
	raw, ok, err := s.store.Get(ctx, KeyPendingTransactionHash)
	if err != nil || !ok {
		return nil, err
	}
	hash := common.HexToHash(raw)
	return &hash, nil
}

func (s accountStore) setPendingHash(ctx context.Context, hash common.Hash) error {
	return s.store.Set(ctx, KeyPendingTransactionHash, hash.Hex())
}

func (s accountStore) clearPendingHash(ctx context.Context) error {
	return s.store.Remove(ctx, KeyPendingTransactionHash)
}

// ensureNoPending fails fast while a submitted transaction is unresolved
func (s accountStore) ensureNoPending(ctx context.Context) error {
	hash, err := s.pendingHash(ctx)
	if err != nil {
		return fmt.Errorf("failed to read pending transaction: %w", err)
	}
	if hash != nil {
		return fmt.Errorf("%w: %s", domain.ErrPendingActionExists, hash.Hex())
	}
	return nil
}

func (s accountStore) bigInt(ctx context.Context, key string) (*big.Int, bool, error) {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	value, valid := new(big.Int).SetString(raw, 10)
	if !valid {
		return nil, false, fmt.Errorf("stored value for %s is not a decimal: %q", key, raw)
	}
	return value, true, nil
}

func (s accountStore) setBigInt(ctx context.Context, key string, value *big.Int) error {
	return s.store.Set(ctx, key, value.String())
}
