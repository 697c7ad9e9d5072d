package usecase

import (
	"context"
	"fmt"
	"math/big"
)

// ReferenceBalance is a best-effort running total of the gas token the
// Safe has received minus what it has spent. It is not reconciled against
// on-chain transfers.
type ReferenceBalance struct {
	store accountStore
}

// NewReferenceBalance creates a new ReferenceBalance
func NewReferenceBalance(store StateStore) *ReferenceBalance {
	return &ReferenceBalance{store: accountStore{store: store}}
}

// Get returns the counter, zero when unset
func (r *ReferenceBalance) Get(ctx context.Context) (*big.Int, error) {
	value, ok, err := r.store.bigInt(ctx, KeyReferenceBalance)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return value, nil
}

// Add increases the counter by amount
func (r *ReferenceBalance) Add(ctx context.Context, amount *big.Int) (*big.Int, error) {
	return r.update(ctx, amount, false)
}

// Remove decreases the counter by amount, never below zero
func (r *ReferenceBalance) Remove(ctx context.Context, amount *big.Int) (*big.Int, error) {
	return r.update(ctx, amount, true)
}

func (r *ReferenceBalance) update(ctx context.Context, amount *big.Int, subtract bool) (*big.Int, error) {
	current, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return current, nil
	}

	next := new(big.Int)
	if subtract {
		next.Sub(current, amount)
		if next.Sign() < 0 {
			next.SetInt64(0)
		}
	} else {
		next.Add(current, amount)
	}

	if err := r.store.setBigInt(ctx, KeyReferenceBalance, next); err != nil {
		return nil, fmt.Errorf("failed to persist reference balance: %w", err)
	}
	return next, nil
}
