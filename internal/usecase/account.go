package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rmeissner/simple-safe/internal/domain"
	"github.com/rmeissner/simple-safe/internal/domain/config"
	"github.com/rmeissner/simple-safe/internal/domain/models"
)

// Account manages the device identity and the Safe it operates
type Account struct {
	store   accountStore
	keys    *DeviceKeys
	relay   RelayService
	tracker *SafeStatusTracker
	config  *config.RuntimeConfig
	log     *slog.Logger
	now     func() time.Time
}

// NewAccount creates a new Account use case
func NewAccount(
	store StateStore,
	keys *DeviceKeys,
	relay RelayService,
	tracker *SafeStatusTracker,
	cfg *config.RuntimeConfig,
	log *slog.Logger,
) *Account {
	return &Account{
		store:   accountStore{store: store},
		keys:    keys,
		relay:   relay,
		tracker: tracker,
		config:  cfg,
		log:     log.With("component", "account"),
		now:     time.Now,
	}
}

// IsInitialized reports whether the device has a mnemonic
func (a *Account) IsInitialized(ctx context.Context) (bool, error) {
	return a.keys.IsInitialized(ctx)
}

// DeviceAddress returns the address of the device key
func (a *Account) DeviceAddress(ctx context.Context) (common.Address, error) {
	signer, err := a.keys.Signer(ctx)
	if err != nil {
		return common.Address{}, err
	}
	return signer.Address(), nil
}

// LoadSafe returns the Safe and its derived status. When no Safe is known
// yet a 1-of-1 Safe owned by the device is requested from the relay.
func (a *Account) LoadSafe(ctx context.Context) (*models.Safe, error) {
	safe, ok, err := a.store.safeAddress(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		safe, err = a.createSafe(ctx)
		if err != nil {
			return nil, err
		}
	}

	status, err := a.tracker.Status(ctx)
	if err != nil {
		return nil, err
	}
	return &models.Safe{Address: safe, Status: status}, nil
}

func (a *Account) createSafe(ctx context.Context) (common.Address, error) {
	signer, err := a.keys.Signer(ctx)
	if err != nil {
		return common.Address{}, err
	}

	creation, err := a.relay.CreateSafe(ctx, models.SafeCreationRequest{
		Owners:       []common.Address{signer.Address()},
		Threshold:    1,
		SaltNonce:    a.now().UnixMilli(),
		PaymentToken: a.config.PaymentToken,
	})
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to create safe: %w", err)
	}

	if err := a.store.setSafeAddress(ctx, creation.Safe); err != nil {
		return common.Address{}, fmt.Errorf("failed to persist safe address: %w", err)
	}
	if err := a.store.setBigInt(ctx, KeySafePaymentAmount, creation.Payment); err != nil {
		return common.Address{}, fmt.Errorf("failed to persist payment amount: %w", err)
	}

	a.log.Info("safe created", "safe", creation.Safe.Hex(), "payment", creation.Payment.String(), "token", creation.PaymentToken.Hex())
	return creation.Safe, nil
}

// JoinSafe validates and persists an existing Safe address. The relay
// already reports its deployment block, so the Safe is marked deployed.
func (a *Account) JoinSafe(ctx context.Context, safe common.Address) (*models.Safe, error) {
	fund, err := a.relay.SafeFundStatus(ctx, safe)
	if err != nil {
		return nil, fmt.Errorf("failed to load fund status: %w", err)
	}
	if fund.BlockNumber == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrSafeNotDeployed, safe.Hex())
	}

	// Ensure the device key exists so it can be added as an owner
	if _, err := a.keys.Mnemonic(ctx); err != nil {
		return nil, err
	}
	if err := a.store.switchSafe(ctx, safe); err != nil {
		return nil, fmt.Errorf("failed to persist safe address: %w", err)
	}
	if err := a.store.setBlock(ctx, *fund.BlockNumber); err != nil {
		return nil, fmt.Errorf("failed to persist deployment block: %w", err)
	}

	status, err := a.tracker.Status(ctx)
	if err != nil {
		return nil, err
	}
	return &models.Safe{Address: safe, Status: status}, nil
}

// Recover restores a device from a mnemonic and the Safe it owns
func (a *Account) Recover(ctx context.Context, safe common.Address, mnemonic string) error {
	if err := a.keys.Replace(ctx, mnemonic); err != nil {
		return err
	}
	if err := a.store.switchSafe(ctx, safe); err != nil {
		return fmt.Errorf("failed to persist safe address: %w", err)
	}
	a.log.Info("account recovered", "safe", safe.Hex())
	return nil
}

// Mnemonic returns the decrypted mnemonic for backup
func (a *Account) Mnemonic(ctx context.Context) (string, error) {
	initialized, err := a.keys.IsInitialized(ctx)
	if err != nil {
		return "", err
	}
	if !initialized {
		return "", domain.ErrNotInitialized
	}
	return a.keys.Mnemonic(ctx)
}
