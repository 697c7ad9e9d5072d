package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rmeissner/simple-safe/internal/domain"
)

// DeviceKeys resolves the device mnemonic and signing key
type DeviceKeys struct {
	vault   MnemonicVault
	deriver KeyDeriver
}

// NewDeviceKeys creates a new DeviceKeys
func NewDeviceKeys(vault MnemonicVault, deriver KeyDeriver) *DeviceKeys {
	return &DeviceKeys{vault: vault, deriver: deriver}
}

// Mnemonic returns the stored mnemonic, generating and storing one on first use
func (k *DeviceKeys) Mnemonic(ctx context.Context) (string, error) {
	mnemonic, err := k.vault.LoadMnemonic(ctx)
	if err == nil {
		return mnemonic, nil
	}
	if !errors.Is(err, domain.ErrNotInitialized) {
		return "", fmt.Errorf("failed to load mnemonic: %w", err)
	}

	mnemonic, err = k.deriver.GenerateMnemonic()
	if err != nil {
		return "", fmt.Errorf("failed to generate mnemonic: %w", err)
	}
	if err := k.vault.StoreMnemonic(ctx, mnemonic); err != nil {
		return "", fmt.Errorf("failed to store mnemonic: %w", err)
	}
	return mnemonic, nil
}

// Signer derives the device signing key
func (k *DeviceKeys) Signer(ctx context.Context) (DeviceSigner, error) {
	mnemonic, err := k.Mnemonic(ctx)
	if err != nil {
		return nil, err
	}
	signer, err := k.deriver.DeriveKey(mnemonic)
	if err != nil {
		return nil, fmt.Errorf("failed to derive device key: %w", err)
	}
	return signer, nil
}

// Replace validates and stores a mnemonic, overwriting the current one
func (k *DeviceKeys) Replace(ctx context.Context, mnemonic string) error {
	if err := k.deriver.ValidateMnemonic(mnemonic); err != nil {
		return err
	}
	if err := k.vault.StoreMnemonic(ctx, mnemonic); err != nil {
		return fmt.Errorf("failed to store mnemonic: %w", err)
	}
	return nil
}

// IsInitialized reports whether a mnemonic has been stored
func (k *DeviceKeys) IsInitialized(ctx context.Context) (bool, error) {
	return k.vault.HasMnemonic(ctx)
}
