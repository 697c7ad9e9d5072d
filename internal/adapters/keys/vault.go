package keys

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/rmeissner/simple-safe/internal/domain"
	"github.com/rmeissner/simple-safe/internal/domain/config"
	"github.com/rmeissner/simple-safe/internal/usecase"
)

// Vault keeps the mnemonic in the state store, encrypted with an age
// scrypt recipient derived from the configured passphrase
type Vault struct {
	store      usecase.StateStore
	passphrase string
	workFactor int
}

// NewVault creates a vault backed by store
func NewVault(store usecase.StateStore, cfg *config.RuntimeConfig) *Vault {
	return &Vault{
		store:      store,
		passphrase: cfg.Passphrase,
		workFactor: cfg.ScryptWorkFactor,
	}
}

var _ usecase.MnemonicVault = (*Vault)(nil)

// HasMnemonic reports whether an encrypted mnemonic is stored
func (v *Vault) HasMnemonic(ctx context.Context) (bool, error) {
	_, ok, err := v.store.Get(ctx, usecase.KeyMnemonic)
	return ok, err
}

// LoadMnemonic decrypts the stored mnemonic
func (v *Vault) LoadMnemonic(ctx context.Context) (string, error) {
	ciphertext, ok, err := v.store.Get(ctx, usecase.KeyMnemonic)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrNotInitialized
	}

	identity, err := age.NewScryptIdentity(v.passphrase)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrEncryptionSetupFailed, err)
	}

	r, err := age.Decrypt(armor.NewReader(strings.NewReader(ciphertext)), identity)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt mnemonic: %w", err)
	}
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt mnemonic: %w", err)
	}
	return string(plaintext), nil
}

// StoreMnemonic encrypts and stores mnemonic, replacing any previous one
func (v *Vault) StoreMnemonic(ctx context.Context, mnemonic string) error {
	recipient, err := age.NewScryptRecipient(v.passphrase)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEncryptionSetupFailed, err)
	}
	if v.workFactor > 0 {
		recipient.SetWorkFactor(v.workFactor)
	}

	var buf bytes.Buffer
	armored := armor.NewWriter(&buf)
	w, err := age.Encrypt(armored, recipient)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEncryptionSetupFailed, err)
	}
	if _, err := io.WriteString(w, mnemonic); err != nil {
		return fmt.Errorf("failed to encrypt mnemonic: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to encrypt mnemonic: %w", err)
	}
	if err := armored.Close(); err != nil {
		return fmt.Errorf("failed to encrypt mnemonic: %w", err)
	}

	return v.store.Set(ctx, usecase.KeyMnemonic, buf.String())
}
