package keys

import (
	"context"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmeissner/simple-safe/internal/domain"
	"github.com/rmeissner/simple-safe/internal/domain/config"
	"github.com/rmeissner/simple-safe/internal/usecase"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

type mapStore map[string]string

func (s mapStore) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := s[key]
	return v, ok, nil
}

func (s mapStore) Set(_ context.Context, key, value string) error {
	s[key] = value
	return nil
}

func (s mapStore) Remove(_ context.Context, key string) error {
	delete(s, key)
	return nil
}

func (s mapStore) Close() error { return nil }

func TestDeriveKeyKnownVector(t *testing.T) {
	signer, err := NewHDDeriver().DeriveKey(testMnemonic)
	require.NoError(t, err)

	assert.Equal(t, common.HexToAddress("0x9858EfFD232B4033E47d90003D41EC34EcaEda94"), signer.Address())
}

func TestDeriveKeyNormalizesWhitespace(t *testing.T) {
	signer, err := NewHDDeriver().DeriveKey("  " + strings.ReplaceAll(testMnemonic, " ", "   ") + "\n")
	require.NoError(t, err)

	assert.Equal(t, common.HexToAddress("0x9858EfFD232B4033E47d90003D41EC34EcaEda94"), signer.Address())
}

func TestValidateMnemonic(t *testing.T) {
	deriver := NewHDDeriver()

	tests := []struct {
		name     string
		mnemonic string
		valid    bool
	}{
		{name: "valid", mnemonic: testMnemonic, valid: true},
		{name: "bad checksum", mnemonic: strings.Replace(testMnemonic, "about", "abandon", 1)},
		{name: "unknown word", mnemonic: strings.Replace(testMnemonic, "about", "zzzz", 1)},
		{name: "empty", mnemonic: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := deriver.ValidateMnemonic(tt.mnemonic)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrInvalidMnemonic)
		})
	}
}

func TestGenerateMnemonic(t *testing.T) {
	deriver := NewHDDeriver()

	mnemonic, err := deriver.GenerateMnemonic()
	require.NoError(t, err)

	assert.Len(t, strings.Fields(mnemonic), 12)
	assert.NoError(t, deriver.ValidateMnemonic(mnemonic))

	other, err := deriver.GenerateMnemonic()
	require.NoError(t, err)
	assert.NotEqual(t, mnemonic, other)
}

func TestSignerProducesRecoverableSignature(t *testing.T) {
	signer, err := NewHDDeriver().DeriveKey(testMnemonic)
	require.NoError(t, err)

	digest := crypto.Keccak256Hash([]byte("safe tx"))
	signature, err := signer.Sign(digest)
	require.NoError(t, err)
	assert.Contains(t, []byte{27, 28}, signature.V)

	raw := signature.Bytes()
	raw[64] -= 27
	pub, err := crypto.SigToPub(digest.Bytes(), raw)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), crypto.PubkeyToAddress(*pub))
}

func newTestVault(store usecase.StateStore, passphrase string) *Vault {
	return NewVault(store, &config.RuntimeConfig{Passphrase: passphrase, ScryptWorkFactor: 10})
}

func TestVaultRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := mapStore{}
	vault := newTestVault(store, "correct horse")

	has, err := vault.HasMnemonic(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = vault.LoadMnemonic(ctx)
	assert.ErrorIs(t, err, domain.ErrNotInitialized)

	require.NoError(t, vault.StoreMnemonic(ctx, testMnemonic))

	stored := store[usecase.KeyMnemonic]
	assert.NotContains(t, stored, "abandon")
	assert.Contains(t, stored, "-----BEGIN AGE ENCRYPTED FILE-----")

	loaded, err := vault.LoadMnemonic(ctx)
	require.NoError(t, err)
	assert.Equal(t, testMnemonic, loaded)
}

func TestVaultWrongPassphrase(t *testing.T) {
	ctx := context.Background()
	store := mapStore{}
	require.NoError(t, newTestVault(store, "correct horse").StoreMnemonic(ctx, testMnemonic))

	_, err := newTestVault(store, "battery staple").LoadMnemonic(ctx)
	assert.Error(t, err)
}

func TestVaultEmptyPassphrase(t *testing.T) {
	err := newTestVault(mapStore{}, "").StoreMnemonic(context.Background(), testMnemonic)
	assert.ErrorIs(t, err, domain.ErrEncryptionSetupFailed)
}
