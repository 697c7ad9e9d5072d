package keys

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"

	"github.com/rmeissner/simple-safe/internal/domain"
	"github.com/rmeissner/simple-safe/internal/domain/models"
	"github.com/rmeissner/simple-safe/internal/usecase"
)

// mnemonicEntropyBits yields a 12 word mnemonic
const mnemonicEntropyBits = 128

// HDDeriver derives the device key from a BIP39 mnemonic along the
// standard Ethereum path m/44'/60'/0'/0/0
type HDDeriver struct{}

// NewHDDeriver creates a new HDDeriver
func NewHDDeriver() *HDDeriver {
	return &HDDeriver{}
}

var _ usecase.KeyDeriver = (*HDDeriver)(nil)

// GenerateMnemonic returns a fresh 12 word mnemonic
func (d *HDDeriver) GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("failed to generate entropy: %w", err)
	}
	return bip39.NewMnemonic(entropy)
}

// ValidateMnemonic checks word list membership and checksum
func (d *HDDeriver) ValidateMnemonic(mnemonic string) error {
	if !bip39.IsMnemonicValid(normalize(mnemonic)) {
		return domain.ErrInvalidMnemonic
	}
	return nil
}

// DeriveKey returns the signer for the first account of mnemonic
func (d *HDDeriver) DeriveKey(mnemonic string) (usecase.DeviceSigner, error) {
	mnemonic = normalize(mnemonic)
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidMnemonic, err)
	}

	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create master key: %w", err)
	}

	path := append(accounts.DerivationPath{}, accounts.DefaultBaseDerivationPath...)
	path = append(path, 0)
	for _, index := range path {
		key, err = key.Derive(index)
		if err != nil {
			return nil, fmt.Errorf("failed to derive %s: %w", path, err)
		}
	}

	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("failed to extract private key: %w", err)
	}
	ecdsaKey, err := crypto.ToECDSA(priv.Serialize())
	if err != nil {
		return nil, fmt.Errorf("failed to convert private key: %w", err)
	}
	return NewSigner(ecdsaKey), nil
}

func normalize(mnemonic string) string {
	return strings.Join(strings.Fields(mnemonic), " ")
}

// Signer signs digests with an in-memory secp256k1 key
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewSigner wraps key
func NewSigner(key *ecdsa.PrivateKey) *Signer {
	return &Signer{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}
}

var _ usecase.DeviceSigner = (*Signer)(nil)

// Address returns the signer address
func (s *Signer) Address() common.Address {
	return s.address
}

// Sign signs the raw 32 byte digest without any message prefix
func (s *Signer) Sign(digest common.Hash) (models.Signature, error) {
	raw, err := crypto.Sign(digest.Bytes(), s.key)
	if err != nil {
		return models.Signature{}, err
	}
	return models.SignatureFromBytes(raw)
}
