// Package safehash computes the EIP-712 digest a Safe owner signs.
package safehash

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rmeissner/simple-safe/internal/domain/models"
)

var (
	// DomainSeparatorTypeHash is keccak256("EIP712Domain(address verifyingContract)")
	DomainSeparatorTypeHash = common.HexToHash("0x035aff83d86937d35b32e04f0ddc6ff469290eef2f1b692d8a815c89404d4749")

	// SafeTxTypeHash is the type hash of the SafeTx struct
	SafeTxTypeHash = common.HexToHash("0xbb8310d486368db6bd6f849402fdd73ad53d316b5a4b2644ad6efe0f941286d8")
)

// DomainSeparator binds a digest to one Safe. The chain id is not part of it.
func DomainSeparator(safe common.Address) common.Hash {
	return crypto.Keccak256Hash(DomainSeparatorTypeHash.Bytes(), common.LeftPadBytes(safe.Bytes(), 32))
}

// StructHash hashes the transaction fields in SafeTx order. The refund
// receiver is always encoded as the zero address.
func StructHash(tx models.SafeTx, execInfo models.SafeTxExecInfo) (common.Hash, error) {
	data, err := tx.DataBytes()
	if err != nil {
		return common.Hash{}, err
	}

	encoded := make([]byte, 0, 32*11)
	encoded = append(encoded, SafeTxTypeHash.Bytes()...)
	encoded = append(encoded, address(tx.To)...)
	encoded = append(encoded, uint256(tx.Value)...)
	encoded = append(encoded, crypto.Keccak256(data)...)
	encoded = append(encoded, uint256(big.NewInt(int64(tx.Operation)))...)
	encoded = append(encoded, uint256(execInfo.TxGas)...)
	encoded = append(encoded, uint256(execInfo.BaseGas)...)
	encoded = append(encoded, uint256(execInfo.GasPrice)...)
	encoded = append(encoded, address(execInfo.GasToken)...)
	encoded = append(encoded, address(common.Address{})...)
	encoded = append(encoded, uint256(execInfo.Nonce)...)
	return crypto.Keccak256Hash(encoded), nil
}

// Hash returns keccak256(0x19 || 0x01 || domainSeparator || structHash)
func Hash(safe common.Address, tx models.SafeTx, execInfo models.SafeTxExecInfo) (common.Hash, error) {
	structHash, err := StructHash(tx, execInfo)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash safe transaction: %w", err)
	}
	return crypto.Keccak256Hash([]byte{0x19, 0x01}, DomainSeparator(safe).Bytes(), structHash.Bytes()), nil
}

func address(a common.Address) []byte {
	return common.LeftPadBytes(a.Bytes(), 32)
}

func uint256(v *big.Int) []byte {
	if v == nil {
		return make([]byte, 32)
	}
	return math.PaddedBigBytes(v, 32)
}
