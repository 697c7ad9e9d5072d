package models

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/rmeissner/simple-safe/internal/domain"
)

// signatureHexLength is the length of r(64) + s(64) + v(2) hex characters
const signatureHexLength = 130

// Signature is a secp256k1 signature with v in {27, 28}
type Signature struct {
	R *big.Int
	S *big.Int
	V byte
}

// String renders the signature as 130 lowercase hex chars without prefix.
// Panics when r or s do not fit 32 bytes.
func (s Signature) String() string {
	return hex.EncodeToString(s.Bytes())
}

// Bytes returns r || s || v as 65 bytes
func (s Signature) Bytes() []byte {
	if s.R == nil || s.S == nil {
		panic("signature is missing r or s")
	}
	if s.R.BitLen() > 256 || s.S.BitLen() > 256 {
		panic(fmt.Sprintf("signature component exceeds 32 bytes: r=%d bits, s=%d bits", s.R.BitLen(), s.S.BitLen()))
	}
	out := make([]byte, 0, 65)
	out = append(out, math.PaddedBigBytes(s.R, 32)...)
	out = append(out, math.PaddedBigBytes(s.S, 32)...)
	return append(out, s.V)
}

// ParseSignature parses r(64) || s(64) || v(2) hex, with an optional 0x prefix
func ParseSignature(value string) (Signature, error) {
	value = strings.TrimPrefix(value, "0x")
	if len(value) != signatureHexLength {
		return Signature{}, fmt.Errorf("%w: expected %d hex chars, got %d", domain.ErrInvalidSignatureFormat, signatureHexLength, len(value))
	}
	raw, err := hex.DecodeString(value)
	if err != nil {
		return Signature{}, fmt.Errorf("%w: %v", domain.ErrInvalidSignatureFormat, err)
	}
	return SignatureFromBytes(raw)
}

// SignatureFromBytes builds a Signature from 65 raw bytes. A recovery id of
// 0 or 1 is shifted into the 27/28 range used by the Safe contracts.
func SignatureFromBytes(raw []byte) (Signature, error) {
	if len(raw) != 65 {
		return Signature{}, fmt.Errorf("%w: expected 65 bytes, got %d", domain.ErrInvalidSignatureFormat, len(raw))
	}
	v := raw[64]
	if v < 27 {
		v += 27
	}
	return Signature{
		R: new(big.Int).SetBytes(raw[:32]),
		S: new(big.Int).SetBytes(raw[32:64]),
		V: v,
	}, nil
}
