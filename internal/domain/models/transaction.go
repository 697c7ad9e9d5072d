package models

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rmeissner/simple-safe/internal/domain"
)

// Operation is the call type the Safe performs
type Operation uint8

const (
	OperationCall         Operation = 0
	OperationDelegateCall Operation = 1
)

// ParseOperation maps a wire operation code, rejecting anything but 0 and 1
func ParseOperation(code int) (Operation, error) {
	switch code {
	case 0:
		return OperationCall, nil
	case 1:
		return OperationDelegateCall, nil
	default:
		return 0, fmt.Errorf("%w: %d", domain.ErrUnsupportedOperation, code)
	}
}

func (o Operation) String() string {
	switch o {
	case OperationCall:
		return "CALL"
	case OperationDelegateCall:
		return "DELEGATECALL"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(o))
	}
}

// SafeTx is the intent of a Safe transaction
type SafeTx struct {
	To        common.Address `json:"to"`
	Value     *big.Int       `json:"value"`
	Data      string         `json:"data"` // hex, optional 0x prefix
	Operation Operation      `json:"operation"`
}

// DataBytes decodes the hex payload. Empty data and "0x" decode to no bytes.
func (t SafeTx) DataBytes() ([]byte, error) {
	raw := strings.TrimPrefix(t.Data, "0x")
	if raw == "" {
		return nil, nil
	}
	data, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction data: %w", err)
	}
	return data, nil
}

// DataHex returns the payload with a 0x prefix
func (t SafeTx) DataHex() string {
	raw := strings.TrimPrefix(t.Data, "0x")
	return "0x" + raw
}

// SafeTxExecInfo holds the relay parameters of a Safe transaction
type SafeTxExecInfo struct {
	BaseGas        *big.Int       `json:"baseGas"`
	TxGas          *big.Int       `json:"txGas"`
	GasPrice       *big.Int       `json:"gasPrice"`
	GasToken       common.Address `json:"gasToken"`
	RefundReceiver common.Address `json:"refundReceiver"`
	Nonce          *big.Int       `json:"nonce"`
}

// Fees is (baseGas + txGas) * gasPrice
func (e SafeTxExecInfo) Fees() *big.Int {
	gas := new(big.Int).Add(e.BaseGas, e.TxGas)
	return gas.Mul(gas, e.GasPrice)
}

// Confirmation is an owner's approval as reported by the history service.
// Signature is nil when the owner approved on-chain instead of signing.
type Confirmation struct {
	Owner     common.Address `json:"owner"`
	Signature *Signature     `json:"signature,omitempty"`
}

// PendingSafeTx is an unexecuted transaction known to the history service
type PendingSafeTx struct {
	Hash          common.Hash    `json:"hash"`
	Tx            SafeTx         `json:"tx"`
	ExecInfo      SafeTxExecInfo `json:"execInfo"`
	Confirmations []Confirmation `json:"confirmations"`
}

// TxStatusKind tags the outcome of a submitted transaction
type TxStatusKind int

const (
	TxPending TxStatusKind = iota
	TxSuccess
	TxFailed
)

// TxStatus is the on-chain state of a submitted Ethereum transaction
type TxStatus struct {
	Kind TxStatusKind
	Hash common.Hash
}

func (s TxStatus) String() string {
	switch s.Kind {
	case TxPending:
		return "pending"
	case TxSuccess:
		return "success"
	case TxFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Receipt is the subset of a transaction receipt the monitor inspects
type Receipt struct {
	Status uint64
	Logs   []ReceiptLog
}

// ReceiptLog carries the topics of one emitted event
type ReceiptLog struct {
	Address common.Address
	Topics  []common.Hash
}
