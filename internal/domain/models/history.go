package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ConfirmationType distinguishes the records posted to the history service
type ConfirmationType string

const (
	ConfirmationTypeConfirmation ConfirmationType = "CONFIRMATION"
	ConfirmationTypeExecution    ConfirmationType = "EXECUTION"
)

// HistoryRecord is a confirmation or execution notice for the history service
type HistoryRecord struct {
	SafeTxHash      common.Hash
	Tx              SafeTx
	ExecInfo        SafeTxExecInfo
	Sender          common.Address
	Type            ConfirmationType
	Signature       *Signature
	TransactionHash *common.Hash
}

// ServiceTransaction is a transaction as listed by the history service.
// Nonce is nil when the service value could not be parsed, and
// OperationCode is kept raw so unknown codes can be rejected by callers.
type ServiceTransaction struct {
	SafeTxHash     common.Hash
	To             common.Address
	Value          *big.Int
	Data           string
	OperationCode  int
	SafeTxGas      *big.Int
	BaseGas        *big.Int
	GasPrice       *big.Int
	GasToken       common.Address
	RefundReceiver common.Address
	Nonce          *big.Int
	IsExecuted     bool
	Confirmations  []Confirmation
}
