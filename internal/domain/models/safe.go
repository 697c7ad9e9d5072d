package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SafeStatusKind tags the deployment lifecycle of a Safe
type SafeStatusKind int

const (
	SafeStatusUnknown SafeStatusKind = iota
	SafeStatusUnfunded
	SafeStatusDeploying
	SafeStatusReady
)

// SafeStatus is the derived deployment state. PaymentAmount is set for
// Unfunded, CreationTxHash for Deploying.
type SafeStatus struct {
	Kind           SafeStatusKind
	PaymentAmount  *big.Int
	CreationTxHash common.Hash
}

func Unknown() SafeStatus { return SafeStatus{Kind: SafeStatusUnknown} }

func Unfunded(paymentAmount *big.Int) SafeStatus {
	return SafeStatus{Kind: SafeStatusUnfunded, PaymentAmount: paymentAmount}
}

func Deploying(txHash common.Hash) SafeStatus {
	return SafeStatus{Kind: SafeStatusDeploying, CreationTxHash: txHash}
}

func Ready() SafeStatus { return SafeStatus{Kind: SafeStatusReady} }

func (s SafeStatus) String() string {
	switch s.Kind {
	case SafeStatusUnfunded:
		return "unfunded"
	case SafeStatusDeploying:
		return "deploying"
	case SafeStatusReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Safe is the account this device operates
type Safe struct {
	Address common.Address `json:"address"`
	Status  SafeStatus     `json:"status"`
}

// SafeInfo is the on-chain configuration of a deployed Safe
type SafeInfo struct {
	Address    common.Address   `json:"address"`
	MasterCopy common.Address   `json:"masterCopy"`
	Owners     []common.Address `json:"owners"`
	Threshold  int64            `json:"threshold"`
	Nonce      *big.Int         `json:"nonce,omitempty"`
}

// SafeModule is an enabled module and the master copy behind it
type SafeModule struct {
	Address    common.Address `json:"address"`
	MasterCopy common.Address `json:"masterCopy"`
}
