package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SafeCreationRequest asks the relay to prepare a counterfactual Safe
type SafeCreationRequest struct {
	Owners       []common.Address
	Threshold    int64
	SaltNonce    int64
	PaymentToken common.Address
}

// SafeCreation is the relay's answer to a creation request
type SafeCreation struct {
	Safe            common.Address `json:"safe"`
	MasterCopy      common.Address `json:"masterCopy"`
	ProxyFactory    common.Address `json:"proxyFactory"`
	SetupData       string         `json:"setupData"`
	Payment         *big.Int       `json:"payment"`
	PaymentToken    common.Address `json:"paymentToken"`
	PaymentReceiver common.Address `json:"paymentReceiver"`
}

// FundStatus is the relay's view of a Safe deployment. Both fields are optional.
type FundStatus struct {
	BlockNumber *uint64      `json:"blockNumber,omitempty"`
	TxHash      *common.Hash `json:"txHash,omitempty"`
}

// EstimateRequest asks the relay to price a transaction
type EstimateRequest struct {
	Tx        SafeTx
	Threshold int64
	GasToken  common.Address
}

// Estimate is the relay's pricing answer. LastUsedNonce is nil when the
// relay has never executed a transaction for the Safe.
type Estimate struct {
	SafeTxGas     *big.Int
	DataGas       *big.Int
	GasPrice      *big.Int
	GasToken      common.Address
	LastUsedNonce *big.Int
}

// ExecuteRequest submits a fully signed transaction to the relay.
// Signatures must already be ordered by signer address.
type ExecuteRequest struct {
	Tx         SafeTx
	ExecInfo   SafeTxExecInfo
	Signatures []Signature
}
