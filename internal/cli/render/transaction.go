package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/rmeissner/simple-safe/internal/domain/models"
	"github.com/rmeissner/simple-safe/internal/usecase"
)

// TransactionRenderer renders Safe transactions and their relay state
type TransactionRenderer struct {
	out io.Writer
}

// NewTransactionRenderer creates a new transaction renderer
func NewTransactionRenderer(out io.Writer) *TransactionRenderer {
	return &TransactionRenderer{out: out}
}

// RenderTx renders the transaction intent
func (r *TransactionRenderer) RenderTx(tx models.SafeTx) {
	fmt.Fprintf(r.out, "To:        %s\n", tx.To.Hex())
	fmt.Fprintf(r.out, "Value:     %s wei\n", amount(tx.Value))
	fmt.Fprintf(r.out, "Data:      %s\n", tx.DataHex())
	fmt.Fprintf(r.out, "Operation: %s\n", tx.Operation)
}

// RenderExecInfo renders the relay parameters and resulting fees
func (r *TransactionRenderer) RenderExecInfo(info *models.SafeTxExecInfo) {
	fmt.Fprintf(r.out, "Nonce:     %s\n", amount(info.Nonce))
	fmt.Fprintf(r.out, "Tx gas:    %s\n", amount(info.TxGas))
	fmt.Fprintf(r.out, "Base gas:  %s\n", amount(info.BaseGas))
	fmt.Fprintf(r.out, "Gas price: %s\n", amount(info.GasPrice))
	fmt.Fprintf(r.out, "Gas token: %s\n", tokenName(info.GasToken))
	fmt.Fprintf(r.out, "Fees:      %s\n", color.New(color.Bold).Sprint(info.Fees().String()))
}

// RenderSend renders the outcome of sending a transaction
func (r *TransactionRenderer) RenderSend(result *usecase.SendTransactionResult) {
	if result.Confirmation != nil {
		r.RenderConfirm(result.Confirmation)
		return
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Transaction relayed: %s", hashOrDash(result.TransactionHash))))
}

// RenderConfirm renders a confirmation and whether it triggered execution
func (r *TransactionRenderer) RenderConfirm(result *usecase.ConfirmTransactionResult) {
	fmt.Fprintf(r.out, "Safe tx hash: %s\n", result.SafeTxHash.Hex())
	fmt.Fprintf(r.out, "Signed by:    %s\n", result.Signer.Hex())
	if result.Threshold > 0 {
		fmt.Fprintf(r.out, "Signatures:   %d of %d\n", result.Signatures, result.Threshold)
	}
	if result.Submitted() {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Threshold reached, transaction relayed: %s", result.TransactionHash.Hex())))
		return
	}
	fmt.Fprintln(r.out, FormatSuccess("Confirmation published, waiting for other owners"))
}

// RenderPending renders unexecuted transactions known to the history service
func (r *TransactionRenderer) RenderPending(result *usecase.PendingTransactionsResult) {
	if len(result.Transactions) == 0 {
		fmt.Fprintln(r.out, "No pending transactions")
		return
	}

	t := newTable()
	t.AppendHeader(table.Row{"Nonce", "Safe tx hash", "To", "Value", "Operation", "Signatures"})
	for _, tx := range result.Transactions {
		t.AppendRow(table.Row{
			amount(tx.ExecInfo.Nonce),
			tx.Hash.Hex(),
			tx.Tx.To.Hex(),
			amount(tx.Tx.Value),
			tx.Tx.Operation.String(),
			len(tx.Confirmations),
		})
	}
	fmt.Fprintln(r.out, t.Render())
	fmt.Fprintf(r.out, "Safe nonce: %s\n", amount(result.SafeNonce))
}

// RenderTxStatus renders the state of the submitted transaction
func (r *TransactionRenderer) RenderTxStatus(status *models.TxStatus) {
	if status == nil {
		fmt.Fprintln(r.out, "No pending transaction")
		return
	}
	switch status.Kind {
	case models.TxSuccess:
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Transaction %s succeeded", status.Hash.Hex())))
	case models.TxFailed:
		fmt.Fprintln(r.out, color.New(color.FgRed).Sprintf("❌ Transaction %s failed", status.Hash.Hex()))
	default:
		fmt.Fprintf(r.out, "⏳ Transaction %s is pending\n", status.Hash.Hex())
	}
}
