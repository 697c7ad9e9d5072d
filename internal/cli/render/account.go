package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"

	"github.com/rmeissner/simple-safe/internal/domain/models"
	"github.com/rmeissner/simple-safe/internal/usecase"
)

// AccountRenderer renders the device account and Safe lifecycle
type AccountRenderer struct {
	out io.Writer
}

// NewAccountRenderer creates a new account renderer
func NewAccountRenderer(out io.Writer) *AccountRenderer {
	return &AccountRenderer{out: out}
}

// RenderSafe renders the Safe, its status and the device owner
func (r *AccountRenderer) RenderSafe(safe *models.Safe, device common.Address) {
	fmt.Fprintf(r.out, "Safe:   %s\n", color.New(color.FgCyan, color.Bold).Sprint(safe.Address.Hex()))
	fmt.Fprintf(r.out, "Device: %s\n", device.Hex())
	r.RenderStatus(safe.Status)
}

// RenderStatus renders the deployment status with the next step
func (r *AccountRenderer) RenderStatus(status models.SafeStatus) {
	fmt.Fprintf(r.out, "Status: %s\n", statusColor(status).Sprint(title(status.String())))

	switch status.Kind {
	case models.SafeStatusUnfunded:
		fmt.Fprintf(r.out, "        send at least %s of the payment token to the Safe, then run `deploy`\n", amount(status.PaymentAmount))
	case models.SafeStatusDeploying:
		fmt.Fprintf(r.out, "        creation tx %s\n", status.CreationTxHash.Hex())
	case models.SafeStatusUnknown:
		fmt.Fprintln(r.out, "        run `status --refresh` to ask the relay")
	}
}

// RenderFunding renders the outcome of a funding check
func (r *AccountRenderer) RenderFunding(result *usecase.FundingResult) {
	if result.Balance != nil {
		fmt.Fprintf(r.out, "Payment token balance: %s\n", amount(result.Balance))
	}
	if result.Triggered {
		fmt.Fprintln(r.out, FormatSuccess("Safe funded, deployment triggered"))
	}
}

// RenderMnemonic renders the recovery phrase as numbered words
func (r *AccountRenderer) RenderMnemonic(mnemonic string) {
	fmt.Fprintln(r.out, FormatWarning("Anyone with these words controls this device's Safe ownership"))
	fmt.Fprintln(r.out)
	for i, word := range strings.Fields(mnemonic) {
		fmt.Fprintf(r.out, "%2d. %s\n", i+1, word)
	}
}

func statusColor(status models.SafeStatus) *color.Color {
	switch status.Kind {
	case models.SafeStatusReady:
		return color.New(color.FgGreen, color.Bold)
	case models.SafeStatusDeploying:
		return color.New(color.FgYellow)
	case models.SafeStatusUnfunded:
		return color.New(color.FgRed)
	default:
		return color.New(color.Faint)
	}
}
