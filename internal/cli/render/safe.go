package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/rmeissner/simple-safe/internal/usecase"
)

// SafeRenderer renders on-chain Safe state
type SafeRenderer struct {
	out io.Writer
}

// NewSafeRenderer creates a new Safe renderer
func NewSafeRenderer(out io.Writer) *SafeRenderer {
	return &SafeRenderer{out: out}
}

// RenderInfo renders owners, threshold and modules
func (r *SafeRenderer) RenderInfo(result *usecase.ShowSafeResult) {
	info := result.Info
	fmt.Fprintf(r.out, "Safe:        %s\n", color.New(color.FgCyan, color.Bold).Sprint(info.Address.Hex()))
	fmt.Fprintf(r.out, "Status:      %s\n", statusColor(result.Status).Sprint(title(result.Status.String())))
	fmt.Fprintf(r.out, "Master copy: %s\n", info.MasterCopy.Hex())
	fmt.Fprintf(r.out, "Threshold:   %d of %d\n", info.Threshold, len(info.Owners))
	fmt.Fprintf(r.out, "Nonce:       %s\n", amount(info.Nonce))
	fmt.Fprintln(r.out)

	owners := newTable()
	owners.AppendHeader(table.Row{"#", "Owner"})
	for i, owner := range info.Owners {
		owners.AppendRow(table.Row{i + 1, owner.Hex()})
	}
	fmt.Fprintln(r.out, owners.Render())

	if len(result.Modules) == 0 {
		fmt.Fprintln(r.out, color.New(color.Faint).Sprint("No modules enabled"))
		return
	}
	fmt.Fprintln(r.out)
	modules := newTable()
	modules.AppendHeader(table.Row{"Module", "Master copy"})
	for _, module := range result.Modules {
		modules.AppendRow(table.Row{module.Address.Hex(), module.MasterCopy.Hex()})
	}
	fmt.Fprintln(r.out, modules.Render())
}

// RenderBalance renders a token balance and, for the gas token, the tracked reference
func (r *SafeRenderer) RenderBalance(result *usecase.BalanceResult) {
	fmt.Fprintf(r.out, "%s balance of %s: %s\n", tokenName(result.Token), result.Safe.Hex(), color.New(color.Bold).Sprint(amount(result.Balance)))
	if result.Reference != nil {
		fmt.Fprintf(r.out, "Reference balance: %s\n", amount(result.Reference))
	}
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	return t
}
