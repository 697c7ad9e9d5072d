package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/rmeissner/simple-safe/internal/usecase"
)

// WatchRenderer prints one line per account state change
type WatchRenderer struct {
	out  io.Writer
	last string
}

// NewWatchRenderer creates a new watch renderer
func NewWatchRenderer(out io.Writer) *WatchRenderer {
	return &WatchRenderer{out: out}
}

// RenderState renders the account state, skipping polls that changed nothing
func (r *WatchRenderer) RenderState(state usecase.AccountState) {
	line := fmt.Sprintf("%s %s", state.Safe.Hex(), statusColor(state.Status).Sprint(state.Status.String()))
	if state.Balance != nil {
		line += fmt.Sprintf(" balance=%s", state.Balance)
	}
	if state.Pending != nil {
		line += fmt.Sprintf(" pending=%s", state.Pending.Hex())
	}
	if state.LastTx != nil {
		line += fmt.Sprintf(" last=%s:%s", state.LastTx.Hash.Hex(), state.LastTx)
	}
	if state.LastError != nil {
		line += " " + color.New(color.FgRed).Sprintf("error=%q", state.LastError.Error())
	}
	if line == r.last {
		return
	}
	r.last = line
	fmt.Fprintf(r.out, "[%d] %s\n", state.Version, line)
}
