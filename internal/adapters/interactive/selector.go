package interactive

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"

	"github.com/rmeissner/simple-safe/internal/domain/config"
	"github.com/rmeissner/simple-safe/internal/domain/models"
	"github.com/rmeissner/simple-safe/internal/usecase"
)

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectPendingTransaction lets the user pick one of the pending transactions
func (s *SelectorAdapter) SelectPendingTransaction(ctx context.Context, txs []models.PendingSafeTx) (*models.PendingSafeTx, error) {
	if s.config.NonInteractive {
		return nil, fmt.Errorf("interactive selection not available in non-interactive mode, pass the transaction hash")
	}

	if len(txs) == 0 {
		return nil, fmt.Errorf("no pending transactions to select from")
	}

	if len(txs) == 1 {
		return &txs[0], nil
	}

	options := formatTransactionOptions(txs)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             "Select a transaction to confirm",
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return &txs[index], nil
}

// Confirm asks a yes/no question, defaulting to no
func (s *SelectorAdapter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if s.config.NonInteractive {
		return true, nil
	}

	p := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
	}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return true, nil
}

// formatTransactionOptions renders "#nonce hash → to (value wei, n signatures)" per transaction
func formatTransactionOptions(txs []models.PendingSafeTx) []string {
	options := make([]string, len(txs))
	for i, tx := range txs {
		nonce := "?"
		if tx.ExecInfo.Nonce != nil {
			nonce = tx.ExecInfo.Nonce.String()
		}
		value := tx.Tx.Value
		if value == nil {
			value = new(big.Int)
		}

		hash := color.New(color.FgWhite, color.Bold).Sprint(shortHash(tx.Hash.Hex()))
		to := color.New(color.FgBlue).Sprint(tx.Tx.To.Hex())
		options[i] = fmt.Sprintf("#%s %s → %s (%s wei, %d signatures)", nonce, hash, to, value, len(tx.Confirmations))
	}
	return options
}

func shortHash(hash string) string {
	if len(hash) <= 14 {
		return hash
	}
	return hash[:10] + "…" + hash[len(hash)-4:]
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		// Empty search shows all items
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		pattern := fuzzy.Find(input, []string{item})
		return len(pattern) > 0
	}
}

// Ensure the adapter implements the interface
var _ usecase.TransactionSelector = (*SelectorAdapter)(nil)
