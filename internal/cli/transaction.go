package cli

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rmeissner/simple-safe/internal/cli/render"
	"github.com/rmeissner/simple-safe/internal/domain/models"
	"github.com/rmeissner/simple-safe/internal/usecase"
)

// txFlags collects the transaction intent from flags
type txFlags struct {
	to        string
	value     string
	data      string
	operation string
}

func (f *txFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.to, "to", "", "Target address (required)")
	cmd.Flags().StringVar(&f.value, "value", "0", "Value in wei")
	cmd.Flags().StringVar(&f.data, "data", "", "Hex encoded call data")
	cmd.Flags().StringVar(&f.operation, "operation", "call", "Operation: call (0) or delegatecall (1)")
	_ = cmd.MarkFlagRequired("to")
}

func (f *txFlags) tx() (models.SafeTx, error) {
	to, err := parseAddress(f.to)
	if err != nil {
		return models.SafeTx{}, err
	}

	value, ok := new(big.Int).SetString(f.value, 10)
	if !ok || value.Sign() < 0 {
		return models.SafeTx{}, fmt.Errorf("invalid value %q", f.value)
	}

	var code int
	switch strings.ToLower(f.operation) {
	case "call", "0":
		code = 0
	case "delegatecall", "1":
		code = 1
	default:
		return models.SafeTx{}, fmt.Errorf("invalid operation %q", f.operation)
	}
	operation, err := models.ParseOperation(code)
	if err != nil {
		return models.SafeTx{}, err
	}

	tx := models.SafeTx{To: to, Value: value, Data: f.data, Operation: operation}
	if _, err := tx.DataBytes(); err != nil {
		return models.SafeTx{}, err
	}
	return tx, nil
}

// NewEstimateCmd creates the estimate command
func NewEstimateCmd() *cobra.Command {
	var flags txFlags

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Ask the relay for gas parameters and fees of a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			tx, err := flags.tx()
			if err != nil {
				return err
			}

			info, err := app.ResolveExecInfo.Run(cmd.Context(), tx)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), map[string]any{
					"tx":       tx,
					"execInfo": info,
					"fees":     info.Fees().String(),
				})
			}
			renderer := render.NewTransactionRenderer(cmd.OutOrStdout())
			renderer.RenderTx(tx)
			renderer.RenderExecInfo(info)
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

// NewSendCmd creates the send command
func NewSendCmd() *cobra.Command {
	var (
		flags  txFlags
		direct bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Sign a transaction and relay it once enough owners confirmed",
		Long: `Estimate, sign and publish a Safe transaction. The signature is posted
to the transaction history service; when it meets the Safe threshold the
transaction is relayed right away.

--direct skips the history service and relays with the device signature
only, which requires a 1-of-n Safe.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			tx, err := flags.tx()
			if err != nil {
				return err
			}

			renderer := render.NewTransactionRenderer(cmd.OutOrStdout())
			if !app.Config.JSON {
				renderer.RenderTx(tx)
			}
			ok, err := app.Selector.Confirm(cmd.Context(), "Send this transaction")
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}

			result, err := app.SendTransaction.Run(cmd.Context(), usecase.SendTransactionParams{Tx: tx, Direct: direct})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), result)
			}
			renderer.RenderSend(result)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&direct, "direct", false, "Relay with the device signature only")

	return cmd
}

// NewPendingCmd creates the pending command
func NewPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List transactions waiting for confirmations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListPendingTransactions.Run(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), result)
			}
			render.NewTransactionRenderer(cmd.OutOrStdout()).RenderPending(result)
			return nil
		},
	}
}

// NewConfirmCmd creates the confirm command
func NewConfirmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm [safe-tx-hash]",
		Short: "Add this device's signature to a pending transaction",
		Long: `Sign a transaction another owner proposed. Without a hash the pending
transactions are offered for selection. The transaction is relayed when
this signature meets the Safe threshold.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pending, err := app.ListPendingTransactions.Run(ctx)
			if err != nil {
				return err
			}

			var selected *models.PendingSafeTx
			if len(args) == 1 {
				selected, err = findPending(pending.Transactions, args[0])
			} else {
				selected, err = app.Selector.SelectPendingTransaction(ctx, pending.Transactions)
			}
			if err != nil {
				return err
			}

			renderer := render.NewTransactionRenderer(cmd.OutOrStdout())
			if !app.Config.JSON {
				renderer.RenderTx(selected.Tx)
				renderer.RenderExecInfo(&selected.ExecInfo)
			}
			ok, err := app.Selector.Confirm(ctx, "Confirm this transaction")
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}

			result, err := app.ConfirmTransaction.Run(ctx, usecase.ConfirmTransactionParams{
				Tx:            selected.Tx,
				ExecInfo:      selected.ExecInfo,
				Confirmations: selected.Confirmations,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), result)
			}
			renderer.RenderConfirm(result)
			return nil
		},
	}
}

// NewCheckCmd creates the check command
func NewCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the outcome of the last relayed transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			status, err := app.CheckPending.Run(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), status)
			}
			render.NewTransactionRenderer(cmd.OutOrStdout()).RenderTxStatus(status)
			return nil
		},
	}
}

func findPending(txs []models.PendingSafeTx, hash string) (*models.PendingSafeTx, error) {
	for i := range txs {
		if strings.EqualFold(txs[i].Hash.Hex(), hash) {
			return &txs[i], nil
		}
	}
	return nil, fmt.Errorf("no pending transaction with hash %s", hash)
}
