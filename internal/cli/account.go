package cli

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/rmeissner/simple-safe/internal/cli/render"
	"github.com/rmeissner/simple-safe/internal/domain"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the device key and a Safe owned by it",
		Long: `Generate and encrypt the device mnemonic if none exists, then ask the
relay for a 1-of-1 Safe owned by the device key. Running init again shows
the existing Safe.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			safe, err := app.Account.LoadSafe(cmd.Context())
			if err != nil {
				return err
			}
			device, err := app.Account.DeviceAddress(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), map[string]any{
					"safe":   safe.Address,
					"device": device,
					"status": safe.Status.String(),
				})
			}
			render.NewAccountRenderer(cmd.OutOrStdout()).RenderSafe(safe, device)
			return nil
		},
	}
}

// NewJoinCmd creates the join command
func NewJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <safe-address>",
		Short: "Use an existing deployed Safe with this device",
		Long: `Track an existing Safe instead of creating one. The relay must know a
deployment for the address. Add the printed device address as an owner
of the Safe so this device can sign.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			address, err := parseAddress(args[0])
			if err != nil {
				return err
			}

			safe, err := app.Account.JoinSafe(cmd.Context(), address)
			if err != nil {
				return err
			}
			device, err := app.Account.DeviceAddress(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), map[string]any{
					"safe":   safe.Address,
					"device": device,
					"status": safe.Status.String(),
				})
			}
			render.NewAccountRenderer(cmd.OutOrStdout()).RenderSafe(safe, device)
			return nil
		},
	}
}

// NewRecoverCmd creates the recover command
func NewRecoverCmd() *cobra.Command {
	var mnemonic string

	cmd := &cobra.Command{
		Use:   "recover <safe-address>",
		Short: "Restore the device key from a mnemonic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			address, err := parseAddress(args[0])
			if err != nil {
				return err
			}

			if mnemonic == "" {
				if app.Config.NonInteractive {
					return fmt.Errorf("--mnemonic is required in non-interactive mode")
				}
				prompt := promptui.Prompt{Label: "Mnemonic", Mask: '*'}
				mnemonic, err = prompt.Run()
				if err != nil {
					return fmt.Errorf("prompt failed: %w", err)
				}
			}

			if err := app.Account.Recover(cmd.Context(), address, strings.TrimSpace(mnemonic)); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("Recovered device for Safe %s", address.Hex())))
			return nil
		},
	}

	cmd.Flags().StringVar(&mnemonic, "mnemonic", "", "Recovery phrase (prompted when omitted)")

	return cmd
}

// NewMnemonicCmd creates the mnemonic command
func NewMnemonicCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mnemonic",
		Short: "Show the device recovery phrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			ok, err := app.Selector.Confirm(cmd.Context(), "Print the recovery phrase")
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}

			mnemonic, err := app.Account.Mnemonic(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), map[string]string{"mnemonic": mnemonic})
			}
			render.NewAccountRenderer(cmd.OutOrStdout()).RenderMnemonic(mnemonic)
			return nil
		},
	}
}

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the deployment status of the Safe",
		Long: `Show the deployment status derived from the persisted account state.
With --refresh the relay is asked for the creation transaction and the
deployment block, and an unfunded Safe is checked for the payment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			status, err := app.SafeStatus.Status(ctx)
			if err != nil {
				return err
			}
			if refresh {
				if status, err = app.SafeStatus.Refresh(ctx); err != nil {
					return err
				}
			}

			renderer := render.NewAccountRenderer(cmd.OutOrStdout())
			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), status)
			}
			renderer.RenderStatus(status)

			if refresh {
				funding, err := app.SafeStatus.CheckFunding(ctx)
				if err != nil {
					return err
				}
				renderer.RenderFunding(funding)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Ask the relay for the latest deployment state")

	return cmd
}

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deploy",
		Short: "Tell the relay the Safe has been funded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if err := app.SafeStatus.TriggerDeployment(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess("Deployment requested, run `status --refresh` to follow it"))
			return nil
		},
	}
}

// NewInfoCmd creates the info command
func NewInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show owners, threshold and modules of the Safe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ShowSafe.Run(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), result)
			}
			render.NewSafeRenderer(cmd.OutOrStdout()).RenderInfo(result)
			return nil
		},
	}
}

// NewBalanceCmd creates the balance command
func NewBalanceCmd() *cobra.Command {
	var (
		token   string
		deposit string
	)

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the Safe balance of a token",
		Long: `Show the Safe balance of the gas token, or of --token.

--deposit records an amount sent to the Safe in the reference balance,
which sends subtract their fees from.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if deposit != "" {
				value, ok := new(big.Int).SetString(deposit, 10)
				if !ok {
					return fmt.Errorf("invalid deposit amount %q", deposit)
				}
				if _, err := app.ShowBalance.RecordDeposit(ctx, value); err != nil {
					return err
				}
			}

			var tokenAddress *common.Address
			if token != "" {
				address, err := parseAddress(token)
				if err != nil {
					return err
				}
				tokenAddress = &address
			}

			result, err := app.ShowBalance.Run(ctx, tokenAddress)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), result)
			}
			render.NewSafeRenderer(cmd.OutOrStdout()).RenderBalance(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Token address (defaults to the gas token, 0x0 for ether)")
	cmd.Flags().StringVar(&deposit, "deposit", "", "Record a deposit in wei before showing the balance")

	return cmd
}

func parseAddress(value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, value)
	}
	return common.HexToAddress(value), nil
}
