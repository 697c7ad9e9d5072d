package cli

import (
	"github.com/spf13/cobra"

	"github.com/rmeissner/simple-safe/internal/cli/render"
	"github.com/rmeissner/simple-safe/internal/usecase"
)

// NewConfigCmd creates the config command
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage simplesafe local config",
		Long: `Manage simplesafe local config stored in <data-dir>/config.toml

Values in the file are overridden by SIMPLESAFE_* environment variables
and by a .env file in the data dir or the working directory.

Available subcommands:
  config           Show current config
  config set       Set a config value

When run without subcommands, displays the current config.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default action is to show config
			return showConfig(cmd)
		},
	}

	// Add subcommands
	cmd.AddCommand(NewConfigSetCmd())

	return cmd
}

// NewConfigSetCmd creates the config set subcommand
func NewConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: `Set a config value in config.toml.
Available keys: relay_url (relay), transaction_service_url (tx-service),
rpc_url (rpc), gas_token, payment_token, store, redis_url, poll_interval

Examples:
  simplesafe config set relay https://safe-relay.gnosis.io/api/
  simplesafe config set gas_token 0x0000000000000000000000000000000000000000`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get app from context
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.SetConfigParams{
				Key:   args[0],
				Value: args[1],
			}

			result, err := app.SetConfig.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			// Render result
			renderer := render.NewConfigRenderer(cmd.OutOrStdout())
			return renderer.RenderSet(result)
		},
	}
}

// showConfig displays the current configuration
func showConfig(cmd *cobra.Command) error {
	// Get app from context
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	result, err := app.ShowConfig.Run(cmd.Context())
	if err != nil {
		return err
	}

	if app.Config.JSON {
		return render.JSON(cmd.OutOrStdout(), result)
	}

	// Render result
	renderer := render.NewConfigRenderer(cmd.OutOrStdout())
	return renderer.RenderConfig(result)
}
