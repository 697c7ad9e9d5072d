package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmeissner/simple-safe/internal/adapters/progress"
	"github.com/rmeissner/simple-safe/internal/app"
	"github.com/rmeissner/simple-safe/internal/config"
	"github.com/rmeissner/simple-safe/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command. The returned close func releases
// the state store and RPC connection opened for the executed command.
func NewRootCmd() (*cobra.Command, func()) {
	cleanup := func() {}

	rootCmd := &cobra.Command{
		Use:   "simplesafe",
		Short: "Relay-backed Safe multisig account",
		Long: `simplesafe manages a device-owned Safe smart contract account.

The device key is derived from an encrypted mnemonic. The Safe is deployed
and its transactions are paid for through a relay service, while owners
share signatures through the transaction history service.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			dataDir, err := config.ResolveDataDir(cmd)
			if err != nil {
				return err
			}

			// Set up viper, binding the flags set on this invocation
			v := config.SetupViper(dataDir, cmd)

			var sink usecase.ProgressSink = usecase.NopProgress{}
			if !v.GetBool("json") && !v.GetBool("non_interactive") {
				sink = progress.NewSpinnerProgressReporter(cmd.ErrOrStderr())
			}

			// Initialize app with DI
			appInstance, closeApp, err := app.InitApp(cmd.Context(), v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			cleanup = closeApp

			// Store app in context
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// Add timeout if configured; watch runs until interrupted
			if appInstance.Config.Timeout > 0 && cmd.Name() != "watch" {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				prev := cleanup
				cleanup = func() {
					cancel()
					prev()
				}
			}

			cmd.SetContext(ctx)

			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("data-dir", "", "Directory holding config.toml and the account state (default ~/.simplesafe)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "account",
		Title: "Account Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "transactions",
		Title: "Transaction Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	// Account commands
	for _, cmd := range []*cobra.Command{
		NewInitCmd(),
		NewJoinCmd(),
		NewRecoverCmd(),
		NewMnemonicCmd(),
		NewStatusCmd(),
		NewDeployCmd(),
		NewInfoCmd(),
		NewBalanceCmd(),
	} {
		cmd.GroupID = "account"
		rootCmd.AddCommand(cmd)
	}

	// Transaction commands
	for _, cmd := range []*cobra.Command{
		NewEstimateCmd(),
		NewSendCmd(),
		NewPendingCmd(),
		NewConfirmCmd(),
		NewCheckCmd(),
		NewWatchCmd(),
	} {
		cmd.GroupID = "transactions"
		rootCmd.AddCommand(cmd)
	}

	// Management commands
	configCmd := NewConfigCmd()
	configCmd.GroupID = "management"
	rootCmd.AddCommand(configCmd)

	// Version command
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd, func() { cleanup() }
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
