//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"github.com/spf13/viper"

	"github.com/rmeissner/simple-safe/internal/adapters"
	"github.com/rmeissner/simple-safe/internal/config"
	"github.com/rmeissner/simple-safe/internal/logging"
	"github.com/rmeissner/simple-safe/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(ctx context.Context, v *viper.Viper, sink usecase.ProgressSink) (*App, func(), error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeviceKeys,
		usecase.NewSafeStatusTracker,
		usecase.NewAccount,
		usecase.NewShowSafe,
		usecase.NewReferenceBalance,
		usecase.NewShowBalance,
		usecase.NewResolveExecInfo,
		usecase.NewSubmitTransaction,
		usecase.NewConfirmTransaction,
		usecase.NewSendTransaction,
		usecase.NewListPendingTransactions,
		usecase.NewCheckPendingTransaction,
		usecase.NewPoller,
		usecase.NewWatchAccount,
		usecase.NewShowConfig,
		usecase.NewSetConfig,

		// App
		NewApp,
	)
	return nil, nil, nil
}
