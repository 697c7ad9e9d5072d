package app

import (
	"log/slog"

	"github.com/rmeissner/simple-safe/internal/domain/config"
	"github.com/rmeissner/simple-safe/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Selector usecase.TransactionSelector

	// Use cases
	Account                 *usecase.Account
	SafeStatus              *usecase.SafeStatusTracker
	ShowSafe                *usecase.ShowSafe
	ShowBalance             *usecase.ShowBalance
	ResolveExecInfo         *usecase.ResolveExecInfo
	SendTransaction         *usecase.SendTransaction
	ListPendingTransactions *usecase.ListPendingTransactions
	ConfirmTransaction      *usecase.ConfirmTransaction
	CheckPending            *usecase.CheckPendingTransaction
	WatchAccount            *usecase.WatchAccount
	ShowConfig              *usecase.ShowConfig
	SetConfig               *usecase.SetConfig
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	selector usecase.TransactionSelector,
	account *usecase.Account,
	safeStatus *usecase.SafeStatusTracker,
	showSafe *usecase.ShowSafe,
	showBalance *usecase.ShowBalance,
	resolveExecInfo *usecase.ResolveExecInfo,
	sendTransaction *usecase.SendTransaction,
	listPendingTransactions *usecase.ListPendingTransactions,
	confirmTransaction *usecase.ConfirmTransaction,
	checkPending *usecase.CheckPendingTransaction,
	watchAccount *usecase.WatchAccount,
	showConfig *usecase.ShowConfig,
	setConfig *usecase.SetConfig,
) *App {
	return &App{
		Config:                  cfg,
		Log:                     log,
		Selector:                selector,
		Account:                 account,
		SafeStatus:              safeStatus,
		ShowSafe:                showSafe,
		ShowBalance:             showBalance,
		ResolveExecInfo:         resolveExecInfo,
		SendTransaction:         sendTransaction,
		ListPendingTransactions: listPendingTransactions,
		ConfirmTransaction:      confirmTransaction,
		CheckPending:            checkPending,
		WatchAccount:            watchAccount,
		ShowConfig:              showConfig,
		SetConfig:               setConfig,
	}
}
