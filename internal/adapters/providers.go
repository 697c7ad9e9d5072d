package adapters

import (
	"context"
	"log/slog"

	"github.com/google/wire"

	"github.com/rmeissner/simple-safe/internal/adapters/chain"
	"github.com/rmeissner/simple-safe/internal/adapters/fs"
	"github.com/rmeissner/simple-safe/internal/adapters/interactive"
	"github.com/rmeissner/simple-safe/internal/adapters/keys"
	"github.com/rmeissner/simple-safe/internal/adapters/relay"
	"github.com/rmeissner/simple-safe/internal/adapters/store"
	"github.com/rmeissner/simple-safe/internal/adapters/txservice"
	"github.com/rmeissner/simple-safe/internal/domain/config"
	"github.com/rmeissner/simple-safe/internal/usecase"
)

// ProvideStateStore opens the configured state store and closes it on cleanup
func ProvideStateStore(ctx context.Context, cfg *config.RuntimeConfig, log *slog.Logger) (usecase.StateStore, func(), error) {
	s, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := s.Close(); err != nil {
			log.Warn("failed to close state store", "error", err)
		}
	}
	return s, cleanup, nil
}

// ProvideChainClient creates the RPC client and closes its connection on cleanup
func ProvideChainClient(cfg *config.RuntimeConfig, log *slog.Logger) (*chain.Client, func()) {
	c := chain.NewClient(cfg, log)
	return c, c.Close
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigRepository), new(*fs.LocalConfigStoreAdapter)),
)

// StoreSet provides the persisted account state
var StoreSet = wire.NewSet(
	ProvideStateStore,
)

// KeysSet provides the mnemonic vault and key derivation
var KeysSet = wire.NewSet(
	keys.NewVault,
	wire.Bind(new(usecase.MnemonicVault), new(*keys.Vault)),

	keys.NewHDDeriver,
	wire.Bind(new(usecase.KeyDeriver), new(*keys.HDDeriver)),
)

// ServiceSet provides the relay and transaction history clients
var ServiceSet = wire.NewSet(
	relay.NewClient,
	wire.Bind(new(usecase.RelayService), new(*relay.Client)),

	txservice.NewClient,
	wire.Bind(new(usecase.TransactionService), new(*txservice.Client)),
)

// ChainSet provides Ethereum node access
var ChainSet = wire.NewSet(
	ProvideChainClient,
	wire.Bind(new(usecase.ChainReader), new(*chain.Client)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.TransactionSelector), new(*interactive.SelectorAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	StoreSet,
	KeysSet,
	ServiceSet,
	ChainSet,
	InteractiveSet,
)
