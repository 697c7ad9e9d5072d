package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmeissner/simple-safe/internal/domain/config"
)

func TestLocalConfigStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	store := NewLocalConfigStoreAdapter(&config.RuntimeConfig{DataDir: dir})

	assert.Equal(t, filepath.Join(dir, "config.toml"), store.GetPath())
	assert.False(t, store.Exists())

	cfg, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultLocalConfig(), cfg)

	cfg.RelayURL = "https://relay.example.com/api/"
	cfg.GasToken = "0xb3a4Bc89d8517E0e2C9B66703d09D3029ffa1e6d"
	cfg.PollInterval = "30s"
	require.NoError(t, store.Save(ctx, cfg))
	assert.True(t, store.Exists())

	raw, err := os.ReadFile(store.GetPath())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `relay_url = "https://relay.example.com/api/"`)
	assert.NotContains(t, string(raw), "rpc_url")

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLocalConfigStoreFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`rpc_url = "http://localhost:8545"`+"\n"), 0600))

	cfg, err := NewLocalConfigStoreAdapter(&config.RuntimeConfig{DataDir: dir}).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8545", cfg.RPCURL)
	assert.Equal(t, string(config.StoreBadger), cfg.Store)
}

func TestLocalConfigStoreInvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("relay_url = "), 0600))

	_, err := NewLocalConfigStoreAdapter(&config.RuntimeConfig{DataDir: dir}).Load(context.Background())
	assert.Error(t, err)
}
