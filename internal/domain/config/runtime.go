package config

import (
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// StoreBackend selects where the account flags are persisted
type StoreBackend string

const (
	StoreBadger StoreBackend = "badger"
	StoreRedis  StoreBackend = "redis"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	DataDir string

	// Remote services
	RelayURL              string
	TransactionServiceURL string
	RPCURL                string

	// Tokens used for relay payments
	GasToken     common.Address
	PaymentToken common.Address

	// Secret store
	Passphrase       string //nolint:gosec // resolved from env, never written back
	ScryptWorkFactor int

	// State store
	Store       StoreBackend
	RedisURL    string
	RedisPrefix string

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration
	PollInterval   time.Duration
}

// StateDir is where the badger store keeps the account flags
func (c *RuntimeConfig) StateDir() string {
	return filepath.Join(c.DataDir, "state")
}
