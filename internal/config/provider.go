package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rmeissner/simple-safe/internal/domain"
	"github.com/rmeissner/simple-safe/internal/domain/config"
)

const (
	// EnvPrefix is prepended to every environment override
	EnvPrefix = "SIMPLESAFE"

	// ConfigFileName is the config file read from the data dir, without extension
	ConfigFileName = "config"

	defaultDataDirName = ".simplesafe"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	dataDir := v.GetString("data_dir")
	if dataDir == "" {
		var err error
		dataDir, err = DefaultDataDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve data dir: %w", err)
		}
	}

	gasToken, err := addressValue(v, "gas_token")
	if err != nil {
		return nil, err
	}
	paymentToken := gasToken
	if v.GetString("payment_token") != "" {
		paymentToken, err = addressValue(v, "payment_token")
		if err != nil {
			return nil, err
		}
	}

	store := config.StoreBackend(strings.ToLower(v.GetString("store")))
	switch store {
	case config.StoreBadger, config.StoreRedis:
	default:
		return nil, fmt.Errorf("unknown store backend %q (expected %s or %s)", store, config.StoreBadger, config.StoreRedis)
	}
	if store == config.StoreRedis && v.GetString("redis_url") == "" {
		return nil, fmt.Errorf("redis_url is required when store is %s", config.StoreRedis)
	}

	pollInterval := v.GetDuration("poll_interval")
	if pollInterval <= 0 {
		return nil, fmt.Errorf("poll_interval must be positive, got %s", v.GetString("poll_interval"))
	}

	cfg := &config.RuntimeConfig{
		DataDir:               dataDir,
		RelayURL:              v.GetString("relay_url"),
		TransactionServiceURL: v.GetString("transaction_service_url"),
		RPCURL:                v.GetString("rpc_url"),
		GasToken:              gasToken,
		PaymentToken:          paymentToken,
		Passphrase:            v.GetString("passphrase"),
		ScryptWorkFactor:      v.GetInt("scrypt_work_factor"),
		Store:                 store,
		RedisURL:              v.GetString("redis_url"),
		RedisPrefix:           v.GetString("redis_prefix"),
		Debug:                 v.GetBool("debug"),
		NonInteractive:        v.GetBool("non_interactive"),
		JSON:                  v.GetBool("json"),
		Timeout:               v.GetDuration("timeout"),
		PollInterval:          pollInterval,
	}

	return cfg, nil
}

// DefaultDataDir returns ~/.simplesafe
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, defaultDataDirName), nil
}

// ResolveDataDir picks the data dir from the --data-dir flag, the
// SIMPLESAFE_DATA_DIR variable or the default, in that order.
func ResolveDataDir(cmd *cobra.Command) (string, error) {
	if f := cmd.Flag("data-dir"); f != nil && f.Value.String() != "" {
		return f.Value.String(), nil
	}
	if dir := os.Getenv(EnvPrefix + "_DATA_DIR"); dir != "" {
		return dir, nil
	}
	return DefaultDataDir()
}

// SetupViper creates and configures a viper instance
func SetupViper(dataDir string, cmd *cobra.Command) *viper.Viper {
	loadEnvFiles(dataDir)

	v := viper.New()

	// Set up config file
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("toml")
	v.AddConfigPath(dataDir)

	// Set up environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("data_dir", dataDir)
	v.SetDefault("store", string(config.StoreBadger))
	v.SetDefault("redis_prefix", "simplesafe")
	v.SetDefault("gas_token", common.Address{}.Hex())
	v.SetDefault("scrypt_work_factor", 18)
	v.SetDefault("poll_interval", 15*time.Second)
	v.SetDefault("timeout", "2m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("json", false)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if !f.Changed {
				return
			}
			if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil {
				panic(err)
			}
		})
	}

	return v
}

func addressValue(v *viper.Viper, key string) (common.Address, error) {
	raw := v.GetString(key)
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("%s: %w: %q", key, domain.ErrInvalidAddress, raw)
	}
	return common.HexToAddress(raw), nil
}
