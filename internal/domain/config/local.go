package config

// LocalConfig represents the settings persisted in the data dir config.toml
type LocalConfig struct {
	RelayURL              string `toml:"relay_url,omitempty" yaml:"relay_url,omitempty"`
	TransactionServiceURL string `toml:"transaction_service_url,omitempty" yaml:"transaction_service_url,omitempty"`
	RPCURL                string `toml:"rpc_url,omitempty" yaml:"rpc_url,omitempty"`
	GasToken              string `toml:"gas_token,omitempty" yaml:"gas_token,omitempty"`
	PaymentToken          string `toml:"payment_token,omitempty" yaml:"payment_token,omitempty"`
	Store                 string `toml:"store,omitempty" yaml:"store,omitempty"`
	RedisURL              string `toml:"redis_url,omitempty" yaml:"redis_url,omitempty"`
	PollInterval          string `toml:"poll_interval,omitempty" yaml:"poll_interval,omitempty"`
}

// ConfigKey represents a configuration key
type ConfigKey string

const (
	ConfigKeyRelayURL              ConfigKey = "relay_url"
	ConfigKeyTransactionServiceURL ConfigKey = "transaction_service_url"
	ConfigKeyRPCURL                ConfigKey = "rpc_url"
	ConfigKeyGasToken              ConfigKey = "gas_token"
	ConfigKeyPaymentToken          ConfigKey = "payment_token"
	ConfigKeyStore                 ConfigKey = "store"
	ConfigKeyRedisURL              ConfigKey = "redis_url"
	ConfigKeyPollInterval          ConfigKey = "poll_interval"
)

// DefaultLocalConfig returns the default local configuration
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{
		Store: string(StoreBadger),
	}
}

// ValidConfigKeys returns all valid configuration keys
func ValidConfigKeys() []ConfigKey {
	return []ConfigKey{
		ConfigKeyRelayURL,
		ConfigKeyTransactionServiceURL,
		ConfigKeyRPCURL,
		ConfigKeyGasToken,
		ConfigKeyPaymentToken,
		ConfigKeyStore,
		ConfigKeyRedisURL,
		ConfigKeyPollInterval,
	}
}

// IsValidConfigKey checks if a key is valid
func IsValidConfigKey(key string) bool {
	for _, validKey := range ValidConfigKeys() {
		if string(NormalizeConfigKey(key)) == string(validKey) {
			return true
		}
	}
	return false
}

// NormalizeConfigKey normalizes a config key (e.g., "relay" -> "relay_url")
func NormalizeConfigKey(key string) ConfigKey {
	switch key {
	case "relay":
		return ConfigKeyRelayURL
	case "rpc":
		return ConfigKeyRPCURL
	case "tx-service", "transaction-service":
		return ConfigKeyTransactionServiceURL
	}
	return ConfigKey(key)
}

// Set assigns a value for a normalized key
func (c *LocalConfig) Set(key ConfigKey, value string) bool {
	switch key {
	case ConfigKeyRelayURL:
		c.RelayURL = value
	case ConfigKeyTransactionServiceURL:
		c.TransactionServiceURL = value
	case ConfigKeyRPCURL:
		c.RPCURL = value
	case ConfigKeyGasToken:
		c.GasToken = value
	case ConfigKeyPaymentToken:
		c.PaymentToken = value
	case ConfigKeyStore:
		c.Store = value
	case ConfigKeyRedisURL:
		c.RedisURL = value
	case ConfigKeyPollInterval:
		c.PollInterval = value
	default:
		return false
	}
	return true
}

// Get returns the value stored for a normalized key
func (c *LocalConfig) Get(key ConfigKey) string {
	switch key {
	case ConfigKeyRelayURL:
		return c.RelayURL
	case ConfigKeyTransactionServiceURL:
		return c.TransactionServiceURL
	case ConfigKeyRPCURL:
		return c.RPCURL
	case ConfigKeyGasToken:
		return c.GasToken
	case ConfigKeyPaymentToken:
		return c.PaymentToken
	case ConfigKeyStore:
		return c.Store
	case ConfigKeyRedisURL:
		return c.RedisURL
	case ConfigKeyPollInterval:
		return c.PollInterval
	}
	return ""
}
