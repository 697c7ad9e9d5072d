package usecase

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rmeissner/simple-safe/internal/domain/config"
)

// ConfigSetting is one resolved setting and whether config.toml supplied it
type ConfigSetting struct {
	Key      config.ConfigKey `json:"key"`
	Value    string           `json:"value"`
	FromFile bool             `json:"fromFile"`
}

// ShowConfigResult contains the result of showing configuration
type ShowConfigResult struct {
	Config        *config.LocalConfig
	ConfigPath    string
	Exists        bool
	Settings      []ConfigSetting
	StoreLocation string
}

// ShowConfig reports the persisted config next to the settings in effect,
// which may also come from flags, the environment or defaults
type ShowConfig struct {
	store   LocalConfigRepository
	runtime *config.RuntimeConfig
}

// NewShowConfig creates a new ShowConfig use case
func NewShowConfig(store LocalConfigRepository, runtime *config.RuntimeConfig) *ShowConfig {
	return &ShowConfig{
		store:   store,
		runtime: runtime,
	}
}

// Run executes the show config use case
func (uc *ShowConfig) Run(ctx context.Context) (*ShowConfigResult, error) {
	local, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	effective := map[config.ConfigKey]string{
		config.ConfigKeyRelayURL:              uc.runtime.RelayURL,
		config.ConfigKeyTransactionServiceURL: uc.runtime.TransactionServiceURL,
		config.ConfigKeyRPCURL:                uc.runtime.RPCURL,
		config.ConfigKeyGasToken:              uc.runtime.GasToken.Hex(),
		config.ConfigKeyPaymentToken:          uc.runtime.PaymentToken.Hex(),
		config.ConfigKeyStore:                 string(uc.runtime.Store),
		config.ConfigKeyRedisURL:              redactURL(uc.runtime.RedisURL),
		config.ConfigKeyPollInterval:          uc.runtime.PollInterval.String(),
	}

	settings := make([]ConfigSetting, 0, len(effective))
	for _, key := range config.ValidConfigKeys() {
		settings = append(settings, ConfigSetting{
			Key:      key,
			Value:    effective[key],
			FromFile: local.Get(key) != "",
		})
	}

	return &ShowConfigResult{
		Config:        local,
		ConfigPath:    uc.store.GetPath(),
		Exists:        uc.store.Exists(),
		Settings:      settings,
		StoreLocation: uc.storeLocation(),
	}, nil
}

func (uc *ShowConfig) storeLocation() string {
	if uc.runtime.Store == config.StoreRedis {
		return fmt.Sprintf("%s (prefix %q)", redactURL(uc.runtime.RedisURL), uc.runtime.RedisPrefix)
	}
	return uc.runtime.StateDir()
}

// redactURL hides the password of a connection URL
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
