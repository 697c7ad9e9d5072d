package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rmeissner/simple-safe/internal/domain"
	"github.com/rmeissner/simple-safe/internal/domain/config"
)

// SetConfigParams contains parameters for setting configuration
type SetConfigParams struct {
	Key   string
	Value string
}

// SetConfigResult contains the result of setting configuration
type SetConfigResult struct {
	UpdatedConfig *config.LocalConfig
	ConfigPath    string
	Key           config.ConfigKey
	Value         string
}

// SetConfig is a use case for setting configuration values
type SetConfig struct {
	store LocalConfigRepository
}

// NewSetConfig creates a new SetConfig use case
func NewSetConfig(store LocalConfigRepository) *SetConfig {
	return &SetConfig{
		store: store,
	}
}

// Run executes the set config use case
func (uc *SetConfig) Run(ctx context.Context, params SetConfigParams) (*SetConfigResult, error) {
	key := strings.ToLower(params.Key)

	if !config.IsValidConfigKey(key) {
		validKeys := make([]string, 0, len(config.ValidConfigKeys()))
		for _, k := range config.ValidConfigKeys() {
			validKeys = append(validKeys, string(k))
		}
		return nil, fmt.Errorf("unknown config key: %s\nAvailable keys: %s", params.Key, strings.Join(validKeys, ", "))
	}

	normalizedKey := config.NormalizeConfigKey(key)
	if err := validateConfigValue(normalizedKey, params.Value); err != nil {
		return nil, err
	}

	cfg, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.Set(normalizedKey, params.Value)

	if err := uc.store.Save(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return &SetConfigResult{
		UpdatedConfig: cfg,
		ConfigPath:    uc.store.GetPath(),
		Key:           normalizedKey,
		Value:         params.Value,
	}, nil
}

func validateConfigValue(key config.ConfigKey, value string) error {
	switch key {
	case config.ConfigKeyGasToken, config.ConfigKeyPaymentToken:
		if !common.IsHexAddress(value) {
			return fmt.Errorf("%s: %w: %q", key, domain.ErrInvalidAddress, value)
		}
	case config.ConfigKeyStore:
		if value != string(config.StoreBadger) && value != string(config.StoreRedis) {
			return fmt.Errorf("store must be %s or %s", config.StoreBadger, config.StoreRedis)
		}
	case config.ConfigKeyPollInterval:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("poll_interval must be a positive duration: %q", value)
		}
	}
	return nil
}
