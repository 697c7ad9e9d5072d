package render

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/rmeissner/simple-safe/internal/domain/config"
	"github.com/rmeissner/simple-safe/internal/usecase"
)

// ConfigRenderer renders config-related output
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{
		out: out,
	}
}

var settingLabels = map[config.ConfigKey]string{
	config.ConfigKeyRelayURL:              "Relay",
	config.ConfigKeyTransactionServiceURL: "Transaction service",
	config.ConfigKeyRPCURL:                "RPC",
	config.ConfigKeyGasToken:              "Gas token",
	config.ConfigKeyPaymentToken:          "Payment token",
	config.ConfigKeyStore:                 "Store",
	config.ConfigKeyRedisURL:              "Redis",
	config.ConfigKeyPollInterval:          "Poll interval",
}

// RenderConfig renders the configuration display
func (r *ConfigRenderer) RenderConfig(result *usecase.ShowConfigResult) error {
	if !result.Exists {
		fmt.Fprintf(r.out, "⚠️  No config file at %s, using defaults and environment\n\n", result.ConfigPath)
	} else {
		fmt.Fprintln(r.out, "📋 Current config:")
	}

	data, err := yaml.Marshal(result.Config)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	if len(data) > 0 && string(data) != "{}\n" {
		fmt.Fprint(r.out, string(data))
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "🔧 Effective settings:")
	for _, setting := range result.Settings {
		value := orUnset(setting.Value)
		switch setting.Key {
		case config.ConfigKeyGasToken, config.ConfigKeyPaymentToken:
			value = tokenName(common.HexToAddress(setting.Value))
		case config.ConfigKeyStore:
			value = fmt.Sprintf("%s at %s", setting.Value, result.StoreLocation)
		}
		if setting.FromFile {
			value += color.New(color.Faint).Sprint(" (config file)")
		}
		fmt.Fprintf(r.out, "%-21s%s\n", settingLabels[setting.Key]+":", value)
	}
	fmt.Fprintf(r.out, "📁 config file: %s\n", result.ConfigPath)

	return nil
}

// RenderSet renders the result of setting a configuration value
func (r *ConfigRenderer) RenderSet(result *usecase.SetConfigResult) error {
	fmt.Fprintf(r.out, "✅ Set %s to: %s\n", result.Key, result.Value)
	fmt.Fprintf(r.out, "📁 config saved to: %s\n", result.ConfigPath)
	return nil
}

func orUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
