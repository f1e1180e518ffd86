package config

import (
	"time"

	"github.com/vietddude/walletbridge/internal/infra/flagstore"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig     `yaml:"server"`
	Provider ProviderConfig   `yaml:"provider"`
	Network  NetworkConfig    `yaml:"network"`
	Redis    flagstore.Config `yaml:"redis"`
	Backend  BackendConfig    `yaml:"backend"`
	Logging  LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds HTTP control server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// ProviderConfig holds wallet provider transport settings.
type ProviderConfig struct {
	Endpoint     string        `yaml:"endpoint"`      // empty = no provider attached
	PollInterval time.Duration `yaml:"poll_interval"` // account/chain change polling
	Timeout      time.Duration `yaml:"timeout"`
}

// NetworkConfig selects the target chain and the payment mode.
type NetworkConfig struct {
	Target         string `yaml:"target"`          // network name, e.g. "sepolia"
	BlockchainMode bool   `yaml:"blockchain_mode"` // true = crypto payouts, ethereum addresses
}

// BackendConfig holds profile service settings. An empty token disables
// the address sync.
type BackendConfig struct {
	URL     string        `yaml:"url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}
