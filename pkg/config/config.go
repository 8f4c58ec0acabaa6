package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pulse-protocol/pulse-go/pkg/conn"
)

// Compile-time interface satisfaction check.
var _ conn.ServerContext = Config{}

// Default heartbeat timings.
const (
	// DefaultPingInterval is the default delay between liveness probes.
	DefaultPingInterval = 25 * time.Second

	// DefaultPingTimeout is the default wait for a probe acknowledgement.
	DefaultPingTimeout = 20 * time.Second
)

// Config errors.
var (
	ErrInvalidPingInterval = errors.New("pingInterval must be positive")
	ErrInvalidPingTimeout  = errors.New("pingTimeout must be positive")
)

// Config holds the server-side connection settings advertised to peers
// in the handshake. It satisfies the conn.ServerContext interface.
type Config struct {
	// PingIntervalMs is the delay between liveness probes, in
	// milliseconds.
	PingIntervalMs int `yaml:"ping_interval_ms"`

	// PingTimeoutMs is how long to wait for a probe acknowledgement
	// before declaring the peer dead, in milliseconds.
	PingTimeoutMs int `yaml:"ping_timeout_ms"`

	// UpgradeList names the transports a peer may upgrade to, in
	// offer order.
	UpgradeList []string `yaml:"upgrades"`
}

// Default returns the default connection configuration. No upgrades are
// offered unless configured.
func Default() Config {
	return Config{
		PingIntervalMs: int(DefaultPingInterval.Milliseconds()),
		PingTimeoutMs:  int(DefaultPingTimeout.Milliseconds()),
	}
}

// Load reads a YAML configuration file. Fields absent from the file keep
// their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for usable values.
func (c Config) Validate() error {
	if c.PingIntervalMs <= 0 {
		return ErrInvalidPingInterval
	}
	if c.PingTimeoutMs <= 0 {
		return ErrInvalidPingTimeout
	}
	return nil
}

// PingInterval returns the probe interval as a duration.
func (c Config) PingInterval() time.Duration {
	return time.Duration(c.PingIntervalMs) * time.Millisecond
}

// PingTimeout returns the acknowledgement timeout as a duration.
func (c Config) PingTimeout() time.Duration {
	return time.Duration(c.PingTimeoutMs) * time.Millisecond
}

// Upgrades returns the transports a peer may upgrade to, in offer order.
func (c Config) Upgrades() []string {
	return c.UpgradeList
}
