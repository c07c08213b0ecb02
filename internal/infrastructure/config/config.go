package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the GrandmaTV controller.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	TV       TVConfig       `yaml:"tv"`
	Web      WebConfig      `yaml:"web"`
	Telegram TelegramConfig `yaml:"telegram"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`

	// Path records where the configuration was loaded from. The key store
	// rewrites this file when the TV issues a new pairing key.
	Path string `yaml:"-"`
}

// TVConfig identifies the television and carries its pairing state.
type TVConfig struct {
	// IP is the TV's network address on the LAN.
	IP string `yaml:"ip"`

	// MAC is the TV's hardware address, required for Wake-on-LAN.
	MAC string `yaml:"mac"`

	// ClientKey is the pairing key issued by the TV on first successful
	// registration. Empty until the first pairing completes; rewritten in
	// place when the TV issues a new one.
	ClientKey string `yaml:"client_key,omitempty"`

	// Port is the webOS SSAP websocket port. Default: 3000
	Port int `yaml:"port"`

	// ConnectTimeout bounds the websocket dial + register handshake (seconds).
	// Default: 10
	ConnectTimeout int `yaml:"connect_timeout"`
}

// WebConfig contains HTTP front-end settings.
type WebConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts WebTimeoutConfig `yaml:"timeouts"`

	// Buttons defines the remote page layout: one on-screen button per entry.
	Buttons []ButtonConfig `yaml:"buttons"`
}

// WebTimeoutConfig contains HTTP timeout settings (seconds).
type WebTimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// ButtonConfig describes one button on the web remote page.
type ButtonConfig struct {
	Label  string `yaml:"label"`
	Action string `yaml:"action"`
	Color  string `yaml:"color"`
}

// TelegramConfig contains Telegram bot settings.
type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`

	// AllowedChatIDs is the authorisation allow-list. Empty means deny all.
	AllowedChatIDs []int64 `yaml:"allowed_chat_ids"`
}

// MQTTConfig contains MQTT broker connection settings for the MQTT front-end.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings (seconds).
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: GRANDMATV_SECTION_KEY
// For example: GRANDMATV_TV_IP, GRANDMATV_TELEGRAM_BOT_TOKEN
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.Path = path

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		TV: TVConfig{
			Port:           3000,
			ConnectTimeout: 10,
		},
		Web: WebConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: WebTimeoutConfig{
				Read:  30,
				Write: 120, // a single command can hold the handler through wake + retry
				Idle:  60,
			},
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "grandmatv",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: GRANDMATV_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// TV
	if v := os.Getenv("GRANDMATV_TV_IP"); v != "" {
		cfg.TV.IP = v
	}
	if v := os.Getenv("GRANDMATV_TV_MAC"); v != "" {
		cfg.TV.MAC = v
	}

	// Web
	if v := os.Getenv("GRANDMATV_WEB_HOST"); v != "" {
		cfg.Web.Host = v
	}
	if v := os.Getenv("GRANDMATV_WEB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Web.Port = port
		}
	}

	// Telegram - the token should not live in a config file on shared machines
	if v := os.Getenv("GRANDMATV_TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}

	// MQTT
	if v := os.Getenv("GRANDMATV_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("GRANDMATV_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("GRANDMATV_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// TV validation
	if c.TV.IP == "" {
		errs = append(errs, "tv.ip is required")
	}
	if c.TV.MAC != "" {
		if _, err := net.ParseMAC(c.TV.MAC); err != nil {
			errs = append(errs, fmt.Sprintf("tv.mac %q is not a valid hardware address", c.TV.MAC))
		}
	}
	if c.TV.Port < 1 || c.TV.Port > 65535 {
		errs = append(errs, "tv.port must be between 1 and 65535")
	}

	// Web validation
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		errs = append(errs, "web.port must be between 1 and 65535")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetConnectTimeout returns the TV connect timeout as a Duration.
func (c *Config) GetConnectTimeout() time.Duration {
	return time.Duration(c.TV.ConnectTimeout) * time.Second
}

// GetReadTimeout returns the web read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.Web.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the web write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.Web.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the web idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.Web.Timeouts.Idle) * time.Second
}
