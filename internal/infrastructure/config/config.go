package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Sensor Monitor Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	API      APIConfig      `yaml:"api"`
	Logging  LoggingConfig  `yaml:"logging"`
	Security SecurityConfig `yaml:"security"`
	Cache    CacheConfig    `yaml:"cache"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Audit    AuditConfig    `yaml:"audit"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	TLS      TLSConfig        `yaml:"tls"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// TLSConfig contains TLS certificate settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// APITimeoutConfig contains HTTP timeout settings (seconds).
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// SecurityConfig contains security settings.
type SecurityConfig struct {
	JWT JWTConfig `yaml:"jwt"`
}

// JWTConfig describes how bearer tokens issued by the identity provider are verified
// and how their claims map onto principals and roles.
type JWTConfig struct {
	// Secret is the HS256 shared secret. Either Secret or PublicKeyFile is required.
	Secret string `yaml:"secret"`

	// PublicKeyFile is a PEM encoded RSA public key for RS256 tokens.
	PublicKeyFile string `yaml:"public_key_file"`

	// Issuer, when set, must match the iss claim.
	Issuer string `yaml:"issuer"`

	// Audience, when set, must be contained in the aud claim.
	Audience string `yaml:"audience"`

	// RolesClaim is the name of the string-list claim carrying role names.
	RolesClaim string `yaml:"roles_claim"`

	// RolePrefix is required on every role entry and stripped before mapping.
	RolePrefix string `yaml:"role_prefix"`

	// PrincipalClaim names the claim used as the caller's display identity.
	// Falls back to sub when missing from a token.
	PrincipalClaim string `yaml:"principal_claim"`

	// Leeway tolerates clock skew when checking exp/nbf/iat.
	Leeway time.Duration `yaml:"leeway"`
}

// CacheConfig contains response cache settings.
type CacheConfig struct {
	Sensors SensorCacheConfig `yaml:"sensors"`
}

// SensorCacheConfig bounds the read-through cache of single sensor lookups.
type SensorCacheConfig struct {
	Size int `yaml:"size"`
}

// MQTTConfig contains MQTT broker connection settings.
// When Enabled is false sensor lifecycle events are not published.
type MQTTConfig struct {
	Enabled     bool                `yaml:"enabled"`
	Broker      MQTTBrokerConfig    `yaml:"broker"`
	Auth        MQTTAuthConfig      `yaml:"auth"`
	QoS         int                 `yaml:"qos"`
	TopicPrefix string              `yaml:"topic_prefix"`
	Reconnect   MQTTReconnectConfig `yaml:"reconnect"`
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

// AuditConfig controls the mutation audit trail.
type AuditConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: SENSORMONITOR_SECTION_KEY
// For example: SENSORMONITOR_DATABASE_PATH, SENSORMONITOR_API_PORT
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        "./data/sensormonitor.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Security: SecurityConfig{
			JWT: JWTConfig{
				RolesClaim:     "spring_sec_roles",
				RolePrefix:     "ROLE_",
				PrincipalClaim: "preferred_username",
			},
		},
		Cache: CacheConfig{
			Sensors: SensorCacheConfig{Size: 1024},
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "sensormonitor-core",
			},
			QoS:         1,
			TopicPrefix: "sensormonitor",
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Audit: AuditConfig{Enabled: true},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: SENSORMONITOR_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Database
	if v := os.Getenv("SENSORMONITOR_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// API
	if v := os.Getenv("SENSORMONITOR_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("SENSORMONITOR_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	// MQTT
	if v := os.Getenv("SENSORMONITOR_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("SENSORMONITOR_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("SENSORMONITOR_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// Security - never keep real secrets in the YAML file
	if v := os.Getenv("SENSORMONITOR_JWT_SECRET"); v != "" {
		cfg.Security.JWT.Secret = v
	}
	if v := os.Getenv("SENSORMONITOR_JWT_PUBLIC_KEY_FILE"); v != "" {
		cfg.Security.JWT.PublicKeyFile = v
	}
	if v := os.Getenv("SENSORMONITOR_JWT_ISSUER"); v != "" {
		cfg.Security.JWT.Issuer = v
	}
}

// Validate checks the configuration for errors and security issues.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	// A weak HMAC secret lets anyone mint ADMINISTRATOR tokens.
	const minJWTSecretLength = 32
	jwtCfg := c.Security.JWT
	switch {
	case jwtCfg.Secret == "" && jwtCfg.PublicKeyFile == "":
		errs = append(errs, "security.jwt.secret or security.jwt.public_key_file is required (set SENSORMONITOR_JWT_SECRET environment variable)")
	case jwtCfg.Secret != "" && len(jwtCfg.Secret) < minJWTSecretLength:
		errs = append(errs, "security.jwt.secret must be at least 32 characters for adequate security")
	}
	if jwtCfg.RolesClaim == "" {
		errs = append(errs, "security.jwt.roles_claim is required")
	}

	if c.Cache.Sensors.Size < 1 {
		errs = append(errs, "cache.sensors.size must be at least 1")
	}

	if c.MQTT.Enabled {
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
		if c.MQTT.TopicPrefix == "" {
			errs = append(errs, "mqtt.topic_prefix is required when mqtt is enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
