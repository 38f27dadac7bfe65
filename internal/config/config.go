package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/thushan/olla-explorer/internal/core/domain"
	"github.com/thushan/olla-explorer/internal/util"
)

const (
	DefaultPort = 5000
	DefaultHost = "0.0.0.0"

	EnvPrefix     = "EXPLORER"
	EnvConfigFile = "EXPLORER_CONFIG_FILE"

	// REQUEST_TIMEOUT predates the prefixed variables and is whole seconds
	legacyRequestTimeoutEnv = "REQUEST_TIMEOUT"

	DefaultRequestTimeout  = 15 * time.Second
	DefaultMaxBodySize     = 1 << 20
	DefaultMaxResponseSize = 10 << 20
)

// legacyAliases are the unprefixed variables older deployments set, checked
// after the EXPLORER_ prefixed form
var legacyAliases = map[string][]string{
	"debug":                "DEBUG",
	"server.host":          "HOST",
	"server.port":          "PORT",
	"server.cors_origins":  "CORS_ORIGINS",
	"fetch.server_workers": "MAX_WORKERS",
	"fetch.model_workers":  "MAX_WORKERS",
	"logging.level":        "LOG_LEVEL",
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    5 * time.Minute, // big fleets take a while
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RequestLimits: ServerRequestLimits{
				MaxBodySize: DefaultMaxBodySize,
			},
			RateLimits: ServerRateLimits{
				GlobalRequestsPerMinute: 0,
				PerIPRequestsPerMinute:  60,
				BurstSize:               10,
				CleanupInterval:         5 * time.Minute,
				TrustedProxyCIDRs:       []string{},
			},
		},
		Fetch: FetchConfig{
			RequestTimeout:  DefaultRequestTimeout,
			RetryBackoff:    500 * time.Millisecond,
			MaxResponseSize: DefaultMaxResponseSize,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Theme:      "default",
			LogDir:     "./logs",
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
		},
	}
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("debug", cfg.Debug)

	v.SetDefault("server.host", cfg.Server.Host)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.read_timeout", cfg.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", cfg.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)
	v.SetDefault("server.request_logging", cfg.Server.RequestLogging)
	v.SetDefault("server.cors_origins", cfg.Server.CORSOrigins)
	v.SetDefault("server.request_limits.max_body_size", cfg.Server.RequestLimits.MaxBodySize)
	v.SetDefault("server.rate_limits.global_requests_per_minute", cfg.Server.RateLimits.GlobalRequestsPerMinute)
	v.SetDefault("server.rate_limits.per_ip_requests_per_minute", cfg.Server.RateLimits.PerIPRequestsPerMinute)
	v.SetDefault("server.rate_limits.burst_size", cfg.Server.RateLimits.BurstSize)
	v.SetDefault("server.rate_limits.cleanup_interval", cfg.Server.RateLimits.CleanupInterval)
	v.SetDefault("server.rate_limits.trust_proxy_headers", cfg.Server.RateLimits.TrustProxyHeaders)
	v.SetDefault("server.rate_limits.trusted_proxy_cidrs", cfg.Server.RateLimits.TrustedProxyCIDRs)

	v.SetDefault("fetch.request_timeout", cfg.Fetch.RequestTimeout)
	v.SetDefault("fetch.server_workers", cfg.Fetch.ServerWorkers)
	v.SetDefault("fetch.model_workers", cfg.Fetch.ModelWorkers)
	v.SetDefault("fetch.retry_attempts", cfg.Fetch.RetryAttempts)
	v.SetDefault("fetch.retry_backoff", cfg.Fetch.RetryBackoff)
	v.SetDefault("fetch.max_response_size", cfg.Fetch.MaxResponseSize)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.theme", cfg.Logging.Theme)
	v.SetDefault("logging.file_output", cfg.Logging.FileOutput)
	v.SetDefault("logging.log_dir", cfg.Logging.LogDir)
	v.SetDefault("logging.max_size", cfg.Logging.MaxSize)
	v.SetDefault("logging.max_backups", cfg.Logging.MaxBackups)
	v.SetDefault("logging.max_age", cfg.Logging.MaxAge)
}

// Load reads configuration from (in increasing priority) defaults, a yaml
// file and the environment. An empty path searches ./ and ./config for
// config.yaml, falling back to EXPLORER_CONFIG_FILE.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, alias := range legacyAliases {
		envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, alias); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			// no file at all is fine, defaults and env cover it
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	// every key has a default registered, so decode into a zero value and
	// let viper's precedence decide
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Filename = v.ConfigFileUsed()

	if err := applyLegacyRequestTimeout(cfg); err != nil {
		return nil, err
	}

	if cfg.Debug {
		cfg.Logging.Level = "debug"
		cfg.Server.RequestLogging = true
	}

	cidrs, err := util.ParseTrustedCIDRs(cfg.Server.RateLimits.TrustedProxyCIDRs)
	if err != nil {
		return nil, domain.NewConfigValidationError("server.rate_limits.trusted_proxy_cidrs", cfg.Server.RateLimits.TrustedProxyCIDRs, err.Error())
	}
	cfg.Server.RateLimits.TrustedProxyCIDRsParsed = cidrs

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyLegacyRequestTimeout honours REQUEST_TIMEOUT=<seconds> unless the
// prefixed variable was set
func applyLegacyRequestTimeout(cfg *Config) error {
	if os.Getenv(EnvPrefix+"_FETCH_REQUEST_TIMEOUT") != "" {
		return nil
	}
	raw := strings.TrimSpace(os.Getenv(legacyRequestTimeoutEnv))
	if raw == "" {
		return nil
	}

	if seconds, err := strconv.Atoi(raw); err == nil {
		cfg.Fetch.RequestTimeout = time.Duration(seconds) * time.Second
		return nil
	}
	if d, err := time.ParseDuration(raw); err == nil {
		cfg.Fetch.RequestTimeout = d
		return nil
	}
	return domain.NewConfigValidationError(legacyRequestTimeoutEnv, raw, "expected seconds or a duration")
}

// Validate catches values that would only blow up later at runtime
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return domain.NewConfigValidationError("server.port", c.Server.Port, "must be between 1 and 65535")
	}
	if c.Fetch.RequestTimeout <= 0 {
		return domain.NewConfigValidationError("fetch.request_timeout", c.Fetch.RequestTimeout, "must be positive")
	}
	if c.Fetch.ServerWorkers < 0 {
		return domain.NewConfigValidationError("fetch.server_workers", c.Fetch.ServerWorkers, "must not be negative")
	}
	if c.Fetch.ModelWorkers < 0 {
		return domain.NewConfigValidationError("fetch.model_workers", c.Fetch.ModelWorkers, "must not be negative")
	}
	if c.Fetch.RetryAttempts < 0 {
		return domain.NewConfigValidationError("fetch.retry_attempts", c.Fetch.RetryAttempts, "must not be negative")
	}
	if c.Fetch.RetryAttempts > 0 && c.Fetch.RetryBackoff <= 0 {
		return domain.NewConfigValidationError("fetch.retry_backoff", c.Fetch.RetryBackoff, "must be positive when retries are enabled")
	}
	if c.Fetch.MaxResponseSize <= 0 {
		return domain.NewConfigValidationError("fetch.max_response_size", c.Fetch.MaxResponseSize, "must be positive")
	}
	if c.Server.RequestLimits.MaxBodySize <= 0 {
		return domain.NewConfigValidationError("server.request_limits.max_body_size", c.Server.RequestLimits.MaxBodySize, "must be positive")
	}
	if c.Server.RateLimits.PerIPRequestsPerMinute < 0 || c.Server.RateLimits.GlobalRequestsPerMinute < 0 {
		return domain.NewConfigValidationError("server.rate_limits", c.Server.RateLimits, "request limits must not be negative")
	}
	return nil
}
