package config

import (
	"fmt"
	"net"
	"time"
)

// Config holds all configuration for the explorer
type Config struct {
	Filename string        `yaml:"-" mapstructure:"-"`
	Server   ServerConfig  `yaml:"server" mapstructure:"server"`
	Logging  LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Fetch    FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Debug    bool          `yaml:"debug" mapstructure:"debug"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string              `yaml:"host" mapstructure:"host"`
	CORSOrigins     []string            `yaml:"cors_origins" mapstructure:"cors_origins"`
	RateLimits      ServerRateLimits    `yaml:"rate_limits" mapstructure:"rate_limits"`
	RequestLimits   ServerRequestLimits `yaml:"request_limits" mapstructure:"request_limits"`
	Port            int                 `yaml:"port" mapstructure:"port"`
	ReadTimeout     time.Duration       `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration       `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration       `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	RequestLogging  bool                `yaml:"request_logging" mapstructure:"request_logging"`
}

// GetAddress returns the server address in host:port format
func (s *ServerConfig) GetAddress() string {
	return net.JoinHostPort(s.Host, fmt.Sprintf("%d", s.Port))
}

type ServerRequestLimits struct {
	MaxBodySize int64 `yaml:"max_body_size" mapstructure:"max_body_size"`
}

// ServerRateLimits applies to the fetch endpoint only, a single fetch can
// fan out to dozens of upstream calls
type ServerRateLimits struct {
	TrustedProxyCIDRs       []string      `yaml:"trusted_proxy_cidrs" mapstructure:"trusted_proxy_cidrs"`
	TrustedProxyCIDRsParsed []*net.IPNet  `yaml:"-" mapstructure:"-"`
	GlobalRequestsPerMinute int           `yaml:"global_requests_per_minute" mapstructure:"global_requests_per_minute"`
	PerIPRequestsPerMinute  int           `yaml:"per_ip_requests_per_minute" mapstructure:"per_ip_requests_per_minute"`
	BurstSize               int           `yaml:"burst_size" mapstructure:"burst_size"`
	CleanupInterval         time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
	TrustProxyHeaders       bool          `yaml:"trust_proxy_headers" mapstructure:"trust_proxy_headers"`
}

// FetchConfig drives the upstream side. Zero workers means pick from the
// cpu count.
type FetchConfig struct {
	RequestTimeout  time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	RetryBackoff    time.Duration `yaml:"retry_backoff" mapstructure:"retry_backoff"`
	ServerWorkers   int           `yaml:"server_workers" mapstructure:"server_workers"`
	ModelWorkers    int           `yaml:"model_workers" mapstructure:"model_workers"`
	RetryAttempts   int           `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	MaxResponseSize int64         `yaml:"max_response_size" mapstructure:"max_response_size"`
}

type LoggingConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`
	Theme      string `yaml:"theme" mapstructure:"theme"`
	LogDir     string `yaml:"log_dir" mapstructure:"log_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"`
	FileOutput bool   `yaml:"file_output" mapstructure:"file_output"`
}
