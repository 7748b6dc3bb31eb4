package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Gateway    GatewayConfig
	Resilience ResilienceConfig
	History    HistoryConfig
	Preview    PreviewConfig
	S3         S3Config
	Session    SessionConfig
	Log        LogConfig
	CORS       CORSConfig
}

// ServerConfig holds HTTP server settings for the editor.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// GatewayConfig holds settings for the remote classifier and document store.
type GatewayConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// Timeout returns the request timeout, defaulting to 120s.
func (g *GatewayConfig) Timeout() time.Duration {
	if g.TimeoutSecs <= 0 {
		return 120 * time.Second
	}
	return time.Duration(g.TimeoutSecs) * time.Second
}

// ResilienceConfig holds retry and circuit breaker settings for gateway calls.
type ResilienceConfig struct {
	MaxRetries          int           `mapstructure:"max_retries"`
	InitialBackoff      time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff          time.Duration `mapstructure:"max_backoff"`
	BreakerEnabled      bool          `mapstructure:"breaker_enabled"`
	BreakerMinRequests  int           `mapstructure:"breaker_min_requests"`
	BreakerFailureRatio float64       `mapstructure:"breaker_failure_ratio"`
	BreakerOpenTimeout  time.Duration `mapstructure:"breaker_open_timeout"`
}

// HistoryConfig holds recent-history settings.
type HistoryConfig struct {
	Limit int `mapstructure:"limit"`
}

// PreviewConfig holds local upload settings.
type PreviewConfig struct {
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	Backend       string `mapstructure:"backend"`
}

// MaxBytes returns the upload limit in bytes.
func (p *PreviewConfig) MaxBytes() int64 {
	return p.MaxFileSizeMB << 20
}

// S3Config holds AWS S3 settings for the s3 preview backend.
type S3Config struct {
	Region    string        `mapstructure:"region"`
	Bucket    string        `mapstructure:"bucket"`
	Prefix    string        `mapstructure:"prefix"`
	Endpoint  string        `mapstructure:"endpoint"`
	AccessKey string        `mapstructure:"access_key"`
	SecretKey string        `mapstructure:"secret_key"`
	OpTimeout time.Duration `mapstructure:"op_timeout"`
}

// SessionConfig holds editor session lifetime settings.
type SessionConfig struct {
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the IDREVIEW_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("IDREVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "180s")
	v.SetDefault("server.environment", "development")

	// Gateway defaults
	v.SetDefault("gateway.base_url", "http://localhost:8000")
	v.SetDefault("gateway.timeout_secs", 120)

	// Resilience defaults
	v.SetDefault("resilience.max_retries", 2)
	v.SetDefault("resilience.initial_backoff", "200ms")
	v.SetDefault("resilience.max_backoff", "2s")
	v.SetDefault("resilience.breaker_enabled", true)
	v.SetDefault("resilience.breaker_min_requests", 5)
	v.SetDefault("resilience.breaker_failure_ratio", 0.6)
	v.SetDefault("resilience.breaker_open_timeout", "30s")

	// History defaults
	v.SetDefault("history.limit", 5)

	// Preview defaults
	v.SetDefault("preview.max_file_size_mb", 10)
	v.SetDefault("preview.backend", "memory")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "idreview-previews")
	v.SetDefault("s3.prefix", "previews/")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.op_timeout", "15s")

	// Session defaults
	v.SetDefault("session.idle_timeout", "30m")
	v.SetDefault("session.sweep_interval", "1m")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                      "IDREVIEW_SERVER_PORT",
		"server.read_timeout":              "IDREVIEW_SERVER_READ_TIMEOUT",
		"server.write_timeout":             "IDREVIEW_SERVER_WRITE_TIMEOUT",
		"server.environment":               "IDREVIEW_SERVER_ENVIRONMENT",
		"gateway.base_url":                 "IDREVIEW_GATEWAY_BASE_URL",
		"gateway.timeout_secs":             "IDREVIEW_GATEWAY_TIMEOUT_SECS",
		"resilience.max_retries":           "IDREVIEW_RESILIENCE_MAX_RETRIES",
		"resilience.initial_backoff":       "IDREVIEW_RESILIENCE_INITIAL_BACKOFF",
		"resilience.max_backoff":           "IDREVIEW_RESILIENCE_MAX_BACKOFF",
		"resilience.breaker_enabled":       "IDREVIEW_RESILIENCE_BREAKER_ENABLED",
		"resilience.breaker_min_requests":  "IDREVIEW_RESILIENCE_BREAKER_MIN_REQUESTS",
		"resilience.breaker_failure_ratio": "IDREVIEW_RESILIENCE_BREAKER_FAILURE_RATIO",
		"resilience.breaker_open_timeout":  "IDREVIEW_RESILIENCE_BREAKER_OPEN_TIMEOUT",
		"history.limit":                    "IDREVIEW_HISTORY_LIMIT",
		"preview.max_file_size_mb":         "IDREVIEW_PREVIEW_MAX_FILE_SIZE_MB",
		"preview.backend":                  "IDREVIEW_PREVIEW_BACKEND",
		"s3.region":                        "IDREVIEW_S3_REGION",
		"s3.bucket":                        "IDREVIEW_S3_BUCKET",
		"s3.prefix":                        "IDREVIEW_S3_PREFIX",
		"s3.endpoint":                      "IDREVIEW_S3_ENDPOINT",
		"s3.access_key":                    "IDREVIEW_S3_ACCESS_KEY",
		"s3.secret_key":                    "IDREVIEW_S3_SECRET_KEY",
		"s3.op_timeout":                    "IDREVIEW_S3_OP_TIMEOUT",
		"session.idle_timeout":             "IDREVIEW_SESSION_IDLE_TIMEOUT",
		"session.sweep_interval":           "IDREVIEW_SESSION_SWEEP_INTERVAL",
		"log.level":                        "IDREVIEW_LOG_LEVEL",
		"log.format":                       "IDREVIEW_LOG_FORMAT",
		"cors.allowed_origins":             "IDREVIEW_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if IDREVIEW_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("IDREVIEW_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Gateway = GatewayConfig{
		BaseURL:     strings.TrimRight(v.GetString("gateway.base_url"), "/"),
		TimeoutSecs: v.GetInt("gateway.timeout_secs"),
	}
	cfg.Resilience = ResilienceConfig{
		MaxRetries:          v.GetInt("resilience.max_retries"),
		InitialBackoff:      v.GetDuration("resilience.initial_backoff"),
		MaxBackoff:          v.GetDuration("resilience.max_backoff"),
		BreakerEnabled:      v.GetBool("resilience.breaker_enabled"),
		BreakerMinRequests:  v.GetInt("resilience.breaker_min_requests"),
		BreakerFailureRatio: v.GetFloat64("resilience.breaker_failure_ratio"),
		BreakerOpenTimeout:  v.GetDuration("resilience.breaker_open_timeout"),
	}
	cfg.History = HistoryConfig{
		Limit: v.GetInt("history.limit"),
	}
	if cfg.History.Limit <= 0 {
		cfg.History.Limit = 5
	}
	cfg.Preview = PreviewConfig{
		MaxFileSizeMB: v.GetInt64("preview.max_file_size_mb"),
		Backend:       strings.ToLower(v.GetString("preview.backend")),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Prefix:    v.GetString("s3.prefix"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
		OpTimeout: v.GetDuration("s3.op_timeout"),
	}
	cfg.Session = SessionConfig{
		IdleTimeout:   v.GetDuration("session.idle_timeout"),
		SweepInterval: v.GetDuration("session.sweep_interval"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	return cfg, nil
}
