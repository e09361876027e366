// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	AI        AIConfig        `mapstructure:"ai"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address      string `mapstructure:"address"`
	OpsAddress   string `mapstructure:"ops_address"` // /metrics, /debug/pprof
	ReadTimeout  int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int    `mapstructure:"write_timeout"` // milliseconds
}

// AIConfig holds settings for both model providers and orchestration behavior.
type AIConfig struct {
	Primary  ProviderConfig `mapstructure:"primary"`
	Fallback ProviderConfig `mapstructure:"fallback"`

	RequestTimeout       int     `mapstructure:"request_timeout"` // milliseconds
	MaxTokens            int     `mapstructure:"max_tokens"`
	PrimaryTemperature   float64 `mapstructure:"primary_temperature"`
	SecondaryTemperature float64 `mapstructure:"secondary_temperature"`
	SkipSecondary        bool    `mapstructure:"skip_secondary"`
}

// ProviderConfig identifies one concrete text-completion provider.
type ProviderConfig struct {
	Name   string `mapstructure:"name"` // "anthropic" or "gemini"
	Model  string `mapstructure:"model"`
	APIKey string `mapstructure:"api_key"`
}

type StorageConfig struct {
	Backend    string      `mapstructure:"backend"` // "memory" or "redis"
	Redis      RedisConfig `mapstructure:"redis"`
	SessionTTL int         `mapstructure:"session_ttl"` // milliseconds
	ResultTTL  int         `mapstructure:"result_ttl"`  // milliseconds
	ContextTTL int         `mapstructure:"context_ttl"` // milliseconds
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig holds settings for the bearer token verifier.
type AuthConfig struct {
	VerifyURL string `mapstructure:"verify_url"`
	Timeout   int    `mapstructure:"timeout"` // milliseconds
}

// RateLimitConfig is a fixed request budget per time window, applied before
// the pipeline runs.
type RateLimitConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	Requests      int  `mapstructure:"requests"`
	WindowSeconds int  `mapstructure:"window_seconds"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
