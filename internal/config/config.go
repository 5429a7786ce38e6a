package config

import (
	"fmt"
	"os"
	"time"

	"github.com/Rrens/sqlquery-ai/internal/llm"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Security SecurityConfig `mapstructure:"security"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	MiddlewareTimeout time.Duration `mapstructure:"middleware_timeout"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig points at the database queries are generated for and executed against
type DatabaseConfig struct {
	Type         string        `mapstructure:"type"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	User         string        `mapstructure:"user"`
	Password     string        `mapstructure:"password"`
	Database     string        `mapstructure:"database"`
	SSLMode      string        `mapstructure:"ssl_mode"`
	MaxRows      int           `mapstructure:"max_rows"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

type RedisConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Host      string        `mapstructure:"host"`
	Port      int           `mapstructure:"port"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	SchemaTTL time.Duration `mapstructure:"schema_ttl"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type AuthConfig struct {
	Enabled        bool              `mapstructure:"enabled"`
	JWTSecret      string            `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration     `mapstructure:"access_token_ttl"`
	Clients        map[string]string `mapstructure:"clients"`
}

type LLMConfig struct {
	Provider       string         `mapstructure:"provider"`
	RequestTimeout time.Duration  `mapstructure:"request_timeout"`
	OpenAI         ProviderConfig `mapstructure:"openai"`
	AzureOpenAI    ProviderConfig `mapstructure:"azure_openai"`
	Claude         ProviderConfig `mapstructure:"claude"`
	Gemini         ProviderConfig `mapstructure:"gemini"`
}

type ProviderConfig struct {
	APIKey         string `mapstructure:"api_key"`
	Endpoint       string `mapstructure:"endpoint"`
	DeploymentName string `mapstructure:"deployment_name"`
	Model          string `mapstructure:"model"`
}

// Selected resolves the configured provider name and returns its settings.
// Missing fields are left empty; providers report them when first called.
func (c LLMConfig) Selected() (llm.ProviderType, llm.ProviderConfig, error) {
	providerType, err := llm.ParseProviderType(c.Provider)
	if err != nil {
		return 0, llm.ProviderConfig{}, err
	}

	var pc ProviderConfig
	switch providerType {
	case llm.OpenAI:
		pc = c.OpenAI
	case llm.AzureOpenAI:
		pc = c.AzureOpenAI
	case llm.Claude:
		pc = c.Claude
	case llm.Gemini:
		pc = c.Gemini
	}

	return providerType, llm.ProviderConfig{
		APIKey:         pc.APIKey,
		Endpoint:       pc.Endpoint,
		DeploymentName: pc.DeploymentName,
		Model:          pc.Model,
	}, nil
}

type SecurityConfig struct {
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

type LoggingConfig struct {
	Level        string        `mapstructure:"level"`
	Format       string        `mapstructure:"format"`
	File         string        `mapstructure:"file"`
	MaxAge       time.Duration `mapstructure:"max_age"`
	RotationTime time.Duration `mapstructure:"rotation_time"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}
	return LoadFile(configPath)
}

// LoadFile reads configuration from configPath, tolerating a missing file
func LoadFile(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.middleware_timeout", "110s")

	// Database
	v.SetDefault("database.type", "sqlserver")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "sa")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_rows", 1000)
	v.SetDefault("database.query_timeout", "30s")

	// Redis
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.schema_ttl", "5m")

	// Auth
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.access_token_ttl", "15m")

	// LLM
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.request_timeout", "60s")

	// Security
	v.SetDefault("security.rate_limit.requests_per_minute", 60)
	v.SetDefault("security.rate_limit.burst", 10)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.max_age", "168h")
	v.SetDefault("logging.rotation_time", "24h")

	// Metrics
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

func bindEnvVars(v *viper.Viper) {
	// Database
	v.BindEnv("database.type", "DB_TYPE")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.database", "DB_NAME")

	// Redis
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Auth
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")

	// LLM
	v.BindEnv("llm.provider", "LLM_PROVIDER")
	v.BindEnv("llm.openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("llm.azure_openai.api_key", "AZURE_OPENAI_API_KEY")
	v.BindEnv("llm.azure_openai.endpoint", "AZURE_OPENAI_ENDPOINT")
	v.BindEnv("llm.azure_openai.deployment_name", "AZURE_OPENAI_DEPLOYMENT")
	v.BindEnv("llm.claude.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("llm.gemini.api_key", "GEMINI_API_KEY")
}
