package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"

	// ConfigDirEnv overrides the directory searched for config.yaml.
	ConfigDirEnv = "OPTIONBUYER_CONFIG_DIR"
)

type Config struct {
	Environment string            `mapstructure:"environment"` // "dev" or "prod"
	Shoonya     ShoonyaConfig     `mapstructure:"shoonya"`
	Strategy    StrategyConfig    `mapstructure:"strategy"`
	Credentials CredentialsConfig `mapstructure:"credentials"`
	Log         LogConfig         `mapstructure:"log"`
	Postgres    PostgresConfig    `mapstructure:"postgres"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

type ShoonyaConfig struct {
	REST RESTConfig `mapstructure:"rest"`
	WS   WSConfig   `mapstructure:"ws"`
}

type RESTConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type WSConfig struct {
	URL            string        `mapstructure:"url"`
	Timeout        time.Duration `mapstructure:"timeout"` // streamed prices older than this are stale
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay"`
}

// StrategyConfig describes what is polled and how the order is shaped.
type StrategyConfig struct {
	IndexExchange  string        `mapstructure:"index_exchange"`  // exchange of the underlying quote, "NSE"
	IndexToken     string        `mapstructure:"index_token"`     // Bank Nifty token, "26009"
	OptionExchange string        `mapstructure:"option_exchange"` // "NFO"
	OptionSymbol   string        `mapstructure:"option_symbol"`   // "BANKNIFTY"
	ChainCount     int           `mapstructure:"chain_count"`     // strikes on each side of the price
	StrikeInterval int64         `mapstructure:"strike_interval"` // 100 for Bank Nifty
	OrderExchange  string        `mapstructure:"order_exchange"`
	Product        string        `mapstructure:"product"` // "C", "I" or "M"
	Quantity       int           `mapstructure:"quantity"`
	Remarks        string        `mapstructure:"remarks"`
	PollInterval   time.Duration `mapstructure:"poll_interval"` // 0 polls back to back
	QuoteSource    string        `mapstructure:"quote_source"`  // "rest" or "ws"
}

// LogConfig defines the logger configuration options.
type LogConfig struct {
	Level       string `mapstructure:"level"`       // log level: "debug", "info", "warn", "error"
	Format      string `mapstructure:"format"`      // log format: "json" or "console"
	OutputFile  string `mapstructure:"output_file"` // file path to store logs (optional)
	Environment string `mapstructure:"environment"` // environment: "dev" or "prod"
	MaxSizeMB   int    `mapstructure:"max_size_mb"`
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAgeDays  int    `mapstructure:"max_age_days"`
}

type MetricsConfig struct {
	Port int `mapstructure:"port"` // 0 disables the /metrics endpoint
}

// Load loads application configuration using Viper.
// It reads config.yaml from the config directory and overrides with environment variables.
func Load() (*Config, error) {
	return LoadFrom(configDir())
}

// LoadFrom reads config.yaml from dir.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config") // config.yaml
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	setDefaults(v)

	// Support environment variables with dot notation (e.g., STRATEGY_POLL_INTERVAL)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Relative credential paths are resolved against the config directory
	if cfg.Credentials.File != "" && !filepath.IsAbs(cfg.Credentials.File) {
		cfg.Credentials.File = filepath.Join(dir, cfg.Credentials.File)
	}
	if cfg.Log.Environment == "" {
		cfg.Log.Environment = cfg.Environment
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	s := c.Strategy
	switch {
	case c.Shoonya.REST.BaseURL == "":
		return fmt.Errorf("invalid config: shoonya.rest.base_url is empty")
	case s.StrikeInterval <= 0:
		return fmt.Errorf("invalid config: strategy.strike_interval must be positive, got %d", s.StrikeInterval)
	case s.Quantity <= 0:
		return fmt.Errorf("invalid config: strategy.quantity must be positive, got %d", s.Quantity)
	case s.ChainCount <= 0:
		return fmt.Errorf("invalid config: strategy.chain_count must be positive, got %d", s.ChainCount)
	case s.PollInterval < 0:
		return fmt.Errorf("invalid config: strategy.poll_interval must not be negative")
	case s.QuoteSource != QuoteSourceREST && s.QuoteSource != QuoteSourceWS:
		return fmt.Errorf("invalid config: strategy.quote_source must be %q or %q, got %q",
			QuoteSourceREST, QuoteSourceWS, s.QuoteSource)
	}
	return nil
}

const (
	QuoteSourceREST = "rest"
	QuoteSourceWS   = "ws"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", EnvDev)

	v.SetDefault("shoonya.rest.base_url", "https://api.shoonya.com/NorenWClientTP")
	v.SetDefault("shoonya.rest.timeout", 10*time.Second)
	v.SetDefault("shoonya.ws.url", "wss://api.shoonya.com/NorenWSTP/")
	v.SetDefault("shoonya.ws.timeout", 10*time.Second)
	v.SetDefault("shoonya.ws.reconnect_delay", 3*time.Second)

	v.SetDefault("strategy.index_exchange", "NSE")
	v.SetDefault("strategy.index_token", "26009")
	v.SetDefault("strategy.option_exchange", "NFO")
	v.SetDefault("strategy.option_symbol", "BANKNIFTY")
	v.SetDefault("strategy.chain_count", 5)
	v.SetDefault("strategy.strike_interval", 100)
	v.SetDefault("strategy.order_exchange", "NFO")
	v.SetDefault("strategy.product", "C")
	v.SetDefault("strategy.quantity", 1)
	v.SetDefault("strategy.remarks", "Automated trade")
	v.SetDefault("strategy.poll_interval", time.Second)
	v.SetDefault("strategy.quote_source", QuoteSourceREST)

	v.SetDefault("credentials.file", "cred.yml")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 7)

	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
}

// configDir picks the directory holding config.yaml: the env override, the
// source tree when run through `go run`/`go test`, or ../config next to the binary.
func configDir() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}

	ex, _ := os.Executable()
	if strings.Contains(ex, "go-build") {
		pwd, _ := os.Getwd()
		return filepath.Join(pwd, "../../config")
	}
	return filepath.Join(filepath.Dir(ex), "../config")
}
