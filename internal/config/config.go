package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/garyjia/erp-admin-console/internal/format"
	"github.com/garyjia/erp-admin-console/pkg/utils"
)

// Backend modes
const (
	BackendDemo   = "demo"
	BackendRemote = "remote"
)

// EnvPrefix prefixes every environment override, e.g. ERP_SERVER_PORT
const EnvPrefix = "ERP"

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Session  SessionConfig  `mapstructure:"session"`
	Display  DisplayConfig  `mapstructure:"display"`
	Demo     DemoConfig     `mapstructure:"demo"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Export   ExportConfig   `mapstructure:"export"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// BackendConfig selects and configures the ERP backend
type BackendConfig struct {
	Mode       string        `mapstructure:"mode"`
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RetryCount int           `mapstructure:"retry_count"`
}

// SessionConfig holds session settings
type SessionConfig struct {
	// Token, when set, signs the console in at startup
	Token string `mapstructure:"token"`
}

// DisplayConfig controls currency rendering
type DisplayConfig struct {
	CurrencySymbol string `mapstructure:"currency_symbol"`
	Locale         string `mapstructure:"locale"`
}

// DemoConfig sizes the in-process demo backend
type DemoConfig struct {
	Seed             uint64 `mapstructure:"seed"`
	Accounts         int    `mapstructure:"accounts"`
	Refunds          int    `mapstructure:"refunds"`
	Expenses         int    `mapstructure:"expenses"`
	Inventory        int    `mapstructure:"inventory"`
	PurchasesPerItem int    `mapstructure:"purchases_per_item"`
	Approver         string `mapstructure:"approver"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// ExportConfig holds workbook export settings
type ExportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// Address returns host:port for the HTTP listener
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load loads configuration from an optional YAML file, .env files and
// environment variables. An empty configPath skips the file. Missing .env
// files are ignored; envFiles defaults to ".env".
func Load(configPath string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := gotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Override with environment variables
	if err := bindEnvVars(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.allowed_origins", []string{})

	// Database defaults
	v.SetDefault("database.path", "data/console.db")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	// Backend defaults
	v.SetDefault("backend.mode", BackendDemo)
	v.SetDefault("backend.timeout", 15*time.Second)
	v.SetDefault("backend.retry_count", 2)

	// Display defaults
	v.SetDefault("display.currency_symbol", format.DefaultSymbol)
	v.SetDefault("display.locale", format.DefaultLocale)

	// Demo defaults
	v.SetDefault("demo.seed", 42)
	v.SetDefault("demo.accounts", 12)
	v.SetDefault("demo.refunds", 15)
	v.SetDefault("demo.expenses", 40)
	v.SetDefault("demo.inventory", 30)
	v.SetDefault("demo.purchases_per_item", 4)
	v.SetDefault("demo.approver", "Console Admin")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")

	// Export defaults
	v.SetDefault("export.output_dir", "exports")
}

// bindEnvVars binds conventional variable names alongside the ERP_ prefix
func bindEnvVars(v *viper.Viper) error {
	bindings := map[string][]string{
		"backend.base_url": {"ERP_BACKEND_BASE_URL", "ERP_API_URL"},
		"session.token":    {"ERP_SESSION_TOKEN", "ERP_AUTH_TOKEN"},
	}
	for key, names := range bindings {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch c.Backend.Mode {
	case BackendDemo:
	case BackendRemote:
		if c.Backend.BaseURL == "" {
			return fmt.Errorf("backend.base_url is required in remote mode")
		}
		if err := utils.ValidateBaseURL(c.Backend.BaseURL); err != nil {
			return fmt.Errorf("backend.base_url: %w", err)
		}
	default:
		return fmt.Errorf("backend.mode must be %q or %q, got %q", BackendDemo, BackendRemote, c.Backend.Mode)
	}
	if c.Backend.RetryCount < 0 {
		return fmt.Errorf("backend.retry_count must not be negative")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Display.CurrencySymbol == "" {
		return fmt.Errorf("display.currency_symbol is required")
	}
	if err := utils.ValidateLocale(c.Display.Locale); err != nil {
		return fmt.Errorf("display.locale: %w", err)
	}

	if c.Backend.Mode == BackendDemo {
		d := c.Demo
		if d.Accounts < 0 || d.Refunds < 0 || d.Expenses < 0 || d.Inventory < 0 || d.PurchasesPerItem < 0 {
			return fmt.Errorf("demo record counts must not be negative")
		}
	}

	return nil
}
