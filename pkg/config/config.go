package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config groups the application settings. Values come from environment
// variables, optionally seeded by a .env or config.env file.
type Config struct {
	App      AppConfig
	DB       DBConfig
	HTTP     HTTPConfig
	Document DocumentConfig
}

// AppConfig general settings.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig PostgreSQL settings.
// A non-empty DatabaseURL is used as the full connection string.
type DBConfig struct {
	Driver      string // postgres or memory
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
	PreferIPv4  bool // dial the IPv4 address of the host when it has one
}

// ConnectionString returns DatabaseURL when set, DSN() otherwise.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN builds a postgres URL; special characters in the password are escaped.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// HTTPConfig HTTP server settings.
type HTTPConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	SwaggerEnabled bool
	SwaggerFile    string
}

// Addr returns host:port.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DocumentConfig printed invoice settings.
type DocumentConfig struct {
	Title         string
	Currency      string
	SellerName    string
	SellerGSTIN   string
	SellerAddress string
	SellerPhone   string
}

// Load reads the configuration. Environment variables take precedence over files.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // optional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "gst-billing-system"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			Driver:      strings.ToLower(getString(v, "STORAGE_DRIVER", StoragePostgres)),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "gst_billing"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
			MinConns:    getInt(v, "DB_MIN_CONNS", 2),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", true),
			PreferIPv4:  getBool(v, "DB_PREFER_IPV4", false),
		},
		HTTP: HTTPConfig{
			Host:           getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:           getInt(v, "HTTP_PORT", 8080),
			ReadTimeout:    getDuration(v, "HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:   getDuration(v, "HTTP_WRITE_TIMEOUT", 30*time.Second),
			SwaggerEnabled: getBool(v, "SWAGGER_ENABLED", true),
			SwaggerFile:    getString(v, "SWAGGER_FILE", "./docs/swagger.json"),
		},
		Document: DocumentConfig{
			Title:         getString(v, "DOC_TITLE", "Tax Invoice"),
			Currency:      getString(v, "DOC_CURRENCY", "Rs."),
			SellerName:    getString(v, "SELLER_NAME", ""),
			SellerGSTIN:   getString(v, "SELLER_GSTIN", ""),
			SellerAddress: getString(v, "SELLER_ADDRESS", ""),
			SellerPhone:   getString(v, "SELLER_PHONE", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("config: STORAGE_DRIVER must be %q or %q, got %q", StoragePostgres, StorageMemory, c.DB.Driver)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("config: HTTP_PORT out of range: %d", c.HTTP.Port)
	}
	if c.DB.MinConns > c.DB.MaxConns {
		return fmt.Errorf("config: DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DB.MinConns, c.DB.MaxConns)
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return b
}

// getDuration accepts Go durations ("15s") or plain seconds ("15").
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	raw := strings.TrimSpace(v.GetString(key))
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
