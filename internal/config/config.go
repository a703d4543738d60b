package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Store    StoreConfig
	Mongo    MongoConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Stripe   StripeConfig
	NewRelic NewRelicConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env      string // development, production
	LogLevel string
}

// IsProduction reports whether the app runs in production mode.
func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
}

// StoreConfig selects the record store driver.
type StoreConfig struct {
	Driver string
}

// MongoConfig holds MongoDB configuration.
type MongoConfig struct {
	URI          string // overrides the URI built from the credentials
	User         string
	Password     string
	Host         string
	Database     string
	Transactions bool
}

// ConnectionURI returns URI when set, otherwise an Atlas SRV URI built from
// the credentials.
func (c MongoConfig) ConnectionURI() string {
	if c.URI != "" {
		return c.URI
	}

	u := &url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority",
	}
	return u.String()
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	DSN string
}

// RedisConfig holds Redis configuration. An empty Addr disables the cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StripeConfig holds the payment gateway credentials. An empty key disables
// payment intents.
type StripeConfig struct {
	SecretKey string
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// Load loads configuration from the environment. A .env file in the working
// directory is read first; variables already set take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Env:      v.GetString("APP_ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Server: ServerConfig{
			Port:               v.GetString("PORT"),
			ReadTimeout:        v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:       v.GetDuration("SERVER_WRITE_TIMEOUT"),
			CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("STORE_DRIVER")),
		},
		Mongo: MongoConfig{
			URI:          v.GetString("MONGO_URI"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Host:         v.GetString("MONGO_HOST"),
			Database:     v.GetString("MONGO_DATABASE"),
			Transactions: v.GetBool("MONGO_TRANSACTIONS"),
		},
		Postgres: PostgresConfig{
			DSN: v.GetString("POSTGRES_DSN"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Stripe: StripeConfig{
			SecretKey: v.GetString("STRIPE_SECRET_KEY"),
		},
		NewRelic: NewRelicConfig{
			AppName:    v.GetString("NEW_RELIC_APP_NAME"),
			LicenseKey: v.GetString("NEW_RELIC_LICENSE_KEY"),
			Enabled:    v.GetBool("NEW_RELIC_ENABLED"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PORT", "5000")
	v.SetDefault("SERVER_READ_TIMEOUT", 10*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 10*time.Second)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGO_HOST", "cluster0.mongodb.net")
	v.SetDefault("MONGO_DATABASE", "parcelDB")
	v.SetDefault("MONGO_TRANSACTIONS", false)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("NEW_RELIC_APP_NAME", "parcel-service")
	v.SetDefault("NEW_RELIC_ENABLED", false)
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" && (c.Mongo.User == "" || c.Mongo.Password == "") {
			return fmt.Errorf("mongo store requires MONGO_URI or DB_USER and DB_PASSWORD")
		}
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("postgres store requires POSTGRES_DSN")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
