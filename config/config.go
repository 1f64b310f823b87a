package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Server   ServerConfig `yaml:"server"`
	Store    StoreConfig  `yaml:"store"`
	LLM      LLMConfig    `yaml:"llm"`
	Auth     AuthConfig   `yaml:"auth"`
	LogLevel string       `yaml:"log_level"`
}

type ServerConfig struct {
	Port           string        `yaml:"port"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	QueryRateLimit float64       `yaml:"query_rate_limit"`
	QueryRateBurst int           `yaml:"query_rate_burst"`
	TrustedProxies []string      `yaml:"trusted_proxies"`
	ShutdownGrace  time.Duration `yaml:"shutdown_grace"`
}

type StoreConfig struct {
	Driver   string         `yaml:"driver"`
	Postgres PostgresConfig `yaml:"postgres"`
	Mongo    MongoConfig    `yaml:"mongo"`
}

type PostgresConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type LLMConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// Default returns the configuration used when neither a file nor the environment set a value.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "5000",
			AllowedOrigins: []string{
				"https://secound-brain-ai.vercel.app",
				"http://localhost:5173",
				"http://localhost:3000",
			},
			QueryRateLimit: 2,
			QueryRateBurst: 5,
			ShutdownGrace:  10 * time.Second,
		},
		Store: StoreConfig{
			Driver:   DriverPostgres,
			Postgres: PostgresConfig{Port: "5432", SSLMode: "require"},
			Mongo:    MongoConfig{Database: "secondbrain"},
		},
		LLM: LLMConfig{
			BaseURL: "https://openrouter.ai/api/v1",
			Model:   "mistralai/mistral-7b-instruct",
			Timeout: 60 * time.Second,
		},
		LogLevel: "info",
	}
}

// Load builds the configuration from defaults, the optional YAML file at path and the environment,
// in that order of precedence (environment wins).
func Load(fs afero.Fs, path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Port, "PORT")
	if origins := env("CORS_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}
	if proxies := env("TRUSTED_PROXIES"); proxies != "" {
		c.Server.TrustedProxies = splitList(proxies)
	}

	setString(&c.Store.Driver, "STORE_DRIVER")
	// Postgres keys keep the lowercase names used by the Supabase connection env.
	setString(&c.Store.Postgres.User, "user")
	setString(&c.Store.Postgres.Password, "password")
	setString(&c.Store.Postgres.Host, "host")
	setString(&c.Store.Postgres.Port, "port")
	setString(&c.Store.Postgres.DBName, "dbname")
	setString(&c.Store.Postgres.SSLMode, "sslmode")
	setString(&c.Store.Mongo.URI, "MONGO_URI")
	setString(&c.Store.Mongo.Database, "MONGO_DATABASE")

	setString(&c.LLM.BaseURL, "LLM_BASE_URL")
	setString(&c.LLM.APIKey, "OPENROUTER_API_KEY")
	setString(&c.LLM.Model, "LLM_MODEL")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.LogLevel, "LOG_LEVEL")

	if v := env("LLM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid LLM_TIMEOUT %q: %w", v, err)
		}
		c.LLM.Timeout = d
	}
	if v := env("QUERY_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid QUERY_RATE_LIMIT %q: %w", v, err)
		}
		c.Server.QueryRateLimit = f
	}
	if v := env("QUERY_RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid QUERY_RATE_BURST %q: %w", v, err)
		}
		c.Server.QueryRateBurst = n
	}
	return nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if err := c.ValidateStore(); err != nil {
		return err
	}
	if c.LLM.APIKey == "" {
		return errors.New("OPENROUTER_API_KEY is not set")
	}
	return nil
}

// ValidateStore checks only the store settings, for commands that never call the gateway.
func (c *Config) ValidateStore() error {
	switch c.Store.Driver {
	case DriverPostgres:
		if c.Store.Postgres.Host == "" || c.Store.Postgres.DBName == "" {
			return errors.New("postgres store requires host and dbname")
		}
	case DriverMongo:
		if c.Store.Mongo.URI == "" {
			return errors.New("mongo store requires MONGO_URI")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	return nil
}

// DSN builds the lib/pq connection URL.
func (p PostgresConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, p.Port),
		Path:     "/" + p.DBName,
		RawQuery: url.Values{"sslmode": {p.SSLMode}}.Encode(),
	}
	return u.String()
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func setString(dst *string, key string) {
	if v := env(key); v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
