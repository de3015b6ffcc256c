package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	AI       AIConfig       `mapstructure:"ai"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Donation DonationConfig `mapstructure:"donation"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

type ServerConfig struct {
	Port         string   `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// AIConfig points at an OpenAI-compatible chat-completions gateway.
type AIConfig struct {
	GatewayURL string        `mapstructure:"gateway_url"`
	APIKey     string        `mapstructure:"api_key"`
	Model      string        `mapstructure:"model"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// StorageConfig holds Cloudflare R2 credentials. An empty endpoint disables photo uploads.
type StorageConfig struct {
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Bucket        string `mapstructure:"bucket"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type DonationConfig struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

func (s StorageConfig) Enabled() bool {
	return s.Endpoint != "" && s.Bucket != ""
}

// envBindings keeps the variable names the deployment already uses.
var envBindings = map[string][]string{
	"app.env":                 {"APP_ENV"},
	"app.log_level":           {"LOG_LEVEL"},
	"server.port":             {"PORT"},
	"server.allow_origins":    {"ALLOW_ORIGINS"},
	"database.url":            {"DATABASE_URL"},
	"auth.jwt_secret":         {"JWT_SECRET"},
	"auth.token_ttl":          {"JWT_TTL"},
	"ai.gateway_url":          {"AI_GATEWAY_URL"},
	"ai.api_key":              {"AI_GATEWAY_API_KEY", "LOVABLE_API_KEY"},
	"ai.model":                {"AI_MODEL"},
	"ai.timeout":              {"AI_TIMEOUT"},
	"storage.endpoint":        {"R2_ENDPOINT"},
	"storage.access_key":      {"R2_ACCESS_KEY"},
	"storage.secret_key":      {"R2_SECRET_KEY"},
	"storage.bucket":          {"R2_BUCKET_NAME"},
	"storage.public_base_url": {"R2_PUBLIC_BASE_URL"},
	"donation.sweep_interval": {"DONATION_SWEEP_INTERVAL"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.allow_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", time.Hour)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("ai.gateway_url", "https://ai.gateway.lovable.dev/v1")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "google/gemini-2.5-flash")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.public_base_url", "")
	v.SetDefault("donation.sweep_interval", time.Minute)
}

// Load reads an optional YAML file, then applies environment overrides.
// Outside production a local .env file is loaded first.
func Load(path string) (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envBindings {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	cfg.AI.GatewayURL = strings.TrimRight(cfg.AI.GatewayURL, "/")
	return &cfg, nil
}

// Validate checks what the server cannot start without. The AI key is not
// checked here; a missing key fails each inference request instead.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("database url is required (DATABASE_URL)"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("jwt secret is required (JWT_SECRET)"))
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server port is required"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
