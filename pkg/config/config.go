package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is resolved in three layers: built-in defaults, an optional YAML
// file (config.yaml in the working directory or /etc/go-rental, or the path
// in CONFIG_FILE) and finally environment variables.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Encryption EncryptionConfig `mapstructure:"encryption"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Bootstrap  BootstrapConfig  `mapstructure:"bootstrap"`
	Worker     WorkerConfig     `mapstructure:"worker"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Env            string   `mapstructure:"env"`
	LogLevel       string   `mapstructure:"log_level"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

// EncryptionConfig.Key is an AGE-SECRET-KEY identity used for CPF/CNPJ
// columns.
type EncryptionConfig struct {
	Key string `mapstructure:"key"`
}

type RateLimitConfig struct {
	Requests      int `mapstructure:"requests"`
	WindowSeconds int `mapstructure:"window_seconds"`
}

// BootstrapConfig holds the credentials of the first administrator, created
// only when the users table has no admin.
type BootstrapConfig struct {
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
	AdminName     string `mapstructure:"admin_name"`
}

type WorkerConfig struct {
	Concurrency int    `mapstructure:"concurrency"`
	ReceiptCron string `mapstructure:"receipt_cron"`
}

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func (j *JWTConfig) Expiry() time.Duration {
	return time.Duration(j.ExpiryHours) * time.Hour
}

func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s *ServerConfig) IsDevelopment() bool {
	return s.Env == "development"
}

func (s *ServerConfig) IsProduction() bool {
	return s.Env == "production"
}

// Validate rejects settings that must never reach production.
func (c *Config) Validate() error {
	if !c.Server.IsProduction() {
		return nil
	}
	if c.JWT.Secret == "" || c.JWT.Secret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.Encryption.Key == "" {
		return errors.New("ENCRYPTION_KEY must be set in production")
	}
	return nil
}

const defaultJWTSecret = "change-me-in-production"

var defaults = map[string]interface{}{
	"server.host":               "0.0.0.0",
	"server.port":               8080,
	"server.env":                "development",
	"server.log_level":          "",
	"server.allowed_origins":    "",
	"database.host":             "localhost",
	"database.port":             5432,
	"database.user":             "gorental",
	"database.password":         "gorental_secret",
	"database.name":             "gorental",
	"database.sslmode":          "disable",
	"redis.host":                "localhost",
	"redis.port":                6379,
	"redis.password":            "",
	"redis.db":                  0,
	"jwt.secret":                defaultJWTSecret,
	"jwt.expiry_hours":          24,
	"encryption.key":            "",
	"rate_limit.requests":       100,
	"rate_limit.window_seconds": 60,
	"bootstrap.admin_email":     "",
	"bootstrap.admin_password":  "",
	"bootstrap.admin_name":      "Administrator",
	"worker.concurrency":        10,
	"worker.receipt_cron":       "0 6 1 * *",
}

// Keys whose variable name does not follow the SECTION_FIELD pattern.
var envAliases = map[string]string{
	"server.log_level":         "LOG_LEVEL",
	"server.allowed_origins":   "ALLOWED_ORIGINS",
	"bootstrap.admin_email":    "ADMIN_EMAIL",
	"bootstrap.admin_password": "ADMIN_PASSWORD",
	"bootstrap.admin_name":     "ADMIN_NAME",
}

func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envAliases {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Server.AllowedOrigins = compact(cfg.Server.AllowedOrigins)

	return &cfg, nil
}

func readConfigFile(v *viper.Viper) error {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/go-rental")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	return nil
}

// compact trims entries and drops empty ones; "a, b," arrives from the
// environment as ["a", " b", ""].
func compact(list []string) []string {
	var out []string
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
