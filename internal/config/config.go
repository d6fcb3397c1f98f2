package config

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/viper"
)

// Config holds every setting the API needs at startup.
type Config struct {
	AppPort          string        `mapstructure:"APP_PORT"`
	DBDriver         string        `mapstructure:"DB_DRIVER"`
	DatabaseDSN      string        `mapstructure:"DATABASE_DSN"`
	JWTSecret        string        `mapstructure:"JWT_SECRET"`
	TokenTTL         time.Duration `mapstructure:"TOKEN_TTL"`
	RabbitMQURL      string        `mapstructure:"RABBITMQ_URL"`
	RedisAddr        string        `mapstructure:"REDIS_ADDR"`
	IdempotencyTTL   time.Duration `mapstructure:"IDEMPOTENCY_TTL"`
	CulqiSecretKey   string        `mapstructure:"CULQI_SECRET_KEY"`
	CulqiAPIURL      string        `mapstructure:"CULQI_API_URL"`
	CulqiCurrency    string        `mapstructure:"CULQI_CURRENCY"`
	RequestTimeout   time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	StrictOrderTotal bool          `mapstructure:"STRICT_ORDER_TOTAL"`
	AdminEmail       string        `mapstructure:"ADMIN_EMAIL"`
	AdminPassword    string        `mapstructure:"ADMIN_PASSWORD"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
}

// insecureJWTSecret is the placeholder found in sample configs.
const insecureJWTSecret = "change_me"

var defaults = map[string]any{
	"APP_PORT":           ":8080",
	"DB_DRIVER":          "postgres",
	"DATABASE_DSN":       "host=127.0.0.1 user=postgres password=postgres dbname=tienda port=5432 sslmode=disable",
	"JWT_SECRET":         "",
	"TOKEN_TTL":          24 * time.Hour,
	"RABBITMQ_URL":       "",
	"REDIS_ADDR":         "",
	"IDEMPOTENCY_TTL":    24 * time.Hour,
	"CULQI_SECRET_KEY":   "",
	"CULQI_API_URL":      "https://api.culqi.com/v2",
	"CULQI_CURRENCY":     "PEN",
	"REQUEST_TIMEOUT":    10 * time.Second,
	"STRICT_ORDER_TOTAL": false,
	"ADMIN_EMAIL":        "",
	"ADMIN_PASSWORD":     "",
	"LOG_LEVEL":          "info",
}

// Load reads configuration from an optional config.yaml and the environment.
// Environment variables win over the file.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/tienda")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config file")
		}
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return nil, errors.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.JWTSecret == "" || cfg.JWTSecret == insecureJWTSecret {
		return nil, errors.New("JWT_SECRET must be set to a private value")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, errors.New("REQUEST_TIMEOUT must be positive")
	}
	return &cfg, nil
}
