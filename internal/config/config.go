// Package config loads runtime configuration for the vendor gateway.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingBaseURL is returned when no upstream API base URL is configured.
var ErrMissingBaseURL = errors.New("api.base_url is not configured")

// IdentityProvider holds the hosted identity provider pool parameters.
type IdentityProvider struct {
	UserPoolID  string `mapstructure:"user_pool_id"`
	ClientID    string `mapstructure:"client_id"`
	Region      string `mapstructure:"region"`
	VendorClaim string `mapstructure:"vendor_claim"`
}

type Config struct {
	APIBaseURL      string           `mapstructure:"api_base_url"`
	IDP             IdentityProvider `mapstructure:"idp"`
	HTTPAddr        string           `mapstructure:"http_addr"`
	RedisAddr       string           `mapstructure:"redis_addr"`
	RateLimitRPS    float64          `mapstructure:"rate_limit_rps"`
	RateLimitBurst  int              `mapstructure:"rate_limit_burst"`
	ShutdownTimeout time.Duration    `mapstructure:"shutdown_timeout"`
	// TrustProxy takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable it only behind a proxy that overwrites them.
	TrustProxy      bool             `mapstructure:"trust_proxy"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("idp.vendor_claim", "custom:vendor_id")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("redis_addr", "")
	v.SetDefault("rate_limit_rps", 5.0)
	v.SetDefault("rate_limit_burst", 10)
	v.SetDefault("shutdown_timeout", 15*time.Second)
	v.SetDefault("trust_proxy", false)
}

// Load reads configuration from a .env file (if any), an optional
// config.yaml and VENDOR_* environment variables, in increasing priority.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("VENDOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	// AutomaticEnv only covers keys viper already knows about.
	for _, key := range []string{"api_base_url", "idp.user_pool_id", "idp.client_id", "idp.region"} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if cfg.APIBaseURL == "" {
		return Config{}, ErrMissingBaseURL
	}
	return cfg, nil
}
