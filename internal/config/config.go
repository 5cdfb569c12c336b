package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	SessionSecret       string
	DatabaseURL         string
	RedisURL            string
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	// TestUserPattern marks users whose email contains it as test users
	// (test-mode override candidate). Ignored in production.
	TestUserPattern string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = viper.GetString("NODE_ENV")
	}
	if env == "" {
		env = "development"
	}

	return &Config{
		Env:                 env,
		Port:                port,
		SessionSecret:       viper.GetString("SESSION_SECRET"),
		DatabaseURL:         viper.GetString("DATABASE_URL"),
		RedisURL:            viper.GetString("REDIS_URL"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		TestUserPattern:     viper.GetString("TEST_USER_PATTERN"),
	}, nil
}

// IsProduction reports whether the server runs in production; the test-mode
// override is unreachable when this is true.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
