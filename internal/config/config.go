package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	DatabaseURL         string
	RedisURL            string
	FrontendURLEndsWith string
	DevPassword         string
	HealthAdminKey      string
	LogLevel            string
	LogPretty           bool
	DisplayCurrency     string
	SeedPassword        string
}

const defaultDevDatabase = "sqlite:portfolio.db"

// Load loads config from env and optional .env file. Environment wins over .env.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DISPLAY_CURRENCY", "BRL")
	v.SetDefault("SEED_PASSWORD", "pass")

	env := strings.ToLower(v.GetString("APP_ENV"))
	var dbURL string
	switch env {
	case "production":
		dbURL = v.GetString("DATABASE_URL_PROD")
	case "test":
		dbURL = v.GetString("DATABASE_URL_TEST")
	default:
		dbURL = v.GetString("DATABASE_URL_DEV")
		if dbURL == "" {
			dbURL = defaultDevDatabase
		}
	}

	return &Config{
		Env:                 env,
		Port:                v.GetString("PORT"),
		DatabaseURL:         dbURL,
		RedisURL:            v.GetString("REDIS_URL"),
		FrontendURLEndsWith: v.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         v.GetString("DEV_PASSWORD"),
		HealthAdminKey:      v.GetString("HEALTH_ADMIN_KEY"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		LogPretty:           v.GetBool("LOG_PRETTY"),
		DisplayCurrency:     strings.ToUpper(v.GetString("DISPLAY_CURRENCY")),
		SeedPassword:        v.GetString("SEED_PASSWORD"),
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
