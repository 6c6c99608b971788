package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const defaultStartingBalance = "1000000.00"

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	DatabaseURL         string
	RedisURL            string
	FeedBaseURL         string // base URL of the external GSE market-data feed
	SyncAdminKey        string // X-Admin-Key required by POST /api/v1/market/admin-sync
	FrontendURLEndsWith string
	StartingBalance     decimal.Decimal // virtual cash granted to each new account
	LeaderboardCacheTTL time.Duration
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
		env = "development"
	}

	sb := viper.GetString("STARTING_BALANCE")
	if sb == "" {
		sb = defaultStartingBalance
	}
	startingBalance, err := decimal.NewFromString(sb)
	if err != nil {
		return nil, fmt.Errorf("invalid STARTING_BALANCE %q: %w", sb, err)
	}

	ttlSec := viper.GetInt("LEADERBOARD_CACHE_TTL_SECONDS")
	if ttlSec <= 0 {
		ttlSec = 60
	}

	return &Config{
		Env:                 env,
		Port:                port,
		DatabaseURL:         viper.GetString("DATABASE_URL"),
		RedisURL:            viper.GetString("REDIS_URL"),
		FeedBaseURL:         viper.GetString("FEED_BASE_URL"),
		SyncAdminKey:        viper.GetString("SYNC_ADMIN_KEY"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		StartingBalance:     startingBalance,
		LeaderboardCacheTTL: time.Duration(ttlSec) * time.Second,
	}, nil
}
