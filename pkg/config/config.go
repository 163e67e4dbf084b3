package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Logging
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Upstream fantasy API
	FPLAPIURL       string        `mapstructure:"FPL_API_URL"`
	UpstreamTimeout time.Duration `mapstructure:"UPSTREAM_TIMEOUT"`

	// Cache store backend: mongo, redis, file or memory
	StoreBackend  string `mapstructure:"STORE_BACKEND"`
	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`
	RedisURL      string `mapstructure:"REDIS_URL"`
	FileStoreDir  string `mapstructure:"FILE_STORE_DIR"`

	// Circuit breaker reset window for the upstream API
	BreakerResetTimeout time.Duration `mapstructure:"BREAKER_RESET_TIMEOUT"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8000")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "")
	viper.SetDefault("FPL_API_URL", "https://fantasy.premierleague.com/api")
	viper.SetDefault("UPSTREAM_TIMEOUT", "10s")
	viper.SetDefault("STORE_BACKEND", "mongo")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "fpl")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("FILE_STORE_DIR", "data")
	viper.SetDefault("BREAKER_RESET_TIMEOUT", "30s")

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
