package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const (
	defaultEnv         = EnvLocal
	defaultLogLevel    = "info"
	defaultBackend     = "sqlite"
	defaultRedisAddr   = "localhost:6379"
	defaultConfigDir   = ".climbtrack"
	defaultCacheTTL    = 5 * time.Minute
	defaultMaxSessions = 1000
)

type Config struct {
	Env         string        `mapstructure:"app_env"`
	LogLevel    string        `mapstructure:"log_level"`
	ConfigDir   string        `mapstructure:"config_dir"`
	Backend     string        `mapstructure:"storage_backend"`
	StoragePath string        `mapstructure:"storage_path"`
	RedisAddr   string        `mapstructure:"redis_addr"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
	MaxSessions int           `mapstructure:"max_sessions"`
}

// MustLoad reads the tracker configuration from the environment (with an
// optional .env file) and fills in defaults. Storage lands under
// ~/.climbtrack unless overridden.
func MustLoad() *Config {
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("failed to load .env file: %v\n", err)
		}
	}

	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("LOG_LEVEL", defaultLogLevel)
	viper.SetDefault("STORAGE_BACKEND", defaultBackend)
	viper.SetDefault("REDIS_ADDR", defaultRedisAddr)
	viper.SetDefault("CONFIG_DIR", defaultConfigDir)
	viper.SetDefault("CACHE_TTL", defaultCacheTTL.String())
	viper.SetDefault("MAX_SESSIONS", defaultMaxSessions)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		fmt.Printf("failed to create config directory: %v\n", err)
	}

	storagePath := viper.GetString("STORAGE_PATH")
	if storagePath == "" {
		storagePath = filepath.Join(configDir, "climbtrack.db")
	}

	ttl := viper.GetDuration("CACHE_TTL")
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	maxSessions := viper.GetInt("MAX_SESSIONS")
	if maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}

	return &Config{
		Env:         viper.GetString("APP_ENV"),
		LogLevel:    viper.GetString("LOG_LEVEL"),
		ConfigDir:   configDir,
		Backend:     viper.GetString("STORAGE_BACKEND"),
		StoragePath: storagePath,
		RedisAddr:   viper.GetString("REDIS_ADDR"),
		CacheTTL:    ttl,
		MaxSessions: maxSessions,
	}
}
