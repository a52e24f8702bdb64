package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`

	// MongoDB configuration.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// GSPNS upstream.
	GspnsBaseURL   string        `mapstructure:"GSPNS_BASE_URL"`
	GspnsTimeout   time.Duration `mapstructure:"GSPNS_TIMEOUT"`
	GspnsUserAgent string        `mapstructure:"GSPNS_USER_AGENT"`

	// Caching and background refresh.
	TimetableCacheTTL  time.Duration `mapstructure:"TIMETABLE_CACHE_TTL"`
	BaseValuesCacheTTL time.Duration `mapstructure:"BASE_VALUES_CACHE_TTL"`
	ListingCacheTTL    time.Duration `mapstructure:"LISTING_CACHE_TTL"`
	RefreshCron        string        `mapstructure:"REFRESH_CRON"`
	RefreshConcurrency int           `mapstructure:"REFRESH_CONCURRENCY"`
}

var AppConfig Config

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "busns")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)
	v.SetDefault("GSPNS_BASE_URL", "http://www.gspns.co.rs")
	v.SetDefault("GSPNS_TIMEOUT", "15s")
	v.SetDefault("GSPNS_USER_AGENT", "busNS-rest-api (+https://github.com/nikolasamardzija/busNS-rest-api)")
	v.SetDefault("TIMETABLE_CACHE_TTL", "6h")
	v.SetDefault("BASE_VALUES_CACHE_TTL", "12h")
	v.SetDefault("LISTING_CACHE_TTL", "1h")
	v.SetDefault("REFRESH_CRON", "0 3 * * *")
	v.SetDefault("REFRESH_CONCURRENCY", 4)
}

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
