package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port     int
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
}

type ImportConfig struct {
	WorkerPoolSize int
	EventsCron     string
	RsvpsCron      string
}

type ArchiveConfig struct {
	S3Bucket string
	S3Region string
}

// ProviderConfig holds the OAuth application settings for one event platform.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	APIBaseURL   string
	AuthURL      string
	TokenURL     string
}

type ProvidersConfig struct {
	Meetup     ProviderConfig
	Eventbrite ProviderConfig
	Facebook   ProviderConfig
}

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Import    ImportConfig
	Archive   ArchiveConfig
	Providers ProvidersConfig
}

var (
	mu       sync.RWMutex
	instance *Config
)

// Load reads .env (when present) and the environment into the process config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", 7070)
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "recruitsync")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("IMPORT_WORKER_POOL_SIZE", 5)
	v.SetDefault("IMPORT_EVENTS_CRON", "0 */6 * * *")
	v.SetDefault("IMPORT_RSVPS_CRON", "30 */6 * * *")

	v.SetDefault("MEETUP_API_BASE_URL", "https://api.meetup.com")
	v.SetDefault("MEETUP_AUTH_URL", "https://secure.meetup.com/oauth2/authorize")
	v.SetDefault("MEETUP_TOKEN_URL", "https://secure.meetup.com/oauth2/access")
	v.SetDefault("EVENTBRITE_API_BASE_URL", "https://www.eventbriteapi.com/v3")
	v.SetDefault("EVENTBRITE_AUTH_URL", "https://www.eventbrite.com/oauth/authorize")
	v.SetDefault("EVENTBRITE_TOKEN_URL", "https://www.eventbrite.com/oauth/token")
	v.SetDefault("FACEBOOK_API_BASE_URL", "https://graph.facebook.com/v18.0")
	v.SetDefault("FACEBOOK_AUTH_URL", "https://www.facebook.com/v18.0/dialog/oauth")
	v.SetDefault("FACEBOOK_TOKEN_URL", "https://graph.facebook.com/v18.0/oauth/access_token")

	cfg := &Config{
		Server: ServerConfig{
			Port:     v.GetInt("SERVER_PORT"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
		},
		Import: ImportConfig{
			WorkerPoolSize: v.GetInt("IMPORT_WORKER_POOL_SIZE"),
			EventsCron:     v.GetString("IMPORT_EVENTS_CRON"),
			RsvpsCron:      v.GetString("IMPORT_RSVPS_CRON"),
		},
		Archive: ArchiveConfig{
			S3Bucket: v.GetString("ARCHIVE_S3_BUCKET"),
			S3Region: v.GetString("ARCHIVE_S3_REGION"),
		},
		Providers: ProvidersConfig{
			Meetup: ProviderConfig{
				ClientID:     v.GetString("MEETUP_CLIENT_ID"),
				ClientSecret: v.GetString("MEETUP_CLIENT_SECRET"),
				APIBaseURL:   v.GetString("MEETUP_API_BASE_URL"),
				AuthURL:      v.GetString("MEETUP_AUTH_URL"),
				TokenURL:     v.GetString("MEETUP_TOKEN_URL"),
			},
			Eventbrite: ProviderConfig{
				ClientID:     v.GetString("EVENTBRITE_CLIENT_ID"),
				ClientSecret: v.GetString("EVENTBRITE_CLIENT_SECRET"),
				APIBaseURL:   v.GetString("EVENTBRITE_API_BASE_URL"),
				AuthURL:      v.GetString("EVENTBRITE_AUTH_URL"),
				TokenURL:     v.GetString("EVENTBRITE_TOKEN_URL"),
			},
			Facebook: ProviderConfig{
				ClientID:     v.GetString("FACEBOOK_CLIENT_ID"),
				ClientSecret: v.GetString("FACEBOOK_CLIENT_SECRET"),
				APIBaseURL:   v.GetString("FACEBOOK_API_BASE_URL"),
				AuthURL:      v.GetString("FACEBOOK_AUTH_URL"),
				TokenURL:     v.GetString("FACEBOOK_TOKEN_URL"),
			},
		},
	}

	mu.Lock()
	instance = cfg
	mu.Unlock()

	return cfg, nil
}

// Get returns the loaded config, panicking if Load was never called.
func Get() *Config {
	cfg, ok := GetSafe()
	if !ok {
		panic(fmt.Errorf("config: Get called before Load"))
	}
	return cfg
}

// GetSafe returns the loaded config and whether it is initialized.
func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}
