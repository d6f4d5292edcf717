package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Identity  IdentityConfig
	Knowledge KnowledgeConfig
	Storage   StorageConfig
	Sync      SyncConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
}

type IdentityConfig struct {
	Domain       string
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

type KnowledgeConfig struct {
	GatewayURL string
	APIKey     string

	// Session defaults; each of these can be overridden per session
	// through the settings endpoint.
	KnowledgeBaseID string
	DataSourceID    string
	BucketName      string
	ModelID         string
}

type StorageConfig struct {
	CredentialsFile string
}

type SyncConfig struct {
	PollInitialInterval time.Duration
	PollMaxInterval     time.Duration
	PollTimeout         time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
		},
		Identity: IdentityConfig{
			Domain:       getEnv("IDENTITY_DOMAIN", ""),
			ClientID:     getEnv("IDENTITY_CLIENT_ID", ""),
			ClientSecret: getEnv("IDENTITY_CLIENT_SECRET", ""),
			RedirectURI:  getEnv("IDENTITY_REDIRECT_URI", "http://localhost:5173/callback"),
		},
		Knowledge: KnowledgeConfig{
			GatewayURL:      getEnv("KNOWLEDGE_GATEWAY_URL", "http://localhost:8080"),
			APIKey:          getEnv("KNOWLEDGE_GATEWAY_API_KEY", ""),
			KnowledgeBaseID: getEnv("KNOWLEDGE_BASE_ID", ""),
			DataSourceID:    getEnv("DATA_SOURCE_ID", ""),
			BucketName:      getEnv("KNOWLEDGE_BASE_BUCKET", ""),
			ModelID:         getEnv("MODEL_ID", "amazon.nova-lite-v1:0"),
		},
		Storage: StorageConfig{
			CredentialsFile: getEnv("STORAGE_CREDENTIALS_FILE", ""),
		},
		Sync: SyncConfig{
			PollInitialInterval: getEnvAsDuration("SYNC_POLL_INITIAL_INTERVAL", 2*time.Second),
			PollMaxInterval:     getEnvAsDuration("SYNC_POLL_MAX_INTERVAL", 30*time.Second),
			PollTimeout:         getEnvAsDuration("SYNC_POLL_TIMEOUT", 15*time.Minute),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if seconds, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
