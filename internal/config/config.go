package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	// OpenAI Assistants runtime
	OpenAIAPIKey      string
	OpenAIAssistantID string
	RunPollInterval   time.Duration
	RunTimeout        time.Duration

	// Gym CRM API
	GymAPIBaseURL  string
	GymAPIKey      string
	GymAPIUsername string
	GymAPIPassword string
	GymBranchID    string

	// FAQ spreadsheet (published Google Sheet, gviz endpoint)
	FAQSheetID  string
	FAQSheetGID string
	FAQCacheTTL time.Duration

	// Flat-file persistence
	DataDir           string
	ThreadStorePath   string
	TicketStorePath   string
	BroadcastDataPath string

	// Optional Redis-backed ticket store
	TicketStoreBackend string // "file" or "redis"
	RedisAddr          string
	RedisPassword      string

	// Auth
	ToolCallAPIKey string
	AdminJWTSecret string

	// SendGrid staff notifications
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	StaffEmail        string
}

// Load reads configuration from environment variables
func Load() *Config {
	dataDir := getEnv("DATA_DIR", "data")
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIAssistantID: getEnv("OPENAI_ASSISTANT_ID", ""),
		RunPollInterval:   getEnvAsDuration("RUN_POLL_INTERVAL", time.Second),
		RunTimeout:        getEnvAsDuration("RUN_TIMEOUT", 60*time.Second),

		GymAPIBaseURL:  getEnv("GYM_API_BASE_URL", ""),
		GymAPIKey:      getEnv("GYM_API_KEY", ""),
		GymAPIUsername: getEnv("GYM_API_USERNAME", ""),
		GymAPIPassword: getEnv("GYM_API_PASSWORD", ""),
		GymBranchID:    getEnv("GYM_BRANCH_ID", ""),

		FAQSheetID:  getEnv("FAQ_SHEET_ID", ""),
		FAQSheetGID: getEnv("FAQ_SHEET_GID", "0"),
		FAQCacheTTL: getEnvAsDuration("FAQ_CACHE_TTL", 5*time.Minute),

		DataDir:           dataDir,
		ThreadStorePath:   getEnv("THREAD_STORE_PATH", dataDir+"/threads.json"),
		TicketStorePath:   getEnv("TICKET_STORE_PATH", dataDir+"/tickets.json"),
		BroadcastDataPath: getEnv("BROADCAST_DATA_PATH", dataDir+"/broadcasts.json"),

		TicketStoreBackend: getEnv("TICKET_STORE_BACKEND", "file"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),

		ToolCallAPIKey: getEnv("TOOL_CALL_API_KEY", ""),
		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Gym AI Concierge"),
		StaffEmail:        getEnv("STAFF_EMAIL", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
