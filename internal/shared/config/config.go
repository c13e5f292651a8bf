package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL string
	DataDir    string
	Env        string
	Theme      string

	// Autosave quiet periods per field group. The editing screens coalesce a
	// burst of edits into one write after this much keyboard silence.
	ProfileQuiet  time.Duration
	ServicesQuiet time.Duration
	FAQQuiet      time.Duration
	GreetingQuiet time.Duration
	NotesQuiet    time.Duration

	// How long a "Saved." / "Could not save" chip stays up before the group
	// drops back to idle.
	StatusDisplay time.Duration

	// Background refresh schedules (cron expressions, seconds granularity).
	InboxPollSpec   string
	TokenRefreshGap time.Duration

	// ExportFormat is the spreadsheet format the inbox download key writes.
	ExportFormat string

	// Ephemeral keeps the session in memory only; nothing survives exit.
	Ephemeral bool

	// Mock API server settings (cmd/mockapi only).
	MockPort      string
	MockDBPath    string
	MockJWTSecret string
	OpenAIKey     string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		APIBaseURL:      os.Getenv("FRONTDESK_API_URL"),
		DataDir:         os.Getenv("FRONTDESK_DATA_DIR"),
		Env:             os.Getenv("ENV"),
		Theme:           os.Getenv("FRONTDESK_THEME"),
		ProfileQuiet:    millisEnv("FRONTDESK_PROFILE_QUIET_MS", 1200),
		ServicesQuiet:   millisEnv("FRONTDESK_SERVICES_QUIET_MS", 800),
		FAQQuiet:        millisEnv("FRONTDESK_FAQ_QUIET_MS", 800),
		GreetingQuiet:   millisEnv("FRONTDESK_GREETING_QUIET_MS", 1600),
		NotesQuiet:      millisEnv("FRONTDESK_NOTES_QUIET_MS", 1000),
		StatusDisplay:   millisEnv("FRONTDESK_STATUS_DISPLAY_MS", 3000),
		InboxPollSpec:   os.Getenv("FRONTDESK_INBOX_POLL"),
		TokenRefreshGap: millisEnv("FRONTDESK_TOKEN_REFRESH_GAP_MS", 120000),
		ExportFormat:    os.Getenv("FRONTDESK_EXPORT_FORMAT"),
		Ephemeral:       boolEnv("FRONTDESK_EPHEMERAL"),
		MockPort:        os.Getenv("MOCKAPI_PORT"),
		MockDBPath:      os.Getenv("MOCKAPI_DB_PATH"),
		MockJWTSecret:   os.Getenv("MOCKAPI_JWT_SECRET"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
	}

	// Default values
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://localhost:8080"
	}
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.DataDir = filepath.Join(home, ".frontdesk")
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.Theme == "" {
		cfg.Theme = "dark"
	}
	if cfg.InboxPollSpec == "" {
		cfg.InboxPollSpec = "@every 30s"
	}
	if cfg.ExportFormat == "" {
		cfg.ExportFormat = "xlsx"
	}
	if cfg.MockPort == "" {
		cfg.MockPort = "8080"
	}
	if cfg.MockDBPath == "" {
		cfg.MockDBPath = "mockapi.db"
	}
	if cfg.MockJWTSecret == "" {
		cfg.MockJWTSecret = "frontdesk-dev-secret"
	}

	return cfg
}

func boolEnv(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func millisEnv(key string, def int) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(def) * time.Millisecond
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms <= 0 {
		log.Printf("⚠️ Invalid %s=%q, using default %dms", key, v, def)
		return time.Duration(def) * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}
