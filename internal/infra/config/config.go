package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DiscordToken          string
	ApplicationID         snowflake.ID
	GuildID               snowflake.ID
	RemindChannelID       snowflake.ID // Zero disables the automatic reminder
	PostChannelID         snowflake.ID // Zero disables posting reports to a channel
	SheetID               string
	SheetRange            string
	SheetEnsureHeader     bool
	ServiceAccountJSON    []byte
	Port                  string
	LogLevel              string
	Environment           string
	DatabaseURL           string // Empty keeps the reminder marker in memory
	ReminderHour          int
	ReminderMinute        int
	CronSpecReminderCheck string
	SessionTTL            time.Duration
	CatalogFile           string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DiscordToken = strings.TrimSpace(os.Getenv("DISCORD_TOKEN"))
	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is not set")
	}

	cfg.SheetID = strings.TrimSpace(os.Getenv("GOOGLE_SHEET_ID"))
	if cfg.SheetID == "" {
		return nil, fmt.Errorf("GOOGLE_SHEET_ID is not set")
	}

	credentials := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	if credentials == "" {
		return nil, fmt.Errorf("GOOGLE_SERVICE_ACCOUNT_JSON is not set")
	}
	cfg.ServiceAccountJSON = []byte(credentials)

	if cfg.ApplicationID, err = optionalSnowflake("DISCORD_CLIENT_ID"); err != nil {
		return nil, err
	}
	if cfg.GuildID, err = optionalSnowflake("DISCORD_GUILD_ID"); err != nil {
		return nil, err
	}
	if cfg.RemindChannelID, err = optionalSnowflake("DISCORD_REMIND_CHANNEL_ID"); err != nil {
		return nil, err
	}
	if cfg.PostChannelID, err = optionalSnowflake("DAILY_POST_CHANNEL_ID"); err != nil {
		return nil, err
	}

	cfg.SheetRange = getEnv("GOOGLE_SHEET_RANGE", "A1")

	cfg.SheetEnsureHeader, err = strconv.ParseBool(getEnv("SHEET_ENSURE_HEADER", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHEET_ENSURE_HEADER: %w", err)
	}

	cfg.Port = getEnv("PORT", "3000")

	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(getEnv("ENVIRONMENT", "development"))

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	cfg.ReminderHour, err = strconv.Atoi(getEnv("REMINDER_HOUR", "22"))
	if err != nil || cfg.ReminderHour < 0 || cfg.ReminderHour > 23 {
		return nil, fmt.Errorf("invalid REMINDER_HOUR: must be 0-23")
	}
	cfg.ReminderMinute, err = strconv.Atoi(getEnv("REMINDER_MINUTE", "0"))
	if err != nil || cfg.ReminderMinute < 0 || cfg.ReminderMinute > 59 {
		return nil, fmt.Errorf("invalid REMINDER_MINUTE: must be 0-59")
	}

	cfg.CronSpecReminderCheck = getEnv("CRON_SPEC_REMINDER_CHECK", "@every 1m") // Default: every minute

	cfg.SessionTTL, err = time.ParseDuration(getEnv("SESSION_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("invalid SESSION_TTL: must be positive")
	}

	cfg.CatalogFile = strings.TrimSpace(os.Getenv("CATALOG_FILE"))

	return cfg, nil
}

// RegistrationConfig is what the command registration tool needs.
type RegistrationConfig struct {
	DiscordToken  string
	ApplicationID snowflake.ID
	GuildID       snowflake.ID
}

// LoadRegistration reads only the keys needed to register slash commands.
func LoadRegistration() (*RegistrationConfig, error) {
	_ = godotenv.Load()

	cfg := &RegistrationConfig{DiscordToken: strings.TrimSpace(os.Getenv("DISCORD_TOKEN"))}
	var err error
	if cfg.ApplicationID, err = optionalSnowflake("DISCORD_CLIENT_ID"); err != nil {
		return nil, err
	}
	if cfg.GuildID, err = optionalSnowflake("DISCORD_GUILD_ID"); err != nil {
		return nil, err
	}
	if cfg.DiscordToken == "" || cfg.ApplicationID == 0 || cfg.GuildID == 0 {
		return nil, fmt.Errorf("missing env vars: DISCORD_TOKEN / DISCORD_CLIENT_ID / DISCORD_GUILD_ID")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func optionalSnowflake(key string) (snowflake.ID, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, nil
	}
	id, err := snowflake.Parse(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return id, nil
}
