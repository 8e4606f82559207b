package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The demo endpoints (/ and /ping) only need Port;
// everything else belongs to the appointment assistant and is optional in the
// sense that an empty TELEGRAM_BOT_TOKEN turns the assistant off entirely.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	TelegramBotToken      string // Telegram bot token; empty disables the assistant
	TelegramWebhookSecret string // optional webhook secret header value
	Timezone              string // IANA timezone for interpreting user dates
	BaseURL               string // public base URL of this service (optional)

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	EmailFrom      string // From address for notification mail
	EmailToDefault string // default recipient for notification mail
	SMTPHost       string // SMTP server host; empty disables mail
	SMTPPort       int    // SMTP server port
	SMTPUser       string // SMTP username
	SMTPPassword   string // SMTP password

	TaskTokenSecret string // secret used to sign reminder task tokens
	TaskTokenTTLMin int    // task token time-to-live in minutes

	AdminUser     string // admin API username; empty disables admin routes
	AdminPassHash string // bcrypt hash of the admin API password
}

// Load reads configuration values from environment variables and returns a
// Config.  Unlike the assistant settings, the listen port always has a
// default so that the bare demo endpoints run with an empty environment.
// PORT is what the container platform injects; APP_PORT wins when both are set.
func Load() Config {
	port := getenv("APP_PORT", "")
	if port == "" {
		port = getenv("PORT", "8080")
	}
	return Config{
		Env:  getenv("APP_ENV", "dev"), // environment (dev/test/prod)
		Port: port,                     // port to bind the HTTP server

		TelegramBotToken:      os.Getenv("TELEGRAM_BOT_TOKEN"),      // bot token (assistant switch)
		TelegramWebhookSecret: os.Getenv("TELEGRAM_WEBHOOK_SECRET"), // webhook header secret
		Timezone:              getenv("TIMEZONE", "America/Lima"),   // user-facing timezone
		BaseURL:               os.Getenv("BASE_URL"),                // public URL (set after first deploy)

		DBUser: os.Getenv("DB_USER"), // database user
		DBPass: os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost: os.Getenv("DB_HOST"), // database host
		DBPort: os.Getenv("DB_PORT"), // database port
		DBName: os.Getenv("DB_NAME"), // database name

		EmailFrom:      os.Getenv("EMAIL_FROM"),       // mail sender
		EmailToDefault: os.Getenv("EMAIL_TO_DEFAULT"), // mail recipient
		SMTPHost:       os.Getenv("SMTP_HOST"),        // SMTP host (empty disables mail)
		SMTPPort:       atoiDefault("SMTP_PORT", 587), // SMTP port
		SMTPUser:       os.Getenv("SMTP_USER"),        // SMTP user
		SMTPPassword:   os.Getenv("SMTP_PASSWORD"),    // SMTP password

		TaskTokenSecret: os.Getenv("TASK_TOKEN_SECRET"),        // HMAC secret for task tokens
		TaskTokenTTLMin: atoiDefault("TASK_TOKEN_TTL_MIN", 15), // task token TTL in minutes

		AdminUser:     os.Getenv("ADMIN_USER"),      // admin username
		AdminPassHash: os.Getenv("ADMIN_PASS_HASH"), // bcrypt hash of admin password
	}
}

// AssistantEnabled reports whether the Telegram assistant should be wired up.
// Without a bot token only the demo endpoints are served.
func (c Config) AssistantEnabled() bool {
	return c.TelegramBotToken != ""
}

// AdminEnabled reports whether the admin API should be registered.
func (c Config) AdminEnabled() bool {
	return c.AdminUser != "" && c.AdminPassHash != ""
}

// RequireDB validates that the database settings are present.  The assistant
// cannot run without its store, so a missing variable is fatal at startup.
func (c Config) RequireDB() {
	for key, v := range map[string]string{
		"DB_USER": c.DBUser,
		"DB_HOST": c.DBHost,
		"DB_PORT": c.DBPort,
		"DB_NAME": c.DBName,
	} {
		if v == "" {
			log.Fatalf("missing required env var: %s", key)
		}
	}
}

func atoiDefault(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
