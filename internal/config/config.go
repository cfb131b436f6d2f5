package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Webex transport
	WebexBotToken      string
	WebexBotEmail      string
	WebexAPIBase       string
	WebexWebhookSecret string // empty disables signature verification

	// Speech-to-text and rewrite
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	TranscribeModel string
	RewriteModel    string
	RewriteBackend  string // "openai", "vertex" or "mock"
	GCPProjectID    string
	GCPLocation     string

	// Session persistence
	StorageBackend string // "memory", "file" or "firestore"
	SessionsFile   string

	// Report rendering and delivery
	TemplateFile  string
	OutputDir     string
	SMTPHost      string
	SMTPPort      int
	EmailSender   string
	EmailPassword string
	EmailReceiver string

	// Intake flow
	ScheduleFile        string // optional YAML override of the builtin schedule
	Investigators       []string
	ResetKeyword        string
	CollaboratorTimeout time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("%s must be an integer, got %q", key, v)
	}
	return n
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("%s must be a duration like 60s, got %q", key, v)
	}
	return d
}

// Load reads all env vars and builds the config. A missing credential is an
// unrecoverable configuration failure: the process must not serve any request.
func Load() *Config {
	// .env is a dev convenience; absence is fine.
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		WebexBotToken:      os.Getenv("WEBEX_BOT_TOKEN"),
		WebexBotEmail:      getEnv("WEBEX_BOT_EMAIL", "FRN.ENG@webex.bot"),
		WebexAPIBase:       getEnv("WEBEX_API_BASE", "https://webexapis.com"),
		WebexWebhookSecret: os.Getenv("WEBEX_WEBHOOK_SECRET"),

		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		TranscribeModel: getEnv("TRANSCRIBE_MODEL", "whisper-1"),
		RewriteModel:    getEnv("REWRITE_MODEL", "gpt-4"),
		RewriteBackend:  getEnv("REWRITE_BACKEND", "openai"),
		GCPProjectID:    os.Getenv("GCP_PROJECT"),
		GCPLocation:     getEnv("GCP_LOCATION", "us-central1"),

		StorageBackend: getEnv("STORAGE_BACKEND", "memory"),
		SessionsFile:   getEnv("SESSIONS_FILE", "sessions.json"),

		TemplateFile:  getEnv("TEMPLATE_FILE", "police_report_template.docx"),
		OutputDir:     getEnv("OUTPUT_DIR", "."),
		SMTPHost:      getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      getIntEnv("SMTP_PORT", 465),
		EmailSender:   os.Getenv("EMAIL_SENDER"),
		EmailPassword: os.Getenv("EMAIL_PASSWORD"),
		EmailReceiver: os.Getenv("EMAIL_RECEIVER"),

		ScheduleFile:        os.Getenv("SCHEDULE_FILE"),
		ResetKeyword:        getEnv("RESET_KEYWORD", "/reset"),
		CollaboratorTimeout: getDurationEnv("COLLABORATOR_TIMEOUT", 60*time.Second),
	}

	if roster := os.Getenv("INVESTIGATORS"); roster != "" {
		for _, name := range strings.Split(roster, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Investigators = append(cfg.Investigators, name)
			}
		}
	}

	if cfg.WebexBotToken == "" {
		log.Fatal("WEBEX_BOT_TOKEN must be set")
	}
	if cfg.OpenAIAPIKey == "" && cfg.RewriteBackend == "openai" {
		log.Fatal("OPENAI_API_KEY must be set (or REWRITE_BACKEND=mock for local dev)")
	}
	if cfg.RewriteBackend == "vertex" && cfg.GCPProjectID == "" {
		log.Fatal("GCP_PROJECT must be set for the vertex rewrite backend")
	}
	if cfg.StorageBackend == "firestore" && cfg.GCPProjectID == "" {
		log.Fatal("GCP_PROJECT is required for the firestore storage backend")
	}
	if cfg.EmailSender == "" || cfg.EmailPassword == "" || cfg.EmailReceiver == "" {
		log.Fatal("EMAIL_SENDER, EMAIL_PASSWORD and EMAIL_RECEIVER must be set")
	}
	if _, err := os.Stat(cfg.TemplateFile); err != nil {
		log.Fatalf("report template %q is not readable: %v", cfg.TemplateFile, err)
	}

	return cfg
}
