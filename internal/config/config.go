package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	EmailSendGrid = "sendgrid"
	EmailSMTP     = "smtp"
)

type Config struct {
	Env      string
	Port     string
	LogLevel string

	AllowOrigins []string
	CookieDomain string

	StoreDriver   string
	MongoURI      string
	MongoDatabase string
	DatabaseURL   string

	JWTSecret  string
	SessionTTL time.Duration

	GoogleAudience   string
	AllowAdminSignup bool

	LogstashTCPAddr string

	MinIOEndpoint      string
	MinIOAccessKey     string
	MinIOSecretKey     string
	MinIOUseSSL        bool
	MinIOBucketProfile string
	MinIOBucketResume  string
	MinIOPublicURL     string
	ImageMaxBytes      int64
	ResumeMaxBytes     int64

	EmailProvider  string
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
	SMTPUseTLS     bool

	RateLimitPerMinute int
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads the process environment (and .env when present). Store settings
// are required for the selected driver; the signing secret and mail
// credentials are not, the components using them fail closed instead.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := Config{
		Env:                getenv("APP_ENV", getenv("NODE_ENV", "development")),
		Port:               getenv("PORT", "8000"),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		AllowOrigins:       splitAndTrim(getenv("FRONTEND_URL", "http://localhost:3000")),
		CookieDomain:       getenv("COOKIE_DOMAIN", ""),
		StoreDriver:        strings.ToLower(getenv("STORE_DRIVER", StoreMongo)),
		MongoURI:           getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:      getenv("MONGO_DATABASE", "jobportal"),
		DatabaseURL:        getenv("DATABASE_URL", ""),
		JWTSecret:          getenv("JWT_SECRET", ""),
		GoogleAudience:     getenv("GOOGLE_AUDIENCE", ""),
		AllowAdminSignup:   getenv("ALLOW_ADMIN_SIGNUP", "false") == "true",
		LogstashTCPAddr:    getenv("LOGSTASH_TCP_ADDR", ""),
		MinIOEndpoint:      getenv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:     getenv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:     getenv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:        getenv("MINIO_USE_SSL", "false") == "true",
		MinIOBucketProfile: getenv("MINIO_BUCKET_PROFILE", "hirehub-profiles"),
		MinIOBucketResume:  getenv("MINIO_BUCKET_RESUME", "hirehub-resumes"),
		MinIOPublicURL:     getenv("MINIO_PUBLIC_URL", ""),
		EmailProvider:      strings.ToLower(getenv("EMAIL_PROVIDER", EmailSendGrid)),
		SendGridAPIKey:     getenv("SENDGRID_API_KEY", ""),
		FromEmail:          getenv("FROM_EMAIL", ""),
		FromName:           getenv("FROM_NAME", "HireHub"),
		SMTPHost:           getenv("SMTP_HOST", ""),
		SMTPUsername:       getenv("SMTP_USERNAME", ""),
		SMTPPassword:       getenv("SMTP_PASSWORD", ""),
		SMTPUseTLS:         getenv("SMTP_USE_TLS", "false") == "true",
	}

	var err error
	if cfg.SessionTTL, err = parseDuration("SESSION_TTL", "24h"); err != nil {
		return Config{}, err
	}
	if cfg.SMTPPort, err = parseInt("SMTP_PORT", "587"); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitPerMinute, err = parseInt("RATE_LIMIT_PER_MINUTE", "30"); err != nil {
		return Config{}, err
	}
	imageMax, err := parseInt("PROFILE_IMAGE_MAX_BYTES", "5242880")
	if err != nil {
		return Config{}, err
	}
	cfg.ImageMaxBytes = int64(imageMax)
	resumeMax, err := parseInt("RESUME_MAX_BYTES", "10485760")
	if err != nil {
		return Config{}, err
	}
	cfg.ResumeMaxBytes = int64(resumeMax)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreDriver {
	case StoreMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			return errors.New("missing env: MONGO_URI")
		}
	case StorePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("missing env: DATABASE_URL")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.EmailProvider {
	case EmailSendGrid, EmailSMTP:
	default:
		return fmt.Errorf("unsupported EMAIL_PROVIDER %q", c.EmailProvider)
	}
	return nil
}

// Warnings lists optional settings that are missing; the server still starts.
func (c Config) Warnings() []string {
	var out []string
	if c.JWTSecret == "" {
		out = append(out, "JWT_SECRET is not set: logins and OTP verification will fail")
	}
	if c.FromEmail == "" {
		out = append(out, "FROM_EMAIL is not set: emails cannot be sent")
	}
	if c.EmailProvider == EmailSendGrid && c.SendGridAPIKey == "" {
		out = append(out, "SENDGRID_API_KEY is not set: emails cannot be sent")
	}
	if c.EmailProvider == EmailSMTP && c.SMTPHost == "" {
		out = append(out, "SMTP_HOST is not set: emails cannot be sent")
	}
	if c.MinIOEndpoint == "" {
		out = append(out, "MINIO_ENDPOINT is not set: uploads are disabled")
	}
	return out
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func parseDuration(k, d string) (time.Duration, error) {
	v, err := time.ParseDuration(getenv(k, d))
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", k, getenv(k, d))
	}
	return v, nil
}

func parseInt(k, d string) (int, error) {
	v, err := strconv.Atoi(getenv(k, d))
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s: %q", k, getenv(k, d))
	}
	return v, nil
}
