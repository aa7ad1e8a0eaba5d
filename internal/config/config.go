package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host            string        `yaml:"host"`
		Port            int           `yaml:"port"`
		Env             string        `yaml:"env"`
		AllowedOrigins  []string      `yaml:"allowed_origins"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // postgres, mysql, sqlite
		DSN    string `yaml:"url"`
	} `yaml:"database"`

	App struct {
		URL string `yaml:"url"` // публичный адрес гостевого фронтенда
	} `yaml:"app"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseTLS       bool   `yaml:"use_tls"`
	} `yaml:"email"`

	Twilio struct {
		AccountSID       string `yaml:"account_sid"`
		AuthToken        string `yaml:"auth_token"`
		SMSFrom          string `yaml:"sms_from"`
		WhatsAppFrom     string `yaml:"whatsapp_from"`
		PublicWebhookURL string `yaml:"public_webhook_url"`
	} `yaml:"twilio"`

	AI struct {
		OpenAIKey      string        `yaml:"openai_api_key"`
		OpenAIModel    string        `yaml:"openai_model"`
		AnthropicKey   string        `yaml:"anthropic_api_key"`
		AnthropicModel string        `yaml:"anthropic_model"`
		Timeout        time.Duration `yaml:"timeout"`
	} `yaml:"ai"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // минуты
	} `yaml:"jwt"`

	Storage struct {
		Type       string `yaml:"type"`        // local, s3, cloudflare_r2
		BasePath   string `yaml:"base_path"`   // For local storage
		BaseURL    string `yaml:"base_url"`    // Public URL base
		Bucket     string `yaml:"bucket"`      // For S3/R2
		Region     string `yaml:"region"`      // For S3
		AccessKey  string `yaml:"access_key"`  // For S3/R2
		SecretKey  string `yaml:"secret_key"`  // For S3/R2
		Endpoint   string `yaml:"endpoint"`    // For R2 or custom S3
		AccountID  string `yaml:"account_id"`  // For R2
		PublicRead bool   `yaml:"public_read"` // Make files public
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`      // Max file size in bytes
		AllowedTypes []string `yaml:"allowed_types"` // Allowed MIME types
		ImageQuality int      `yaml:"image_quality"` // JPEG quality (1-100)
	} `yaml:"upload"`

	RateLimit struct {
		PhotoUploads int           `yaml:"photo_uploads"` // запросов на IP за окно
		Window       time.Duration `yaml:"window"`
	} `yaml:"rate_limit"`

	Queue struct {
		Workers int `yaml:"workers"`
		Size    int `yaml:"size"`
	} `yaml:"queue"`

	Cache struct {
		WeddingPageTTL time.Duration `yaml:"wedding_page_ttl"`
	} `yaml:"cache"`

	Reminders struct {
		Interval time.Duration `yaml:"interval"` // период автоматических напоминаний
	} `yaml:"reminders"`

	// первый организатор создается командой migrate
	Seed struct {
		PlannerName     string `yaml:"planner_name"`
		PlannerEmail    string `yaml:"planner_email"`
		PlannerPassword string `yaml:"planner_password"`
	} `yaml:"seed"`
}

// LoadConfig читает .env, затем yaml-файл (если он есть), затем переменные окружения.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	if f, err := os.Open(configPath); err == nil {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", configPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to open config file at %s: %w", configPath, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	var cfg Config
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080
	cfg.Server.Env = "development"
	cfg.Server.ShutdownTimeout = 10 * time.Second
	cfg.Database.Driver = "postgres"
	cfg.App.URL = "http://localhost:3000"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromName = "Wedding"
	cfg.AI.OpenAIModel = "gpt-4o-mini"
	cfg.AI.AnthropicModel = "claude-3-5-haiku-latest"
	cfg.AI.Timeout = 15 * time.Second
	cfg.JWT.TTL = 60 * 24
	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/uploads"
	cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	cfg.Upload.ImageQuality = 85
	cfg.RateLimit.PhotoUploads = 20
	cfg.RateLimit.Window = time.Hour
	cfg.Queue.Workers = 4
	cfg.Queue.Size = 256
	cfg.Cache.WeddingPageTTL = 5 * time.Minute
	cfg.Reminders.Interval = time.Hour
	cfg.Seed.PlannerName = "Wedding Planner"
	return &cfg
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Env, "SERVER_ENV")
	setInt(&cfg.Server.Port, "SERVER_PORT")
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = strings.Split(origins, ",")
	}

	setString(&cfg.Database.Driver, "DATABASE_DRIVER")
	setString(&cfg.Database.DSN, "DATABASE_URL")
	setString(&cfg.App.URL, "APP_URL")

	setString(&cfg.Email.SMTPHost, "SMTP_HOST")
	setInt(&cfg.Email.SMTPPort, "SMTP_PORT")
	setString(&cfg.Email.SMTPUsername, "SMTP_USER")
	setString(&cfg.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&cfg.Email.FromEmail, "SMTP_FROM")

	setString(&cfg.Twilio.AccountSID, "TWILIO_ACCOUNT_SID")
	setString(&cfg.Twilio.AuthToken, "TWILIO_AUTH_TOKEN")
	setString(&cfg.Twilio.SMSFrom, "TWILIO_SMS_FROM")
	setString(&cfg.Twilio.WhatsAppFrom, "TWILIO_WHATSAPP_FROM")
	setString(&cfg.Twilio.PublicWebhookURL, "TWILIO_PUBLIC_WEBHOOK_URL")

	setString(&cfg.AI.OpenAIKey, "OPENAI_API_KEY")
	setString(&cfg.AI.AnthropicKey, "ANTHROPIC_API_KEY")

	setString(&cfg.JWT.Secret, "JWT_SECRET")

	setString(&cfg.Storage.Type, "STORAGE_TYPE")
	setString(&cfg.Storage.Bucket, "STORAGE_BUCKET")
	setString(&cfg.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "STORAGE_SECRET_KEY")
	setString(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")
	setString(&cfg.Storage.AccountID, "STORAGE_ACCOUNT_ID")

	setString(&cfg.Seed.PlannerEmail, "FIRST_PLANNER_EMAIL")
	setString(&cfg.Seed.PlannerPassword, "FIRST_PLANNER_PASSWORD")
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database url is required (DATABASE_URL)")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required (JWT_SECRET)")
	}
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	return nil
}

// IsProduction - режим без отладочных деталей в ответах
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// HasAIProvider - настроен ли хотя бы один ключ AI
func (c *Config) HasAIProvider() bool {
	return c.AI.OpenAIKey != "" || c.AI.AnthropicKey != ""
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
