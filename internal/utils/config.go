package utils

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Application
	AppPort      string `yaml:"APP_PORT"`
	AppURL       string `yaml:"APP_URL"`
	LogFile      string `yaml:"LOG_FILE"`
	RateLimitMax int    `yaml:"RATE_LIMIT_MAX"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBSSLMode  string `yaml:"DB_SSLMODE"`
	DBLogLevel string `yaml:"DB_LOG_LEVEL"`

	// Session tokens
	JWTSecret         string `yaml:"JWT_SECRET"`
	SessionTTLMinutes int    `yaml:"SESSION_TTL_MINUTES"`

	// Identity provider
	Auth0Domain       string `yaml:"AUTH0_DOMAIN"`
	Auth0ClientID     string `yaml:"AUTH0_CLIENT_ID"`
	Auth0ClientSecret string `yaml:"AUTH0_CLIENT_SECRET"`
	Auth0CallbackURL  string `yaml:"AUTH0_CALLBACK_URL"`

	// Redis, optional
	RedisHost     string `yaml:"REDIS_HOST"`
	RedisPort     string `yaml:"REDIS_PORT"`
	RedisPassword string `yaml:"REDIS_PASSWORD"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`
	DeveloperEmail   string `yaml:"DEVELOPER_EMAIL"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`
}

var ErrMissingConfig = errors.New("missing required configuration")

func defaultConfig() Config {
	return Config{
		AppPort:           "8080",
		AppURL:            "http://localhost:8080",
		LogFile:           "./logs/app.log",
		RateLimitMax:      20,
		DBHost:            "localhost",
		DBPort:            "5432",
		DBSSLMode:         "disable",
		DBLogLevel:        "warn",
		SessionTTLMinutes: 120,
		RedisPort:         "6379",
	}
}

// LoadConfig reads the yaml file at path when it exists and then lets
// environment variables (including a local .env) override every key.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnw("failed to load .env file", "error", err)
	}

	if path != "" {
		file, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(file, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			log.Infow("config file not found, using environment only", "path", path)
		default:
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if err := overlayEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// overlayEnv sets every field whose yaml key is present in the environment.
func overlayEnv(cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("yaml")
		raw, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		field := v.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(raw)
		case reflect.Int:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			field.SetInt(int64(n))
		}
	}
	return nil
}

func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET", ErrMissingConfig)
	}
	if c.DBName == "" {
		return fmt.Errorf("%w: DB_NAME", ErrMissingConfig)
	}
	return nil
}

func (c Config) AuthEnabled() bool {
	return c.Auth0Domain != "" && c.Auth0ClientID != "" && c.Auth0ClientSecret != ""
}

func (c Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

func (c Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.DeveloperEmail != ""
}

func (c Config) S3Enabled() bool {
	return c.AWSS3Bucket != ""
}
