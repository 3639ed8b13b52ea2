package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Resume   ResumeConfig
	Database DatabaseConfig
	Valkey   ValkeyConfig
	S3       S3Config
	RabbitMQ RabbitMQConfig
	Worker   WorkerConfig
	LogLevel string
}

type ServerConfig struct {
	Addr           string
	MaxUploadBytes int64
}

// ResumeConfig controls the template gate and the text parser.
type ResumeConfig struct {
	TemplateAuthor string
	Divider        string
	StrictMarkers  bool
}

type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

type ValkeyConfig struct {
	Addr        string
	Password    string
	PollTimeout time.Duration
}

type S3Config struct {
	EndpointURL string
	Region      string
	AccessKey   string
	SecretKey   string
	Bucket      string
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
}

type WorkerConfig struct {
	RetryBackoff time.Duration
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	return FromEnv(), nil
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           getEnv("HTTP_ADDR", ":8080"),
			MaxUploadBytes: getEnvAsInt64("MAX_UPLOAD_BYTES", 10<<20),
		},
		Resume: ResumeConfig{
			TemplateAuthor: getEnv("RESUME_TEMPLATE_AUTHOR", "tyfyc"),
			Divider:        getEnv("RESUME_DIVIDER", "_____"),
			StrictMarkers:  getEnvAsBool("RESUME_STRICT_MARKERS", false),
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
		},
		Valkey: ValkeyConfig{
			Addr:        getEnv("VALKEY_URL", ""),
			Password:    getEnv("VALKEY_PASSWORD", ""),
			PollTimeout: getEnvAsDuration("QUEUE_POLL_TIMEOUT", 5*time.Second),
		},
		S3: S3Config{
			EndpointURL: getEnv("S3_ENDPOINT_URL", ""),
			Region:      getEnv("S3_REGION", "us-east-1"),
			AccessKey:   getEnv("S3_ACCESS_KEY", ""),
			SecretKey:   getEnv("S3_SECRET_KEY", ""),
			Bucket:      getEnv("S3_BUCKET_NAME", ""),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      getEnv("RABBITMQ_URL", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "resume_updates"),
		},
		Worker: WorkerConfig{
			RetryBackoff: getEnvAsDuration("WORKER_RETRY_BACKOFF", time.Second),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the settings every binary needs.
func (c *Config) Validate() error {
	var errs []error
	if c.Resume.Divider == "" {
		errs = append(errs, errors.New("RESUME_DIVIDER must not be empty"))
	}
	if c.Resume.TemplateAuthor == "" {
		errs = append(errs, errors.New("RESUME_TEMPLATE_AUTHOR must not be empty"))
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	return errors.Join(errs...)
}

// ValidateAsync checks the backends used by the upload queue and the worker.
func (c *Config) ValidateAsync() error {
	var missing []string
	for name, value := range map[string]string{
		"DATABASE_URL":   c.Database.DSN,
		"VALKEY_URL":     c.Valkey.Addr,
		"S3_ACCESS_KEY":  c.S3.AccessKey,
		"S3_SECRET_KEY":  c.S3.SecretKey,
		"S3_BUCKET_NAME": c.S3.Bucket,
	} {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// AsyncEnabled reports whether the async job backends are configured.
func (c *Config) AsyncEnabled() bool {
	return c.ValidateAsync() == nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
