package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration
type Config struct {
	Database   DatabaseConfig   `toml:"database"`
	Properties PropertiesConfig `toml:"properties"`
	Redis      RedisConfig      `toml:"redis"`
	Firestore  FirestoreConfig  `toml:"firestore"`
	Storage    StorageConfig    `toml:"storage"`
	Gemini     GeminiConfig     `toml:"gemini"`
	Seed       SeedConfig       `toml:"seed"`
	Report     ReportConfig     `toml:"report"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver           string        `toml:"driver"` // sqlite | postgres
	DSN              string        `toml:"dsn"`
	MaxConns         int32         `toml:"max_conns"`
	MinConns         int32         `toml:"min_conns"`
	MaxConnLifetime  time.Duration `toml:"max_conn_lifetime"`
	MaxConnIdleTime  time.Duration `toml:"max_conn_idle_time"`
	DialTimeout      time.Duration `toml:"dial_timeout"`
	StatementTimeout time.Duration `toml:"statement_timeout"`
}

// PropertiesConfig selects where configuration and processed marks live.
type PropertiesConfig struct {
	Backend   string `toml:"backend"` // sql | redis | firestore
	Principal string `toml:"principal"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type FirestoreConfig struct {
	ProjectID        string `toml:"project_id"`
	CollectionPrefix string `toml:"collection_prefix"`
}

// StorageConfig selects the document store the renamer walks.
type StorageConfig struct {
	Provider string `toml:"provider"` // local | gcs
	Bucket   string `toml:"bucket"`
}

// GeminiConfig holds inference endpoint settings. Timeout 0 means no client timeout.
type GeminiConfig struct {
	BaseURL string        `toml:"base_url"`
	Timeout time.Duration `toml:"timeout"`
}

// SeedConfig supplies the values written by `init` when the store is empty.
type SeedConfig struct {
	APIKey        string `toml:"api_key"`
	RootFolderIDs string `toml:"root_folder_ids"`
	Model         string `toml:"model"`
}

type ReportConfig struct {
	Path string `toml:"path"`
}

// LoadConfig loads defaults, then the optional TOML file, then environment variables.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/renamer.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file %s: %w", configPath, err)
		}
	}

	overrideByEnv(cfg)
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:          "sqlite",
			DSN:             "file:renamer.db?_pragma=busy_timeout(5000)",
			MaxConns:        4,
			MinConns:        1,
			MaxConnLifetime: 30 * time.Minute,
			MaxConnIdleTime: 5 * time.Minute,
			DialTimeout:     3 * time.Second,
		},
		Properties: PropertiesConfig{
			Backend:   "sql",
			Principal: "default",
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
		},
		Firestore: FirestoreConfig{
			CollectionPrefix: "renamer_",
		},
		Storage: StorageConfig{
			Provider: "local",
		},
		Gemini: GeminiConfig{
			BaseURL: "https://generativelanguage.googleapis.com/v1",
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.Database.Driver = getEnv("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.DSN = getEnv("DB_URL", cfg.Database.DSN)
	cfg.Database.MaxConns = getEnvAsInt32("DB_MAX_CONNS", cfg.Database.MaxConns)
	cfg.Database.MinConns = getEnvAsInt32("DB_MIN_CONNS", cfg.Database.MinConns)
	cfg.Database.MaxConnLifetime = getEnvAsDuration("DB_MAX_CONN_LIFETIME", cfg.Database.MaxConnLifetime)
	cfg.Database.MaxConnIdleTime = getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", cfg.Database.MaxConnIdleTime)
	cfg.Database.DialTimeout = getEnvAsDuration("DB_DIAL_TIMEOUT", cfg.Database.DialTimeout)
	cfg.Database.StatementTimeout = getEnvAsDuration("DB_STATEMENT_TIMEOUT", cfg.Database.StatementTimeout)

	cfg.Properties.Backend = getEnv("PROPERTIES_BACKEND", cfg.Properties.Backend)
	cfg.Properties.Principal = getEnv("PROPERTIES_PRINCIPAL", cfg.Properties.Principal)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)

	cfg.Firestore.ProjectID = getEnv("FIRESTORE_PROJECT_ID", getEnv("GOOGLE_CLOUD_PROJECT", cfg.Firestore.ProjectID))
	cfg.Firestore.CollectionPrefix = getEnv("FIRESTORE_COLLECTION_PREFIX", cfg.Firestore.CollectionPrefix)

	cfg.Storage.Provider = getEnv("STORAGE_PROVIDER", cfg.Storage.Provider)
	cfg.Storage.Bucket = getEnv("STORAGE_BUCKET", cfg.Storage.Bucket)

	cfg.Gemini.BaseURL = getEnv("GEMINI_BASE_URL", cfg.Gemini.BaseURL)
	cfg.Gemini.Timeout = getEnvAsDuration("GEMINI_TIMEOUT", cfg.Gemini.Timeout)

	cfg.Seed.APIKey = getEnv("SEED_API_KEY", cfg.Seed.APIKey)
	cfg.Seed.RootFolderIDs = getEnv("SEED_ROOT_FOLDER_IDS", cfg.Seed.RootFolderIDs)
	cfg.Seed.Model = getEnv("SEED_MODEL", cfg.Seed.Model)

	cfg.Report.Path = getEnv("REPORT_PATH", cfg.Report.Path)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator()
	v.Field("database.driver", c.Database.Driver, OneOf("sqlite", "postgres"))
	v.Field("properties.backend", c.Properties.Backend, OneOf("sql", "redis", "firestore"))
	v.Field("storage.provider", c.Storage.Provider, OneOf("local", "gcs"))
	v.Field("gemini.base_url", c.Gemini.BaseURL, Required)

	if strings.EqualFold(c.Properties.Backend, "sql") {
		v.Field("database.dsn", c.Database.DSN, Required)
	}
	if strings.EqualFold(c.Properties.Backend, "redis") {
		v.Field("redis.addr", c.Redis.Addr, Required)
	}
	if strings.EqualFold(c.Properties.Backend, "firestore") {
		v.Field("firestore.project_id", c.Firestore.ProjectID, Required)
	}
	if strings.EqualFold(c.Storage.Provider, "gcs") {
		v.Field("storage.bucket", c.Storage.Bucket, Required)
	}

	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}
