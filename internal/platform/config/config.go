// Package config は環境変数からアプリケーション設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ErrInvalidConfig は設定値の検証に失敗したことを示します。
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"

	ProviderAzure  = "azure"
	ProviderGemini = "gemini"
)

// Config はプロセス全体の設定です。
type Config struct {
	Port      string `envconfig:"PORT" default:"8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	DirectoryDriver  string        `envconfig:"DIRECTORY_DRIVER" default:"postgres"`
	DBHost           string        `envconfig:"DB_HOST" default:"localhost"`
	DBPort           string        `envconfig:"DB_PORT" default:"5432"`
	DBUser           string        `envconfig:"DB_USER"`
	DBPassword       string        `envconfig:"DB_PASSWORD"`
	DBName           string        `envconfig:"DB_NAME"`
	DBSSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	DBConnectTimeout time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"60s"`
	SQLitePath       string        `envconfig:"SQLITE_PATH" default:"stock_insight.db"`
	RunMigrations    bool          `envconfig:"RUN_MIGRATIONS" default:"true"`

	MongoURI        string `envconfig:"MONGO_URI"`
	MongoDatabase   string `envconfig:"MONGO_DATABASE" default:"stock"`
	MongoCollection string `envconfig:"MONGO_COLLECTION" default:"bsecompany"`

	// RedisHostが空の場合、検索キャッシュは無効です。
	RedisHost      string        `envconfig:"REDIS_HOST"`
	RedisPort      string        `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword  string        `envconfig:"REDIS_PASSWORD"`
	SearchCacheTTL time.Duration `envconfig:"SEARCH_CACHE_TTL" default:"5m"`

	// SeedFileが空の場合、バイナリに埋め込んだデータセットを使います。
	SeedFile string `envconfig:"SEED_FILE"`

	LLMProvider             string        `envconfig:"LLM_PROVIDER" default:"azure"`
	LLMTimeout              time.Duration `envconfig:"LLM_TIMEOUT" default:"60s"`
	AzureOpenAIEndpoint     string        `envconfig:"AZURE_OPENAI_ENDPOINT"`
	AzureOpenAIAPIKey       string        `envconfig:"AZURE_OPENAI_API_KEY"`
	OpenAIAPIVersion        string        `envconfig:"OPENAI_API_VERSION" default:"2024-02-01"`
	AzureOpenAIDeploymentID string        `envconfig:"AZURE_OPENAI_DEPLOYMENT_ID" default:"gpt-4o"`
	GeminiAPIKey            string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel             string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	AnalysisModel           string        `envconfig:"ANALYSIS_MODEL"`
}

// Load は.envファイル（存在する場合）を読み込んだ後、環境変数から設定を構築して検証します。
// 既に設定されている環境変数は.envで上書きされません。
func Load(envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadEnvFile はenvFileが指定されていればそれを、なければカレントの.envを読み込みます。
func loadEnvFile(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
		return nil
	}
	if _, err := os.Stat(".env"); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Validate はドライバーやプロバイダーごとの必須項目を検証します。
func (c Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: LOG_LEVEL must be one of debug, info, warn, error", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("%w: LOG_FORMAT must be json or text", ErrInvalidConfig)
	}

	switch c.DirectoryDriver {
	case DriverPostgres:
		if strings.TrimSpace(c.DBUser) == "" || strings.TrimSpace(c.DBName) == "" {
			return fmt.Errorf("%w: DB_USER and DB_NAME are required for postgres", ErrInvalidConfig)
		}
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("%w: SQLITE_PATH is required for sqlite", ErrInvalidConfig)
		}
	case DriverMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			return fmt.Errorf("%w: MONGO_URI is required for mongo", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown DIRECTORY_DRIVER %q", ErrInvalidConfig, c.DirectoryDriver)
	}

	switch c.LLMProvider {
	case ProviderAzure:
		if !isHTTPURL(c.AzureOpenAIEndpoint) {
			return fmt.Errorf("%w: AZURE_OPENAI_ENDPOINT must be an http(s) URL", ErrInvalidConfig)
		}
		if strings.TrimSpace(c.AzureOpenAIAPIKey) == "" {
			return fmt.Errorf("%w: AZURE_OPENAI_API_KEY is required", ErrInvalidConfig)
		}
	case ProviderGemini:
	default:
		return fmt.Errorf("%w: unknown LLM_PROVIDER %q", ErrInvalidConfig, c.LLMProvider)
	}
	return nil
}

// RedisAddr はRedisの接続先を返します。RedisHostが空なら空文字列です。
func (c Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}

func isHTTPURL(s string) bool {
	u, err := url.ParseRequestURI(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
