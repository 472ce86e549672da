package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv はデフォルト構成（postgres + azure）で必須の環境変数を設定します。
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_USER", "stock")
	t.Setenv("DB_NAME", "stock")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com")
	t.Setenv("AZURE_OPENAI_API_KEY", "key")
}

// TestLoad_Defaults はデフォルト値が正しく設定されることを検証します。
func TestLoad_Defaults(t *testing.T) {
	// 環境変数を変更するため並列実行しない
	setRequiredEnv(t)

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.DirectoryDriver)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, 60*time.Second, cfg.DBConnectTimeout)
	assert.True(t, cfg.RunMigrations)
	assert.Equal(t, "bsecompany", cfg.MongoCollection)
	assert.Equal(t, 5*time.Minute, cfg.SearchCacheTTL)
	assert.Equal(t, ProviderAzure, cfg.LLMProvider)
	assert.Equal(t, "2024-02-01", cfg.OpenAIAPIVersion)
	assert.Equal(t, "gpt-4o", cfg.AzureOpenAIDeploymentID)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Empty(t, cfg.AnalysisModel)
	assert.Empty(t, cfg.RedisAddr())
}

// TestLoad_Overrides は環境変数による上書きを検証します。
func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "3000")
	t.Setenv("OPENAI_API_VERSION", "2024-10-21")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT_ID", "gpt-4o-mini")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("SEARCH_CACHE_TTL", "30s")
	t.Setenv("ANALYSIS_MODEL", "custom")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "2024-10-21", cfg.OpenAIAPIVersion)
	assert.Equal(t, "gpt-4o-mini", cfg.AzureOpenAIDeploymentID)
	assert.Equal(t, "cache:6379", cfg.RedisAddr())
	assert.Equal(t, 30*time.Second, cfg.SearchCacheTTL)
	assert.Equal(t, "custom", cfg.AnalysisModel)
}

// TestLoad_EnvFile は指定した.envファイルから値が読み込まれることを検証します。
func TestLoad_EnvFile(t *testing.T) {
	t.Setenv("DIRECTORY_DRIVER", "")
	os.Unsetenv("DIRECTORY_DRIVER")
	t.Setenv("LLM_PROVIDER", "")
	os.Unsetenv("LLM_PROVIDER")
	t.Setenv("SQLITE_PATH", "")
	os.Unsetenv("SQLITE_PATH")

	path := filepath.Join(t.TempDir(), "test.env")
	content := "DIRECTORY_DRIVER=sqlite\nSQLITE_PATH=/tmp/dir.db\nLLM_PROVIDER=gemini\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DirectoryDriver)
	assert.Equal(t, "/tmp/dir.db", cfg.SQLitePath)
	assert.Equal(t, ProviderGemini, cfg.LLMProvider)
}

// TestLoad_MissingEnvFile は存在しない.envファイル指定時にエラーとなることを検証します。
func TestLoad_MissingEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

// TestConfig_Validate は設定の検証ルールをテーブル駆動テストで検証します。
func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := Config{
		LogLevel:            "info",
		LogFormat:           "json",
		DirectoryDriver:     DriverPostgres,
		DBUser:              "u",
		DBName:              "n",
		SQLitePath:          "x.db",
		LLMProvider:         ProviderAzure,
		AzureOpenAIEndpoint: "https://example.openai.azure.com",
		AzureOpenAIAPIKey:   "k",
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "trace" }, wantErr: true},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: true},
		{name: "postgres without user", mutate: func(c *Config) { c.DBUser = "" }, wantErr: true},
		{name: "sqlite needs no credentials", mutate: func(c *Config) { c.DirectoryDriver = DriverSQLite; c.DBUser = "" }},
		{name: "mongo without uri", mutate: func(c *Config) { c.DirectoryDriver = DriverMongo }, wantErr: true},
		{name: "mongo with uri", mutate: func(c *Config) { c.DirectoryDriver = DriverMongo; c.MongoURI = "mongodb://localhost:27017" }},
		{name: "unknown driver", mutate: func(c *Config) { c.DirectoryDriver = "mysql" }, wantErr: true},
		{name: "azure endpoint not a url", mutate: func(c *Config) { c.AzureOpenAIEndpoint = "example.openai.azure.com" }, wantErr: true},
		{name: "azure endpoint missing", mutate: func(c *Config) { c.AzureOpenAIEndpoint = "" }, wantErr: true},
		{name: "azure key missing", mutate: func(c *Config) { c.AzureOpenAIAPIKey = "" }, wantErr: true},
		{name: "gemini needs no azure settings", mutate: func(c *Config) {
			c.LLMProvider = ProviderGemini
			c.AzureOpenAIEndpoint = ""
			c.AzureOpenAIAPIKey = ""
		}},
		{name: "unknown provider", mutate: func(c *Config) { c.LLMProvider = "anthropic" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			assert.NoError(t, err)
		})
	}
}
