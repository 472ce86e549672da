// Package db はGORMによるデータベース接続とマイグレーションを提供します。
package db

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	diradapters "stock_insight/internal/feature/directory/adapters"
	"stock_insight/internal/platform/config"
)

// retryInterval は接続リトライの待機間隔です。
var retryInterval = 3 * time.Second

// Config はPostgreSQL接続設定です。
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Opener はDSNからDB接続を開く関数です。テストで差し替えます。
type Opener func(dsn string) (*gorm.DB, error)

// ConfigFrom はアプリケーション設定からPostgreSQL接続設定を取り出します。
func ConfigFrom(c *config.Config) Config {
	return Config{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
		SSLMode:  c.DBSSLMode,
	}
}

// BuildDSN はpgxのキーワード形式DSNを組み立てます。
func BuildDSN(cfg Config) string {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		quoteDSN(cfg.Host), quoteDSN(cfg.Port), quoteDSN(cfg.User),
		quoteDSN(cfg.Password), quoteDSN(cfg.Name), quoteDSN(sslmode))
}

// quoteDSN は値をシングルクォートで囲み、\ と ' をエスケープします。
// 空白や引用符を含むパスワードでもDSNが壊れないようにします。
func quoteDSN(v string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v) + "'"
}

// gormConfig は一意制約違反をgorm.ErrDuplicatedKeyに変換する設定です。
func gormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// PostgresOpener はPostgreSQL用のOpenerです。
func PostgresOpener(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), gormConfig())
}

// ConnectWithRetry はtimeoutに達するまで一定間隔で接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "interval", retryInterval)
		time.Sleep(retryInterval)
	}
}

// OpenPostgres はPostgreSQLへ接続し、必要に応じてマイグレーションを実行します。
func OpenPostgres(cfg Config, timeout time.Duration, migrate bool) (*gorm.DB, error) {
	db, err := ConnectWithRetry(BuildDSN(cfg), timeout, PostgresOpener)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// OpenSQLite はSQLiteファイル（":memory:"も可）を開き、マイグレーションを実行します。
func OpenSQLite(path string, migrate bool) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	// SQLiteは書き込みが直列化されるため接続を1本に絞る
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if migrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Migrate はディレクトリのテーブルを作成・更新します。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&diradapters.CompanyModel{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// Close は基盤のsql.DBを閉じます。
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
