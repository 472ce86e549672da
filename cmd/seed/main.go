package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"stock_insight/internal/app/di"
	"stock_insight/internal/platform/config"
	"stock_insight/internal/platform/logger"
)

// seed は起動時インポートと同じ処理を単発で実行します。
// ストアが空でなければ何もしません。
func main() {
	envFile := flag.String("env", "", "path to .env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.Setup(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	dir, err := di.NewDirectory(ctx, cfg, di.NewRedis(ctx, cfg))
	if err != nil {
		log.Error("failed to open directory store", "error", err)
		os.Exit(1)
	}
	defer func() { _ = dir.Close(context.Background()) }()

	importer := di.NewImportUsecase(cfg, dir.Repo, log)
	if err := importer.CheckAndImport(ctx); err != nil {
		log.Error("seed failed", "error", err)
		cancel()
		os.Exit(1)
	}
	log.Info("seed ok", "state", importer.StateName())
}
