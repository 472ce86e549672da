package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock_insight/internal/app/di"
	"stock_insight/internal/app/router"
	directoryhandler "stock_insight/internal/feature/directory/transport/handler"
	directoryusecase "stock_insight/internal/feature/directory/usecase"
	insighthandler "stock_insight/internal/feature/insight/transport/handler"
	insightusecase "stock_insight/internal/feature/insight/usecase"
	"stock_insight/internal/platform/config"
	"stock_insight/internal/platform/logger"
)

func main() {
	envFile := flag.String("env", "", "path to .env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.Setup(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis（任意）
	rdb := di.NewRedis(ctx, cfg)
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// Directory store
	dir, err := di.NewDirectory(ctx, cfg, rdb)
	if err != nil {
		log.Error("failed to open directory store", "driver", cfg.DirectoryDriver, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := dir.Close(context.Background()); err != nil {
			log.Error("failed to close directory store", "error", err)
		}
	}()

	// 起動時インポート。失敗したら起動しない
	importer := di.NewImportUsecase(cfg, dir.Repo, log)
	if err := importer.CheckAndImport(ctx); err != nil {
		log.Error("bootstrap failed", "error", err)
		stop()
		os.Exit(1)
	}

	// Text generation
	gen, err := di.NewGenerator(ctx, cfg, log)
	if err != nil {
		log.Error("failed to create text generation client", "provider", cfg.LLMProvider, "error", err)
		os.Exit(1)
	}

	// Usecase
	searchUC := directoryusecase.NewSearchUsecase(dir.Repo, log)
	insightUC := insightusecase.NewInsightUsecase(gen, cfg.AnalysisModel, log)

	// Handler
	searchH := directoryhandler.NewSearchHandler(searchUC)
	insightH := insighthandler.NewInsightHandler(insightUC)

	// ルータ生成
	r := router.NewRouter(searchH, insightH, importer)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	}()

	log.Info("server starting", "addr", srv.Addr, "driver", cfg.DirectoryDriver, "llm", cfg.LLMProvider)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
