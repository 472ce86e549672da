// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	redisv9 "github.com/redis/go-redis/v9"

	"stock_insight/assets"
	"stock_insight/internal/feature/directory/adapters"
	"stock_insight/internal/feature/directory/usecase"
	"stock_insight/internal/platform/cache"
	"stock_insight/internal/platform/config"
	"stock_insight/internal/platform/db"
	platformmongo "stock_insight/internal/platform/mongo"
)

// Directory bundles the selected directory store with its cleanup.
type Directory struct {
	Repo  usecase.CompanyRepository
	Close func(ctx context.Context) error
}

// NewDirectory opens the store selected by DIRECTORY_DRIVER.
// If rdb is non-nil, keyword searches are cached in Redis.
func NewDirectory(ctx context.Context, cfg *config.Config, rdb *redisv9.Client) (*Directory, error) {
	d, err := openDirectory(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if rdb != nil {
		if cfg.SearchCacheTTL > 0 {
			d.Repo = cache.NewCachingCompanyRepository(rdb, cfg.SearchCacheTTL, d.Repo, "companies")
		} else {
			// 各エントリは次の08:00 ISTで失効する
			d.Repo = cache.NewRefreshingCompanyRepository(rdb, cache.TimeUntilNextRefresh, d.Repo, "companies")
		}
	}
	return d, nil
}

func openDirectory(ctx context.Context, cfg *config.Config) (*Directory, error) {
	switch cfg.DirectoryDriver {
	case config.DriverPostgres:
		gdb, err := db.OpenPostgres(db.ConfigFrom(cfg), cfg.DBConnectTimeout, cfg.RunMigrations)
		if err != nil {
			return nil, err
		}
		return &Directory{
			Repo:  adapters.NewCompanyRepository(gdb),
			Close: func(context.Context) error { return db.Close(gdb) },
		}, nil

	case config.DriverSQLite:
		gdb, err := db.OpenSQLite(cfg.SQLitePath, cfg.RunMigrations)
		if err != nil {
			return nil, err
		}
		return &Directory{
			Repo:  adapters.NewCompanyRepository(gdb),
			Close: func(context.Context) error { return db.Close(gdb) },
		}, nil

	case config.DriverMongo:
		client, err := platformmongo.NewMongoClient(ctx, cfg.MongoURI, cfg.DBConnectTimeout)
		if err != nil {
			return nil, err
		}
		repo := adapters.NewCompanyMongoRepository(client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection))
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &Directory{Repo: repo, Close: client.Disconnect}, nil

	default:
		return nil, fmt.Errorf("unknown directory driver %q", cfg.DirectoryDriver)
	}
}

// SeedSource returns the filesystem and path the importer reads from.
// SEED_FILE on disk takes precedence over the embedded dataset.
func SeedSource(cfg *config.Config) (fs.FS, string) {
	if cfg.SeedFile != "" {
		return os.DirFS(filepath.Dir(cfg.SeedFile)), filepath.Base(cfg.SeedFile)
	}
	return assets.Seed, assets.SeedPath
}

// NewImportUsecase wires the bootstrap importer for repo.
func NewImportUsecase(cfg *config.Config, repo usecase.CompanyRepository, logger *slog.Logger) *usecase.ImportUsecase {
	seed, path := SeedSource(cfg)
	return usecase.NewImportUsecase(repo, seed, path, logger)
}
