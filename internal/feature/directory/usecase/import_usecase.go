package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"stock_insight/internal/feature/directory/domain/entity"
)

// ImportState is the outcome of the startup seed import.
type ImportState string

const (
	StateUnchecked ImportState = "UNCHECKED"
	StateSkipped   ImportState = "SKIPPED"
	StateImported  ImportState = "IMPORTED"
	StateFailed    ImportState = "FAILED"
)

// ImportUsecase seeds an empty directory from a bundled JSON dataset.
// Only a run that finds the store empty inserts anything, so repeated runs are no-ops.
type ImportUsecase struct {
	repo     CompanyRepository
	seed     fs.FS
	seedPath string
	logger   *slog.Logger

	mu    sync.Mutex
	state ImportState
}

// NewImportUsecase creates an ImportUsecase reading seedPath from seed.
func NewImportUsecase(r CompanyRepository, seed fs.FS, seedPath string, logger *slog.Logger) *ImportUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportUsecase{
		repo:     r,
		seed:     seed,
		seedPath: seedPath,
		logger:   logger,
		state:    StateUnchecked,
	}
}

// State returns the outcome of the latest run.
func (u *ImportUsecase) State() ImportState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// StateName implements the health reporter used by the platform health handler.
func (u *ImportUsecase) StateName() string {
	return string(u.State())
}

// CheckAndImport counts the stored companies and, if there are none, inserts the
// whole seed dataset in a single batch. Failures are logged and returned wrapped
// in ErrBootstrapFailed; the caller is expected to abort startup.
func (u *ImportUsecase) CheckAndImport(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	count, err := u.repo.Count(ctx)
	if err != nil {
		return u.fail("count companies", err)
	}
	if count > 0 {
		u.state = StateSkipped
		u.logger.Info("directory already has data, skipping seed import", "count", count)
		return nil
	}

	u.logger.Info("directory is empty, importing seed data", "path", u.seedPath)

	companies, err := u.readSeed()
	if err != nil {
		return u.fail("read seed", err)
	}

	if err := u.repo.InsertMany(ctx, companies); err != nil {
		return u.fail("insert seed", err)
	}

	u.state = StateImported
	u.logger.Info("seed data imported", "count", len(companies))
	return nil
}

func (u *ImportUsecase) readSeed() ([]entity.Company, error) {
	if u.seed == nil {
		return nil, fmt.Errorf("no seed source configured")
	}
	data, err := fs.ReadFile(u.seed, u.seedPath)
	if err != nil {
		return nil, err
	}
	var companies []entity.Company
	if err := json.Unmarshal(data, &companies); err != nil {
		return nil, fmt.Errorf("parse %s: %w", u.seedPath, err)
	}
	return companies, nil
}

func (u *ImportUsecase) fail(step string, err error) error {
	u.state = StateFailed
	u.logger.Error("seed import failed", "step", step, "error", err)
	return fmt.Errorf("%w: %s: %w", ErrBootstrapFailed, step, err)
}
