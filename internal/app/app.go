package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/khrees2412/jobmatch/internal/config"
	"github.com/khrees2412/jobmatch/internal/database"
	"github.com/khrees2412/jobmatch/internal/logger"
	"github.com/khrees2412/jobmatch/internal/matcher"
	"github.com/khrees2412/jobmatch/internal/taxonomy"
	"go.uber.org/zap"
)

// App is the dependency container for the CLI application
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Taxonomy *taxonomy.Taxonomy
	Engine   *matcher.Engine

	mu    sync.Mutex
	store database.Store
}

// NewApp loads configuration, the logger and the taxonomy. The store is
// opened on first use so commands that never touch it work offline.
func NewApp(ctx context.Context, configPath string) (*App, error) {
	cfg, err := config.Initialize(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	tax, err := LoadTaxonomy(cfg.TaxonomyFile)
	if err != nil {
		return nil, err
	}
	log.Debug("Taxonomy loaded", zap.Int("skills", tax.Len()), zap.String("file", cfg.TaxonomyFile))

	return New(cfg, log, tax, nil), nil
}

// New assembles an App from ready parts. store may be nil, in which case
// Store opens the configured backend.
func New(cfg *config.Config, log *zap.Logger, tax *taxonomy.Taxonomy, store database.Store) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		Config:   cfg,
		Logger:   log,
		Taxonomy: tax,
		Engine:   matcher.NewEngine(tax),
		store:    store,
	}
}

// LoadTaxonomy reads path, or returns the built-in taxonomy when path is empty
func LoadTaxonomy(path string) (*taxonomy.Taxonomy, error) {
	if path == "" {
		return taxonomy.Default(), nil
	}
	tax, err := taxonomy.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy: %w", err)
	}
	return tax, nil
}

// Store returns the job store, connecting on first call
func (a *App) Store(ctx context.Context) (database.Store, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.store != nil {
		return a.store, nil
	}

	s, err := database.Open(ctx, database.Options{
		Driver:      a.Config.Store.Driver,
		SQLitePath:  a.Config.Store.SQLitePath,
		PostgresURL: a.Config.Store.PostgresURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.Logger.Debug("Store opened", zap.String("driver", a.Config.Store.Driver))
	a.store = s
	return s, nil
}

// LockScrape takes the data directory's scrape lock without waiting. The
// returned func releases it.
func (a *App) LockScrape() (func() error, error) {
	if err := os.MkdirAll(a.Config.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	lock := flock.New(filepath.Join(a.Config.DataDir, "scrape.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire scrape lock: %w", err)
	}
	if !ok {
		return nil, ErrScrapeInProgress
	}
	return lock.Unlock, nil
}

// Close closes all resources
func (a *App) Close() error {
	defer a.Logger.Sync()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.store != nil {
		err := a.store.Close()
		a.store = nil
		return err
	}
	return nil
}
