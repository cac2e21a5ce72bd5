package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/khrees2412/jobmatch/internal/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeCreatesDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg, err := Initialize(path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err, "default config file should be written")

	assert.Equal(t, filepath.Join(dir, "nested"), cfg.DataDir)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, filepath.Join(dir, "nested", "jobmatch.db"), cfg.Store.SQLitePath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, DefaultSearchURL, cfg.Scraper.SearchURL)
	assert.Equal(t, scraper.DefaultSelectors(), cfg.Scraper.Selectors)
	assert.Equal(t, scraper.DefaultPolicy(), cfg.Scraper.Policy())
	assert.Same(t, cfg, AppConfig)
	assert.Equal(t, path, GetConfigPath())
}

func TestInitializeReadsFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `store:
  driver: postgres
  postgres_url: postgres://localhost/jobs
scraper:
  max_load_more: 3
  click_delay: 250ms
  selectors:
    load_more: button.more
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	t.Setenv("JOBMATCH_LOG_LEVEL", "debug")
	t.Setenv("JOBMATCH_SERVER_ADDR", "127.0.0.1:9000")

	cfg, err := Initialize(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/jobs", cfg.Store.PostgresURL)
	assert.Equal(t, 3, cfg.Scraper.MaxLoadMore)
	assert.Equal(t, 250*time.Millisecond, cfg.Scraper.ClickDelay)
	assert.Equal(t, 5*time.Second, cfg.Scraper.WaitTimeout)
	assert.Equal(t, "button.more", cfg.Scraper.Selectors.LoadMore)
	assert.Equal(t, scraper.DefaultSelectors().Title, cfg.Scraper.Selectors.Title)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
}

func TestSetPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	_, err := Initialize(path)
	require.NoError(t, err)

	require.NoError(t, Set("taxonomy_file", "/tmp/skills.yaml"))
	assert.Equal(t, "/tmp/skills.yaml", Get("taxonomy_file"))

	cfg, err := Initialize(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/skills.yaml", cfg.TaxonomyFile)
}

func TestInitializeRejectsBrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: [unclosed"), 0600))
	_, err := Initialize(path)
	assert.Error(t, err)
}
