// Package database persists harvested job postings.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/khrees2412/jobmatch/pkg/models"
)

var (
	// ErrNotFound is returned when no posting has the requested id
	ErrNotFound = errors.New("job not found")
	// ErrDuplicateLink is returned by Append when the link is already stored
	ErrDuplicateLink = errors.New("job link already stored")
	// ErrUnknownDriver is returned by Open for an unsupported store.driver
	ErrUnknownDriver = errors.New("unknown store driver")
)

// Store is the document store for job postings. Links are unique; postings
// without a link are never treated as duplicates.
type Store interface {
	// ListAll returns every posting in insertion order
	ListAll(ctx context.Context) ([]*models.JobPosting, error)
	// Append stores a new posting and returns its identifier
	Append(ctx context.Context, job *models.JobPosting) (int64, error)
	// AppendIfNew stores job unless its link is already known
	AppendIfNew(ctx context.Context, job *models.JobPosting) (id int64, inserted bool, err error)
	HasLink(ctx context.Context, link string) (bool, error)
	Get(ctx context.Context, id int64) (*models.JobPosting, error)
	Delete(ctx context.Context, id int64) error
	Close() error
}

// Options selects and configures a store backend
type Options struct {
	Driver      string // sqlite or postgres
	SQLitePath  string
	PostgresURL string
}

// Open connects to the configured backend and runs migrations
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", "sqlite", "sqlite3":
		return OpenSQLite(ctx, opts.SQLitePath)
	case "postgres", "postgresql":
		return OpenPostgres(ctx, opts.PostgresURL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}

// nullableLink maps an empty link to NULL so the unique index ignores it
func nullableLink(link string) *string {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil
	}
	return &link
}
