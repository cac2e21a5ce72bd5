package app

import (
	"errors"

	"github.com/khrees2412/jobmatch/internal/database"
	"github.com/khrees2412/jobmatch/internal/matcher"
	"github.com/khrees2412/jobmatch/internal/resume"
)

// Sentinel errors for common application errors
var (
	ErrNotFound          = database.ErrNotFound
	ErrInvalidInput      = matcher.ErrInvalidInput
	ErrUnsupportedFormat = resume.ErrUnsupportedFormat
	ErrEmptyResume       = resume.ErrEmptyText
	ErrScrapeInProgress  = errors.New("another scrape is already running against this data directory")
)

// IsInvalidInput reports whether err was caused by bad caller input
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrEmptyResume)
}
