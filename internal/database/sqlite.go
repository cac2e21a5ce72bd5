package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/khrees2412/jobmatch/pkg/models"
	"github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps postings in a local SQLite file
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates the database file if needed and runs migrations
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single writer avoids SQLITE_BUSY under the HTTP server
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// runMigrations creates all necessary tables
func runMigrations(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS job_postings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		company_name TEXT NOT NULL,
		rating TEXT,
		location TEXT,
		description TEXT,
		skills TEXT NOT NULL DEFAULT '[]',
		score INTEGER NOT NULL DEFAULT 0,
		link TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_job_postings_link ON job_postings(link);
	CREATE INDEX IF NOT EXISTS idx_job_postings_score ON job_postings(score);
	`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const sqliteColumns = `id, title, company_name, rating, location, description, skills, score, link, created_at`

func (s *SQLiteStore) Append(ctx context.Context, job *models.JobPosting) (int64, error) {
	id, err := s.insert(ctx, `INSERT INTO job_postings`, job)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateLink, job.Link)
		}
		return 0, fmt.Errorf("failed to append job: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) AppendIfNew(ctx context.Context, job *models.JobPosting) (int64, bool, error) {
	id, err := s.insert(ctx, `INSERT OR IGNORE INTO job_postings`, job)
	if err != nil {
		return 0, false, fmt.Errorf("failed to append job: %w", err)
	}
	return id, id != 0, nil
}

// insert writes job with the given statement prefix and returns the new
// id, or 0 when the row was ignored.
func (s *SQLiteStore) insert(ctx context.Context, prefix string, job *models.JobPosting) (int64, error) {
	skills, err := json.Marshal(skillsOrEmpty(job.Skills))
	if err != nil {
		return 0, fmt.Errorf("failed to encode skills: %w", err)
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}

	query := prefix + ` (title, company_name, rating, location, description, skills, score, link, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := s.db.ExecContext(ctx, query, job.Title, job.CompanyName, job.Rating, job.Location,
		job.Description, string(skills), job.Score, nullableLink(job.Link), job.CreatedAt)
	if err != nil {
		return 0, err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return 0, nil
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	job.ID = id
	return id, nil
}

func (s *SQLiteStore) HasLink(ctx context.Context, link string) (bool, error) {
	l := nullableLink(link)
	if l == nil {
		return false, nil
	}
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM job_postings WHERE link=?`, *l).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to look up link: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (*models.JobPosting, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqliteColumns+` FROM job_postings WHERE id=?`, id)
	job, err := scanSQLiteJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job %d: %w", id, err)
	}
	return job, nil
}

func (s *SQLiteStore) ListAll(ctx context.Context) ([]*models.JobPosting, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sqliteColumns+` FROM job_postings ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []*models.JobPosting{}
	for rows.Next() {
		job, err := scanSQLiteJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM job_postings WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job %d: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteJob(row rowScanner) (*models.JobPosting, error) {
	job := &models.JobPosting{}
	var rating, location, description, link sql.NullString
	var skills string
	err := row.Scan(&job.ID, &job.Title, &job.CompanyName, &rating, &location, &description,
		&skills, &job.Score, &link, &job.CreatedAt)
	if err != nil {
		return nil, err
	}
	job.Rating = rating.String
	job.Location = location.String
	job.Description = description.String
	job.Link = link.String
	if err := json.Unmarshal([]byte(skills), &job.Skills); err != nil {
		return nil, fmt.Errorf("failed to decode skills: %w", err)
	}
	return job, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

func skillsOrEmpty(skills []models.SkillMatch) []models.SkillMatch {
	if skills == nil {
		return []models.SkillMatch{}
	}
	return skills
}
