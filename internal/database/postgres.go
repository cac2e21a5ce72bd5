package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/khrees2412/jobmatch/pkg/models"
)

// PostgresStore keeps postings in PostgreSQL
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres establishes a connection pool and runs migrations
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("postgres url is empty")
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS job_postings (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	company_name TEXT NOT NULL,
	rating TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	skills JSONB NOT NULL DEFAULT '[]'::jsonb,
	score INTEGER NOT NULL DEFAULT 0,
	link TEXT UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_job_postings_score ON job_postings(score);
`

const postgresColumns = `id, title, company_name, rating, location, description, skills, score, link, created_at`

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, job *models.JobPosting) (int64, error) {
	id, err := s.insert(ctx, "", job)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateLink, job.Link)
		}
		return 0, fmt.Errorf("failed to append job: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) AppendIfNew(ctx context.Context, job *models.JobPosting) (int64, bool, error) {
	id, err := s.insert(ctx, "ON CONFLICT (link) DO NOTHING", job)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to append job: %w", err)
	}
	return id, true, nil
}

func (s *PostgresStore) insert(ctx context.Context, conflict string, job *models.JobPosting) (int64, error) {
	skills, err := json.Marshal(skillsOrEmpty(job.Skills))
	if err != nil {
		return 0, fmt.Errorf("failed to encode skills: %w", err)
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}

	var id int64
	err = s.pool.QueryRow(ctx,
		`INSERT INTO job_postings (title, company_name, rating, location, description, skills, score, link, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 `+conflict+`
		 RETURNING id`,
		job.Title, job.CompanyName, job.Rating, job.Location, job.Description,
		skills, job.Score, nullableLink(job.Link), job.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	job.ID = id
	return id, nil
}

func (s *PostgresStore) HasLink(ctx context.Context, link string) (bool, error) {
	l := nullableLink(link)
	if l == nil {
		return false, nil
	}
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM job_postings WHERE link = $1)`, *l,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to look up link: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (*models.JobPosting, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+postgresColumns+` FROM job_postings WHERE id = $1`, id)
	job, err := scanPostgresJob(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get job %d: %w", id, err)
	}
	return job, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]*models.JobPosting, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+postgresColumns+` FROM job_postings ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []*models.JobPosting{}
	for rows.Next() {
		job, err := scanPostgresJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM job_postings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

func scanPostgresJob(row pgx.Row) (*models.JobPosting, error) {
	job := &models.JobPosting{}
	var skills []byte
	var link *string
	err := row.Scan(&job.ID, &job.Title, &job.CompanyName, &job.Rating, &job.Location,
		&job.Description, &skills, &job.Score, &link, &job.CreatedAt)
	if err != nil {
		return nil, err
	}
	if link != nil {
		job.Link = *link
	}
	if err := json.Unmarshal(skills, &job.Skills); err != nil {
		return nil, fmt.Errorf("failed to decode skills: %w", err)
	}
	return job, nil
}
