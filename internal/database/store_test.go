package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/khrees2412/jobmatch/pkg/models"
)

// createTestStore opens a SQLite store in a temporary directory
func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := OpenSQLite(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newPosting(link string) *models.JobPosting {
	return &models.JobPosting{
		Title:       "Data Engineer",
		CompanyName: "Acme Inc",
		Rating:      "4.2",
		Location:    "Paris",
		Description: "Python and SQL",
		Skills: []models.SkillMatch{
			{Skill: "Python", Occurrences: 1, Weight: 5},
			{Skill: "SQL", Occurrences: 1, Weight: 4},
		},
		Score: 9,
		Link:  link,
	}
}

// runStoreSuite exercises the Store contract against any backend
func runStoreSuite(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("append and get", func(t *testing.T) {
		job := newPosting("https://example.com/partner/jobListing?id=1")
		id, err := s.Append(ctx, job)
		if err != nil {
			t.Fatalf("failed to append job: %v", err)
		}
		if id == 0 || job.ID != id {
			t.Fatalf("job ID not set after append: id=%d job.ID=%d", id, job.ID)
		}

		got, err := s.Get(ctx, id)
		if err != nil {
			t.Fatalf("failed to get job: %v", err)
		}
		if got.Title != job.Title || got.CompanyName != job.CompanyName || got.Link != job.Link {
			t.Errorf("unexpected job: %+v", got)
		}
		if len(got.Skills) != 2 || got.Skills[0].Skill != "Python" || got.Skills[1].Occurrences != 1 {
			t.Errorf("skills not round-tripped: %+v", got.Skills)
		}
		if got.Score != 9 {
			t.Errorf("expected score 9, got %d", got.Score)
		}
		if got.CreatedAt.IsZero() {
			t.Error("created_at not set")
		}
	})

	t.Run("duplicate link", func(t *testing.T) {
		link := "https://example.com/partner/jobListing?id=2"
		if _, err := s.Append(ctx, newPosting(link)); err != nil {
			t.Fatalf("failed to append job: %v", err)
		}
		_, err := s.Append(ctx, newPosting(link))
		if !errors.Is(err, ErrDuplicateLink) {
			t.Fatalf("expected ErrDuplicateLink, got %v", err)
		}

		_, inserted, err := s.AppendIfNew(ctx, newPosting(link))
		if err != nil {
			t.Fatalf("AppendIfNew failed: %v", err)
		}
		if inserted {
			t.Error("AppendIfNew inserted a known link")
		}

		known, err := s.HasLink(ctx, link)
		if err != nil || !known {
			t.Errorf("HasLink(%q) = %v, %v", link, known, err)
		}
	})

	t.Run("append if new inserts unknown link", func(t *testing.T) {
		id, inserted, err := s.AppendIfNew(ctx, newPosting("https://example.com/partner/jobListing?id=3"))
		if err != nil {
			t.Fatalf("AppendIfNew failed: %v", err)
		}
		if !inserted || id == 0 {
			t.Errorf("expected insert, got id=%d inserted=%v", id, inserted)
		}
	})

	t.Run("empty links never collide", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			if _, err := s.Append(ctx, newPosting("")); err != nil {
				t.Fatalf("append without link #%d failed: %v", i, err)
			}
		}
		known, err := s.HasLink(ctx, "")
		if err != nil || known {
			t.Errorf("HasLink(\"\") = %v, %v", known, err)
		}
	})

	t.Run("list all in insertion order", func(t *testing.T) {
		jobs, err := s.ListAll(ctx)
		if err != nil {
			t.Fatalf("failed to list jobs: %v", err)
		}
		if len(jobs) != 5 {
			t.Fatalf("expected 5 jobs, got %d", len(jobs))
		}
		for i := 1; i < len(jobs); i++ {
			if jobs[i-1].ID >= jobs[i].ID {
				t.Errorf("jobs out of order: %d before %d", jobs[i-1].ID, jobs[i].ID)
			}
		}
	})

	t.Run("delete", func(t *testing.T) {
		jobs, err := s.ListAll(ctx)
		if err != nil {
			t.Fatalf("failed to list jobs: %v", err)
		}
		id := jobs[0].ID
		if err := s.Delete(ctx, id); err != nil {
			t.Fatalf("failed to delete job: %v", err)
		}
		if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
		if err := s.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound deleting twice, got %v", err)
		}
	})
}

func TestSQLiteStore(t *testing.T) {
	runStoreSuite(t, createTestStore(t))
}

func TestSQLiteStoreReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nested", "jobs.db")

	s, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if _, err := s.Append(ctx, newPosting("https://example.com/a")); err != nil {
		t.Fatalf("failed to append job: %v", err)
	}
	s.Close()

	// migrations must be idempotent
	s, err = OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("failed to reopen db: %v", err)
	}
	defer s.Close()

	jobs, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("failed to list jobs: %v", err)
	}
	if len(jobs) != 1 {
		t.Errorf("expected 1 job after reopen, got %d", len(jobs))
	}
}

func TestGetMissing(t *testing.T) {
	s := createTestStore(t)
	if _, err := s.Get(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListAllEmpty(t *testing.T) {
	s := createTestStore(t)
	jobs, err := s.ListAll(context.Background())
	if err != nil {
		t.Fatalf("failed to list jobs: %v", err)
	}
	if jobs == nil || len(jobs) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", jobs)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "mongo"})
	if !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("expected ErrUnknownDriver, got %v", err)
	}
}

func TestOpenDefaultsToSQLite(t *testing.T) {
	s, err := Open(context.Background(), Options{SQLitePath: filepath.Join(t.TempDir(), "jobs.db")})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()
	if _, ok := s.(*SQLiteStore); !ok {
		t.Errorf("expected *SQLiteStore, got %T", s)
	}
}
