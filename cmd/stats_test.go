package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/khrees2412/jobmatch/internal/app"
	"github.com/khrees2412/jobmatch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateStats(t *testing.T) {
	jobs := []*models.JobPosting{
		{Score: 10, Skills: []models.SkillMatch{{Skill: "SQL"}, {Skill: "Python"}}},
		{Score: 100, Skills: []models.SkillMatch{{Skill: "Python"}}},
		{Score: 45},
	}

	stats := calculateStats(jobs)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.NoSkills)
	assert.InDelta(t, 51.67, stats.AvgScore, 0.01)
	assert.Equal(t, [5]int{1, 0, 1, 0, 1}, stats.Buckets)

	require.Len(t, stats.Demand, 2)
	assert.Equal(t, skillDemand{Skill: "Python", Jobs: 2}, stats.Demand[0])
	assert.Equal(t, skillDemand{Skill: "SQL", Jobs: 1}, stats.Demand[1])
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2, 3, 4, 5}, page(items, 0, 0))
	assert.Equal(t, []int{3, 4}, page(items, 2, 2))
	assert.Equal(t, []int{5}, page(items, 4, 10))
	assert.Nil(t, page(items, 5, 2))
	assert.Equal(t, []int{1}, page(items, -3, 1))
}

func TestFlatten(t *testing.T) {
	got := flatten("", map[string]interface{}{
		"data_dir": "/tmp/x",
		"store": map[string]interface{}{
			"driver": "sqlite",
		},
	})
	assert.Equal(t, map[string]string{"data_dir": "/tmp/x", "store.driver": "sqlite"}, got)
}

func TestPendingLinksRoundTrip(t *testing.T) {
	path := t.TempDir() + "/pending.json"

	links, err := readPendingLinks(path)
	require.NoError(t, err)
	assert.Empty(t, links)

	require.NoError(t, writePendingLinks(path, []string{"https://a", "https://b"}))
	links, err = readPendingLinks(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a", "https://b"}, links)

	require.NoError(t, writePendingLinks(path, nil))
	links, err = readPendingLinks(path)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 2, exitCode(fmt.Errorf("read résumé: %w", app.ErrUnsupportedFormat)))
	assert.Equal(t, 2, exitCode(app.ErrInvalidInput))
	assert.Equal(t, 1, exitCode(errors.New("disk full")))
	assert.Equal(t, 1, exitCode(app.ErrNotFound))
}
