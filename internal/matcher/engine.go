package matcher

import (
	"errors"
	"fmt"
	"strings"

	"github.com/khrees2412/jobmatch/internal/extractor"
	"github.com/khrees2412/jobmatch/internal/taxonomy"
	"github.com/khrees2412/jobmatch/pkg/models"
)

// ErrInvalidInput is returned when a match request carries no usable skills
var ErrInvalidInput = errors.New("invalid input")

// Engine binds one taxonomy and its extractor so the CLI, the HTTP API and
// the scraper all score with the same rules.
type Engine struct {
	tax       *taxonomy.Taxonomy
	extractor *extractor.Extractor
}

// NewEngine creates an engine for tax
func NewEngine(tax *taxonomy.Taxonomy) *Engine {
	return &Engine{tax: tax, extractor: extractor.New(tax)}
}

// Taxonomy returns the registry the engine scores with
func (e *Engine) Taxonomy() *taxonomy.Taxonomy {
	return e.tax
}

// Extractor returns the shared extractor
func (e *Engine) Extractor() *extractor.Extractor {
	return e.extractor
}

// ScoreText extracts skills from a job description and scores them
func (e *Engine) ScoreText(text string) ([]models.SkillMatch, int) {
	matches := e.extractor.Extract(text)
	return matches, Normalize(matches)
}

// BuildProfile extracts a résumé's skills into a profile keyed by skill
// name, each worth occurrences × weight.
func (e *Engine) BuildProfile(text string) models.CVSkillProfile {
	profile := models.CVSkillProfile{}
	for _, m := range e.extractor.Extract(text) {
		profile[m.Skill] += m.Contribution()
	}
	return profile
}

// ProfileFromSkills builds a profile from skill names or synonyms. Each
// known skill contributes its weight once; unknown names are ignored.
func (e *Engine) ProfileFromSkills(names []string) (models.CVSkillProfile, error) {
	usable := 0
	profile := models.CVSkillProfile{}
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		usable++
		def, ok := e.tax.Resolve(name)
		if !ok {
			continue
		}
		profile[def.Name] = def.Weight
	}
	if usable == 0 {
		return nil, fmt.Errorf("%w: at least one skill is required", ErrInvalidInput)
	}
	return profile, nil
}

// Recommend ranks jobs against an explicit skill list. Jobs sharing none
// of the skills are left out; a shared skill keeps a job even when its
// percentage rounds down to 0.
func (e *Engine) Recommend(names []string, jobs []*models.JobPosting) ([]models.MatchResult, error) {
	profile, err := e.ProfileFromSkills(names)
	if err != nil {
		return nil, err
	}
	return Rank(profile, jobs), nil
}

// MatchText builds a profile from résumé text and ranks jobs against it
func (e *Engine) MatchText(text string, jobs []*models.JobPosting) (models.CVSkillProfile, []models.MatchResult) {
	profile := e.BuildProfile(text)
	return profile, Rank(profile, jobs)
}
