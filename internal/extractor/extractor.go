// Package extractor finds taxonomy skills in free text.
package extractor

import (
	"github.com/khrees2412/jobmatch/internal/taxonomy"
	"github.com/khrees2412/jobmatch/pkg/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type compiledSkill struct {
	name     string
	weight   int
	patterns []termPattern
}

// Extractor scans text for every skill of one taxonomy. Its compiled state
// is read-only, so a single Extractor may be shared between goroutines.
type Extractor struct {
	skills []compiledSkill
}

// New compiles one pattern per distinct term of every skill in tax.
func New(tax *taxonomy.Taxonomy) *Extractor {
	lower := cases.Lower(language.Und)
	e := &Extractor{}
	for _, def := range tax.Skills() {
		cs := compiledSkill{name: def.Name, weight: def.Weight}
		for _, term := range def.Terms() {
			if p, ok := compileTerm(lower.String(term)); ok {
				cs.patterns = append(cs.patterns, p)
			}
		}
		e.skills = append(e.skills, cs)
	}
	return e
}

// Extract returns one SkillMatch per skill found in text, in taxonomy
// order. Hits of every term of a skill add up into the same record.
func (e *Extractor) Extract(text string) []models.SkillMatch {
	matches := []models.SkillMatch{}
	if e == nil || text == "" {
		return matches
	}

	// Caser keeps state between calls, so each scan gets its own.
	lowered := cases.Lower(language.Und).String(text)

	for _, s := range e.skills {
		occurrences := 0
		for _, p := range s.patterns {
			occurrences += p.count(lowered)
		}
		if occurrences > 0 {
			matches = append(matches, models.SkillMatch{
				Skill:       s.name,
				Occurrences: occurrences,
				Weight:      s.weight,
			})
		}
	}
	return matches
}

// Skills returns the number of skills the extractor scans for
func (e *Extractor) Skills() int {
	if e == nil {
		return 0
	}
	return len(e.skills)
}
