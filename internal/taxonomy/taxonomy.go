// Package taxonomy holds the curated skill registry that both the ingestion
// pipeline and the matching surfaces extract against.
package taxonomy

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTaxonomy is returned when a skill registry fails validation
var ErrInvalidTaxonomy = errors.New("invalid taxonomy")

// SkillDefinition describes one canonical skill, the terms that signal it,
// and how much a single mention is worth.
type SkillDefinition struct {
	Name     string   `yaml:"name" json:"name"`
	Synonyms []string `yaml:"synonyms" json:"synonyms"`
	Weight   int      `yaml:"weight" json:"weight"`
}

// Terms returns the canonical name followed by every synonym, skipping
// terms that repeat case-insensitively.
func (d SkillDefinition) Terms() []string {
	seen := make(map[string]bool, len(d.Synonyms)+1)
	terms := make([]string, 0, len(d.Synonyms)+1)
	for _, t := range append([]string{d.Name}, d.Synonyms...) {
		key := strings.ToLower(strings.TrimSpace(t))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		terms = append(terms, strings.TrimSpace(t))
	}
	return terms
}

// Taxonomy is an immutable, ordered skill registry. The zero value is an
// empty taxonomy.
type Taxonomy struct {
	defs  []SkillDefinition
	byKey map[string]int // lowercase name -> index
	terms map[string]int // lowercase name or synonym -> index
}

// New validates defs and returns a frozen taxonomy in declaration order.
func New(defs []SkillDefinition) (*Taxonomy, error) {
	t := &Taxonomy{
		defs:  make([]SkillDefinition, 0, len(defs)),
		byKey: make(map[string]int, len(defs)),
		terms: make(map[string]int),
	}

	for i, d := range defs {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: skill #%d has an empty name", ErrInvalidTaxonomy, i+1)
		}
		key := strings.ToLower(name)
		if _, dup := t.byKey[key]; dup {
			return nil, fmt.Errorf("%w: skill %q declared twice", ErrInvalidTaxonomy, name)
		}
		if d.Weight <= 0 {
			return nil, fmt.Errorf("%w: skill %q has non-positive weight %d", ErrInvalidTaxonomy, name, d.Weight)
		}

		synonyms := make([]string, 0, len(d.Synonyms))
		seen := make(map[string]bool, len(d.Synonyms))
		for _, syn := range d.Synonyms {
			s := strings.TrimSpace(syn)
			if s == "" {
				return nil, fmt.Errorf("%w: skill %q has an empty synonym", ErrInvalidTaxonomy, name)
			}
			k := strings.ToLower(s)
			if seen[k] {
				return nil, fmt.Errorf("%w: skill %q repeats synonym %q", ErrInvalidTaxonomy, name, s)
			}
			seen[k] = true
			synonyms = append(synonyms, s)
		}

		idx := len(t.defs)
		t.defs = append(t.defs, SkillDefinition{Name: name, Synonyms: synonyms, Weight: d.Weight})
		t.byKey[key] = idx
		for _, term := range t.defs[idx].Terms() {
			k := strings.ToLower(term)
			// first declaration wins when two skills share a term
			if _, taken := t.terms[k]; !taken {
				t.terms[k] = idx
			}
		}
	}

	return t, nil
}

// Len returns the number of skills
func (t *Taxonomy) Len() int {
	if t == nil {
		return 0
	}
	return len(t.defs)
}

// Skills returns a copy of every definition in declaration order.
func (t *Taxonomy) Skills() []SkillDefinition {
	if t == nil {
		return nil
	}
	out := make([]SkillDefinition, len(t.defs))
	for i, d := range t.defs {
		out[i] = copyDef(d)
	}
	return out
}

// Lookup returns a copy of the registry keyed by canonical skill name.
func (t *Taxonomy) Lookup() map[string]SkillDefinition {
	out := make(map[string]SkillDefinition, t.Len())
	if t == nil {
		return out
	}
	for _, d := range t.defs {
		out[d.Name] = copyDef(d)
	}
	return out
}

// Get finds a skill by canonical name, ignoring case.
func (t *Taxonomy) Get(name string) (SkillDefinition, bool) {
	if t == nil {
		return SkillDefinition{}, false
	}
	idx, ok := t.byKey[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return SkillDefinition{}, false
	}
	return copyDef(t.defs[idx]), true
}

// Resolve finds the skill whose canonical name or synonym equals term,
// ignoring case.
func (t *Taxonomy) Resolve(term string) (SkillDefinition, bool) {
	if t == nil {
		return SkillDefinition{}, false
	}
	idx, ok := t.terms[strings.ToLower(strings.TrimSpace(term))]
	if !ok {
		return SkillDefinition{}, false
	}
	return copyDef(t.defs[idx]), true
}

func copyDef(d SkillDefinition) SkillDefinition {
	d.Synonyms = append([]string(nil), d.Synonyms...)
	return d
}
