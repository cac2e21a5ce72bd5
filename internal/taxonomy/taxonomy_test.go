package taxonomy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTaxonomyLoads(t *testing.T) {
	tax := Default()
	require.NotNil(t, tax)
	assert.Greater(t, tax.Len(), 40)

	cpp, ok := tax.Get("c++")
	require.True(t, ok)
	assert.Equal(t, "C++", cpp.Name)
	assert.Equal(t, 3, cpp.Weight)
	assert.Contains(t, cpp.Synonyms, "cpp")
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		defs []SkillDefinition
	}{
		{
			name: "empty name",
			defs: []SkillDefinition{{Name: "  ", Synonyms: []string{"go"}, Weight: 1}},
		},
		{
			name: "duplicate name",
			defs: []SkillDefinition{
				{Name: "Go", Synonyms: []string{"golang"}, Weight: 1},
				{Name: "go", Synonyms: []string{"go lang"}, Weight: 1},
			},
		},
		{
			name: "zero weight",
			defs: []SkillDefinition{{Name: "Go", Synonyms: []string{"golang"}, Weight: 0}},
		},
		{
			name: "empty synonym",
			defs: []SkillDefinition{{Name: "Go", Synonyms: []string{"golang", " "}, Weight: 2}},
		},
		{
			name: "duplicate synonym ignoring case",
			defs: []SkillDefinition{{Name: "Go", Synonyms: []string{"golang", "GoLang"}, Weight: 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.defs)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTaxonomy), "expected ErrInvalidTaxonomy, got %v", err)
		})
	}
}

func TestTermsDeduplicatesCanonicalName(t *testing.T) {
	d := SkillDefinition{Name: "Python", Synonyms: []string{"python", "py3"}, Weight: 5}
	assert.Equal(t, []string{"Python", "py3"}, d.Terms())
}

func TestResolve(t *testing.T) {
	tax, err := New([]SkillDefinition{
		{Name: "Kubernetes", Synonyms: []string{"kubernetes", "k8s"}, Weight: 4},
		{Name: "Go", Synonyms: []string{"golang"}, Weight: 3},
	})
	require.NoError(t, err)

	def, ok := tax.Resolve("K8S")
	require.True(t, ok)
	assert.Equal(t, "Kubernetes", def.Name)

	def, ok = tax.Resolve(" go ")
	require.True(t, ok)
	assert.Equal(t, "Go", def.Name)

	_, ok = tax.Resolve("rust")
	assert.False(t, ok)
}

func TestLookupReturnsCopy(t *testing.T) {
	tax, err := New([]SkillDefinition{{Name: "SQL", Synonyms: []string{"sql"}, Weight: 4}})
	require.NoError(t, err)

	m := tax.Lookup()
	def := m["SQL"]
	def.Synonyms[0] = "mutated"
	delete(m, "SQL")

	again, ok := tax.Get("SQL")
	require.True(t, ok)
	assert.Equal(t, []string{"sql"}, again.Synonyms)
	assert.Len(t, tax.Lookup(), 1)
}

func TestSkillsKeepsDeclarationOrder(t *testing.T) {
	tax, err := New([]SkillDefinition{
		{Name: "Zeta", Synonyms: []string{"zeta"}, Weight: 1},
		{Name: "Alpha", Synonyms: []string{"alpha"}, Weight: 1},
	})
	require.NoError(t, err)

	skills := tax.Skills()
	require.Len(t, skills, 2)
	assert.Equal(t, "Zeta", skills[0].Name)
	assert.Equal(t, "Alpha", skills[1].Name)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skills.yaml")
	content := `skills:
  - name: Go
    weight: 5
    synonyms: [golang, go]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	tax, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, tax.Len())

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestParseRejectsEmptyDocument(t *testing.T) {
	_, err := Parse([]byte("skills: []\n"))
	assert.ErrorIs(t, err, ErrInvalidTaxonomy)
}
