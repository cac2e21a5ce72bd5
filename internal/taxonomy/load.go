package taxonomy

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default_taxonomy.yaml
var defaultTaxonomyYAML []byte

type document struct {
	Skills []SkillDefinition `yaml:"skills"`
}

// Parse decodes a YAML skill registry and validates it.
func Parse(data []byte) (*Taxonomy, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode yaml: %v", ErrInvalidTaxonomy, err)
	}
	if len(doc.Skills) == 0 {
		return nil, fmt.Errorf("%w: no skills declared", ErrInvalidTaxonomy)
	}
	return New(doc.Skills)
}

// LoadFile reads and validates a YAML skill registry from disk.
func LoadFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy file: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}

// Default returns the built-in registry. It panics only if the embedded
// document is broken, which the package tests guard against.
func Default() *Taxonomy {
	t, err := Parse(defaultTaxonomyYAML)
	if err != nil {
		panic(fmt.Sprintf("taxonomy: embedded default is invalid: %v", err))
	}
	return t
}
