// Package catalog holds the ordered target signs a learner practices.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Stage names.
const (
	StageLetters = "letters"
	StageWords   = "words"
)

// ErrUnknownStage is returned when a stage name is not in the catalog.
var ErrUnknownStage = errors.New("unknown stage")

//go:embed signs.yaml
var builtin []byte

// Sign describes one target sign. Only ID is used for scoring; the other
// fields are display data.
type Sign struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Image       string   `yaml:"image,omitempty" json:"image,omitempty"`
	Tips        []string `yaml:"tips" json:"tips"`
}

// Stage is an ordered group of signs.
type Stage struct {
	Name  string `yaml:"name" json:"name"`
	Signs []Sign `yaml:"signs" json:"signs"`
}

// Catalog is the full ordered set of stages.
type Catalog struct {
	Stages []Stage `yaml:"stages" json:"stages"`
}

// Load returns the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(builtin)
}

// MustLoad returns the embedded catalog and panics if it cannot be parsed.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes a YAML catalog and checks that sign IDs are present and unique.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	seen := make(map[string]bool)
	for _, st := range c.Stages {
		if st.Name == "" {
			return nil, errors.New("parse catalog: stage without name")
		}
		for _, s := range st.Signs {
			if s.ID == "" {
				return nil, fmt.Errorf("parse catalog: sign without id in stage %s", st.Name)
			}
			if seen[s.ID] {
				return nil, fmt.Errorf("parse catalog: duplicate sign %s", s.ID)
			}
			seen[s.ID] = true
		}
	}

	return &c, nil
}

// Stage returns the stage with the given name.
func (c *Catalog) Stage(name string) (*Stage, error) {
	for i := range c.Stages {
		if c.Stages[i].Name == name {
			return &c.Stages[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownStage, name)
}

// Lookup finds a sign by ID across all stages.
func (c *Catalog) Lookup(id string) (Sign, bool) {
	for _, st := range c.Stages {
		for _, s := range st.Signs {
			if s.ID == id {
				return s, true
			}
		}
	}
	return Sign{}, false
}

// IDs returns the sign identifiers of the stage in order.
func (s *Stage) IDs() []string {
	ids := make([]string, len(s.Signs))
	for i, sign := range s.Signs {
		ids[i] = sign.ID
	}
	return ids
}

// At returns the sign at position i, or false when i is out of range.
func (s *Stage) At(i int) (Sign, bool) {
	if i < 0 || i >= len(s.Signs) {
		return Sign{}, false
	}
	return s.Signs[i], true
}
