package consultant

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/josephgoksu/DBAtlas/models"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// Condition selects databases. Every non-empty field must hold; a list
// field holds when any of its values matches. The zero Condition matches
// every database.
type Condition struct {
	Types         []models.DatabaseType `yaml:"types,omitempty"`
	Categories    []string              `yaml:"categories,omitempty"`
	Licenses      []models.License      `yaml:"licenses,omitempty"`
	AnyFeature    []string              `yaml:"anyFeature,omitempty"`
	CloudOffering *bool                 `yaml:"cloudOffering,omitempty"`
}

// Matches reports whether db satisfies c.
func (c Condition) Matches(db models.Database) bool {
	if len(c.Types) > 0 && !slices.Contains(c.Types, db.Type) {
		return false
	}
	if len(c.Categories) > 0 && !slices.Contains(c.Categories, db.Category) {
		return false
	}
	if len(c.Licenses) > 0 && !slices.Contains(c.Licenses, db.License) {
		return false
	}
	if len(c.AnyFeature) > 0 && !slices.ContainsFunc(c.AnyFeature, db.HasFeature) {
		return false
	}
	if c.CloudOffering != nil && *c.CloudOffering != db.CloudOffering {
		return false
	}
	return true
}

// Branch awards points and phrases when its condition matches.
type Branch struct {
	When    Condition `yaml:"when,omitempty"`
	Points  int       `yaml:"points" validate:"min=0"`
	Reason  string    `yaml:"reason,omitempty"`
	Warning string    `yaml:"warning,omitempty"`
	UseCase string    `yaml:"useCase,omitempty"`
}

// Clause is an if/else-if chain: the first matching branch applies.
type Clause struct {
	OneOf []Branch `yaml:"oneOf" validate:"required,min=1,dive"`
}

func (c Clause) apply(db models.Database, rec *Recommendation) {
	for _, b := range c.OneOf {
		if !b.When.Matches(db) {
			continue
		}
		rec.Score += b.Points
		if b.Reason != "" {
			rec.Reasons = append(rec.Reasons, b.Reason)
		}
		if b.Warning != "" {
			rec.Warnings = append(rec.Warnings, b.Warning)
		}
		if b.UseCase != "" && rec.UseCaseMatch == "" {
			rec.UseCaseMatch = b.UseCase
		}
		return
	}
}

// RuleSet holds the clauses of every scoring dimension keyed by the
// requirement value they apply to.
type RuleSet struct {
	ProjectType map[ProjectType][]Clause     `yaml:"projectType"`
	Load        map[Load][]Clause            `yaml:"load"`
	Budget      map[Budget][]Clause          `yaml:"budget"`
	Team        map[TeamSize][]Clause        `yaml:"team"`
	Performance map[PerformanceNeed][]Clause `yaml:"performance"`
}

// DefaultRules returns the built-in rule set.
func DefaultRules() *RuleSet {
	rs, err := ParseRules(bytes.NewReader(defaultRulesYAML))
	if err != nil {
		panic(fmt.Sprintf("consultant: built-in rules are invalid: %v", err))
	}
	return rs
}

// LoadRules reads a rule set from path. An empty path yields DefaultRules.
func LoadRules(path string) (*RuleSet, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules file: %w", err)
	}
	defer f.Close()
	rs, err := ParseRules(f)
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	return rs, nil
}

// ParseRules decodes and validates a YAML rule set. Unknown keys and
// requirement values, negative points and empty clauses are rejected.
func ParseRules(r io.Reader) (*RuleSet, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var rs RuleSet
	if err := dec.Decode(&rs); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	if err := rs.validate(); err != nil {
		return nil, err
	}
	return &rs, nil
}

func (rs *RuleSet) validate() error {
	if err := validateDimension("projectType", rs.ProjectType, ProjectTypes); err != nil {
		return err
	}
	if err := validateDimension("load", rs.Load, Loads); err != nil {
		return err
	}
	if err := validateDimension("budget", rs.Budget, Budgets); err != nil {
		return err
	}
	if err := validateDimension("team", rs.Team, TeamSizes); err != nil {
		return err
	}
	return validateDimension("performance", rs.Performance, PerformanceNeeds)
}

func validateDimension[K ~string](name string, clauses map[K][]Clause, known []K) error {
	for key, list := range clauses {
		if !slices.Contains(known, key) {
			return fmt.Errorf("%s: unknown value %q", name, key)
		}
		for i, c := range list {
			if err := models.ValidateStruct(c); err != nil {
				return fmt.Errorf("%s/%s clause %d: %w", name, key, i, err)
			}
			for _, b := range c.OneOf {
				for _, t := range b.When.Types {
					if !t.Valid() {
						return fmt.Errorf("%s/%s clause %d: %w: %q", name, key, i, models.ErrInvalidType, t)
					}
				}
				for _, l := range b.When.Licenses {
					if !l.Valid() {
						return fmt.Errorf("%s/%s clause %d: %w: %q", name, key, i, models.ErrInvalidLicense, l)
					}
				}
			}
		}
	}
	return nil
}
