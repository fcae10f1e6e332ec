// Package schema generates starter database schemas from a use-case label:
// tables, relationships, views and functions, rendered as SQL DDL, MongoDB
// collection validators or a Mermaid ER diagram.
package schema

import (
	"strings"

	"github.com/josephgoksu/DBAtlas/models"
)

// RelationshipType is the cardinality of a relationship.
type RelationshipType string

const (
	OneToOne   RelationshipType = "ONE_TO_ONE"
	OneToMany  RelationshipType = "ONE_TO_MANY"
	ManyToMany RelationshipType = "MANY_TO_MANY"
)

// Column is one table column.
type Column struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Nullable    bool   `json:"nullable"`
	Default     string `json:"defaultValue,omitempty"`
	Description string `json:"description,omitempty"`
	Length      int    `json:"length,omitempty"`
	Precision   int    `json:"precision,omitempty"`
	Scale       int    `json:"scale,omitempty"`
	// References names the table a foreign key column points at.
	References string `json:"references,omitempty"`
}

// Index is a single- or multi-column index.
type Index struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Unique  bool     `json:"unique"`
	Method  string   `json:"method,omitempty"`
}

// Table is one table or collection.
type Table struct {
	Name       string   `json:"name"`
	Columns    []Column `json:"columns"`
	PrimaryKey []string `json:"primaryKey"`
	Indexes    []Index  `json:"indexes"`
}

// Column returns the column called name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Relationship links two tables. For one-to-one and one-to-many links the
// foreign key ToColumn lives on ToTable and references FromTable.FromColumn.
// Many-to-many links go through the junction table Through.
type Relationship struct {
	ID         string           `json:"id"`
	FromTable  string           `json:"fromTable"`
	FromColumn string           `json:"fromColumn"`
	ToTable    string           `json:"toTable"`
	ToColumn   string           `json:"toColumn"`
	Type       RelationshipType `json:"type"`
	Name       string           `json:"name"`
	Through    string           `json:"through,omitempty"`
}

// View is a named query.
type View struct {
	Name        string `json:"name"`
	Query       string `json:"query"`
	Description string `json:"description,omitempty"`
}

// Parameter is a function parameter.
type Parameter struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Default string `json:"defaultValue,omitempty"`
}

// Function is a stored function.
type Function struct {
	Name       string      `json:"name"`
	Parameters []Parameter `json:"parameters"`
	ReturnType string      `json:"returnType"`
	Language   string      `json:"language"`
	Body       string      `json:"body"`
}

// Schema is a generated database design.
type Schema struct {
	Name          string         `json:"name"`
	Pattern       Pattern        `json:"pattern"`
	Tables        []Table        `json:"tables"`
	Relationships []Relationship `json:"relationships"`
	Views         []View         `json:"views"`
	Functions     []Function     `json:"functions"`
}

// Table returns the table called name.
func (s Schema) Table(name string) (Table, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// Target is the database a schema is generated for.
type Target struct {
	Name string              `json:"name"`
	Type models.DatabaseType `json:"type"`
}

// Relational reports whether the target uses SQL type spellings.
func (t Target) Relational() bool {
	return t.Type.Relational()
}

// IsPostgres reports whether the target is PostgreSQL, which gets BTREE
// index hints and helper functions.
func (t Target) IsPostgres() bool {
	return strings.EqualFold(t.Name, "PostgreSQL")
}

// TargetFor returns the Target describing db.
func TargetFor(db models.Database) Target {
	return Target{Name: db.Name, Type: db.Type}
}

// DefaultTarget is used when no database is named.
var DefaultTarget = Target{Name: "PostgreSQL", Type: models.TypeSQL}

// ParseTarget builds a Target from a database name and type. An empty name
// falls back to DefaultTarget's; an empty type is SQL.
func ParseTarget(name, dbType string) (Target, error) {
	t := DefaultTarget
	if strings.TrimSpace(name) != "" {
		t.Name = strings.TrimSpace(name)
	}
	if strings.TrimSpace(dbType) != "" {
		parsed, err := models.ParseDatabaseType(dbType)
		if err != nil {
			return Target{}, err
		}
		t.Type = parsed
	}
	return t, nil
}
