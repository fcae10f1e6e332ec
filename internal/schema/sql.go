package schema

import (
	"fmt"
	"strings"

	"github.com/jinzhu/inflection"
)

// RenderSQL renders s as a DDL script for target. The script carries no
// timestamp so identical input yields byte-identical text.
func RenderSQL(s Schema, target Target) string {
	var b strings.Builder
	fmt.Fprintf(&b, "-- Database Schema for %s\n", s.Name)
	fmt.Fprintf(&b, "-- Generated for %s\n\n", target.Name)

	for _, t := range s.Tables {
		b.WriteString(createTable(t))
		b.WriteString("\n\n")
	}

	for _, t := range s.Tables {
		for _, idx := range t.Indexes {
			b.WriteString(createIndex(t.Name, idx))
			b.WriteString("\n")
		}
	}

	for _, rel := range s.Relationships {
		for _, stmt := range foreignKeys(rel) {
			b.WriteString(stmt)
			b.WriteString("\n")
		}
	}

	for _, v := range s.Views {
		fmt.Fprintf(&b, "CREATE VIEW %s AS\n%s;\n\n", v.Name, v.Query)
	}

	for _, fn := range s.Functions {
		b.WriteString(createFunction(fn))
		b.WriteString("\n\n")
	}
	return b.String()
}

func createTable(t Table) string {
	lines := make([]string, 0, len(t.Columns)+1)
	for _, c := range t.Columns {
		lines = append(lines, "  "+columnDefinition(c))
	}
	if len(t.PrimaryKey) > 0 {
		lines = append(lines, fmt.Sprintf("  PRIMARY KEY (%s)", strings.Join(t.PrimaryKey, ", ")))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n%s\n);", t.Name, strings.Join(lines, ",\n"))
	for _, c := range t.Columns {
		if c.Description != "" {
			fmt.Fprintf(&b, "\nCOMMENT ON COLUMN %s.%s IS '%s';", t.Name, c.Name, quote(c.Description))
		}
	}
	return b.String()
}

func columnDefinition(c Column) string {
	def := c.Name + " " + c.Type
	switch {
	case c.Length > 0:
		def += fmt.Sprintf("(%d)", c.Length)
	case c.Precision > 0 && c.Scale > 0:
		def += fmt.Sprintf("(%d, %d)", c.Precision, c.Scale)
	}
	if !c.Nullable {
		def += " NOT NULL"
	}
	if c.Default != "" {
		def += " DEFAULT " + c.Default
	}
	return def
}

func createIndex(table string, idx Index) string {
	unique := ""
	if idx.Unique {
		unique = "UNIQUE "
	}
	method := ""
	if idx.Method != "" {
		method = " USING " + idx.Method
	}
	return fmt.Sprintf("CREATE %sINDEX %s ON %s%s (%s);", unique, idx.Name, table, method, strings.Join(idx.Columns, ", "))
}

func foreignKeys(rel Relationship) []string {
	if rel.Type == ManyToMany {
		fromCol := inflection.Singular(rel.FromTable) + "_id"
		toCol := inflection.Singular(rel.ToTable) + "_id"
		return []string{
			addForeignKey(rel.Through, rel.FromTable, fromCol, rel.FromColumn),
			addForeignKey(rel.Through, rel.ToTable, toCol, rel.ToColumn),
		}
	}
	return []string{addForeignKey(rel.ToTable, rel.FromTable, rel.ToColumn, rel.FromColumn)}
}

func addForeignKey(table, refTable, column, refColumn string) string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT fk_%s_%s FOREIGN KEY (%s) REFERENCES %s(%s);",
		table, table, refTable, column, refTable, refColumn)
}

func createFunction(fn Function) string {
	params := make([]string, len(fn.Parameters))
	for i, p := range fn.Parameters {
		params[i] = p.Name + " " + p.Type
		if p.Default != "" {
			params[i] += " DEFAULT " + p.Default
		}
	}
	return fmt.Sprintf("CREATE OR REPLACE FUNCTION %s(%s)\nRETURNS %s\nLANGUAGE %s\nAS $$%s$$;",
		fn.Name, strings.Join(params, ", "), fn.ReturnType, fn.Language, fn.Body)
}

func quote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
