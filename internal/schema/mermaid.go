package schema

import (
	"fmt"
	"slices"
	"strings"
)

var cardinality = map[RelationshipType]string{
	OneToOne:   "||--||",
	OneToMany:  "||--o{",
	ManyToMany: "}o--o{",
}

// RenderMermaid renders s as a Mermaid entity-relationship diagram.
func RenderMermaid(s Schema) string {
	var b strings.Builder
	b.WriteString("erDiagram\n")
	for _, t := range s.Tables {
		fmt.Fprintf(&b, "    %s {\n", t.Name)
		for _, c := range t.Columns {
			fmt.Fprintf(&b, "        %s %s", c.Type, c.Name)
			var keys []string
			if slices.Contains(t.PrimaryKey, c.Name) {
				keys = append(keys, "PK")
			}
			if c.References != "" {
				keys = append(keys, "FK")
			}
			if len(keys) > 0 {
				b.WriteString(" " + strings.Join(keys, ", "))
			}
			b.WriteString("\n")
		}
		b.WriteString("    }\n")
	}
	for _, rel := range s.Relationships {
		fmt.Fprintf(&b, "    %s %s %s : %q\n", rel.FromTable, cardinality[rel.Type], rel.ToTable, rel.Name)
	}
	return b.String()
}
