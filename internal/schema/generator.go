package schema

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// Generator instantiates schema templates.
type Generator struct {
	templates map[Pattern]Template
}

// NewGenerator returns a generator over the built-in templates.
func NewGenerator() *Generator {
	return &Generator{templates: templates}
}

var whitespace = regexp.MustCompile(`\s+`)

// Name derives the schema name from a use-case label.
func Name(useCase string) string {
	base := strings.ToLower(whitespace.ReplaceAllString(strings.TrimSpace(useCase), "_"))
	if base == "" {
		base = "app"
	}
	return base + "_db"
}

// TableName is the snake_case plural of an entity name.
func TableName(entity string) string {
	return inflection.Plural(snakeCase(entity))
}

func snakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func foreignKeyColumn(entity string) string {
	return snakeCase(entity) + "_id"
}

// Generate builds the schema for useCase on target. Identical input always
// yields an identical schema.
func (g *Generator) Generate(useCase string, target Target) Schema {
	pattern := DetectPattern(useCase)
	tpl, ok := g.templates[pattern]
	if !ok {
		pattern = PatternECommerce
		tpl = g.templates[pattern]
	}

	types := spellingsFor(target)
	s := Schema{
		Name:          Name(useCase),
		Pattern:       pattern,
		Relationships: []Relationship{},
		Views:         []View{},
		Functions:     []Function{},
	}

	byName := make(map[string]int, len(tpl.Entities))
	for _, entity := range tpl.Entities {
		byName[TableName(entity)] = len(s.Tables)
		s.Tables = append(s.Tables, Table{
			Name:       TableName(entity),
			Columns:    entityColumns(entity, types),
			PrimaryKey: []string{types.id},
		})
	}

	uniqueFKs := map[string]bool{}
	for i, l := range tpl.links {
		from, to := TableName(l.from), TableName(l.to)
		rel := Relationship{
			ID:         fmt.Sprintf("rel_%d", i),
			FromTable:  from,
			FromColumn: types.id,
			ToTable:    to,
			Type:       l.kind,
			Name:       l.from + "_" + l.to,
		}

		if l.kind == ManyToMany {
			junction := snakeCase(l.from) + "_" + to
			fromCol, toCol := foreignKeyColumn(l.from), foreignKeyColumn(l.to)
			rel.ToColumn = types.id
			rel.Through = junction
			byName[junction] = len(s.Tables)
			s.Tables = append(s.Tables, Table{
				Name: junction,
				Columns: []Column{
					types.reference(fromCol, l.from, from),
					types.reference(toCol, l.to, to),
					types.createdAt(),
				},
				PrimaryKey: []string{fromCol, toCol},
			})
			s.Relationships = append(s.Relationships, rel)
			continue
		}

		rel.ToColumn = foreignKeyColumn(l.from)
		s.Tables[byName[to]].addReference(types.reference(rel.ToColumn, l.from, from))
		if l.kind == OneToOne {
			uniqueFKs[to+"."+rel.ToColumn] = true
		}
		s.Relationships = append(s.Relationships, rel)
	}

	for i := range s.Tables {
		t := &s.Tables[i]
		// junction tables already carry created_at
		if len(t.PrimaryKey) == 1 {
			t.Columns = append(t.Columns, types.createdAt(), types.updatedAt())
		}
		t.Indexes = indexesFor(*t, target, uniqueFKs)
	}

	if target.Relational() {
		s.Views = viewsFor(s)
	}
	if target.IsPostgres() {
		s.Functions = functionsFor(s)
	}
	return s
}

// addReference marks an existing column as a foreign key or appends c.
func (t *Table) addReference(c Column) {
	for i := range t.Columns {
		if t.Columns[i].Name == c.Name {
			t.Columns[i].References = c.References
			return
		}
	}
	t.Columns = append(t.Columns, c)
}

func indexesFor(t Table, target Target, uniqueFKs map[string]bool) []Index {
	method := ""
	if target.IsPostgres() {
		method = "BTREE"
	}
	soloKey := ""
	if len(t.PrimaryKey) == 1 {
		soloKey = t.PrimaryKey[0]
	}

	indexes := []Index{}
	for _, c := range t.Columns {
		if c.Name == soloKey {
			continue
		}
		var unique bool
		switch {
		case c.Name == "email" || c.Name == "username" || c.Name == "sku":
			unique = true
		case strings.Contains(c.Name, "_id"):
			unique = uniqueFKs[t.Name+"."+c.Name]
		case c.Name == "status" || c.Name == "name":
		default:
			continue
		}
		indexes = append(indexes, Index{
			Name:    fmt.Sprintf("idx_%s_%s", t.Name, c.Name),
			Columns: []string{c.Name},
			Unique:  unique,
			Method:  method,
		})
	}
	return indexes
}

// spellings holds the type names of one target family.
type spellings struct {
	relational bool
	id         string
	idType     string
	varchar    string
	text       string
	boolean    string
	integer    string
	decimal    string
	timestamp  string
	now        string
}

func spellingsFor(target Target) spellings {
	if target.Relational() {
		return spellings{
			relational: true,
			id:         "id",
			idType:     "UUID",
			varchar:    "VARCHAR",
			text:       "TEXT",
			boolean:    "BOOLEAN",
			integer:    "INTEGER",
			decimal:    "DECIMAL",
			timestamp:  "TIMESTAMP",
			now:        "CURRENT_TIMESTAMP",
		}
	}
	return spellings{
		id:        "_id",
		idType:    "ObjectId",
		varchar:   "String",
		text:      "String",
		boolean:   "Boolean",
		integer:   "Number",
		decimal:   "Decimal128",
		timestamp: "Date",
		now:       "new Date()",
	}
}

func (sp spellings) primaryKey() Column {
	c := Column{Name: sp.id, Type: sp.idType, Description: "Primary key"}
	if sp.relational {
		c.Default = "gen_random_uuid()"
	} else {
		c.Description = "Document ID"
	}
	return c
}

func (sp spellings) str(name string, length int, nullable bool, desc string) Column {
	return Column{Name: name, Type: sp.varchar, Length: length, Nullable: nullable, Description: desc}
}

func (sp spellings) prose(name, desc string) Column {
	return Column{Name: name, Type: sp.text, Nullable: true, Description: desc}
}

func (sp spellings) flag(name, desc string) Column {
	return Column{Name: name, Type: sp.boolean, Default: "true", Description: desc}
}

func (sp spellings) money(name, desc string) Column {
	return Column{Name: name, Type: sp.decimal, Precision: 10, Scale: 2, Description: desc}
}

func (sp spellings) reference(name, entity, table string) Column {
	return Column{Name: name, Type: sp.idType, Description: entity + " reference", References: table}
}

func (sp spellings) createdAt() Column {
	return Column{Name: "created_at", Type: sp.timestamp, Default: sp.now, Description: "Creation timestamp"}
}

func (sp spellings) updatedAt() Column {
	return Column{Name: "updated_at", Type: sp.timestamp, Default: sp.now, Description: "Last update timestamp"}
}

func entityColumns(entity string, sp spellings) []Column {
	cols := []Column{sp.primaryKey()}
	switch strings.ToLower(entity) {
	case "user":
		cols = append(cols,
			sp.str("email", 255, false, "User email address"),
			sp.str("username", 100, true, "Username"),
			sp.str("first_name", 100, true, "First name"),
			sp.str("last_name", 100, true, "Last name"),
			sp.str("password_hash", 255, false, "Hashed password"),
			sp.flag("is_active", "Account status"),
		)
	case "product":
		cols = append(cols,
			sp.str("name", 255, false, "Product name"),
			sp.prose("description", "Product description"),
			sp.money("price", "Product price"),
			sp.str("sku", 100, false, "Stock keeping unit"),
			Column{Name: "stock_quantity", Type: sp.integer, Default: "0", Description: "Available stock"},
			sp.flag("is_active", "Product status"),
		)
	case "order":
		cols = append(cols,
			sp.str("order_number", 100, false, "Order number"),
			sp.str("status", 50, false, "Order status"),
			sp.money("total_amount", "Total amount"),
			Column{Name: "user_id", Type: sp.idType, Description: "Customer ID"},
		)
	default:
		cols = append(cols,
			sp.str("name", 255, false, entity+" name"),
			sp.prose("description", entity+" description"),
			sp.flag("is_active", "Status"),
		)
	}
	return cols
}

func viewsFor(s Schema) []View {
	views := []View{}
	if _, ok := s.Table("users"); ok {
		views = append(views, View{
			Name:        "user_summary",
			Description: "Active users with their display name",
			Query: "SELECT\n" +
				"  id,\n" +
				"  email,\n" +
				"  CONCAT(first_name, ' ', last_name) AS full_name,\n" +
				"  is_active,\n" +
				"  created_at\n" +
				"FROM users\n" +
				"WHERE is_active = true",
		})
	}
	_, products := s.Table("products")
	_, categories := s.Table("categories")
	if products && categories {
		views = append(views, View{
			Name:        "product_catalog",
			Description: "Active products with their category",
			Query: "SELECT\n" +
				"  p.id,\n" +
				"  p.name,\n" +
				"  p.description,\n" +
				"  p.price,\n" +
				"  p.stock_quantity,\n" +
				"  c.name AS category_name\n" +
				"FROM products p\n" +
				"LEFT JOIN categories c ON p.category_id = c.id\n" +
				"WHERE p.is_active = true",
		})
	}
	return views
}

func functionsFor(s Schema) []Function {
	fns := []Function{{
		Name:       "update_updated_at_column",
		Parameters: []Parameter{},
		ReturnType: "TRIGGER",
		Language:   "plpgsql",
		Body: "\nBEGIN\n" +
			"  NEW.updated_at = CURRENT_TIMESTAMP;\n" +
			"  RETURN NEW;\n" +
			"END;\n",
	}}
	if _, ok := s.Table("users"); ok {
		fns = append(fns, Function{
			Name: "create_user",
			Parameters: []Parameter{
				{Name: "p_email", Type: "VARCHAR"},
				{Name: "p_password", Type: "VARCHAR"},
				{Name: "p_first_name", Type: "VARCHAR", Default: "NULL"},
				{Name: "p_last_name", Type: "VARCHAR", Default: "NULL"},
			},
			ReturnType: "UUID",
			Language:   "plpgsql",
			Body: "\nDECLARE\n" +
				"  new_user_id UUID;\n" +
				"BEGIN\n" +
				"  INSERT INTO users (email, password_hash, first_name, last_name)\n" +
				"  VALUES (p_email, crypt(p_password, gen_salt('bf')), p_first_name, p_last_name)\n" +
				"  RETURNING id INTO new_user_id;\n" +
				"  RETURN new_user_id;\n" +
				"END;\n",
		})
	}
	return fns
}
