package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

var bsonTypes = map[string]string{
	"VARCHAR":    "string",
	"TEXT":       "string",
	"UUID":       "string",
	"String":     "string",
	"INTEGER":    "int",
	"Number":     "int",
	"DECIMAL":    "decimal",
	"Decimal128": "decimal",
	"BOOLEAN":    "bool",
	"Boolean":    "bool",
	"TIMESTAMP":  "date",
	"Date":       "date",
	"ObjectId":   "objectId",
}

func bsonType(columnType string) string {
	if t, ok := bsonTypes[columnType]; ok {
		return t
	}
	return "string"
}

// DocumentValidators builds one MongoDB collection definition per table:
// a $jsonSchema validator plus the table's indexes.
func DocumentValidators(s Schema) bson.D {
	collections := bson.D{}
	for _, t := range s.Tables {
		required := bson.A{}
		properties := bson.D{}
		for _, c := range t.Columns {
			if !c.Nullable {
				required = append(required, c.Name)
			}
			properties = append(properties, bson.E{Key: c.Name, Value: bson.D{
				{Key: "bsonType", Value: bsonType(c.Type)},
				{Key: "description", Value: c.Description},
			}})
		}

		indexes := bson.A{}
		for _, idx := range t.Indexes {
			keys := bson.D{}
			for _, col := range idx.Columns {
				keys = append(keys, bson.E{Key: col, Value: 1})
			}
			indexes = append(indexes, bson.D{
				{Key: "key", Value: keys},
				{Key: "unique", Value: idx.Unique},
				{Key: "name", Value: idx.Name},
			})
		}

		collections = append(collections, bson.E{Key: t.Name, Value: bson.D{
			{Key: "validator", Value: bson.D{
				{Key: "$jsonSchema", Value: bson.D{
					{Key: "bsonType", Value: "object"},
					{Key: "required", Value: required},
					{Key: "properties", Value: properties},
				}},
			}},
			{Key: "indexes", Value: indexes},
		}})
	}
	return collections
}

// RenderDocumentValidators renders DocumentValidators(s) as indented
// relaxed Extended JSON.
func RenderDocumentValidators(s Schema) (string, error) {
	raw, err := bson.MarshalExtJSON(DocumentValidators(s), false, false)
	if err != nil {
		return "", fmt.Errorf("marshal validators: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return "", fmt.Errorf("indent validators: %w", err)
	}
	return out.String(), nil
}
