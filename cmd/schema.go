package cmd

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/josephgoksu/DBAtlas/internal/catalog"
	"github.com/josephgoksu/DBAtlas/internal/schema"
	"github.com/josephgoksu/DBAtlas/internal/server"
	"github.com/josephgoksu/DBAtlas/internal/ui"
	"github.com/josephgoksu/DBAtlas/store"
	"github.com/spf13/cobra"
)

// Schema output formats.
const (
	schemaFormatSQL        = "sql"
	schemaFormatJSON       = "json"
	schemaFormatMermaid    = "mermaid"
	schemaFormatValidators = "validators"
)

var schemaFormats = []string{schemaFormatSQL, schemaFormatJSON, schemaFormatMermaid, schemaFormatValidators}

var schemaCmd = &cobra.Command{
	Use:   "schema <use case>",
	Short: "Generate a starter schema from a use-case description",
	Long: `Generate tables, relationships, indexes, views and functions for a use
case such as "online store", "blog" or "CRM". The column types follow the
target database: pick it from the catalog with --database, or name it with
--database-name and --type. PostgreSQL is the default.`,
	Example: `  dbatlas schema "online store with customers and orders"
  dbatlas schema "blog platform" --database mongodb --format validators
  dbatlas schema "crm" --database-name MySQL --format mermaid --output crm.mmd`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		useCase := strings.Join(args, " ")
		slug, _ := cmd.Flags().GetString("database")
		name, _ := cmd.Flags().GetString("database-name")
		dbType, _ := cmd.Flags().GetString("type")
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		format = strings.ToLower(format)
		if !slices.Contains(schemaFormats, format) {
			return fmt.Errorf("unknown format %q, use one of %s", format, strings.Join(schemaFormats, ", "))
		}

		var target schema.Target
		if slug != "" {
			err := withCatalog(cmd.Context(), func(svc *catalog.Service, _ store.Store) error {
				entry, err := svc.Get(cmd.Context(), slug)
				if err != nil {
					return err
				}
				target = schema.TargetFor(entry.Database)
				return nil
			})
			if err != nil {
				return err
			}
		} else {
			var err error
			if target, err = schema.ParseTarget(name, dbType); err != nil {
				return err
			}
		}

		generated := schema.NewGenerator().Generate(useCase, target)
		text, err := renderSchema(generated, target, useCase, format)
		if err != nil {
			return err
		}

		if output == "" {
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		}
		if err := os.WriteFile(output, []byte(text), 0644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s schema for %s (%d tables) written to %s\n",
			ui.Check(), generated.Pattern, target.Name, len(generated.Tables), output)
		return nil
	},
}

func renderSchema(s schema.Schema, target schema.Target, useCase, format string) (string, error) {
	switch format {
	case schemaFormatMermaid:
		return schema.RenderMermaid(s), nil
	case schemaFormatValidators:
		return schema.RenderDocumentValidators(s)
	case schemaFormatJSON:
		resp := server.SchemaResponse{
			Target:   target,
			Schema:   s,
			SQL:      schema.RenderSQL(s, target),
			Mermaid:  schema.RenderMermaid(s),
			Analysis: schema.Analyze(useCase),
		}
		if !target.Relational() {
			validators, err := schema.RenderDocumentValidators(s)
			if err != nil {
				return "", err
			}
			resp.Validators = validators
		}
		var sb strings.Builder
		if err := encodeIndented(&sb, resp); err != nil {
			return "", err
		}
		return sb.String(), nil
	default:
		return schema.RenderSQL(s, target), nil
	}
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().StringP("database", "d", "", "catalog slug of the target database")
	schemaCmd.Flags().String("database-name", "", "target database name when not using --database")
	schemaCmd.Flags().String("type", "", "target database type when not using --database")
	schemaCmd.Flags().StringP("format", "f", schemaFormatSQL, "output format: "+strings.Join(schemaFormats, ", "))
	schemaCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")
}
