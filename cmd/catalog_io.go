package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/josephgoksu/DBAtlas/internal/catalog"
	"github.com/josephgoksu/DBAtlas/internal/entrycodec"
	"github.com/josephgoksu/DBAtlas/internal/ui"
	"github.com/josephgoksu/DBAtlas/models"
	"github.com/josephgoksu/DBAtlas/store"
	"github.com/spf13/cobra"
)

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog as JSON, YAML, TOML or XLSX",
	Example: `  dbatlas catalog export --format yaml
  dbatlas catalog export --format xlsx --output catalog.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		format = strings.ToLower(format)
		if format == "" && output != "" {
			format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
		}
		if format == "" {
			format = catalog.FormatJSON
		}
		if !slices.Contains(catalog.ExportFormats, format) {
			return fmt.Errorf("%w: %s (use one of %s)", catalog.ErrUnsupportedFormat, format, strings.Join(catalog.ExportFormats, ", "))
		}
		if format == catalog.FormatXLSX && output == "" {
			return fmt.Errorf("xlsx export needs --output")
		}

		return withCatalog(cmd.Context(), func(svc *catalog.Service, _ store.Store) error {
			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}
			if err := svc.Export(cmd.Context(), w, format); err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s Exported catalog to %s\n", ui.Check(), output)
			}
			return nil
		})
	},
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import entries from a YAML list or a Markdown entry file",
	Long: `Import entries into the catalog. A .md file holds a single entry in the
Markdown entry format, including its ratings and comments. Any other file is
read as a YAML list of entries.

Existing entries are skipped unless --overwrite is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		overwrite, _ := cmd.Flags().GetBool("overwrite")
		entries, err := readEntryFile(args[0])
		if err != nil {
			return err
		}
		return withCatalog(cmd.Context(), func(svc *catalog.Service, _ store.Store) error {
			n, err := svc.Import(cmd.Context(), entries, overwrite)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Imported %d of %d entries\n", ui.Check(), n, len(entries))
			if skipped := len(entries) - n; skipped > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Skipped %d existing entries, pass --overwrite to replace them\n", ui.Cross(), skipped)
			}
			return nil
		})
	},
}

func readEntryFile(path string) ([]models.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".md") {
		entry, err := entrycodec.Decode(string(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return []models.Entry{entry}, nil
	}
	entries, err := catalog.ReadEntries(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

func init() {
	catalogCmd.AddCommand(catalogExportCmd, catalogImportCmd)
	catalogExportCmd.Flags().StringP("format", "f", "", "export format: "+strings.Join(catalog.ExportFormats, ", ")+" (default json, or the --output extension)")
	catalogExportCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")
	catalogImportCmd.Flags().Bool("overwrite", false, "replace entries that already exist")
}
