package cmd

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/DBAtlas/internal/catalog"
	"github.com/josephgoksu/DBAtlas/internal/entrycodec"
	"github.com/josephgoksu/DBAtlas/internal/ui"
	"github.com/josephgoksu/DBAtlas/models"
	"github.com/josephgoksu/DBAtlas/store"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:     "catalog",
	Aliases: []string{"db"},
	Short:   "Browse and maintain the database catalog",
}

var catalogListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List catalog entries",
	Example: `  dbatlas catalog list
  dbatlas catalog list --category "Time Series"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		return withCatalog(cmd.Context(), func(svc *catalog.Service, _ store.Store) error {
			var (
				dbs []models.Database
				err error
			)
			if category != "" {
				dbs, err = svc.ByCategory(cmd.Context(), category)
			} else {
				dbs, err = svc.Databases(cmd.Context())
			}
			if err != nil {
				return err
			}
			return printDatabases(cmd, dbs)
		})
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Show one catalog entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd.Context(), func(svc *catalog.Service, _ store.Store) error {
			entry, err := svc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON(cmd) {
				return printJSON(cmd, entry)
			}
			if markdown, _ := cmd.Flags().GetBool("markdown"); markdown {
				text, err := entrycodec.Encode(entry)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderEntry(entry, min(100, ui.TerminalWidth(80))))
			return nil
		})
	},
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search names, descriptions, categories, features and use cases",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		return withCatalog(cmd.Context(), func(svc *catalog.Service, _ store.Store) error {
			dbs, err := svc.Search(cmd.Context(), query)
			if err != nil {
				return err
			}
			if len(dbs) == 0 && !asJSON(cmd) {
				fmt.Fprintf(cmd.OutOrStdout(), "No databases match %q.\n", query)
				return nil
			}
			return printDatabases(cmd, dbs)
		})
	},
}

var catalogCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories with their entry counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd.Context(), func(svc *catalog.Service, _ store.Store) error {
			cats, err := svc.Categories(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON(cmd) {
				return printJSON(cmd, cats)
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.CategoryTable(cats).Render())
			return nil
		})
	},
}

var catalogHighlightsCmd = &cobra.Command{
	Use:   "highlights",
	Short: "Show the newest, most popular and recently updated entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return withCatalog(cmd.Context(), func(svc *catalog.Service, _ store.Store) error {
			h, err := svc.Highlights(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON(cmd) {
				return printJSON(cmd, h)
			}
			out := cmd.OutOrStdout()
			for _, section := range []struct {
				title string
				dbs   []models.Database
			}{
				{"Newest", h.Newest},
				{"Most popular", h.MostPopular},
				{"Recently updated", h.RecentlyUpdated},
			} {
				fmt.Fprintln(out, ui.StyleSectionTitle.Render(section.title))
				fmt.Fprintln(out, ui.DatabaseTable(section.dbs).Render())
			}
			return nil
		})
	},
}

func printDatabases(cmd *cobra.Command, dbs []models.Database) error {
	if asJSON(cmd) {
		return printJSON(cmd, dbs)
	}
	fmt.Fprint(cmd.OutOrStdout(), ui.DatabaseTable(dbs).Render())
	fmt.Fprintln(cmd.OutOrStdout(), ui.StyleSubtle.Render(fmt.Sprintf(" %d databases", len(dbs))))
	return nil
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd, catalogShowCmd, catalogSearchCmd, catalogCategoriesCmd, catalogHighlightsCmd)

	catalogCmd.PersistentFlags().Bool("json", false, "print JSON instead of a table")
	catalogShowCmd.Flags().Bool("markdown", false, "print the entry in the Markdown entry format")
	catalogListCmd.Flags().String("category", "", "only list entries in this category")
	catalogHighlightsCmd.Flags().Int("limit", catalog.DefaultLimit, "entries per list")
}
