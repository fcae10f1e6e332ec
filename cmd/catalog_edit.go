package cmd

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/DBAtlas/internal/catalog"
	"github.com/josephgoksu/DBAtlas/internal/ui"
	"github.com/josephgoksu/DBAtlas/models"
	"github.com/josephgoksu/DBAtlas/store"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var catalogAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a database to the catalog",
	Long: `Add a database to the catalog. Missing required fields are prompted for
when running in a terminal.`,
	Example: `  dbatlas catalog add --name DuckDB --category Analytics --type SQL --license "Open Source"
  dbatlas catalog add --name Qdrant --type Vector --features "HNSW,Filtering"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var db models.Database
		if err := applyDatabaseFlags(cmd.Flags(), &db); err != nil {
			return err
		}
		if err := promptMissing(&db); err != nil {
			return err
		}
		return withCatalog(cmd.Context(), func(svc *catalog.Service, _ store.Store) error {
			entry, err := svc.Add(cmd.Context(), db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Added %s (%s)\n", ui.Check(), entry.Name, entry.Slug)
			return nil
		})
	},
}

var catalogEditCmd = &cobra.Command{
	Use:   "edit <slug>",
	Short: "Change fields of a catalog entry",
	Long: `Change fields of a catalog entry. Only the flags you pass are changed;
ratings and comments are kept.`,
	Example: `  dbatlas catalog edit duckdb --popularity 70 --pros "Fast,Embeddable"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd.Context(), func(svc *catalog.Service, _ store.Store) error {
			entry, err := svc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			db := entry.Database
			if err := applyDatabaseFlags(cmd.Flags(), &db); err != nil {
				return err
			}
			if _, err := svc.Update(cmd.Context(), args[0], db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Updated %s\n", ui.Check(), args[0])
			return nil
		})
	},
}

var catalogDeleteCmd = &cobra.Command{
	Use:     "delete <slug>",
	Aliases: []string{"rm"},
	Short:   "Remove an entry with its ratings and comments",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			if !ui.IsInteractive() {
				return fmt.Errorf("refusing to delete %s without --yes", args[0])
			}
			prompt := promptui.Prompt{
				Label:     fmt.Sprintf("Delete %s and all its ratings and comments", args[0]),
				IsConfirm: true,
			}
			if _, err := prompt.Run(); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing deleted.")
				return nil
			}
		}
		return withCatalog(cmd.Context(), func(svc *catalog.Service, _ store.Store) error {
			if err := svc.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted %s\n", ui.Check(), args[0])
			return nil
		})
	},
}

// addDatabaseFlags registers the record fields add and edit accept.
func addDatabaseFlags(fs *pflag.FlagSet) {
	fs.String("name", "", "display name")
	fs.String("description", "", "long description")
	fs.String("short-description", "", "one line description")
	fs.String("tagline", "", "tagline")
	fs.String("category", "", "category, e.g. Relational")
	fs.String("type", "", "type: "+joinTypes())
	fs.String("license", "", "license: Open Source, Commercial, Hybrid, Unknown")
	fs.Bool("cloud", false, "a managed cloud offering exists")
	fs.Bool("self-hosted", false, "can be self-hosted")
	fs.StringSlice("features", nil, "comma separated features")
	fs.StringSlice("use-cases", nil, "comma separated use cases")
	fs.StringSlice("languages", nil, "comma separated client languages")
	fs.StringSlice("pros", nil, "comma separated strengths")
	fs.StringSlice("cons", nil, "comma separated weaknesses")
	fs.Int("popularity", 0, "popularity score 0-100")
	fs.Int("stars", 0, "GitHub stars")
	fs.String("website", "", "website URL")
	fs.String("docs", "", "documentation URL")
	fs.String("github", "", "GitHub URL")
}

func joinTypes() string {
	names := make([]string, len(models.DatabaseTypes))
	for i, t := range models.DatabaseTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// applyDatabaseFlags copies every flag the user set onto db.
func applyDatabaseFlags(fs *pflag.FlagSet, db *models.Database) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "name":
			db.Name = f.Value.String()
		case "description":
			db.Description = f.Value.String()
		case "short-description":
			db.ShortDescription = f.Value.String()
		case "tagline":
			db.Tagline = f.Value.String()
		case "category":
			db.Category = f.Value.String()
		case "type":
			db.Type, err = models.ParseDatabaseType(f.Value.String())
		case "license":
			db.License, err = models.ParseLicense(f.Value.String())
		case "cloud":
			db.CloudOffering, err = fs.GetBool("cloud")
		case "self-hosted":
			db.SelfHosted, err = fs.GetBool("self-hosted")
		case "features":
			db.Features, err = fs.GetStringSlice("features")
		case "use-cases":
			db.UseCases, err = fs.GetStringSlice("use-cases")
		case "languages":
			db.Languages, err = fs.GetStringSlice("languages")
		case "pros":
			db.Pros, err = fs.GetStringSlice("pros")
		case "cons":
			db.Cons, err = fs.GetStringSlice("cons")
		case "popularity":
			db.Popularity, err = fs.GetInt("popularity")
		case "stars":
			db.Stars, err = fs.GetInt("stars")
		case "website":
			db.WebsiteURL = f.Value.String()
		case "docs":
			db.DocumentationURL = f.Value.String()
		case "github":
			db.GithubURL = f.Value.String()
		}
	})
	return err
}

// promptMissing asks for the required fields left empty by flags.
func promptMissing(db *models.Database) error {
	if !ui.IsInteractive() {
		return nil
	}
	if db.Name == "" {
		prompt := promptui.Prompt{
			Label: "Name",
			Validate: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("name is required")
				}
				return nil
			},
		}
		name, err := prompt.Run()
		if err != nil {
			return err
		}
		db.Name = strings.TrimSpace(name)
	}
	if db.Category == "" {
		prompt := promptui.Prompt{Label: "Category"}
		category, err := prompt.Run()
		if err != nil {
			return err
		}
		db.Category = strings.TrimSpace(category)
	}
	if db.Type == "" {
		sel := promptui.Select{Label: "Type", Items: models.DatabaseTypes}
		i, _, err := sel.Run()
		if err != nil {
			return err
		}
		db.Type = models.DatabaseTypes[i]
	}
	if db.License == "" {
		sel := promptui.Select{Label: "License", Items: models.Licenses}
		i, _, err := sel.Run()
		if err != nil {
			return err
		}
		db.License = models.Licenses[i]
	}
	return nil
}

func init() {
	catalogCmd.AddCommand(catalogAddCmd, catalogEditCmd, catalogDeleteCmd)
	addDatabaseFlags(catalogAddCmd.Flags())
	addDatabaseFlags(catalogEditCmd.Flags())
	catalogDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}
