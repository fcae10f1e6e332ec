package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/josephgoksu/DBAtlas/internal/catalog"
	"github.com/josephgoksu/DBAtlas/internal/consultant"
	"github.com/josephgoksu/DBAtlas/internal/ui"
	"github.com/josephgoksu/DBAtlas/store"
	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend a database from explicit requirements",
	Long: `Rank the catalog against requirements given as flags. Unlike 'consult'
nothing is asked back: unknown requirements simply do not contribute.`,
	Example: `  dbatlas recommend --project-type "analytics platform" --load high --budget enterprise --team large
  dbatlas recommend --project-type "web application" --performance real-time --report report.md`,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectType, _ := cmd.Flags().GetString("project-type")
		load, _ := cmd.Flags().GetString("load")
		budget, _ := cmd.Flags().GetString("budget")
		team, _ := cmd.Flags().GetString("team")
		perf, _ := cmd.Flags().GetStringSlice("performance")
		reportPath, _ := cmd.Flags().GetString("report")

		req, err := consultant.ParseRequirements(projectType, load, budget, team, perf)
		if err != nil {
			return err
		}
		if req.IsZero() {
			return fmt.Errorf("give at least one requirement, e.g. --project-type %q", consultant.ProjectWeb)
		}
		rules, err := loadRules()
		if err != nil {
			return err
		}

		return withCatalog(cmd.Context(), func(svc *catalog.Service, _ store.Store) error {
			dbs, err := svc.Databases(cmd.Context())
			if err != nil {
				return err
			}
			result := consultant.NewScorer(rules).Recommend(req, dbs)

			if reportPath != "" {
				report, err := consultant.MarkdownReport(result, req, time.Now())
				if err != nil {
					return err
				}
				if err := writeReport(reportPath, report); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%s Report saved to %s\n", ui.Check(), reportPath)
			}
			if asJSON(cmd) {
				return printJSON(cmd, result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.WrapText(consultant.ChatReply(result), min(100, ui.TerminalWidth(80))))
			return nil
		})
	},
}

func enumHelp[T ~string](values []T) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().String("project-type", "", "one of: "+enumHelp(consultant.ProjectTypes))
	recommendCmd.Flags().String("load", "", "one of: "+enumHelp(consultant.Loads))
	recommendCmd.Flags().String("budget", "", "one of: "+enumHelp(consultant.Budgets))
	recommendCmd.Flags().String("team", "", "one of: "+enumHelp(consultant.TeamSizes))
	recommendCmd.Flags().StringSlice("performance", nil, "any of: "+enumHelp(consultant.PerformanceNeeds))
	recommendCmd.Flags().String("report", "", "also save the Markdown report to this file")
	recommendCmd.Flags().Bool("json", false, "print the full result as JSON")
}
