package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/josephgoksu/DBAtlas/internal/catalog"
	"github.com/josephgoksu/DBAtlas/internal/consultant"
	"github.com/josephgoksu/DBAtlas/internal/logger"
	"github.com/josephgoksu/DBAtlas/internal/server"
	"github.com/josephgoksu/DBAtlas/internal/ui"
	"github.com/josephgoksu/DBAtlas/models"
	"github.com/josephgoksu/DBAtlas/store"
	"github.com/spf13/cobra"
)

var consultCmd = &cobra.Command{
	Use:     "consult",
	Aliases: []string{"chat"},
	Short:   "Talk to the database consultant",
	Long: `Describe your project in plain words and the consultant asks for what it
still needs (project type, expected load, budget and team size) before
recommending a database with alternatives, an architecture sketch, an
implementation plan and cost estimates.

Without --message an interactive chat opens. Type /report inside the chat to
save the recommendation as Markdown.`,
	Example: `  dbatlas consult
  dbatlas consult -m "An online store with a million users" -m "small team, limited budget"
  dbatlas consult -m "IoT sensor platform, high load, enterprise budget, large team" --export report.md`,
	RunE: runConsult,
}

func runConsult(cmd *cobra.Command, args []string) error {
	messages, _ := cmd.Flags().GetStringArray("message")
	export, _ := cmd.Flags().GetString("export")

	rules, err := loadRules()
	if err != nil {
		return err
	}

	return withCatalog(cmd.Context(), func(svc *catalog.Service, _ store.Store) error {
		session := consultant.NewSession(consultant.NewScorer(rules), func() ([]models.Database, error) {
			return svc.Databases(cmd.Context())
		})

		if len(messages) == 0 {
			if !ui.IsInteractive() {
				return fmt.Errorf("no terminal attached; pass your project description with --message")
			}
			path := export
			if path == "" {
				path = server.ReportFilename
			}
			return ui.RunChat(session, func(report string) (string, error) {
				return path, writeReport(path, report)
			})
		}

		var last consultant.Reply
		for _, msg := range messages {
			logger.SetLastInput(msg)
			reply, err := session.Respond(msg)
			if err != nil {
				return err
			}
			logger.SetRequirements(fmt.Sprintf("%+v", reply.Requirements))
			last = reply
			if !asJSON(cmd) {
				fmt.Fprintln(cmd.OutOrStdout(), ui.StylePrefixUser.Render("You")+" "+msg)
				fmt.Fprintln(cmd.OutOrStdout(), ui.StylePrefixConsultant.Render("Consultant"))
				fmt.Fprintln(cmd.OutOrStdout(), ui.WrapText(reply.Text, min(100, ui.TerminalWidth(80))))
				fmt.Fprintln(cmd.OutOrStdout())
			}
		}
		if asJSON(cmd) {
			if err := printJSON(cmd, last); err != nil {
				return err
			}
		}

		if export != "" {
			report, err := session.Report(time.Now())
			if err != nil {
				return err
			}
			if err := writeReport(export, report); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s Report saved to %s\n", ui.Check(), export)
		}
		return nil
	})
}

func writeReport(path, report string) error {
	if err := os.WriteFile(path, []byte(report), 0644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(consultCmd)
	consultCmd.Flags().StringArrayP("message", "m", nil, "send a message without opening the chat (repeatable)")
	consultCmd.Flags().StringP("export", "e", "", "save the Markdown report to this file")
	consultCmd.Flags().Bool("json", false, "print the final reply as JSON")
}
