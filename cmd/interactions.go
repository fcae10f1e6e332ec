package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/josephgoksu/DBAtlas/internal/catalog"
	"github.com/josephgoksu/DBAtlas/internal/ui"
	"github.com/josephgoksu/DBAtlas/store"
	"github.com/spf13/cobra"
)

var rateCmd = &cobra.Command{
	Use:   "rate <slug> <1-5>",
	Short: "Rate a database as the current user",
	Long: `Rate a database from 1 to 5 stars. Rating the same database again
replaces your earlier rating. Set your username first with 'dbatlas user set'.`,
	Example: `  dbatlas rate postgresql 5 --comment "Rock solid" --experience "3 years"`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		stars, err := strconv.Atoi(args[1])
		if err != nil || stars < 1 || stars > 5 {
			return fmt.Errorf("rating must be a number from 1 to 5, got %q", args[1])
		}
		in := catalog.RatingInput{Rating: stars}
		in.Comment, _ = cmd.Flags().GetString("comment")
		in.Email, _ = cmd.Flags().GetString("email")
		in.Experience, _ = cmd.Flags().GetString("experience")
		in.UseCase, _ = cmd.Flags().GetString("use-case")
		in.CompanySize, _ = cmd.Flags().GetString("company-size")
		in.Industry, _ = cmd.Flags().GetString("industry")

		return withCatalog(cmd.Context(), func(svc *catalog.Service, st store.Store) error {
			user, err := currentUsername(cmd.Context(), st)
			if err != nil {
				return err
			}
			summary, err := svc.AddRating(cmd.Context(), args[0], user, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Rated %s %s as %s\n", ui.Check(), args[0], ui.Stars(float64(stars)), user)
			fmt.Fprintf(cmd.OutOrStdout(), "  Average %.1f from %d ratings\n", summary.Average, summary.Total)
			return nil
		})
	},
}

var ratingsCmd = &cobra.Command{
	Use:   "ratings <slug>",
	Short: "Show the rating summary of a database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd.Context(), func(svc *catalog.Service, st store.Store) error {
			summary, err := svc.Ratings(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON(cmd) {
				return printJSON(cmd, summary)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %.1f (%d ratings)\n", ui.Stars(summary.Average), summary.Average, summary.Total)
			for _, r := range summary.Ratings {
				line := fmt.Sprintf("  %-20s %s", "@"+r.Username, ui.Stars(float64(r.Rating)))
				if r.Comment != "" {
					line += "  " + ui.StyleSubtle.Render(ui.Truncate(r.Comment, 60))
				}
				fmt.Fprintln(out, line)
			}
			if user, err := currentUsername(cmd.Context(), st); err == nil {
				if mine, ok, err := svc.UserRating(cmd.Context(), args[0], user); err == nil && ok {
					fmt.Fprintf(out, "\nYour rating: %s\n", ui.Stars(float64(mine.Rating)))
				}
			}
			return nil
		})
	},
}

var commentCmd = &cobra.Command{
	Use:   "comment <slug> <text>",
	Short: "Comment on a database as the current user",
	Example: `  dbatlas comment redis "Great as a cache, careful with persistence settings"`,
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := catalog.CommentInput{Content: strings.Join(args[1:], " ")}
		in.Email, _ = cmd.Flags().GetString("email")
		in.Experience, _ = cmd.Flags().GetString("experience")
		in.UseCase, _ = cmd.Flags().GetString("use-case")

		return withCatalog(cmd.Context(), func(svc *catalog.Service, st store.Store) error {
			user, err := currentUsername(cmd.Context(), st)
			if err != nil {
				return err
			}
			c, err := svc.AddComment(cmd.Context(), args[0], user, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Comment %s added to %s\n", ui.Check(), c.ID, args[0])
			return nil
		})
	},
}

var commentsCmd = &cobra.Command{
	Use:   "comments <slug>",
	Short: "List comments on a database, or delete one of yours",
	Example: `  dbatlas comments redis
  dbatlas comments redis --delete 1b4e28ba-2fa1-4d3b-a3f5-ef19b5a7633b`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deleteID, _ := cmd.Flags().GetString("delete")
		return withCatalog(cmd.Context(), func(svc *catalog.Service, st store.Store) error {
			if deleteID != "" {
				user, err := currentUsername(cmd.Context(), st)
				if err != nil {
					return err
				}
				if err := svc.DeleteComment(cmd.Context(), args[0], deleteID, user); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted comment %s\n", ui.Check(), deleteID)
				return nil
			}

			comments, err := svc.Comments(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON(cmd) {
				return printJSON(cmd, comments)
			}
			if len(comments) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No comments on %s yet.\n", args[0])
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderComments(comments, min(100, ui.TerminalWidth(80))))
			return nil
		})
	},
}

var useCaseCmd = &cobra.Command{
	Use:   "use-case <slug> <title>",
	Short: "Share how you use a database",
	Example: `  dbatlas use-case clickhouse "Product analytics" --description "Event data from 40M daily users"`,
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args[1:], " ")
		description, _ := cmd.Flags().GetString("description")
		return withCatalog(cmd.Context(), func(svc *catalog.Service, st store.Store) error {
			user, err := currentUsername(cmd.Context(), st)
			if err != nil {
				return err
			}
			if _, err := svc.SubmitUseCase(cmd.Context(), args[0], user, title, description); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Use case %q shared on %s\n", ui.Check(), title, args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(rateCmd, ratingsCmd, commentCmd, commentsCmd, useCaseCmd)

	rateCmd.Flags().String("comment", "", "short review")
	rateCmd.Flags().String("email", "", "contact email")
	rateCmd.Flags().String("experience", "", "how long you have used it")
	rateCmd.Flags().String("use-case", "", "what you use it for")
	rateCmd.Flags().String("company-size", "", "size of your company")
	rateCmd.Flags().String("industry", "", "your industry")

	commentCmd.Flags().String("email", "", "contact email")
	commentCmd.Flags().String("experience", "", "how long you have used it")
	commentCmd.Flags().String("use-case", "", "what you use it for")

	ratingsCmd.Flags().Bool("json", false, "print JSON")
	commentsCmd.Flags().Bool("json", false, "print JSON")
	commentsCmd.Flags().String("delete", "", "delete your comment with this ID")

	useCaseCmd.Flags().String("description", "", "details of the use case")
}
