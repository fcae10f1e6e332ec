package cmd

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/DBAtlas/internal/identity"
	"github.com/josephgoksu/DBAtlas/internal/ui"
	"github.com/josephgoksu/DBAtlas/models"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage the GitHub username used for ratings and comments",
}

var userSetCmd = &cobra.Command{
	Use:     "set [username]",
	Short:   "Set your GitHub username",
	Example: `  dbatlas user set octocat`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) == 1 {
			name = args[0]
		} else {
			if !ui.IsInteractive() {
				return fmt.Errorf("username argument required")
			}
			prompt := promptui.Prompt{
				Label: "GitHub username",
				Validate: func(s string) error {
					if !models.ValidUsername(strings.TrimPrefix(strings.TrimSpace(s), "@")) {
						return identity.ErrInvalidUsername
					}
					return nil
				},
			}
			var err error
			if name, err = prompt.Run(); err != nil {
				return err
			}
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		saved, err := identity.NewProvider(st).SetUsername(cmd.Context(), name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Signed in as @%s\n", ui.Check(), saved)
		return nil
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current username",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		name, err := identity.NewProvider(st).Username(cmd.Context())
		if err != nil {
			return err
		}
		if name == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "No username set. Run 'dbatlas user set <username>'.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "@%s\n", name)
		return nil
	},
}

var userClearCmd = &cobra.Command{
	Use:     "clear",
	Aliases: []string{"logout"},
	Short:   "Forget the current username",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		if err := identity.NewProvider(st).Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Username cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userSetCmd, userShowCmd, userClearCmd)
}
