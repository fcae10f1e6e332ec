package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/josephgoksu/DBAtlas/internal/catalog"
	"github.com/josephgoksu/DBAtlas/internal/config"
	"github.com/josephgoksu/DBAtlas/internal/consultant"
	"github.com/josephgoksu/DBAtlas/internal/entrycodec"
	"github.com/josephgoksu/DBAtlas/internal/identity"
	"github.com/josephgoksu/DBAtlas/models"
	"github.com/manifoldco/promptui"
	"github.com/spf13/viper"
)

// errorHints pairs known failures with what the user can do about them.
var errorHints = []struct {
	target error
	hint   string
}{
	{catalog.ErrNotFound, "Run 'dbatlas catalog search <term>' to find the right slug."},
	{catalog.ErrAlreadyExists, "Use 'dbatlas catalog edit' to change an existing entry."},
	{catalog.ErrUsernameRequired, "Set your GitHub username first: 'dbatlas user set <username>'."},
	{identity.ErrInvalidUsername, "GitHub usernames use letters, digits and single hyphens, up to 39 characters."},
	{catalog.ErrForbidden, "Only the author of a comment can delete it."},
	{catalog.ErrCommentNotFound, "Run 'dbatlas comments <slug>' to list comment ids."},
	{catalog.ErrUnsupportedFormat, "Supported formats: json, yaml, toml, xlsx."},
	{models.ErrInvalidType, "Run 'dbatlas catalog categories' to see the types in use."},
	{models.ErrValidation, "Check the required fields: name, category, type and license."},
	{consultant.ErrInvalidRequirement, "Run 'dbatlas recommend --help' for accepted values."},
	{consultant.ErrNoRecommendation, "Describe your project until the consultant has a recommendation."},
	{entrycodec.ErrMalformedEntry, "The stored entry is damaged. Re-import it with 'dbatlas catalog import --overwrite'."},
	{config.ErrConfigExists, "Pass --force to overwrite it."},
	{config.ErrUnknownKey, "Run 'dbatlas config show' to list the settable keys."},
}

// userMessage turns err into the line shown without --verbose.
func userMessage(err error) string {
	if errors.Is(err, promptui.ErrInterrupt) {
		return "Cancelled."
	}
	for _, h := range errorHints {
		if errors.Is(err, h.target) {
			return fmt.Sprintf("Error: %v\n%s", err, h.hint)
		}
	}
	return fmt.Sprintf("Error: %v", err)
}

// PrintError prints an error message without exiting, allowing for recovery.
func PrintError(userMsg string, technicalErr error) {
	if viper.GetBool("verbose") && technicalErr != nil {
		// In verbose mode, print the detailed, underlying technical error.
		fmt.Fprintf(os.Stderr, "Error: %+v\n", technicalErr)
	} else {
		fmt.Fprintln(os.Stderr, userMsg)
	}
}

// LogError logs an error without printing to stderr if verbose mode is off.
func LogError(msg string, err error) {
	if viper.GetBool("verbose") {
		if err != nil {
			fmt.Fprintf(os.Stderr, "[DEBUG] %s: %v\n", msg, err)
		} else {
			fmt.Fprintf(os.Stderr, "[DEBUG] %s\n", msg)
		}
	}
}
