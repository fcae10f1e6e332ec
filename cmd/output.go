package cmd

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

// asJSON reports whether the command was asked for JSON output.
func asJSON(cmd *cobra.Command) bool {
	v, err := cmd.Flags().GetBool("json")
	return err == nil && v
}

func printJSON(cmd *cobra.Command, v any) error {
	return encodeIndented(cmd.OutOrStdout(), v)
}

func encodeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
