/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/josephgoksu/DBAtlas/internal/config"
	"github.com/josephgoksu/DBAtlas/internal/logger"
	"github.com/josephgoksu/DBAtlas/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configCmd is the parent config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage DBAtlas configuration",
	Long: `View and manage DBAtlas configuration.

Settings are read from ./.dbatlas/.dbatlas.yaml, then $HOME/.dbatlas.yaml, and
can be overridden with DBATLAS_ environment variables such as
DBATLAS_SERVER_PORT=9090.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if asJSON(cmd) {
			values := make(map[string]any, len(config.Keys()))
			for _, key := range config.Keys() {
				values[key] = viper.Get(key)
			}
			return printJSON(cmd, values)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.StyleTitle.Render("DBAtlas Configuration"))
		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintln(out, ui.StyleSubtle.Render("file: "+used))
		} else {
			fmt.Fprintln(out, ui.StyleSubtle.Render("no config file, using defaults"))
		}
		fmt.Fprintln(out)
		for _, key := range config.Keys() {
			fmt.Fprintf(out, "  %-28s %v\n", key, viper.Get(key))
		}
		fmt.Fprintf(out, "\n  %-28s %s\n", "data path (resolved)", config.GetDataPath())
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !viper.IsSet(args[0]) {
			return fmt.Errorf("%w: %s", config.ErrUnknownKey, args[0])
		}
		if asJSON(cmd) {
			return printJSON(cmd, map[string]any{"key": args[0], "value": viper.Get(args[0])})
		}
		fmt.Fprintln(cmd.OutOrStdout(), viper.Get(args[0]))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in the project config file",
	Example: `  dbatlas config set server.port 9090
  dbatlas config set storage.backend bolt
  dbatlas config set server.allowedOrigins http://localhost:3000,https://dbatlas.dev`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := parseConfigValue(args[0], args[1])
		if err != nil {
			return err
		}
		path := configTarget()
		if err := config.SetValue(path, args[0], value); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %v (%s)\n", ui.Check(), args[0], value, path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a project config file holding every default",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get current directory: %w", err)
		}
		path := config.ProjectConfigPath(cwd)
		if err := config.WriteDefaultConfig(path, force); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", ui.Check(), path)
		return nil
	},
}

var configCrashLogsCmd = &cobra.Command{
	Use:   "crash-logs",
	Short: "List crash reports written after unexpected failures",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := logger.ListCrashLogs()
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No crash logs.")
			return nil
		}
		for _, p := range paths {
			report, err := logger.ReadCrashLog(p)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%v)\n", ui.Cross(), p, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n    %s\n",
				report.Timestamp.Format("2006-01-02 15:04:05"), report.Command, ui.Truncate(report.PanicValue, 60), p)
		}
		return nil
	},
}

// configTarget is the file config set writes to: the loaded config file if
// there is one, else the project file in the working directory.
func configTarget() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return config.ProjectConfigPath(cwd)
}

// parseConfigValue converts value to the type of key's default.
func parseConfigValue(key, value string) (any, error) {
	def, ok := config.Defaults()[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s (known keys: %s)", config.ErrUnknownKey, key, strings.Join(config.Keys(), ", "))
	}
	switch def.(type) {
	case int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%s needs a number, got %q", key, value)
		}
		return n, nil
	case bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s needs true or false, got %q", key, value)
		}
		return b, nil
	case []string:
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	default:
		return value, nil
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configGetCmd, configSetCmd, configInitCmd, configCrashLogsCmd)

	configShowCmd.Flags().Bool("json", false, "print JSON")
	configGetCmd.Flags().Bool("json", false, "print JSON")
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
}
