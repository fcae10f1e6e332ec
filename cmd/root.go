/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/josephgoksu/DBAtlas/internal/catalog"
	"github.com/josephgoksu/DBAtlas/internal/config"
	"github.com/josephgoksu/DBAtlas/internal/consultant"
	"github.com/josephgoksu/DBAtlas/internal/identity"
	"github.com/josephgoksu/DBAtlas/internal/logger"
	"github.com/josephgoksu/DBAtlas/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// version is the application version.
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dbatlas",
	Short: "DBAtlas - database catalog, consultant and schema generator",
	Long: `DBAtlas is a curated catalog of database products with community ratings
and comments, a rule-based consultant that recommends a database from a plain
description of your project, and a starter schema generator.

Run 'dbatlas serve' for the JSON API, 'dbatlas consult' for the chat, or
'dbatlas catalog list' to browse.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetCommand(cmd.CommandPath())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	logger.SetVersion(version)
	if err := rootCmd.Execute(); err != nil {
		PrintError(userMessage(err), err)
		os.Exit(1)
	}
}

// GetVersion returns the CLI version.
func GetVersion() string {
	return version
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.dbatlas/.dbatlas.yaml or $HOME/.dbatlas.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().String("backend", "", "storage backend: memory, sqlite, bolt, file")
	rootCmd.PersistentFlags().String("data-dir", "", "directory holding the catalog store")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("storage.backend", rootCmd.PersistentFlags().Lookup("backend"))
	_ = viper.BindPFlag("storage.path", rootCmd.PersistentFlags().Lookup("data-dir"))
}

// openStore opens the configured entry store.
func openStore() (store.Store, error) {
	cfg := GetConfig()
	path := config.GetDataPath()
	if cfg.Storage.Backend != store.BackendMemory {
		if err := os.MkdirAll(path, 0755); err != nil {
			return nil, fmt.Errorf("create data directory %s: %w", path, err)
		}
	}
	s, err := store.Open(cfg.Storage.Backend, path)
	if err != nil {
		return nil, err
	}
	logger.SetBackend(cfg.Storage.Backend)
	slog.Debug("opened store", "backend", cfg.Storage.Backend, "path", path)
	return s, nil
}

// withCatalog opens the store, seeds an empty catalog and hands both the
// catalog and the store to fn. The store is closed when fn returns.
func withCatalog(ctx context.Context, fn func(svc *catalog.Service, st store.Store) error) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			LogError("close store", err)
		}
	}()

	svc := catalog.NewService(st)
	if _, err := svc.Seed(ctx); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	return fn(svc, st)
}

// currentUsername returns the stored GitHub username or ErrUsernameRequired.
func currentUsername(ctx context.Context, st store.Store) (string, error) {
	name, err := identity.NewProvider(st).Username(ctx)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", catalog.ErrUsernameRequired
	}
	return name, nil
}

// loadRules returns the configured scoring rules, or nil for the built-in set.
func loadRules() (*consultant.RuleSet, error) {
	path := GetConfig().Consultant.RulesFile
	if path == "" {
		return nil, nil
	}
	rules, err := consultant.LoadRules(path)
	if err != nil {
		return nil, fmt.Errorf("load rules %s: %w", path, err)
	}
	return rules, nil
}

func secondsOr(n, fallback int) time.Duration {
	if n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Second
}
