/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/josephgoksu/DBAtlas/internal/catalog"
	"github.com/josephgoksu/DBAtlas/internal/config"
	"github.com/josephgoksu/DBAtlas/internal/consultant"
	"github.com/josephgoksu/DBAtlas/internal/server"
	"github.com/josephgoksu/DBAtlas/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the DBAtlas JSON API",
	Long: `Start the HTTP API that serves the catalog, ratings and comments, the
consultant chat and the schema generator.

The acting user is taken from the X-Username header. Browser access is
limited to server.allowedOrigins.

Examples:
  dbatlas serve                 # listen on server.port (default 8080)
  dbatlas serve --port 9090
  dbatlas serve --config .dbatlas.yaml   # consultant.rulesFile reloads on change
  DBATLAS_STORAGE_BACKEND=bolt dbatlas serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", config.DefaultPort, "API server port")
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	rules, err := loadRules()
	if err != nil {
		return err
	}

	return withCatalog(cmd.Context(), func(svc *catalog.Service, st store.Store) error {
		srv := server.New(svc, server.Options{
			Port:           cfg.Server.Port,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			ReadTimeout:    secondsOr(cfg.Server.ReadTimeoutSeconds, config.DefaultReadTimeoutSeconds),
			WriteTimeout:   secondsOr(cfg.Server.WriteTimeoutSeconds, config.DefaultWriteTimeoutSeconds),
			SessionTTL:     time.Duration(cfg.Server.SessionTTLMinutes) * time.Minute,
			Rules:          rules,
			Logger:         slog.Default(),
		})

		if path := cfg.Consultant.RulesFile; path != "" {
			watcher, err := consultant.NewRulesWatcher(path, srv.SetRules, func(err error) {
				slog.Warn("rules reload failed, keeping previous rules", "path", path, "error", err)
			})
			if err != nil {
				return fmt.Errorf("watch rules file: %w", err)
			}
			watcher.Start()
			defer watcher.Stop()
		}

		var wg sync.WaitGroup
		errChan := make(chan error, 1)

		fmt.Println()
		fmt.Println("🗄  DBAtlas API")
		fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━")
		fmt.Printf("🌐 API: http://localhost:%d/api\n", cfg.Server.Port)
		fmt.Printf("💾 Store: %s (%s)\n", cfg.Storage.Backend, config.GetDataPath())
		fmt.Println()

		srv.Start(&wg, errChan)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		var runErr error
		select {
		case sig := <-sigChan:
			fmt.Printf("\n⏹️  Received %v, shutting down...\n", sig)
		case runErr = <-errChan:
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("server shutdown", "error", err)
		}
		wg.Wait()
		return runErr
	})
}
