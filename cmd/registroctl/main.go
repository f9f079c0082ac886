// registroctl manages expense records from the command line, using the
// same storage backends and configuration as the registro server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"registro/internal/backend"
	"registro/internal/cli"
	"registro/internal/config"
	"registro/internal/log"
	"registro/internal/services"
	"registro/internal/storage"
	"registro/internal/store"
)

var (
	flagBackend string
	flagDBPath  string
	flagDataDir string
	flagKey     string
)

var rootCmd = &cobra.Command{
	Use:          "registroctl",
	Short:        "Manage registro expense records",
	Long:         `registroctl exports, imports and summarizes expense records against the same storage backend the registro server uses. Configuration comes from the environment (and .env) and can be overridden per invocation with the persistent flags.`,
	SilenceUsage: true,
}

func init() {
	backends := strings.Join(backend.GetBackendTypeStrings(), ", ")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Storage backend: "+backends+" (default: DATA_BACKEND)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "SQLite database path (default: SQLITE_DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "JSON-file backend directory (default: DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&flagKey, "key", "", "Durable slot key (default: STORAGE_KEY)")
}

func main() {
	// Keep stdout clean for exported data; logs go to stderr.
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cli.ParseLogLevel(os.Getenv("LOG_LEVEL")),
	})
	log.SetDefault(log.FromSlog(slog.New(handler), log.ComponentApp))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// session bundles the opened backend for one command invocation
type session struct {
	service *services.ExpenseService
	bridge  *storage.Bridge
	store   *store.Store
	cleanup func() error
}

// openSession loads configuration, applies flag overrides and opens the
// configured backend. The cleanup must run before exit.
func openSession(ctx context.Context) (*session, error) {
	cli.LoadEnvFile()

	cfg := config.Load()
	if flagBackend != "" {
		cfg.DataBackend = flagBackend
	}
	if flagDBPath != "" {
		cfg.SQLiteDBPath = flagDBPath
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagKey != "" {
		cfg.StorageKey = flagKey
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}

	result, err := backend.NewFactory(slog.Default()).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, fmt.Errorf("open storage backend: %w", err)
	}

	bridge := storage.NewBridge(result.Slot, cfg.StorageKey)
	st := store.New(bridge)
	st.Load(ctx)

	cleanup := func() error { return nil }
	if result.Cleanup != nil {
		cleanup = result.Cleanup
	}
	return &session{
		service: services.NewExpenseService(st),
		bridge:  bridge,
		store:   st,
		cleanup: cleanup,
	}, nil
}
