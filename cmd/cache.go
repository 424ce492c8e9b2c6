package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davidbz/lumen/internal/cache/sqlite"
	"github.com/davidbz/lumen/internal/config"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
	}

	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove expired entries from the SQLite cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			removed, err := purgeSQLiteCache(cmd.Context(), &cfg.Cache)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired cache entries.\n", removed)
			return nil
		},
	}

	cmd.AddCommand(purgeCmd)
	return cmd
}

func purgeSQLiteCache(ctx context.Context, cfg *config.CacheConfig) (int64, error) {
	if cfg.Backend != config.CacheBackendSQLite {
		return 0, fmt.Errorf("purge needs CACHE_BACKEND=sqlite, got %q (redis and memory expire entries themselves)", cfg.Backend)
	}

	store, err := sqlite.NewStore(cfg.SQLitePath)
	if err != nil {
		return 0, err
	}
	defer func() { _ = store.Close() }()

	return store.Purge(ctx)
}
