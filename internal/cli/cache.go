package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/sqlxfmt/internal/logging"
	"github.com/yaklabco/sqlxfmt/pkg/config"
	"github.com/yaklabco/sqlxfmt/pkg/fmtcache"
)

func newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the formatter result cache",
		Long: `The cache keeps sqruff results on disk when formatting runs with --cache
or cache.enabled. Entries are keyed by the literal text and the sqruff setup.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := resolveCacheDir(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Remove every cached result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := resolveCacheDir(cmd)
			if err != nil {
				return err
			}
			if err := fmtcache.Purge(dir); err != nil {
				return err
			}
			logging.Default().Info("cache cleaned", logging.FieldPath, dir)
			return nil
		},
	})

	return cmd
}

func resolveCacheDir(cmd *cobra.Command) (string, error) {
	ctx := commandContext(cmd)
	cfg, _, err := loadConfig(ctx, cmd, &config.Config{})
	if err != nil {
		return "", err
	}
	return cacheDir(cfg)
}
