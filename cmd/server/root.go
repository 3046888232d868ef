package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/blogicum/blogicum/internal/config"
	"github.com/blogicum/blogicum/internal/database"
	"github.com/blogicum/blogicum/internal/middleware"
	"github.com/blogicum/blogicum/internal/pkg/nativelog"
	pkgredis "github.com/blogicum/blogicum/internal/pkg/redis"
)

type rootOptions struct {
	configPath string
	cfg        *config.AppConfig
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "blogicum",
		Short:         "Blogicum blog server and admin tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultConfigPath, "Path to YAML config file")

	cmd.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newCategoryCommand(opts),
		newLocationCommand(opts),
		newUserCommand(opts),
		newCronCommand(opts),
	)
	return cmd
}

func (o *rootOptions) loadConfig() (*config.AppConfig, error) {
	if o.cfg != nil {
		return o.cfg, nil
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	o.cfg = cfg
	return cfg, nil
}

func newLogger(cfg *config.AppConfig) *zap.Logger {
	logger, err := nativelog.NewZapLogger(cfg.LogDir(), cfg.IsDev())
	if err != nil {
		logger, _ = zap.NewProduction()
		logger.Warn("native log pipeline unavailable, fallback to zap production logger", zap.Error(err))
	}
	return logger
}

// openDB connects without migrating; admin commands expect `migrate` to have run.
func (o *rootOptions) openDB() (*gorm.DB, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	db, err := database.Connect(cfg, false)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	return db, nil
}

// openRedis returns nil when Redis is not configured.
func (o *rootOptions) openRedis() (*pkgredis.Client, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.RedisURL == "" {
		return nil, nil
	}
	return pkgredis.Connect(cfg.RedisURL)
}

// purgePages drops cached anonymous pages after an admin change. Failures
// are reported but do not undo the change.
func (o *rootOptions) purgePages(cmd *cobra.Command) {
	rc, err := o.openRedis()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: page cache not purged: %v\n", err)
		return
	}
	if rc == nil {
		return
	}
	defer rc.Close()
	n, err := middleware.PurgePageCache(cmd.Context(), rc)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: page cache not purged: %v\n", err)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "purged %d cached pages\n", n)
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := opts.openDB()
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}
