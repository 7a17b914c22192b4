package migrate

import (
	"context"
	"fmt"

	"github.com/oceannemj/site-web-JKM/pkg/config"
	"github.com/oceannemj/site-web-JKM/pkg/db"
	"github.com/oceannemj/site-web-JKM/pkg/db/models"
	"github.com/oceannemj/site-web-JKM/pkg/logger"
)

// Bootstrap prepares the schema on startup when the auto-migrate flag is set.
// SQLite databases are created from the models; Postgres runs goose up, and
// only in dev.
func Bootstrap(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	if cfg.FeatureFlags.UseSQLite {
		ctx = logg.WithField(ctx, "sqlite_path", cfg.FeatureFlags.SQLitePath)
		if err := client.AutoMigrate(models.All()...); err != nil {
			return err
		}
		logg.Info(ctx, "sqlite schema ready")
		return nil
	}

	if !cfg.App.IsDev() {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir})
	logg.Info(ctx, "running goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}
