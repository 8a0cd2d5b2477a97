// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dalemusser/civichub/internal/app/resources"
	"github.com/dalemusser/civichub/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/civichub/internal/app/store/users"
	"github.com/dalemusser/civichub/internal/app/system/attachments"
	"github.com/dalemusser/civichub/internal/app/system/authutil"
	"github.com/dalemusser/civichub/internal/app/system/timeouts"
	"github.com/dalemusser/civichub/internal/app/system/viewdata"
	"github.com/dalemusser/civichub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time initialization after the schema is in place and
// before the handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()
	viewdata.SetSiteName(appCfg.SiteName)

	if err := os.MkdirAll(appCfg.UploadDir, 0o750); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	if err := ensureAdmin(ctx, deps.MongoDatabase, appCfg.AdminEmail, appCfg.AdminPassword, logger); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	if n, err := oauthstate.New(deps.MongoDatabase).CleanupExpired(ctx); err != nil {
		logger.Warn("oauth state cleanup failed", zap.Error(err))
	} else if n > 0 {
		logger.Info("removed expired oauth states", zap.Int64("count", n))
	}

	spool := attachments.Spooler{Dir: appCfg.UploadDir}
	if n, err := spool.Sweep(appCfg.SpoolTTL); err != nil {
		logger.Warn("upload spool sweep failed", zap.Error(err))
	} else if n > 0 {
		logger.Info("removed stale spool files", zap.Int("count", n))
	}
	return nil
}

// ensureAdmin promotes the user with email to admin, creating a password
// user when none exists and a password is configured.
func ensureAdmin(ctx context.Context, db *mongo.Database, email, password string, logger *zap.Logger) error {
	if email == "" {
		return nil
	}
	users := userstore.New(db)

	u, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if u.Role == models.RoleAdmin {
			return nil
		}
		if err := users.SetRole(ctx, u.ID, models.RoleAdmin); err != nil {
			return err
		}
		logger.Info("promoted bootstrap admin", zap.String("email", email), zap.String("from_role", u.Role))
		return nil
	case !errors.Is(err, mongo.ErrNoDocuments):
		return err
	}

	if password == "" {
		logger.Warn("bootstrap admin not found and no admin_password set; skipping", zap.String("email", email))
		return nil
	}
	if err := authutil.ValidatePassword(password); err != nil {
		return fmt.Errorf("admin_password: %w", err)
	}
	hash, err := authutil.HashPassword(password)
	if err != nil {
		return err
	}

	created, err := users.Create(ctx, models.User{
		Email:        email,
		AuthMethod:   models.AuthPassword,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		return err
	}
	logger.Info("created bootstrap admin", zap.String("email", email), zap.String("user_id", created.ID.Hex()))
	return nil
}
