// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/civichub/internal/app/system/attachments"
	"github.com/dalemusser/civichub/internal/app/system/normalize"
	"github.com/dalemusser/civichub/internal/app/system/timeouts"
	"github.com/dalemusser/civichub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys are loaded through WAFFLE's config system:
//   - config files: mongo_uri, session_name, ...
//   - environment: CIVICHUB_MONGO_URI, CIVICHUB_SESSION_NAME, ...
//   - flags: --mongo_uri, --session_name, ...
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "civichub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "civichub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime (e.g., 24h, 720h)"},

	{Name: "upload_dir", Default: "./uploads", Desc: "Directory for spooled uploads"},
	{Name: "spool_ttl", Default: "1h", Desc: "Age at which a leftover spooled upload is removed at startup"},
	{Name: "max_upload_mb", Default: 8, Desc: "Maximum image upload size in MB"},
	{Name: "attachment_store", Default: attachments.BackendInline, Desc: "Image storage: 'inline' (in the record) or 'gridfs'"},

	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},
	{Name: "base_url", Default: "http://localhost:8080", Desc: "External base URL for OAuth callbacks"},
	{Name: "default_role", Default: models.RoleUser, Desc: "Role for users provisioned by Google sign-in"},

	{Name: "admin_email", Default: "", Desc: "Bootstrap admin email (promoted or created on startup)"},
	{Name: "admin_password", Default: "", Desc: "Password for a newly created bootstrap admin"},

	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "login_rate_limit", Default: 5, Desc: "Login attempts allowed per account per window"},
	{Name: "login_rate_window", Default: "1m", Desc: "Login rate limit window"},

	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document database calls"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for list, search and dashboard queries"},
	{Name: "timeout_long", Default: "30s", Desc: "Deadline for schema setup"},

	{Name: "site_name", Default: models.DefaultSiteName, Desc: "Site name shown in the header"},
}

// LoadConfig loads WAFFLE core config and CivicHub's app config.
// Precedence: flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CIVICHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 30*24*time.Hour),

		UploadDir:       appValues.String("upload_dir"),
		SpoolTTL:        appValues.Duration("spool_ttl", time.Hour),
		MaxUploadMB:     appValues.Int("max_upload_mb"),
		AttachmentStore: strings.ToLower(strings.TrimSpace(appValues.String("attachment_store"))),

		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),
		BaseURL:            appValues.String("base_url"),
		DefaultRole:        normalize.Role(appValues.String("default_role")),

		AdminEmail:    normalize.Email(appValues.String("admin_email")),
		AdminPassword: appValues.String("admin_password"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		LoginRateLimit:  appValues.Int("login_rate_limit"),
		LoginRateWindow: appValues.Duration("login_rate_window", time.Minute),

		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutLong:   appValues.Duration("timeout_long", 0),

		SiteName: appValues.String("site_name"),
	}

	// Applied here so ConnectDB and EnsureSchema already use the configured deadlines.
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	return coreCfg, appCfg, nil
}

// ValidateConfig rejects configurations that cannot work, before any
// connection is attempted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	switch appCfg.AttachmentStore {
	case attachments.BackendInline, attachments.BackendGridFS:
	default:
		return fmt.Errorf("attachment_store must be %q or %q, got %q",
			attachments.BackendInline, attachments.BackendGridFS, appCfg.AttachmentStore)
	}

	if !models.IsValidRole(appCfg.DefaultRole) {
		return fmt.Errorf("default_role %q is not a known role", appCfg.DefaultRole)
	}

	if appCfg.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", appCfg.MaxUploadMB)
	}

	if appCfg.SpoolTTL <= 0 {
		return fmt.Errorf("spool_ttl must be positive, got %s", appCfg.SpoolTTL)
	}

	if coreCfg != nil && coreCfg.Env == "prod" && len(appCfg.SessionKey) < 32 {
		return fmt.Errorf("session_key must be at least 32 characters in prod")
	}

	if appCfg.AdminEmail != "" && appCfg.AdminPassword == "" {
		logger.Warn("admin_email set without admin_password; an existing user can be promoted but none will be created")
	}

	return nil
}
