// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds CivicHub's app-level configuration. Framework settings
// (ports, TLS, log level, env) live in WAFFLE's CoreConfig.
type AppConfig struct {
	// MongoDB
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Sessions
	SessionKey    string        // signing key; 32+ chars
	SessionName   string        // cookie name (default: civichub-session)
	SessionDomain string        // blank means current host
	SessionMaxAge time.Duration // cookie lifetime

	// Uploads and attachments
	UploadDir       string        // spool directory for incoming files
	SpoolTTL        time.Duration // leftover spool files older than this are removed at startup
	MaxUploadMB     int           // per-file limit
	AttachmentStore string        // "inline" or "gridfs"

	// Google OAuth and provisioning
	GoogleClientID     string
	GoogleClientSecret string
	BaseURL            string // external URL used to build the OAuth callback
	DefaultRole        string // role given to auto-provisioned Google users

	// Bootstrap administrator (promoted or created at startup)
	AdminEmail    string
	AdminPassword string

	// Audit logging: "all", "db", "log" or "off"
	AuditLogAuth  string
	AuditLogAdmin string

	// Login rate limiting
	LoginRateLimit  int
	LoginRateWindow time.Duration

	// Database call deadlines
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	SiteName string
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c AppConfig) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// MaxUploadBytes is MaxUploadMB in bytes.
func (c AppConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}
