// internal/app/bootstrap/routes.go
package bootstrap

import (
	"crypto/sha256"
	"net/http"

	auditlogfeature "github.com/dalemusser/civichub/internal/app/features/auditlog"
	authgooglefeature "github.com/dalemusser/civichub/internal/app/features/authgoogle"
	dashboardfeature "github.com/dalemusser/civichub/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/civichub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/civichub/internal/app/features/health"
	homefeature "github.com/dalemusser/civichub/internal/app/features/home"
	loginfeature "github.com/dalemusser/civichub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/civichub/internal/app/features/logout"
	profilefeature "github.com/dalemusser/civichub/internal/app/features/profile"
	recordsfeature "github.com/dalemusser/civichub/internal/app/features/records"
	"github.com/dalemusser/civichub/internal/app/policy/recordpolicy"
	"github.com/dalemusser/civichub/internal/app/store/audit"
	recordstore "github.com/dalemusser/civichub/internal/app/store/records"
	userstore "github.com/dalemusser/civichub/internal/app/store/users"
	"github.com/dalemusser/civichub/internal/app/system/attachments"
	"github.com/dalemusser/civichub/internal/app/system/auditlog"
	"github.com/dalemusser/civichub/internal/app/system/auth"
	"github.com/dalemusser/civichub/internal/app/system/limits"
	"github.com/dalemusser/civichub/internal/app/system/methodoverride"
	"github.com/dalemusser/civichub/internal/app/system/ratelimit"
	"github.com/dalemusser/civichub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// loginLimiter is built with the handler and closed by Shutdown.
var loginLimiter *ratelimit.LoginLimiter

// BuildHandler constructs the root router: global middleware, then public
// pages, authentication, dashboards and the four record kinds.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase
	secure := coreCfg.Env == "prod"

	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain,
		appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	// Fresh user data on every request: role changes and disabled accounts
	// take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	// Dev mode reloads templates on each render.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
	loginLimiter = ratelimit.NewLoginLimiter(appCfg.LoginRateLimit, appCfg.LoginRateWindow)

	attachStore, err := attachments.New(appCfg.AttachmentStore, db)
	if err != nil {
		return nil, err
	}
	recordDeps := recordsfeature.Deps{
		Attachments: attachStore,
		Spooler:     attachments.Spooler{Dir: appCfg.UploadDir, MaxBytes: appCfg.MaxUploadBytes()},
		Audit:       auditLog,
		ErrLog:      errLog,
		Log:         logger,
	}

	r := chi.NewRouter()

	// Body cap first: method override and CSRF both parse forms.
	r.Use(limits.MaxBody(appCfg.MaxUploadBytes()))
	// Forms tunnel PUT and DELETE through POST; rewrite before CSRF and routing.
	r.Use(methodoverride.Middleware)
	if !secure {
		r.Use(plaintextCSRF)
	}
	r.Use(csrfProtect(appCfg.SessionKey, secure))
	r.Use(sessionMgr.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))
	r.Get("/home", homeHandler.ServeRoot)

	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Authentication
	googleHandler := authgooglefeature.NewHandler(db, sessionMgr, errLog, auditLog,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, appCfg.DefaultRole, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, auditLog, loginLimiter, googleHandler.IsConfigured(), logger)
	r.Mount("/login", loginfeature.Routes(loginHandler, sessionMgr))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	profileHandler := profilefeature.NewHandler(db, errLog, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

	// Dashboards
	dashboardHandler := dashboardfeature.NewHandler(db, logger)
	r.Mount("/admin", dashboardfeature.AdminRoutes(dashboardHandler, sessionMgr))
	r.Mount("/homeworker", dashboardfeature.WorkerRoutes(dashboardHandler, sessionMgr))

	auditHandler := auditlogfeature.NewHandler(db, errLog, logger)
	r.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

	// Records: resource routers plus "owned by me" listings.
	mountRecords[models.Worker](r, db, recordstore.Workers, recordpolicy.Workers, "/worker", "/workers", recordDeps, sessionMgr)
	projects := mountRecords[models.Project](r, db, recordstore.Projects, recordpolicy.Projects, "/project", "/projects", recordDeps, sessionMgr)
	mountRecords[models.Investment](r, db, recordstore.Investments, recordpolicy.Investments, "/investment", "/investments", recordDeps, sessionMgr)
	mountRecords[models.News](r, db, recordstore.News, recordpolicy.News, "/news", "/newspage", recordDeps, sessionMgr)

	// Original casing for the projects root.
	r.Mount("/Projects", projects)

	logger.Info("routes mounted",
		zap.String("attachment_store", appCfg.AttachmentStore),
		zap.Bool("google_sign_in", appCfg.GoogleEnabled()))

	return r, nil
}

// mountRecords builds the handler for one kind, mounts its resource router at
// prefix and its owner listing at mine, and returns the resource router.
func mountRecords[T models.Record](r chi.Router, db *mongo.Database, kind recordstore.Kind, table recordpolicy.Table,
	prefix, mine string, deps recordsfeature.Deps, sm *auth.SessionManager) chi.Router {
	h := recordsfeature.NewHandler(recordstore.New[T](db, kind), table, prefix, deps)
	routes := recordsfeature.Routes(h, sm)
	r.Mount(prefix, routes)
	r.Mount(mine, recordsfeature.MineRoutes(h, sm))
	return routes
}

// csrfProtect guards every unsafe method. The key is derived from the
// session key so one secret configures both.
func csrfProtect(sessionKey string, secure bool) func(http.Handler) http.Handler {
	key := sha256.Sum256([]byte("csrf:" + sessionKey))
	return csrf.Protect(key[:],
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			errorsfeature.RenderForbidden(w, r, "Your form has expired. Please go back, reload the page and try again.", "")
		})),
	)
}

// plaintextCSRF tells the CSRF middleware that local dev is served over http.
func plaintextCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
