// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/civichub/internal/app/store/audit"
	"github.com/dalemusser/civichub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, logout, provisioning).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for record and user changes.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
}

// Logger writes audit events to MongoDB (via audit.Store) and/or zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.RecordKind != "" {
		fields = append(fields, zap.String("record_kind", event.RecordKind))
	}
	if event.RecordID != nil {
		fields = append(fields, zap.String("record_id", event.RecordID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	}
	if setting == "" {
		setting = "all"
	}
	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func base(r *http.Request, category, eventType string, success bool) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   success,
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, authMethod, loginID string) {
	ev := base(r, audit.CategoryAuth, audit.EventLoginSuccess, true)
	ev.UserID = &userID
	ev.Details = map[string]string{"auth_method": authMethod, "login_id": loginID}
	l.Log(ctx, ev)
}

// LoginFailedUserNotFound logs a sign-in attempt for an unknown login id.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedLoginID string) {
	ev := base(r, audit.CategoryAuth, audit.EventLoginFailedUserNotFound, false)
	ev.FailureReason = "user not found"
	ev.Details = map[string]string{"attempted_login_id": attemptedLoginID}
	l.Log(ctx, ev)
}

// LoginFailedWrongPassword logs a sign-in attempt with a bad password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, loginID string) {
	ev := base(r, audit.CategoryAuth, audit.EventLoginFailedWrongPassword, false)
	ev.UserID = &userID
	ev.FailureReason = "wrong password"
	ev.Details = map[string]string{"login_id": loginID}
	l.Log(ctx, ev)
}

// LoginFailedUserDisabled logs a sign-in attempt on a disabled account.
func (l *Logger) LoginFailedUserDisabled(ctx context.Context, r *http.Request, userID primitive.ObjectID, loginID string) {
	ev := base(r, audit.CategoryAuth, audit.EventLoginFailedUserDisabled, false)
	ev.UserID = &userID
	ev.FailureReason = "user disabled"
	ev.Details = map[string]string{"login_id": loginID}
	l.Log(ctx, ev)
}

// LoginFailedRateLimit logs a sign-in attempt rejected by the limiter.
func (l *Logger) LoginFailedRateLimit(ctx context.Context, r *http.Request, loginID string) {
	ev := base(r, audit.CategoryAuth, audit.EventLoginFailedRateLimit, false)
	ev.FailureReason = "rate limit exceeded"
	ev.Details = map[string]string{"login_id": loginID}
	l.Log(ctx, ev)
}

// Logout logs a sign-out. userIDStr comes from the SessionUser; a malformed
// id is logged without a user.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDStr string) {
	ev := base(r, audit.CategoryAuth, audit.EventLogout, true)
	if oid, err := primitive.ObjectIDFromHex(userIDStr); err == nil {
		ev.UserID = &oid
	}
	l.Log(ctx, ev)
}

// UserProvisioned logs a user created on first Google sign-in.
func (l *Logger) UserProvisioned(ctx context.Context, r *http.Request, userID primitive.ObjectID, email, role string) {
	ev := base(r, audit.CategoryAuth, audit.EventUserProvisioned, true)
	ev.UserID = &userID
	ev.Details = map[string]string{"email": email, "role": role}
	l.Log(ctx, ev)
}

// --- Record Events ---

func (l *Logger) record(ctx context.Context, r *http.Request, eventType string, actorID primitive.ObjectID, kind string, recordID primitive.ObjectID, details map[string]string) {
	ev := base(r, audit.CategoryAdmin, eventType, true)
	ev.ActorID = &actorID
	ev.RecordKind = kind
	ev.RecordID = &recordID
	ev.Details = details
	l.Log(ctx, ev)
}

// RecordCreated logs creation of a worker, project, investment or news item.
func (l *Logger) RecordCreated(ctx context.Context, r *http.Request, actorID primitive.ObjectID, kind string, recordID primitive.ObjectID, title string) {
	l.record(ctx, r, audit.EventRecordCreated, actorID, kind, recordID, map[string]string{"title": title})
}

// RecordUpdated logs an edit. replacedImage is "true" when a new attachment was uploaded.
func (l *Logger) RecordUpdated(ctx context.Context, r *http.Request, actorID primitive.ObjectID, kind string, recordID primitive.ObjectID, replacedImage bool) {
	v := "false"
	if replacedImage {
		v = "true"
	}
	l.record(ctx, r, audit.EventRecordUpdated, actorID, kind, recordID, map[string]string{"replaced_image": v})
}

// RecordDeleted logs a deletion.
func (l *Logger) RecordDeleted(ctx context.Context, r *http.Request, actorID primitive.ObjectID, kind string, recordID primitive.ObjectID) {
	l.record(ctx, r, audit.EventRecordDeleted, actorID, kind, recordID, nil)
}

// --- User administration (CLI) ---

// UserCreated logs a user created outside a request (admin CLI, bootstrap).
func (l *Logger) UserCreated(ctx context.Context, userID primitive.ObjectID, role, source string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventUserCreated,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"role": role, "source": source},
	})
}

// RoleChanged logs a role change made outside a request.
func (l *Logger) RoleChanged(ctx context.Context, userID primitive.ObjectID, from, to string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventRoleChanged,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"from": from, "to": to},
	})
}
