// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/civichub/internal/app/system/auth"
	"go.uber.org/zap"
)

// ErrorLogger logs a request failure with its context and then renders the
// matching error response.
type ErrorLogger struct {
	log *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{log: logger}
}

func (l *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	fs := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if u, ok := auth.CurrentUser(r); ok {
		fs = append(fs, zap.String("user_id", u.ID))
	}
	if err != nil {
		fs = append(fs, zap.Error(err))
	}
	return fs
}

// LogServerError logs at error level and renders the 500 page.
func (l *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	l.log.Error(msg, l.fields(r, err)...)
	RenderServerError(w, r, userMsg, backURL)
}

// LogBadRequest logs at warn level and renders the 400 page.
func (l *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	l.log.Warn(msg, l.fields(r, err)...)
	RenderBadRequest(w, r, userMsg, backURL)
}

// LogForbidden logs at warn level and renders the 403 page.
func (l *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, msg string, userMsg, backURL string) {
	l.log.Warn(msg, l.fields(r, nil)...)
	RenderForbidden(w, r, userMsg, backURL)
}

// JSONServerError logs at error level and writes a 500 JSON error.
func (l *ErrorLogger) JSONServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	l.log.Error(msg, l.fields(r, err)...)
	WriteJSONError(w, http.StatusInternalServerError, userMsg)
}

// JSONBadRequest logs at info level and writes a 400 JSON error.
func (l *ErrorLogger) JSONBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	l.log.Info(msg, l.fields(r, err)...)
	WriteJSONError(w, http.StatusBadRequest, userMsg)
}
