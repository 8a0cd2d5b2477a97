// internal/app/features/auditlog/handler.go
package auditlog

import (
	uierrors "github.com/dalemusser/civichub/internal/app/features/errors"
	"github.com/dalemusser/civichub/internal/app/store/audit"
	userstore "github.com/dalemusser/civichub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin audit log viewer.
type Handler struct {
	Events *audit.Store
	Users  *userstore.Store
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Events: audit.New(db),
		Users:  userstore.New(db),
		Log:    logger,
		ErrLog: errLog,
	}
}
