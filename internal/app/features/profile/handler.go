// internal/app/features/profile/handler.go
package profile

import (
	uierrors "github.com/dalemusser/civichub/internal/app/features/errors"
	userstore "github.com/dalemusser/civichub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the signed-in user's profile page.
type Handler struct {
	Users  *userstore.Store
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:  userstore.New(db),
		Log:    logger,
		ErrLog: errLog,
	}
}
