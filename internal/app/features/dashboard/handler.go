// internal/app/features/dashboard/handler.go
package dashboard

import (
	"time"

	loginstore "github.com/dalemusser/civichub/internal/app/store/logins"
	recordstore "github.com/dalemusser/civichub/internal/app/store/records"
	userstore "github.com/dalemusser/civichub/internal/app/store/users"
	"github.com/dalemusser/civichub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	latestNewsLimit   = 5
	recentLoginsLimit = 10
)

type Handler struct {
	DB       *mongo.Database
	Projects *recordstore.Store[models.Project]
	News     *recordstore.Store[models.News]
	Logins   *loginstore.Store
	Users    *userstore.Store
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Projects: recordstore.New[models.Project](db, recordstore.Projects),
		News:     recordstore.New[models.News](db, recordstore.News),
		Logins:   loginstore.New(db),
		Users:    userstore.New(db),
		Log:      logger,
	}
}

// item is one linked row in a dashboard panel.
type item struct {
	Title   string
	Href    string
	Created string
}

func items[T models.Record](recs []T, prefix string) []item {
	out := make([]item, 0, len(recs))
	for _, rec := range recs {
		out = append(out, item{
			Title:   rec.RecordTitle(),
			Href:    prefix + "/" + rec.RecordID().Hex(),
			Created: rec.RecordCreatedAt().Format("Jan 2, 2006"),
		})
	}
	return out
}

func formatWhen(t time.Time) string {
	return t.Local().Format("Jan 2, 2006 3:04 PM")
}
