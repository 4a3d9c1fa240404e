// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/carehub/internal/app/store/docstore"
	"github.com/dalemusser/carehub/internal/app/system/notify"
	"github.com/dalemusser/carehub/internal/app/system/push"
	"github.com/dalemusser/carehub/internal/app/system/realtime"
	"github.com/dalemusser/carehub/internal/app/system/uploads"
	"github.com/dalemusser/carehub/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
//
// The hooks receive DBDeps by value, so the long-lived services built in
// Startup hang off the Services pointer allocated in ConnectDB.
type DBDeps struct {
	// Set only when store_backend=mongo.
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Store    docstore.Store
	Services *Services
}

// Services are the shared runtime components built during Startup.
type Services struct {
	Hub        *realtime.Hub
	Dispatcher push.Dispatcher
	Notifier   *notify.Notifier
	Reminders  *workers.Reminders
	Uploads    uploads.Store
}
