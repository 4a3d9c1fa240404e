// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/carehub/internal/app/store/docstore"
	"github.com/dalemusser/carehub/internal/app/system/timeouts"
	"github.com/dalemusser/carehub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB applies the configured timeouts and opens the document store.
// The Mongo client is only created for store_backend=mongo.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	timeouts.Configure(timeouts.Config{
		Ping:  appCfg.PingTimeout,
		Store: appCfg.StoreTimeout,
		Scan:  appCfg.ScanTimeout,
	})

	deps := DBDeps{Services: &Services{}}

	switch appCfg.StoreBackend {
	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(appCfg.MongoURI))
		if err != nil {
			return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
		defer cancel()
		if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
		}
		db := client.Database(appCfg.MongoDatabase)
		deps.MongoClient = client
		deps.MongoDatabase = db
		deps.Store = docstore.NewMongoStore(db, appCfg.MongoCollection, logger)
		logger.Info("document store: mongo",
			zap.String("database", appCfg.MongoDatabase),
			zap.String("collection", appCfg.MongoCollection))
	default:
		deps.Store = docstore.NewFileStore(appCfg.DataFile, logger)
		logger.Info("document store: file", zap.String("path", appCfg.DataFile))
	}

	return deps, nil
}

// EnsureSchema makes sure the document exists with every sequence present,
// so a fresh install starts from the documented empty document.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := deps.Store.Ping(ctx); err != nil {
		return fmt.Errorf("document store unreachable: %w", err)
	}
	err := deps.Store.Update(ctx, func(doc *models.Document) error {
		doc.Normalize()
		return nil
	})
	if err != nil {
		return fmt.Errorf("initialize document: %w", err)
	}
	return nil
}
