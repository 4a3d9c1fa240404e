// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops background work, drains in-flight push fan-outs, closes
// realtime connections and disconnects Mongo.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if svc := deps.Services; svc != nil {
		if svc.Reminders != nil {
			svc.Reminders.Stop()
		}
		if svc.Notifier != nil {
			done := make(chan struct{})
			go func() {
				svc.Notifier.Wait()
				close(done)
			}()
			select {
			case <-done:
			case <-ctx.Done():
				logger.Warn("shutdown: push fan-outs still running", zap.Error(ctx.Err()))
			}
		}
		if svc.Hub != nil {
			svc.Hub.Close()
		}
	}

	if deps.MongoClient != nil {
		logger.Info("disconnecting CareHub MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
