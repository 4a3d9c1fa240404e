// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/carehub/internal/app/system/notify"
	"github.com/dalemusser/carehub/internal/app/system/push"
	"github.com/dalemusser/carehub/internal/app/system/realtime"
	"github.com/dalemusser/carehub/internal/app/system/timeouts"
	"github.com/dalemusser/carehub/internal/app/system/uploads"
	"github.com/dalemusser/carehub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after the store is
// ready, but before the HTTP handler is built. It builds the realtime hub,
// the push dispatcher, the notifier and photo storage, and starts the
// reminder scanner.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	policy, err := realtime.ParsePolicy(appCfg.RealtimePolicy)
	if err != nil {
		return err
	}

	up, err := newUploadStore(ctx, appCfg)
	if err != nil {
		return err
	}

	svc := deps.Services
	svc.Uploads = up
	svc.Hub = realtime.NewHub(policy, logger)
	svc.Dispatcher = push.New(push.Config{
		VAPIDPublicKey:  appCfg.VAPIDPublicKey,
		VAPIDPrivateKey: appCfg.VAPIDPrivateKey,
		Subject:         appCfg.VAPIDSubject,
		TTL:             appCfg.PushTTL,
		Timeout:         appCfg.PushTimeout,
		Concurrency:     appCfg.PushConcurrency,
	}, logger)
	svc.Notifier = notify.New(deps.Store, svc.Hub, svc.Dispatcher, appCfg.PushPruneGone, logger)
	svc.Reminders = workers.NewReminders(deps.Store, svc.Hub, svc.Notifier, logger, workers.ReminderConfig{
		Interval: appCfg.ReminderInterval,
		Window:   appCfg.ReminderWindow,
		Dedup:    appCfg.ReminderDedupWindow,
	})
	svc.Reminders.Start()

	t := timeouts.Current()
	logger.Info("carehub started",
		zap.String("realtime_policy", string(policy)),
		zap.Duration("store_timeout", t.Store),
		zap.Duration("scan_timeout", t.Scan),
		zap.Bool("push_enabled", svc.Dispatcher.Enabled()),
		zap.String("upload_type", appCfg.UploadType))
	return nil
}

func newUploadStore(ctx context.Context, appCfg AppConfig) (uploads.Store, error) {
	switch appCfg.UploadType {
	case "s3":
		s, err := uploads.NewS3(ctx, appCfg.UploadS3Region, appCfg.UploadS3Bucket, appCfg.UploadS3Prefix)
		if err != nil {
			return nil, fmt.Errorf("init s3 uploads: %w", err)
		}
		return s, nil
	default:
		l, err := uploads.NewLocal(appCfg.UploadLocalPath, appCfg.UploadLocalURL)
		if err != nil {
			return nil, fmt.Errorf("init local uploads: %w", err)
		}
		return l, nil
	}
}
