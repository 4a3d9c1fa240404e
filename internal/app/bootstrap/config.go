// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/carehub/internal/app/system/realtime"
	"github.com/dalemusser/carehub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for CareHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: data_file, vapid_public_key, etc.
//   - Environment variables: CAREHUB_DATA_FILE, CAREHUB_VAPID_PUBLIC_KEY, etc.
//   - Command-line flags: --data_file, --vapid_public_key, etc.
var appConfigKeys = []config.AppKey{
	{Name: "store_backend", Default: "file", Desc: "Document store backend: 'file' or 'mongo'"},
	{Name: "data_file", Default: "./data/db.json", Desc: "Path of the JSON document (file backend)"},
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI (mongo backend)"},
	{Name: "mongo_database", Default: "carehub", Desc: "MongoDB database name"},
	{Name: "mongo_collection", Default: "documents", Desc: "MongoDB collection holding the care document"},

	// Web Push
	{Name: "vapid_public_key", Default: "", Desc: "VAPID public key (empty disables push)"},
	{Name: "vapid_private_key", Default: "", Desc: "VAPID private key (empty disables push)"},
	{Name: "vapid_subject", Default: "mailto:admin@carehub.local", Desc: "VAPID subject (mailto: or https URL)"},
	{Name: "push_ttl", Default: 60, Desc: "Push message TTL in seconds"},
	{Name: "push_timeout", Default: "10s", Desc: "Timeout per push delivery"},
	{Name: "push_concurrency", Default: 8, Desc: "Max concurrent push deliveries per notification"},
	{Name: "push_prune_gone", Default: false, Desc: "Remove subscriptions the push service reports as gone (404/410)"},

	// Reminder scanner
	{Name: "reminder_interval", Default: "60s", Desc: "How often appointments are scanned"},
	{Name: "reminder_window", Default: "60s", Desc: "How far ahead an appointment is reminded"},
	{Name: "reminder_dedup_window", Default: "0s", Desc: "Suppress repeat reminders for the same appointment within this window (0 = off)"},

	// Realtime
	{Name: "realtime_policy", Default: "broadcast", Desc: "Event delivery: 'broadcast' (everyone) or 'targeted' (joined recipients)"},

	// Sessions
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "carehub-session", Desc: "Session cookie name"},

	// Patient photos
	{Name: "upload_type", Default: "local", Desc: "Photo storage backend: 'local' or 's3'"},
	{Name: "upload_local_path", Default: "./uploads", Desc: "Local storage path for photos"},
	{Name: "upload_local_url", Default: "/uploads", Desc: "URL prefix for serving local photos"},
	{Name: "upload_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "upload_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "upload_s3_prefix", Default: "patients/", Desc: "S3 key prefix"},

	// Rate limiting
	{Name: "login_rate_limit", Default: 10, Desc: "Register/login attempts allowed per IP per window (0 = off)"},
	{Name: "login_rate_window", Default: "1m", Desc: "Register/login rate limit window"},

	{Name: "cors_allowed_origins", Default: "*", Desc: "Comma-separated CORS origins"},

	// Timeouts
	{Name: "ping_timeout", Default: "2s", Desc: "Store health check timeout"},
	{Name: "store_timeout", Default: "5s", Desc: "Timeout for one document load or update"},
	{Name: "scan_timeout", Default: "30s", Desc: "Timeout for one reminder scan"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, CAREHUB_* for app) and
// command-line flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CAREHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StoreBackend:    strings.ToLower(appValues.String("store_backend")),
		DataFile:        appValues.String("data_file"),
		MongoURI:        appValues.String("mongo_uri"),
		MongoDatabase:   appValues.String("mongo_database"),
		MongoCollection: appValues.String("mongo_collection"),

		// Web Push
		VAPIDPublicKey:  appValues.String("vapid_public_key"),
		VAPIDPrivateKey: appValues.String("vapid_private_key"),
		VAPIDSubject:    appValues.String("vapid_subject"),
		PushTTL:         appValues.Int("push_ttl"),
		PushTimeout:     appValues.Duration("push_timeout", 10*time.Second),
		PushConcurrency: appValues.Int("push_concurrency"),
		PushPruneGone:   appValues.Bool("push_prune_gone"),

		// Reminders
		ReminderInterval:    appValues.Duration("reminder_interval", time.Minute),
		ReminderWindow:      appValues.Duration("reminder_window", time.Minute),
		ReminderDedupWindow: appValues.Duration("reminder_dedup_window", 0),

		RealtimePolicy: appValues.String("realtime_policy"),

		SessionKey:  appValues.String("session_key"),
		SessionName: appValues.String("session_name"),

		// Photos
		UploadType:      strings.ToLower(appValues.String("upload_type")),
		UploadLocalPath: appValues.String("upload_local_path"),
		UploadLocalURL:  appValues.String("upload_local_url"),
		UploadS3Region:  appValues.String("upload_s3_region"),
		UploadS3Bucket:  appValues.String("upload_s3_bucket"),
		UploadS3Prefix:  appValues.String("upload_s3_prefix"),

		LoginRateLimit:  appValues.Int("login_rate_limit"),
		LoginRateWindow: appValues.Duration("login_rate_window", time.Minute),

		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),

		PingTimeout:  appValues.Duration("ping_timeout", timeouts.DefaultPing),
		StoreTimeout: appValues.Duration("store_timeout", timeouts.DefaultStore),
		ScanTimeout:  appValues.Duration("scan_timeout", timeouts.DefaultScan),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.StoreBackend {
	case "file":
		if appCfg.DataFile == "" {
			return fmt.Errorf("store_backend=file requires data_file")
		}
	case "mongo":
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if appCfg.MongoDatabase == "" || appCfg.MongoCollection == "" {
			return fmt.Errorf("store_backend=mongo requires mongo_database and mongo_collection")
		}
	default:
		return fmt.Errorf("store_backend must be 'file' or 'mongo', got %q", appCfg.StoreBackend)
	}

	if _, err := realtime.ParsePolicy(appCfg.RealtimePolicy); err != nil {
		return err
	}

	if (appCfg.VAPIDPublicKey == "") != (appCfg.VAPIDPrivateKey == "") {
		return fmt.Errorf("vapid_public_key and vapid_private_key must be set together")
	}

	switch appCfg.UploadType {
	case "local":
	case "s3":
		if appCfg.UploadS3Region == "" || appCfg.UploadS3Bucket == "" {
			return fmt.Errorf("upload_type=s3 requires upload_s3_region and upload_s3_bucket")
		}
	default:
		return fmt.Errorf("upload_type must be 'local' or 's3', got %q", appCfg.UploadType)
	}

	if appCfg.ReminderInterval <= 0 || appCfg.ReminderWindow <= 0 {
		return fmt.Errorf("reminder_interval and reminder_window must be positive")
	}

	if coreCfg != nil && coreCfg.Env == "prod" && strings.HasPrefix(appCfg.SessionKey, "dev-only") {
		logger.Warn("using the development session key in production; set CAREHUB_SESSION_KEY")
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
