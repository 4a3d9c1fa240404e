// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, and logging. Everything specific to CareHub lives here and
// is passed to the lifecycle hooks.
type AppConfig struct {
	// Document store
	StoreBackend    string // "file" or "mongo"
	DataFile        string // JSON document path (file backend)
	MongoURI        string // MongoDB connection string (mongo backend)
	MongoDatabase   string // Database name within MongoDB
	MongoCollection string // Collection holding the care document

	// Web Push (VAPID). Both keys empty disables push.
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string        // mailto: address or https URL for the push service
	PushTTL         int           // seconds the push service keeps undelivered messages
	PushTimeout     time.Duration // per-delivery timeout
	PushConcurrency int           // max deliveries in flight per notification
	PushPruneGone   bool          // drop subscriptions the push service reports gone

	// Reminder scanner
	ReminderInterval    time.Duration
	ReminderWindow      time.Duration
	ReminderDedupWindow time.Duration // 0 disables dedup

	// Realtime
	RealtimePolicy string // "broadcast" or "targeted"

	// Session management configuration
	SessionKey  string // Secret key for signing session cookies (must be strong in production)
	SessionName string // Cookie name for sessions (default: carehub-session)

	// Patient photo storage
	UploadType      string // "local" or "s3"
	UploadLocalPath string // Local storage path (e.g., "./uploads")
	UploadLocalURL  string // URL prefix for serving local files (e.g., "/uploads")
	UploadS3Region  string
	UploadS3Bucket  string
	UploadS3Prefix  string

	// Login/register rate limit, per client IP
	LoginRateLimit  int
	LoginRateWindow time.Duration

	CORSAllowedOrigins []string

	// Operation timeouts; zero keeps the package default
	PingTimeout  time.Duration
	StoreTimeout time.Duration
	ScanTimeout  time.Duration
}
