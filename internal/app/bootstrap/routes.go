// internal/app/bootstrap/routes.go
package bootstrap

import (
	"errors"
	"net/http"

	accountsfeature "github.com/dalemusser/carehub/internal/app/features/accounts"
	appointmentsfeature "github.com/dalemusser/carehub/internal/app/features/appointments"
	healthfeature "github.com/dalemusser/carehub/internal/app/features/health"
	journalsfeature "github.com/dalemusser/carehub/internal/app/features/journals"
	locationsfeature "github.com/dalemusser/carehub/internal/app/features/locations"
	medsfeature "github.com/dalemusser/carehub/internal/app/features/meds"
	notificationsfeature "github.com/dalemusser/carehub/internal/app/features/notifications"
	patientsfeature "github.com/dalemusser/carehub/internal/app/features/patients"
	socketfeature "github.com/dalemusser/carehub/internal/app/features/socket"
	sosfeature "github.com/dalemusser/carehub/internal/app/features/sos"
	subscribefeature "github.com/dalemusser/carehub/internal/app/features/subscribe"
	userinfofeature "github.com/dalemusser/carehub/internal/app/features/userinfo"
	accountstore "github.com/dalemusser/carehub/internal/app/store/accounts"
	"github.com/dalemusser/carehub/internal/app/system/auth"
	"github.com/dalemusser/carehub/internal/app/system/metrics"
	"github.com/dalemusser/carehub/internal/app/system/ratelimit"
	"github.com/dalemusser/carehub/internal/app/system/uploads"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, the store connection, schema setup
// and Startup have completed, so the shared services in deps.Services are
// ready.
//
// CareHub applies CORS and session middleware, then mounts one feature
// router per resource plus the realtime socket, /metrics and, for local
// storage, the uploaded photos.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	svc := deps.Services
	if svc == nil || svc.Hub == nil || svc.Notifier == nil {
		return nil, errors.New("bootstrap: services not initialized; Startup must run before BuildHandler")
	}

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appCfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Loads SessionUser into context when a session cookie is present.
	r.Use(sessionMgr.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.Store, svc.Hub, svc.Dispatcher.Enabled(), logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Handle("/metrics", metrics.Handler())

	// Accounts
	accounts := accountstore.New(deps.Store)
	accountsHandler := accountsfeature.NewHandler(accounts, sessionMgr, logger)
	if appCfg.LoginRateLimit > 0 {
		accountsHandler.Limiter = ratelimit.New(appCfg.LoginRateLimit, appCfg.LoginRateWindow)
	}
	r.Mount("/register", accountsfeature.RegisterRoutes(accountsHandler))
	r.Mount("/login", accountsfeature.LoginRoutes(accountsHandler))

	userinfofeature.MountRoutes(r, userinfofeature.NewHandler(accounts, logger))

	// Patients and photos
	patientsHandler := patientsfeature.NewHandler(deps.Store, svc.Uploads, logger)
	r.Mount("/uploadPerson", patientsfeature.UploadRoutes(patientsHandler))
	r.Mount("/patients", patientsfeature.Routes(patientsHandler))
	if local, ok := svc.Uploads.(*uploads.Local); ok {
		r.Handle(local.URLPrefix()+"/*", local.Handler())
	}

	// Care records
	medsHandler := medsfeature.NewHandler(deps.Store, svc.Hub, svc.Notifier, logger)
	r.Mount("/meds", medsfeature.Routes(medsHandler))

	journalsHandler := journalsfeature.NewHandler(deps.Store, svc.Hub, svc.Notifier, logger)
	r.Mount("/journals", journalsfeature.Routes(journalsHandler))

	appointmentsHandler := appointmentsfeature.NewHandler(deps.Store, svc.Hub, svc.Notifier, logger)
	r.Mount("/appointments", appointmentsfeature.Routes(appointmentsHandler))

	notificationsHandler := notificationsfeature.NewHandler(deps.Store, logger)
	r.Mount("/notifications", notificationsfeature.Routes(notificationsHandler))

	subscribeHandler := subscribefeature.NewHandler(deps.Store, appCfg.VAPIDPublicKey, logger)
	r.Mount("/subscribe", subscribefeature.Routes(subscribeHandler))

	// Alerts and locations, shared with the socket handlers.
	sosHandler := sosfeature.NewHandler(svc.Hub, svc.Notifier, logger)
	r.Mount("/sos", sosfeature.Routes(sosHandler))

	locationsHandler := locationsfeature.NewHandler(deps.Store, svc.Hub, logger)
	r.Mount("/locations", locationsfeature.Routes(locationsHandler))

	socketHandler := socketfeature.NewHandler(svc.Hub, locationsHandler, sosHandler, logger)
	r.Mount("/ws", socketfeature.Routes(socketHandler))

	return r, nil
}
