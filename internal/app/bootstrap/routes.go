// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	broadcastfeature "github.com/ucek-sih/internals-portal/internal/app/features/broadcast"
	dashboardfeature "github.com/ucek-sih/internals-portal/internal/app/features/dashboard"
	discoveryfeature "github.com/ucek-sih/internals-portal/internal/app/features/discovery"
	exportfeature "github.com/ucek-sih/internals-portal/internal/app/features/export"
	healthfeature "github.com/ucek-sih/internals-portal/internal/app/features/health"
	loginfeature "github.com/ucek-sih/internals-portal/internal/app/features/login"
	problemsfeature "github.com/ucek-sih/internals-portal/internal/app/features/problems"
	registerfeature "github.com/ucek-sih/internals-portal/internal/app/features/register"
	teamsfeature "github.com/ucek-sih/internals-portal/internal/app/features/teams"
	"github.com/ucek-sih/internals-portal/internal/app/resources/problems"
	joinrequeststore "github.com/ucek-sih/internals-portal/internal/app/store/joinrequests"
	"github.com/ucek-sih/internals-portal/internal/app/store/oauthstate"
	participantstore "github.com/ucek-sih/internals-portal/internal/app/store/participants"
	teamstore "github.com/ucek-sih/internals-portal/internal/app/store/teams"
	"github.com/ucek-sih/internals-portal/internal/app/system/auth"
	"github.com/ucek-sih/internals-portal/internal/app/system/mailer"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// The portal is a JSON API consumed by a separate frontend; every
// feature mounts under /api except the health check. Admin surfaces
// (stats, broadcast, export) sit behind a role-gated route group.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Session cookies. Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	// Startup already parsed the embedded catalog; Load here just hands
	// back the shared instance.
	catalog, err := problems.Load()
	if err != nil {
		return nil, err
	}

	participants := participantstore.New(deps.MongoDatabase)
	teams := teamstore.New(deps.MongoDatabase)
	joinRequests := joinrequeststore.New(deps.MongoDatabase)
	oauthStates := oauthstate.New(deps.MongoDatabase)

	mailFactory := mailer.NewFactory(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		User:     appCfg.MailSMTPUser,
		Pass:     appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication (admin credentials + Google OAuth)
	loginHandler := loginfeature.NewHandler(oauthStates,
		appCfg.AdminEmail, appCfg.AdminPasswordHash, appCfg.AdminAllowlist,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	r.Mount("/api/auth", loginfeature.Routes(loginHandler))

	// Participant registration
	registerHandler := registerfeature.NewHandler(participants, mailFactory, appCfg.SiteName, logger)
	r.Mount("/api/register", registerfeature.Routes(registerHandler))

	// Team lifecycle: create, join by invite code, leave, join-request
	// management, problem-statement selection
	teamsHandler := teamsfeature.NewHandler(teams, participants, joinRequests, catalog, logger)
	r.Mount("/api/team", teamsfeature.Routes(teamsHandler))

	// Team discovery: open-team listing and join requests
	discoveryHandler := discoveryfeature.NewHandler(teams, participants, joinRequests, catalog, logger)
	r.Mount("/api/discovery", discoveryfeature.Routes(discoveryHandler))

	// Problem-statement catalog browsing
	problemsHandler := problemsfeature.NewHandler(catalog, logger)
	r.Mount("/api/problem-statements", problemsfeature.Routes(problemsHandler))

	// Admin dashboard: stats, broadcast email, data export
	dashboardHandler := dashboardfeature.NewHandler(participants, teams, logger)
	broadcastHandler := broadcastfeature.NewHandler(participants,
		broadcastfeature.FactorySource{Factory: mailFactory},
		appCfg.BroadcastChunkSize, appCfg.BroadcastDelay, logger)
	exportHandler := exportfeature.NewHandler(participants, teams, catalog, logger)

	r.Route("/api/dashboard", func(admin chi.Router) {
		admin.Use(auth.RequireSignedIn)
		admin.Use(auth.RequireRole("admin"))
		admin.Mount("/broadcast", broadcastfeature.Routes(broadcastHandler))
		admin.Mount("/export", exportfeature.Routes(exportHandler))
		admin.Mount("/", dashboardfeature.Routes(dashboardHandler))
	})

	return r, nil
}
