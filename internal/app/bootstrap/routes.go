// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	healthfeature "github.com/lecternhq/lectern/internal/app/features/health"
	mediafeature "github.com/lecternhq/lectern/internal/app/features/media"
	notificationsfeature "github.com/lecternhq/lectern/internal/app/features/notifications"
	"github.com/lecternhq/lectern/internal/app/features/passwordreset"
	sessionfeature "github.com/lecternhq/lectern/internal/app/features/session"
	"github.com/lecternhq/lectern/internal/app/media"
	notificationstore "github.com/lecternhq/lectern/internal/app/store/notifications"
	profilestore "github.com/lecternhq/lectern/internal/app/store/profiles"
	"github.com/lecternhq/lectern/internal/app/store/resettokens"
	"github.com/lecternhq/lectern/internal/app/system/auth"
	"github.com/lecternhq/lectern/internal/app/system/identity"
	"github.com/lecternhq/lectern/internal/app/system/mailer"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. It builds the stores, the
// identity resolver over the three role collections, the media broker,
// and mounts the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Role-scoped profile stores, probed in precedence order by the
	// resolver.
	superAdmins := profilestore.NewSuperAdmins(deps.MongoDatabase, appCfg.SuperAdminCollection)
	teachers := profilestore.NewTeachers(deps.MongoDatabase, appCfg.TeacherCollection)
	students := profilestore.NewStudents(deps.MongoDatabase, appCfg.StudentCollection)

	resolver := identity.NewResolver(superAdmins, teachers, students, logger)
	controller := identity.NewController(resolver)

	notifications := notificationstore.New(deps.MongoDatabase, appCfg.NotificationCollection)
	tokens := resettokens.New(deps.MongoDatabase, appCfg.ResetTokenCollection, appCfg.ResetTokenExpiry)

	mail := mailer.New(
		appCfg.MailSMTPHost, appCfg.MailSMTPPort,
		appCfg.MailSMTPUser, appCfg.MailSMTPPass,
		appCfg.MailFrom, appCfg.MailFromName,
		logger)

	broker := media.NewBroker(deps.Storage, media.Buckets{
		Lecture:  appCfg.LectureBucket,
		Resource: appCfg.ResourceBucket,
		Avatar:   appCfg.AvatarBucket,
	}, logger)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	healthHandler.MountRoutes(r)

	sessionHandler := sessionfeature.NewHandler(controller, sessionMgr, logger)
	r.Route("/session", sessionHandler.MountRoutes)

	mediaHandler := mediafeature.NewHandler(broker, logger)
	r.Route("/media", func(r chi.Router) {
		r.Use(auth.RequireIdentity)
		mediaHandler.MountRoutes(r)
	})

	notificationsHandler := notificationsfeature.NewHandler(notifications, controller, logger)
	r.Route("/notifications", notificationsHandler.MountRoutes)

	resetHandler := passwordreset.NewHandler(
		[]passwordreset.ProfileFinder{superAdmins, teachers, students},
		tokens, mail,
		appCfg.SiteName, appCfg.BaseURL,
		logger)
	r.Route("/password-reset", resetHandler.MountRoutes)

	return r, nil
}
