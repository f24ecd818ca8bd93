package router

import (
	userapp "github.com/danieloks/account-service/internal/application"
	"github.com/danieloks/account-service/internal/container"
	pginfra "github.com/danieloks/account-service/internal/infrastructure/postgres"
	handlers "github.com/danieloks/account-service/internal/interface/http"
	"github.com/danieloks/account-service/internal/router/modules"
)

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	users := pginfra.NewUserRepository(container.GetPGPool())
	tokens := pginfra.NewVerificationTokenRepository(container.GetPGPool())

	svc := userapp.NewService(
		users,
		container.GetJWT(),
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetRedis(),
		container.GetLogger(),
		container.GetES(),
		cfg.ESUsersIndex,
	)

	// Typed nil must not leak into the interface field.
	var pub userapp.EmailPublisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}

	verify := userapp.NewVerificationService(
		users,
		tokens,
		pub,
		svc,
		container.GetRedis(),
		container.GetLogger(),
		userapp.VerificationConfig{
			TokenTTL:       cfg.VerifyTokenTTL,
			VerifyEmailURL: cfg.VerifyEmailURL,
			CompanyName:    cfg.CompanyName,
			SupportURL:     cfg.SupportURL,
			MailEnabled:    cfg.MailSendEnabled,
		},
	)

	userHandler := handlers.NewUserHandler(svc, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)
	authHandler := handlers.NewAuthHandler(verify, container.GetLogger())
	adminHandler := handlers.NewAdminHandler(svc, container.GetLogger())

	r.Add(modules.NewUserModule(userHandler, users, container.GetJWT()))
	r.Add(modules.NewAuthModule(authHandler, users, container.GetJWT()))
	r.Add(modules.NewAdminModule(adminHandler, users, container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
