package router

import (
	app "github.com/peerfact/peerfact/internal/application"
	"github.com/peerfact/peerfact/internal/container"
	"github.com/peerfact/peerfact/internal/engine"
	pginfra "github.com/peerfact/peerfact/internal/infrastructure/postgres"
	handlers "github.com/peerfact/peerfact/internal/interface/http"
	"github.com/peerfact/peerfact/internal/router/modules"
)

// Deps holds the wired repositories, services, and handlers so callers
// (and tests) can reach into any layer.
type Deps struct {
	Users         *app.UserService
	Claims        *app.ClaimService
	Verifications *app.VerificationService
	UserHandler   *handlers.UserHandler
	ClaimHandler  *handlers.ClaimHandler
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	userRepo := pginfra.NewUserRepository(pool)
	claimRepo := pginfra.NewClaimRepository(pool)
	verifRepo := pginfra.NewVerificationRepository(pool)

	params := engine.DefaultParams()

	userSvc := app.NewUserService(userRepo, container.GetJWT(), container.GetRedis(), logger)
	claimSvc := &app.ClaimService{
		Claims:        claimRepo,
		Verifications: verifRepo,
		Users:         userRepo,
		Gateway:       container.GetGateway(),
		Params:        params,
		GCS:           container.GetGCS(),
		GCSBucket:     cfg.GCSBucket,
		ES:            container.GetES(),
		ESClaimsIndex: cfg.ESClaimsIndex,
		Events:        container.GetRabbitPub(),
		Logger:        logger,
	}
	verifSvc := &app.VerificationService{
		Claims:        claimRepo,
		Verifications: verifRepo,
		Users:         userRepo,
		Params:        params,
		Logger:        logger,
	}

	return Deps{
		Users:         userSvc,
		Claims:        claimSvc,
		Verifications: verifSvc,
		UserHandler:   handlers.NewUserHandler(userSvc, logger, cfg.CookieDomain, cfg.CookieSecure),
		ClaimHandler:  handlers.NewClaimHandler(claimSvc, verifSvc, logger),
	}
}

// InitModules wires all application modules and registers them with the
// router registry. Call once during startup.
func InitModules(r *Registry) {
	deps := buildDeps()
	r.Add(modules.NewUserModule(deps.UserHandler, container.GetJWT()))
	r.Add(modules.NewClaimModule(deps.ClaimHandler, container.GetJWT()))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
