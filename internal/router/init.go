package router

import (
	"github.com/oksasatya/bienesraices/internal/application"
	"github.com/oksasatya/bienesraices/internal/container"
	pginfra "github.com/oksasatya/bienesraices/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/bienesraices/internal/interface/http"
	"github.com/oksasatya/bienesraices/internal/router/modules"
)

type AuthModuleDeps struct {
	Service *application.AuthService
	Handler *handlers.AuthHandler
}

type PropertyModuleDeps struct {
	Service *application.PropertyService
	Handler *handlers.PropertyHandler
	Public  *handlers.PublicHandler
}

func buildAuthDeps() AuthModuleDeps {
	pool := container.GetPGPool()
	cfg := container.GetConfig()

	service := application.NewAuthService(
		pginfra.NewUserRepository(pool),
		pginfra.NewAuditRepository(pool),
		container.GetJWT(),
		container.GetDispatcher(),
		cfg,
		container.GetLogger(),
	)
	handler := handlers.NewAuthHandler(service, container.GetLogger(), container.GetCookies())

	return AuthModuleDeps{Service: service, Handler: handler}
}

func buildPropertyDeps() PropertyModuleDeps {
	pool := container.GetPGPool()
	cfg := container.GetConfig()

	service := application.NewPropertyService(
		pginfra.NewPropertyRepository(pool),
		pginfra.NewCatalogRepository(pool),
		pginfra.NewMessageRepository(pool),
		container.GetImageStore(),
		container.GetPropertyIndex(),
		container.GetRedis(),
		cfg.CatalogTTL,
		container.GetLogger(),
	)

	return PropertyModuleDeps{
		Service: service,
		Handler: handlers.NewPropertyHandler(service, container.GetLogger(), cfg.MaxImageBytes),
		Public:  handlers.NewPublicHandler(service, container.GetLogger()),
	}
}

// InitModules builds every feature module from the container singletons and
// adds it to the registry. Call once at startup after the container is filled.
func InitModules(r *Registry) {
	authDeps := buildAuthDeps()
	propDeps := buildPropertyDeps()

	r.Add(modules.NewAuthModule(authDeps.Handler))
	r.Add(modules.NewPropertyModule(propDeps.Handler, authDeps.Service))
	r.Add(modules.NewPublicModule(propDeps.Public))
	if cfg := container.GetConfig(); cfg != nil && cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
	r.NoRoute(propDeps.Public.NotFound)
}
