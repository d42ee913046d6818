package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/RoomSageApp/RoomSage/app/controllers"
	"github.com/RoomSageApp/RoomSage/internal/pkg/analyze"
	"github.com/RoomSageApp/RoomSage/internal/pkg/cache"
	"github.com/RoomSageApp/RoomSage/internal/pkg/database"
	"github.com/RoomSageApp/RoomSage/internal/pkg/entitlements"
	"github.com/RoomSageApp/RoomSage/internal/pkg/middleware"
	"github.com/RoomSageApp/RoomSage/internal/pkg/oauth"
	"github.com/RoomSageApp/RoomSage/internal/pkg/payment"
	"github.com/RoomSageApp/RoomSage/internal/pkg/session"
	"github.com/RoomSageApp/RoomSage/internal/pkg/subscription"
	"github.com/RoomSageApp/RoomSage/internal/pkg/trialflag"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init oauth providers
	oauth.Setup()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Wire the entitlement core once DB and cache are up
	flags := trialflag.NewRedisStore(cache.GetClient())
	activator := subscription.NewServiceFromDB(database.GetDB())
	resolver := entitlements.NewResolver(activator.Repo(), flags)
	controllers.InitializeControllers(
		resolver,
		activator,
		payment.NewClientFromEnv(),
		subscription.StatusSetFromEnv(),
		flags,
		analyze.NewClientFromEnv(),
	)

	h.registerPublicRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
