package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/RoomSageApp/RoomSage/app/controllers"
	"github.com/RoomSageApp/RoomSage/internal/pkg/constants"
	"github.com/RoomSageApp/RoomSage/internal/pkg/env"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))
	group.Get(constants.PublicRoute, controllers.HandleStart)
	group.Post(constants.LoginRoute, controllers.HandleAuthLogin)
	group.Post(constants.RegisterRoute, controllers.HandleAuthRegister)

	// The payment provider redirects the browser here after checkout.
	group.Get(constants.PaymentCallbackRoute, controllers.HandlePaymentCallback)
}
