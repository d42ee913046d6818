package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/RoomSageApp/RoomSage/app/controllers"
	"github.com/RoomSageApp/RoomSage/internal/pkg/middleware"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Auth
	app.Post("/logout", middleware.RequireAuth, controllers.HandleAuthLogout)

	// Social OAuth
	app.Get("/auth/:provider", controllers.HandleOAuthLogin)
	app.Get("/auth/:provider/callback", controllers.HandleOAuthCallback)
}
