package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/RoomSageApp/RoomSage/internal/pkg/usercontext"
)

// HandleStart answers the root route with a small service descriptor the
// SPA polls on boot to learn login state before rendering.
func HandleStart(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	return c.JSON(fiber.Map{
		"service":      "roomsage",
		"is_logged_in": userCtx.IsLoggedIn,
		"username":     userCtx.Username,
	})
}
