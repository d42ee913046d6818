package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to existing controllers to keep behavior consistent
	"github.com/RoomSageApp/RoomSage/app/controllers"
	"github.com/RoomSageApp/RoomSage/internal/pkg/middleware"
)

// Pong is the ping response body.
type Pong struct {
	Ping string `json:"ping"`
}

// APIServer implements the public v1 surface
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetEntitlement reports the caller's trial and subscription state.
// Anonymous callers are resolved by their client cookie.
func (s *APIServer) GetEntitlement(c *fiber.Ctx) error {
	return controllers.HandleEntitlement(c)
}

// PostAnalyze relays a room photo to the analysis service, gated by the
// caller's entitlement.
func (s *APIServer) PostAnalyze(c *fiber.Ctx) error {
	return controllers.HandleAnalyzeRoom(c)
}

// GetAccount returns profile plus subscription state for the session user.
func (s *APIServer) GetAccount(c *fiber.Ctx) error {
	return controllers.HandleAccount(c)
}

// PostPayment opens a checkout session at the payment gateway.
func (s *APIServer) PostPayment(c *fiber.Ctx) error {
	return controllers.HandleCreatePayment(c)
}

// RegisterHandlers attaches the v1 routes to the given router group.
func RegisterHandlers(router fiber.Router, s *APIServer) {
	router.Get("/ping", s.GetPing)
	router.Get("/entitlement", s.GetEntitlement)
	router.Post("/analyze", s.PostAnalyze)
	router.Get("/account", middleware.RequireAPISessionAuth, s.GetAccount)
	router.Post("/payments", middleware.RequireAPISessionAuth, s.PostPayment)
}
