package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/RoomSageApp/RoomSage/app/controllers"
	"github.com/RoomSageApp/RoomSage/internal/pkg/env"
	"github.com/RoomSageApp/RoomSage/internal/pkg/session"
	"github.com/RoomSageApp/RoomSage/internal/pkg/trialflag"
	"github.com/RoomSageApp/RoomSage/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the complete user context for every request.
// It also pins a long-lived client ID cookie on first contact so anonymous
// trial state can be keyed per browser instead of one global flag.
func UserContextMiddleware(c *fiber.Ctx) error {
	// Goth keeps its own fiber session store on /auth/*; stay out of the way.
	if strings.HasPrefix(c.Path(), "/auth/") {
		return c.Next()
	}

	clientID := ensureClientID(c)

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		setAnonymous(c, clientID)
		return c.Next()
	}

	userID := sess.Get(controllers.USER_ID)
	if userID == nil {
		setAnonymous(c, clientID)
		return c.Next()
	}

	userCtx := usercontext.UserContext{
		UserID:     userID.(uint),
		Username:   session.GetSessionValue(c, controllers.USER_NAME),
		Email:      session.GetSessionValue(c, controllers.USER_EMAIL),
		ClientID:   clientID,
		IsLoggedIn: true,
	}
	c.Locals(usercontext.KeyUserContext, userCtx)
	c.Locals(usercontext.KeyLoggedIn, true)

	return c.Next()
}

func setAnonymous(c *fiber.Ctx, clientID string) {
	c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
		ClientID:   clientID,
		IsLoggedIn: false,
	})
	c.Locals(usercontext.KeyLoggedIn, false)
}

func ensureClientID(c *fiber.Ctx) string {
	if id := c.Cookies(trialflag.ClientIDCookie); id != "" {
		return id
	}
	id := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     trialflag.ClientIDCookie,
		Value:    id,
		Expires:  time.Now().AddDate(1, 0, 0),
		HTTPOnly: true,
		Secure:   !env.IsDev(),
		SameSite: "Lax",
	})
	return id
}
