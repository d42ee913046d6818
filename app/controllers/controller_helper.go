package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/RoomSageApp/RoomSage/internal/pkg/analyze"
	"github.com/RoomSageApp/RoomSage/internal/pkg/entitlements"
	"github.com/RoomSageApp/RoomSage/internal/pkg/env"
	"github.com/RoomSageApp/RoomSage/internal/pkg/payment"
	"github.com/RoomSageApp/RoomSage/internal/pkg/subscription"
	"github.com/RoomSageApp/RoomSage/internal/pkg/trialflag"
	"github.com/RoomSageApp/RoomSage/internal/pkg/usercontext"
)

const (
	AUTH_KEY   string = "authenticated"
	USER_ID    string = "user_id"
	USER_NAME  string = "username"
	USER_EMAIL string = "user_email"
)

// RoomAnalyzer is the slice of the analysis client the design flow needs.
type RoomAnalyzer interface {
	AnalyzeOrPlaceholder(ctx context.Context, filename string, image []byte) *analyze.RoomAnalysis
}

var (
	resolver  *entitlements.Resolver
	activator *subscription.Service
	gateway   *payment.Client
	approved  subscription.StatusSet
	flags     entitlements.FlagStore
	analyzer  RoomAnalyzer
)

// InitializeControllers wires the handler package to its collaborators.
// Called once from the router after DB and cache are up.
func InitializeControllers(
	res *entitlements.Resolver,
	act *subscription.Service,
	pay *payment.Client,
	statuses subscription.StatusSet,
	flagStore entitlements.FlagStore,
	an RoomAnalyzer,
) {
	resolver = res
	activator = act
	gateway = pay
	approved = statuses
	flags = flagStore
	analyzer = an
}

// currentIdentity builds the entitlement identity for this request and
// mirrors a legacy browser cookie into the keyed flag store. Clients that
// consumed their trial before the server kept flags still present the
// cookie; folding it in keeps the grant once-ever across the migration.
func currentIdentity(c *fiber.Ctx) entitlements.Identity {
	userCtx := usercontext.GetUserContext(c)
	id := entitlements.Identity{
		UserID:    userCtx.UserID,
		ClientKey: userCtx.ClientID,
		LoggedIn:  userCtx.IsLoggedIn,
	}
	if id.ClientKey == "" {
		// Routes outside the context middleware (the OAuth callback) still
		// carry the browser cookie directly.
		id.ClientKey = c.Cookies(trialflag.ClientIDCookie)
	}

	if c.Cookies(trialflag.CookieName) == trialflag.CookieValue && id.ClientKey != "" {
		if err := flags.Mark(c.UserContext(), id.ClientKey); err != nil {
			fiberlog.Warnf("[Entitlements] cookie mirror failed for client %s: %v", id.ClientKey, err)
		}
	}

	return id
}

// setTrialCookie mirrors trial consumption back to the browser so the SPA
// can gate its UI without a round trip.
func setTrialCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     trialflag.CookieName,
		Value:    trialflag.CookieValue,
		Expires:  time.Now().AddDate(1, 0, 0),
		HTTPOnly: false,
		Secure:   !env.IsDev(),
		SameSite: "Lax",
	})
}
