package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/RoomSageApp/RoomSage/app/repository"
	"github.com/RoomSageApp/RoomSage/internal/pkg/usercontext"
	"github.com/RoomSageApp/RoomSage/internal/pkg/utils"
)

// HandleAccount returns the logged-in user's profile together with the
// resolved entitlement and subscription window.
func HandleAccount(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "account not found",
		})
	}

	avatarURL := user.AvatarURL
	if avatarURL == "" {
		avatarURL = utils.GetGravatarURL(user.Email, 200)
	}

	id := currentIdentity(c)
	payload := fiber.Map{
		"user": fiber.Map{
			"id":            user.ID,
			"name":          user.Name,
			"email":         user.Email,
			"avatar_url":    avatarURL,
			"last_login_at": formatTimePtr(user.LastLoginAt),
		},
		"entitlement": entitlementPayload(c, id),
	}

	if rec, err := activator.Repo().GetByUserID(c.UserContext(), user.ID); err == nil && rec != nil {
		payload["subscription"] = fiber.Map{
			"active":         rec.SubscriptionActive(time.Now()),
			"start_date":     formatTimePtr(rec.SubscriptionStartDate),
			"end_date":       formatTimePtr(rec.SubscriptionEndDate),
			"analysis_count": rec.AnalysisCount,
		}
	}

	return c.JSON(payload)
}

// HandleEntitlement reports the caller's entitlement. Works for anonymous
// visitors too; the SPA calls it on load to decide whether to show the
// free-trial button or the paywall.
func HandleEntitlement(c *fiber.Ctx) error {
	id := currentIdentity(c)
	return c.JSON(entitlementPayload(c, id))
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
