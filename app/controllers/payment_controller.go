package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/RoomSageApp/RoomSage/app/repository"
	"github.com/RoomSageApp/RoomSage/internal/pkg/constants"
	"github.com/RoomSageApp/RoomSage/internal/pkg/env"
	"github.com/RoomSageApp/RoomSage/internal/pkg/mail"
	"github.com/RoomSageApp/RoomSage/internal/pkg/payment"
	"github.com/RoomSageApp/RoomSage/internal/pkg/subscription"
	"github.com/RoomSageApp/RoomSage/internal/pkg/usercontext"
)

// HandleCreatePayment opens a checkout session at the gateway and hands
// the redirect link to the SPA. Requires a logged-in session; anonymous
// visitors must register before paying so the activation has a user row
// to land on.
func HandleCreatePayment(c *fiber.Ctx) error {
	callbackURL := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:8080") + constants.PaymentCallbackRoute

	resp, err := gateway.CreatePayment(c.UserContext(), payment.AmountFils, callbackURL)
	if err != nil {
		fiberlog.Errorf("[Payment] checkout creation failed for user %d: %v", usercontext.GetUserID(c), err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "payment_unavailable",
			"message": "The payment provider could not be reached. Please try again.",
		})
	}

	return c.JSON(fiber.Map{
		"payment_url": resp.URL(),
		"reference":   resp.Ref(),
	})
}

// HandlePaymentCallback lands the browser after checkout. The provider's
// redirect parameters decide between direct activation, a verification
// round trip and failure; ambiguity never silently activates.
func HandlePaymentCallback(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		fm := fiber.Map{
			"type":    "error",
			"message": "Please log in to finish activating your subscription.",
		}
		return flash.WithError(c, fm).Redirect(constants.LoginRoute)
	}

	params := redirectParamsFromQuery(c)
	durationDays := env.GetEnvInt("SUBSCRIPTION_DURATION_DAYS", subscription.DefaultDurationDays)

	switch params.Decide(approved) {
	case subscription.DecisionActivate:
		if err := activator.Activate(c.UserContext(), userCtx.UserID, params.PaymentID, durationDays); err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": "Your payment was approved but activation failed. Please contact support.",
			}
			return flash.WithError(c, fm).Redirect(constants.AccountRoute)
		}
		sendActivationMail(userCtx, params.PaymentID)

	case subscription.DecisionVerify:
		activated, err := activator.VerifyByReference(c.UserContext(), userCtx.UserID, params.PaymentID)
		if err != nil {
			fiberlog.Errorf("[Payment] verification failed for user %d ref %s: %v", userCtx.UserID, params.PaymentID, err)
			fm := fiber.Map{
				"type":    "error",
				"message": "We could not verify your payment. Please contact support.",
			}
			return flash.WithError(c, fm).Redirect(constants.AccountRoute)
		}
		if !activated {
			fm := fiber.Map{
				"type":    "error",
				"message": "Payment failed or was cancelled.",
			}
			return flash.WithError(c, fm).Redirect(constants.AccountRoute)
		}
		sendActivationMail(userCtx, params.PaymentID)

	default:
		fm := fiber.Map{
			"type":    "error",
			"message": "Payment failed or was cancelled.",
		}
		return flash.WithError(c, fm).Redirect(constants.AccountRoute)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Subscription activated. Enjoy unlimited designs!",
	}
	return flash.WithSuccess(c, fm).Redirect(constants.AccountRoute)
}

// redirectParamsFromQuery lifts the provider's redirect query into the
// callback decision input. The approval message arrives under the literal
// key "data.message", dots included.
func redirectParamsFromQuery(c *fiber.Ctx) subscription.RedirectParams {
	return subscription.RedirectParams{
		Success:      c.Query("success"),
		Message:      c.Query("data.message"),
		ResponseCode: c.Query("txn_response_code"),
		PaymentID:    c.Query("id"),
	}
}

func sendActivationMail(userCtx usercontext.UserContext, paymentRef string) {
	email := userCtx.Email
	if email == "" {
		user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(userCtx.UserID)
		if err != nil {
			fiberlog.Warnf("[Payment] activation mail skipped, no address for user %d: %v", userCtx.UserID, err)
			return
		}
		email = user.Email
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nyour RoomSage subscription is active for the next %d days.\nPayment reference: %s\n\nHappy designing!",
		userCtx.Username, subscription.DefaultDurationDays, paymentRef,
	)
	if err := mail.SendMail(email, "Your RoomSage subscription is active", body); err != nil {
		fiberlog.Warnf("[Payment] activation mail to %s failed: %v", email, err)
	}
}
