package controllers

import (
	"bytes"
	"io"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/RoomSageApp/RoomSage/internal/pkg/entitlements"
	"github.com/RoomSageApp/RoomSage/internal/pkg/metrics/counter"
	"github.com/RoomSageApp/RoomSage/internal/pkg/upload"
)

// Room photos above this edge length get downscaled before relaying; the
// analysis service rejects very large uploads and gains nothing from them.
const maxAnalyzeEdge = 2048

// HandleAnalyzeRoom accepts a room photo, checks the caller's entitlement
// and relays the image to the analysis service. Callers without an active
// subscription get exactly one run; afterwards the endpoint answers 402
// until they subscribe.
func HandleAnalyzeRoom(c *fiber.Ctx) error {
	id := currentIdentity(c)
	ctx := c.UserContext()

	if !resolver.CanConsumeTrial(ctx, id) {
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error":   "upgrade_required",
			"message": "Your free design analysis has been used. Subscribe to continue.",
		})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "missing_image",
			"message": "Please attach a room photo as the 'image' field.",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_image",
			"message": "The uploaded file could not be read.",
		})
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_image",
			"message": "The uploaded file could not be read.",
		})
	}

	if _, err := upload.ValidateImageBySniff(fileHeader.Filename, raw); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "unsupported_image",
			"message": err.Error(),
		})
	}

	payload := downscaleForAnalysis(raw)

	// Subscribers keep unlimited runs; everyone else spends the trial now,
	// before the relay. The run itself is the grant, so a degraded
	// placeholder result still counts.
	if !resolver.IsSubscribed(ctx, id) {
		if err := resolver.MarkTrialConsumed(ctx, id); err != nil {
			fiberlog.Warnf("[Design] trial consumption partially recorded for client %s: %v", id.ClientKey, err)
		}
		setTrialCookie(c)
	}

	analysis := analyzer.AnalyzeOrPlaceholder(ctx, fileHeader.Filename, payload)

	if err := counter.AddAnalysisRun(id.UserID); err != nil {
		fiberlog.Warnf("[Design] analysis counter increment failed for user %d: %v", id.UserID, err)
	}

	return c.JSON(fiber.Map{
		"analysis":    analysis,
		"entitlement": entitlementPayload(c, id),
	})
}

// entitlementPayload is the tri-state entitlement block shared by the
// analyze, account and entitlement endpoints.
func entitlementPayload(c *fiber.Ctx, id entitlements.Identity) fiber.Map {
	status := resolver.Resolve(c.UserContext(), id)
	return fiber.Map{
		"status":          string(status),
		"is_subscribed":   status == entitlements.StatusSubscribed,
		"free_trial_used": status != entitlements.StatusTrialAvailable,
	}
}

// downscaleForAnalysis re-encodes oversized photos to JPEG bounded by
// maxAnalyzeEdge. Anything that fails to decode is passed through
// untouched; the analysis service does its own validation.
func downscaleForAnalysis(raw []byte) []byte {
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return raw
	}

	bounds := img.Bounds()
	if bounds.Dx() <= maxAnalyzeEdge && bounds.Dy() <= maxAnalyzeEdge {
		return raw
	}

	resized := imaging.Fit(img, maxAnalyzeEdge, maxAnalyzeEdge, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return raw
	}
	return buf.Bytes()
}
