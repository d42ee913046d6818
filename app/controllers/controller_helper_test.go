package controllers

import (
	"bytes"
	"image"
	"image/jpeg"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RoomSageApp/RoomSage/internal/pkg/subscription"
)

func TestFormatTimePtr(t *testing.T) {
	assert.Nil(t, formatTimePtr(nil))

	now := time.Date(2024, 5, 1, 12, 34, 56, 0, time.Local)
	formatted := formatTimePtr(&now)
	assert.IsType(t, "", formatted)

	expected := now.UTC().Format(time.RFC3339)
	assert.Equal(t, expected, formatted)
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("", "a", "b"))
	assert.Equal(t, "b", firstNonEmpty("", "", "b"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}

func TestRedirectParamsFromQuery(t *testing.T) {
	app := fiber.New()

	var got subscription.RedirectParams
	app.Get("/payment-callback", func(c *fiber.Ctx) error {
		got = redirectParamsFromQuery(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/payment-callback?success=true&data.message=Approved&txn_response_code=APPROVED&id=pay_123", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, "true", got.Success)
	assert.Equal(t, "Approved", got.Message)
	assert.Equal(t, "APPROVED", got.ResponseCode)
	assert.Equal(t, "pay_123", got.PaymentID)
}

func TestDownscaleForAnalysis(t *testing.T) {
	t.Run("small image passes through", func(t *testing.T) {
		small := encodeJPEG(t, 100, 80)
		assert.Equal(t, small, downscaleForAnalysis(small))
	})

	t.Run("oversized image is bounded", func(t *testing.T) {
		big := encodeJPEG(t, maxAnalyzeEdge+500, 600)
		out := downscaleForAnalysis(big)
		require.NotEqual(t, big, out)

		img, err := jpeg.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.LessOrEqual(t, img.Bounds().Dx(), maxAnalyzeEdge)
		assert.LessOrEqual(t, img.Bounds().Dy(), maxAnalyzeEdge)
	})

	t.Run("undecodable data passes through", func(t *testing.T) {
		junk := []byte("not an image at all")
		assert.Equal(t, junk, downscaleForAnalysis(junk))
	})
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}
