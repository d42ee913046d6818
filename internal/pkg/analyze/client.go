package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/RoomSageApp/RoomSage/internal/pkg/env"
)

// Client relays room photos to the hosted analysis service. A secondary
// host is tried when the primary fails; after that callers fall back to the
// tagged placeholder via AnalyzeOrPlaceholder.
type Client struct {
	hosts      []string
	httpClient *http.Client
}

func NewClient(hosts ...string) *Client {
	cleaned := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.TrimSpace(h)
		if h != "" {
			cleaned = append(cleaned, h)
		}
	}
	return &Client{
		hosts:      cleaned,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func NewClientFromEnv() *Client {
	hosts := []string{env.GetEnv("ANALYZE_API_URL", "http://interior.techrealm.online/api/interior-design")}
	if fallback := env.GetEnv("ANALYZE_API_FALLBACK_URL", ""); fallback != "" {
		hosts = append(hosts, fallback)
	}
	return NewClient(hosts...)
}

// Analyze posts the image to each configured host in order and returns the
// first successful analysis.
func (c *Client) Analyze(ctx context.Context, filename string, image []byte) (*RoomAnalysis, error) {
	if len(c.hosts) == 0 {
		return nil, fmt.Errorf("analyze: no hosts configured")
	}

	var lastErr error
	for _, host := range c.hosts {
		analysis, err := c.analyzeHost(ctx, host, filename, image)
		if err == nil {
			return analysis, nil
		}
		lastErr = err
		fiberlog.Warnf("[Analyze] host %s failed: %v", host, err)
	}
	return nil, lastErr
}

// AnalyzeOrPlaceholder never fails: when every host is down the user gets
// the canned placeholder, tagged degraded in the payload and in the log.
func (c *Client) AnalyzeOrPlaceholder(ctx context.Context, filename string, image []byte) *RoomAnalysis {
	analysis, err := c.Analyze(ctx, filename, image)
	if err != nil {
		fiberlog.Warnf("[Analyze] all hosts failed, serving degraded placeholder result: %v", err)
		return Placeholder()
	}
	return analysis
}

func (c *Client) analyzeHost(ctx context.Context, host, filename string, image []byte) (*RoomAnalysis, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, host, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyze request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("analyze failed: status=%d body=%s", resp.StatusCode, string(raw))
	}

	var analysis RoomAnalysis
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return nil, fmt.Errorf("analyze: decoding response: %w", err)
	}
	return &analysis, nil
}
