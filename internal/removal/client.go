package removal

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cutout/internal/services"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	maxResponseBytes   = 64 << 20
)

// ErrUnrecognizedShape marks a response body the client could not normalize
// into image bytes.
var ErrUnrecognizedShape = errors.New("unrecognized response shape")

// Config captures the runtime settings required to talk to the removal API.
type Config struct {
	APIKey         string
	BaseURL        string
	TimeoutSeconds int
}

// Client calls an external background-removal endpoint and normalizes its
// heterogeneous response formats into plain image bytes. The client performs
// no retry loops of its own; the queue owns the retry counter.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a removal client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}
	return client
}

// Configured reports whether the client has the credentials required to make
// live requests.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != "" && c.cfg.BaseURL != ""
}

// Remove submits the supplied image and returns the background-free result.
func (c *Client) Remove(ctx context.Context, imageData []byte, contentType string) ([]byte, error) {
	if len(imageData) == 0 {
		return nil, services.Wrap(services.ErrValidation, "removal", "remove", "image data required", nil)
	}
	if c.cfg.APIKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "removal", "remove", "api key not configured", nil)
	}
	if c.cfg.BaseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "removal", "remove", "base url not configured", nil)
	}
	if contentType == "" {
		contentType = http.DetectContentType(imageData)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(imageData))
	if err != nil {
		return nil, services.Wrap(services.ErrExternalAPI, "removal", "remove", "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json, image/*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, services.Wrap(services.ErrExternalAPI, "removal", "remove", "read response", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, classifyStatusError(resp.StatusCode, body)
	}

	result, err := normalizeResponse(resp.Header.Get("Content-Type"), body)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalAPI, "removal", "remove", "normalize response", err)
	}
	return result, nil
}

// HealthCheck verifies that the client is configured for live requests. It
// does not spend API quota on a probe request.
func (c *Client) HealthCheck(_ context.Context) error {
	if c.cfg.APIKey == "" {
		return services.Wrap(services.ErrConfiguration, "removal", "health", "api key not configured", nil)
	}
	if _, err := url.ParseRequestURI(c.cfg.BaseURL); err != nil {
		return services.Wrap(services.ErrConfiguration, "removal", "health", "invalid base url", err)
	}
	return nil
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, "removal", "remove", "request timed out", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return services.Wrap(services.ErrTimeout, "removal", "remove", "request timed out", err)
	}
	return services.Wrap(services.ErrTransient, "removal", "remove", "http request failed", err)
}

func classifyStatusError(status int, body []byte) error {
	message := fmt.Sprintf("http %d: %s", status, summarizeBody(body))
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return services.Wrap(services.ErrConfiguration, "removal", "remove", message, nil)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return services.Wrap(services.ErrTimeout, "removal", "remove", message, nil)
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return services.Wrap(services.ErrTransient, "removal", "remove", message, nil)
	default:
		return services.Wrap(services.ErrExternalAPI, "removal", "remove", message, nil)
	}
}

func summarizeBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "<empty>"
	}
	// Surface a structured error message when the API sends one.
	var payload struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			trimmed = payload.Error
		} else if payload.Detail != "" {
			trimmed = payload.Detail
		}
	}
	clean := strings.Join(strings.Fields(trimmed), " ")
	const limit = 200
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}

// normalizeResponse converts the removal API response into raw image bytes.
// Known shapes: a raw image body, {"image": "<data url or base64>"}, and
// {"data": {"result_b64": "<base64>"}}.
func normalizeResponse(contentType string, body []byte) ([]byte, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrUnrecognizedShape)
	}
	mediaType := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(mediaType, ";"); idx >= 0 {
		mediaType = strings.TrimSpace(mediaType[:idx])
	}
	if strings.HasPrefix(mediaType, "image/") || strings.HasPrefix(mediaType, "application/octet-stream") {
		return body, nil
	}

	var envelope struct {
		Image string `json:"image"`
		Data  struct {
			ResultB64 string `json:"result_b64"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		// Not JSON; accept bodies that sniff as images even without a
		// content-type header.
		if strings.HasPrefix(http.DetectContentType(body), "image/") {
			return body, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrUnrecognizedShape, summarizeBody(body))
	}
	if envelope.Image != "" {
		return decodeImageField(envelope.Image)
	}
	if envelope.Data.ResultB64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(envelope.Data.ResultB64))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid result_b64: %v", ErrUnrecognizedShape, err)
		}
		return decoded, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnrecognizedShape, summarizeBody(body))
}

// decodeImageField accepts either a data URL or bare base64.
func decodeImageField(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "data:") {
		idx := strings.Index(value, ",")
		if idx < 0 {
			return nil, fmt.Errorf("%w: malformed data url", ErrUnrecognizedShape)
		}
		header := value[:idx]
		payload := value[idx+1:]
		if !strings.Contains(header, ";base64") {
			return nil, fmt.Errorf("%w: data url is not base64", ErrUnrecognizedShape)
		}
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid data url payload: %v", ErrUnrecognizedShape, err)
		}
		return decoded, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 image field: %v", ErrUnrecognizedShape, err)
	}
	return decoded, nil
}
