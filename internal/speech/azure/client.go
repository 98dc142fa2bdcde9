package azure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"herald/internal/config"
	"herald/internal/services"
	"herald/internal/speech"
	"herald/internal/voices"
)

const (
	defaultEndpointFormat = "https://%s.tts.speech.microsoft.com"
	synthesizePath        = "/cognitiveservices/v1"
	voicesPath            = "/cognitiveservices/voices/list"
	defaultTimeout        = 30 * time.Second
	userAgent             = "herald"
)

// HTTPDoer describes the HTTP client used to reach the speech service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the speech service's REST endpoints.
type Client struct {
	key          string
	endpoint     string
	outputFormat string
	client       HTTPDoer
}

var _ speech.Engine = (*Client)(nil)
var _ voices.Fetcher = (*Client)(nil)

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// NewClient constructs a speech client from the speech configuration. Config
// normalization scrubs placeholder credentials, so anything missing here is
// genuinely unconfigured.
func NewClient(cfg config.Speech, opts ...Option) (*Client, error) {
	if !cfg.Configured() {
		return nil, services.Wrap(services.ErrConfiguration, "speech", "new client",
			"speech key and region are not set; configure them or export HERALD_SPEECH_KEY and HERALD_SPEECH_REGION", nil)
	}
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		endpoint = fmt.Sprintf(defaultEndpointFormat, cfg.Region)
	}
	timeout := defaultTimeout
	if cfg.RequestTimeout > 0 {
		timeout = time.Duration(cfg.RequestTimeout) * time.Second
	}
	c := &Client{
		key:          cfg.Key,
		endpoint:     endpoint,
		outputFormat: cfg.OutputFormat,
		client:       &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Synthesize posts the request's SSML document and returns the audio bytes.
func (c *Client) Synthesize(ctx context.Context, req speech.Request) ([]byte, error) {
	format := strings.TrimSpace(req.OutputFormat)
	if format == "" {
		format = c.outputFormat
	}
	ssml := speech.BuildSSML(req)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+synthesizePath, strings.NewReader(ssml))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "speech", "synthesize", "build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/ssml+xml")
	httpReq.Header.Set("X-Microsoft-OutputFormat", format)
	httpReq.Header.Set("Ocp-Apim-Subscription-Key", c.key)
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, wrapTransportError("synthesize", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, statusError("synthesize", resp)
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "speech", "synthesize", "read audio payload", err)
	}
	return audio, nil
}

// Voices fetches the service's voice listing.
func (c *Client) Voices(ctx context.Context) ([]voices.Entry, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+voicesPath, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "speech", "voices", "build request", err)
	}
	httpReq.Header.Set("Ocp-Apim-Subscription-Key", c.key)
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, wrapTransportError("voices", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, statusError("voices", resp)
	}
	var entries []voices.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, services.Wrap(services.ErrExternalService, "speech", "voices", "decode voice listing", err)
	}
	return entries, nil
}

func statusError(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	detail := fmt.Sprintf("speech service returned %d", resp.StatusCode)
	if snippet := responseSnippet(body); snippet != "" {
		detail = detail + ": " + snippet
	}
	return services.Wrap(classifyStatus(resp.StatusCode), "speech", operation, detail, nil)
}

func classifyStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return services.ErrConfiguration
	case status == http.StatusRequestTimeout:
		return services.ErrTimeout
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return services.ErrTransient
	default:
		return services.ErrExternalService
	}
}

func wrapTransportError(operation string, err error) error {
	marker := services.ErrTransient
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		marker = services.ErrTimeout
	}
	return services.Wrap(marker, "speech", operation, "contact speech service", err)
}

func responseSnippet(body []byte) string {
	clean := strings.Join(strings.Fields(string(body)), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
