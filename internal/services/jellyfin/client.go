package jellyfin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/amaumene/mediacleanerr/internal/config"
	"github.com/sirupsen/logrus"
)

// ErrNotConfigured is returned when the Jellyfin host or API key is unset
var ErrNotConfigured = errors.New("jellyfin credentials not configured")

const clientName = "Media-Cleanerr"

// Client handles communication with the Jellyfin API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new Jellyfin API client
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.JellyfinHost, "/"),
		apiKey:     cfg.JellyfinAPIKey,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		logger:     logger,
	}
}

// Name identifies the service in logs and metrics
func (c *Client) Name() string {
	return "jellyfin"
}

// Configured reports whether host and API key are set
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

func (c *Client) authorization() string {
	return fmt.Sprintf(`MediaBrowser Client="%s", Device="Server", DeviceId="%s", Version="1.0.0", Token="%s"`,
		clientName, clientName, c.apiKey)
}

func (c *Client) doRequest(ctx context.Context, path string, params url.Values, result interface{}) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	c.logger.WithField("url", fullURL).Debug("Making Jellyfin API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Emby-Token", c.apiKey)
	req.Header.Set("X-Emby-Authorization", c.authorization())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// CheckConnection verifies that Jellyfin is reachable with the configured key
func (c *Client) CheckConnection(ctx context.Context) error {
	return c.doRequest(ctx, "/System/Info", nil, nil)
}
