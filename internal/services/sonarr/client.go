package sonarr

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

const apiPath = "/api/v3"

// ErrNotConfigured is returned when the Sonarr host or API key is unset
var ErrNotConfigured = errors.New("sonarr credentials not configured")

// Client handles communication with the Sonarr API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new Sonarr API client
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.SonarrHost, "/"),
		apiKey:     cfg.SonarrAPIKey,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		logger:     logger,
	}
}

// Name identifies the service in logs and metrics
func (c *Client) Name() string {
	return "sonarr"
}

// Configured reports whether host and API key are set
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values, result interface{}) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	fullURL := c.baseURL + apiPath + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	c.logger.WithFields(logrus.Fields{
		"method": method,
		"url":    fullURL,
	}).Debug("Making Sonarr API request")

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
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

// CheckConnection verifies that Sonarr is reachable with the configured key
func (c *Client) CheckConnection(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodGet, "/system/status", nil, nil)
}
