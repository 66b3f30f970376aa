// Package omdb fetches canonical movie metadata from the OMDb API.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrUnavailable signals that the API could not be reached or did not answer
// usably. Callers use errors.Is to tell an outage apart from a title the API
// simply does not know.
var ErrUnavailable = errors.New("OMDb API is not accessible")

const defaultBaseURL = "https://www.omdbapi.com/"

// requestTimeout bounds every metadata request; past it the lookup fails as
// unavailable.
const requestTimeout = 5 * time.Second

// Result is the subset of an OMDb response the catalog stores.
type Result struct {
	Title      string
	Year       int
	Rating     float64
	Poster     string
	ExternalID string
	Country    string
	Genre      string
}

type payload struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	ImdbRating string `json:"imdbRating"`
	Poster     string `json:"Poster"`
	ImdbID     string `json:"imdbID"`
	Country    string `json:"Country"`
	Genre      string `json:"Genre"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(apiKey string, logger *slog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// Fetch looks title up by exact string. A (nil, nil) return means the API
// answered but knows no such movie; errors wrapping ErrUnavailable mean the
// API itself was unreachable.
func (c *Client) Fetch(ctx context.Context, title string) (*Result, error) {
	params := url.Values{
		"apikey": {c.apiKey},
		"t":      {title},
		"r":      {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var p payload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrUnavailable, err)
	}

	if p.Response == "False" {
		c.logger.Debug("no metadata match", "title", title, "reason", p.Error)
		return nil, nil
	}

	return &Result{
		Title:      p.Title,
		Year:       parseYear(p.Year),
		Rating:     parseRating(p.ImdbRating),
		Poster:     sanitizeField(p.Poster),
		ExternalID: p.ImdbID,
		Country:    sanitizeField(p.Country),
		Genre:      sanitizeField(p.Genre),
	}, nil
}

// parseYear reads the leading integer so series forms like "2019-2022" still
// yield a year.
func parseYear(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	year, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return year
}

// parseRating maps the API's "N/A" sentinel to 0.0.
func parseRating(s string) float64 {
	rating, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0.0
	}
	return rating
}

// sanitizeField strips the "N/A" placeholder the API uses for absent fields.
func sanitizeField(s string) string {
	if strings.TrimSpace(s) == "N/A" {
		return ""
	}
	return s
}
