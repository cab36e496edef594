// Package release queries the remote release feed and resolves downloadable
// assets. The client returns the raw ordered release list: filtering drafts
// and prereleases is selection policy, applied by the orchestrator.
package release

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const httpTimeout = 30 * time.Second

// HTTPDoer interface for HTTP requests (allows mocking in tests).
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client fetches release metadata from a feed endpoint.
type Client struct {
	feedURL string
	http    HTTPDoer
}

// New creates a feed client with a default bounded-timeout HTTP client.
func New(feedURL string) *Client {
	return NewWith(feedURL, &http.Client{Timeout: httpTimeout})
}

// NewWith creates a feed client with a custom HTTP client (for testing).
func NewWith(feedURL string, h HTTPDoer) *Client {
	if h == nil {
		h = &http.Client{Timeout: httpTimeout}
	}
	return &Client{feedURL: strings.TrimSuffix(feedURL, "/"), http: h}
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "nexcart-installer")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch release feed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("no releases found")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("release feed error: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse release feed: %w", err)
	}
	return nil
}

// FetchReleases gets the full ordered release list from the feed.
func (c *Client) FetchReleases(ctx context.Context) ([]Release, error) {
	var releases []Release
	if err := c.get(ctx, c.feedURL, &releases); err != nil {
		return nil, err
	}
	return releases, nil
}

// FetchLatest gets the feed's designated latest release.
func (c *Client) FetchLatest(ctx context.Context) (*Release, error) {
	var rel Release
	if err := c.get(ctx, c.feedURL+"/latest", &rel); err != nil {
		return nil, err
	}
	return &rel, nil
}

// FetchReleaseByTag gets a specific release by tag.
func (c *Client) FetchReleaseByTag(ctx context.Context, tag string) (*Release, error) {
	if !strings.HasPrefix(tag, "v") {
		tag = "v" + tag
	}
	var rel Release
	if err := c.get(ctx, c.feedURL+"/tags/"+tag, &rel); err != nil {
		return nil, err
	}
	return &rel, nil
}
