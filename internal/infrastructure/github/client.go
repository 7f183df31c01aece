// Package github calls the Github REST API to list a user's public
// repositories. The response body is treated as opaque JSON and passed
// through to API clients unmodified.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/devlink/devlink-api/internal/core/domain"
)

const defaultBaseURL = "https://api.github.com"

// The lookup is fixed to the five oldest repositories.
const (
	reposPerPage = "5"
	reposSort    = "created:asc"
)

// Config carries the client credentials passed on each request and the
// optional overrides used by tests.
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	Timeout      time.Duration
}

// Client is a minimal Github API client with an enforced request timeout.
type Client struct {
	http         *http.Client
	baseURL      string
	clientID     string
	clientSecret string
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http:         &http.Client{Timeout: timeout},
		baseURL:      baseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
	}
}

// Repos fetches the user's repositories. Any non-200 upstream status maps
// to domain.ErrGithubNotFound; transport failures surface as wrapped
// errors and become server errors at the API boundary.
func (c *Client) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos", c.baseURL, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("github request: %w", err)
	}

	q := req.URL.Query()
	q.Set("per_page", reposPerPage)
	q.Set("sort", reposSort)
	if c.clientID != "" {
		q.Set("client_id", c.clientID)
		q.Set("client_secret", c.clientSecret)
	}
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "devlink-api")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.ErrGithubNotFound
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("github read body: %w", err)
	}
	return json.RawMessage(body), nil
}
