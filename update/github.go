package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"opengoal/version"

	"github.com/avast/retry-go"
	"github.com/sonh/qs"
)

const (
	DefaultOwner   = "open-goal"
	DefaultRepo    = "jak-project"
	githubAPIURL   = "https://api.github.com"
	defaultTimeout = 30 * time.Second
)

type Release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	Body        string    `json:"body"`
	Prerelease  bool      `json:"prerelease"`
	Draft       bool      `json:"draft"`
	HTMLURL     string    `json:"html_url"`
	PublishedAt time.Time `json:"published_at"`
	Assets      []Asset   `json:"assets"`
}

type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
	ContentType        string `json:"content_type"`
}

func (r *Release) FindAsset(name string) *Asset {
	for i := range r.Assets {
		if r.Assets[i].Name == name {
			return &r.Assets[i]
		}
	}
	return nil
}

// FindAssetMatching returns the first asset whose name contains fragment and
// ends with suffix.
func (r *Release) FindAssetMatching(fragment, suffix string) *Asset {
	for i := range r.Assets {
		name := r.Assets[i].Name
		if strings.Contains(name, fragment) && strings.HasSuffix(name, suffix) {
			return &r.Assets[i]
		}
	}
	return nil
}

type ListOptions struct {
	PerPage int `qs:"per_page,omitempty"`
	Page    int `qs:"page,omitempty"`
}

func (o ListOptions) Valid() bool {
	return o.PerPage > 0 || o.Page > 0
}

type queryParam interface {
	Valid() bool
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	attempts   uint
	retryDelay time.Duration
	logger     *slog.Logger
}

type ClientOption func(*Client)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

func WithRetries(attempts uint, delay time.Duration) ClientOption {
	return func(c *Client) {
		if attempts == 0 {
			attempts = 1
		}
		c.attempts = attempts
		c.retryDelay = delay
	}
}

func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: githubAPIURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		attempts:   3,
		retryDelay: time.Second,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) LatestRelease(ctx context.Context, owner, repo string) (*Release, error) {
	var release Release
	path := fmt.Sprintf("/repos/%s/%s/releases/latest", owner, repo)
	if err := c.get(ctx, path, nil, &release); err != nil {
		return nil, err
	}
	return &release, nil
}

func (c *Client) ListReleases(ctx context.Context, owner, repo string, opts ListOptions) ([]Release, error) {
	var releases []Release
	path := fmt.Sprintf("/repos/%s/%s/releases", owner, repo)
	if err := c.get(ctx, path, opts, &releases); err != nil {
		return nil, err
	}
	return releases, nil
}

// get retries transient failures. Client errors such as 404 are returned
// on the first attempt.
func (c *Client) get(ctx context.Context, path string, query queryParam, result interface{}) error {
	return retry.Do(
		func() error {
			return c.doRequest(ctx, path, query, result)
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("Retrying GitHub request", "path", path, "attempt", n+1, "error", err)
		}),
	)
}

func (c *Client) doRequest(ctx context.Context, path string, query queryParam, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if query != nil && query.Valid() {
		values, err := qs.NewEncoder().Values(query)
		if err == nil {
			req.URL.RawQuery = values.Encode()
		}
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", version.Get().UserAgent())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ClassifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
