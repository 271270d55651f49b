package openreview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/orca-labs/orca-cli/internal/core/domain"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// maxErrorBody bounds how much of an error response is read back
	// into an APIError message.
	maxErrorBody = 2048
)

// NotesPage is one page of the /notes endpoint.
type NotesPage struct {
	Count int              `json:"count"`
	Notes []map[string]any `json:"notes"`
}

// Client is a thin HTTP client for the OpenReview API.
type Client struct {
	cfg         Config
	httpClient  *http.Client
	rateLimiter *RateLimiter

	mu    sync.Mutex
	token string
}

// NewClient creates an API client. Authentication is lazy: the /login
// exchange happens on the first authenticated request.
func NewClient(cfg Config) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		cfg:         cfg,
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		rateLimiter: NewRateLimiter(),
		token:       cfg.Token,
	}
}

// Login exchanges the configured username/password for a bearer token.
// A no-op when a token is already held or no credentials are configured.
func (c *Client) Login(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" || c.cfg.Username == "" {
		return nil
	}

	body, err := json.Marshal(map[string]string{
		"id":       c.cfg.Username,
		"password": c.cfg.Password,
	})
	if err != nil {
		return fmt.Errorf("encode login: %w", err)
	}

	loginURL := c.cfg.BaseURL + "/login"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusUnauthorized {
			return domain.ErrAuthInvalid
		}
		return readAPIError(resp, loginURL)
	}

	var decoded struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	if decoded.Token == "" {
		return domain.ErrAuthInvalid
	}

	c.token = decoded.Token
	return nil
}

// Token returns the bearer token currently held, if any.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Notes fetches one page of /notes for the given query parameters.
func (c *Client) Notes(ctx context.Context, params url.Values) (*NotesPage, error) {
	notesURL := c.cfg.BaseURL + "/notes?" + params.Encode()

	resp, err := c.get(ctx, notesURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var page NotesPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode notes page: %w", err)
	}
	return &page, nil
}

// FetchPDF downloads the PDF attached to a note. Implements the
// PDFFetcher driven port.
func (c *Client) FetchPDF(ctx context.Context, noteID string) ([]byte, error) {
	pdfURL := c.cfg.BaseURL + "/pdf?id=" + url.QueryEscape(noteID)

	resp, err := c.get(ctx, pdfURL)
	if err != nil {
		if IsNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	defer resp.Body.Close()

	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.HasPrefix(ct, "application/pdf") {
		return nil, domain.ErrNotFound
	}
	return io.ReadAll(resp.Body)
}

// get performs a rate-limited authenticated GET and maps non-2xx
// statuses to typed errors.
func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rawURL, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return resp, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		c.rateLimiter.UpdateFromResponse(resp)
		_ = resp.Body.Close()
		return nil, &RateLimitError{RetryAt: c.rateLimiter.RetryAt()}
	default:
		apiErr := readAPIError(resp, rawURL)
		_ = resp.Body.Close()
		return nil, apiErr
	}
}

// readAPIError drains a bounded slice of the response body into a
// typed APIError.
func readAPIError(resp *http.Response, rawURL string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = resp.Status
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    msg,
		URL:        rawURL,
	}
}
