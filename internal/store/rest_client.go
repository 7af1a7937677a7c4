package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/eduflow/course-booking/pkg/retry"
)

// HTTPError is a non-2xx response from the catalog store, carrying the
// status code so callers can map it onto domain errors.
type HTTPError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("catalog store: %s %s returned %d", e.Method, e.Path, e.StatusCode)
}

// IsNotFound reports whether the response was a 404
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsConflict reports whether the response was a concurrency conflict
func (e *HTTPError) IsConflict() bool {
	return e.StatusCode == http.StatusPreconditionFailed || e.StatusCode == http.StatusConflict
}

// ifMatchHeader is sent on version-checked full replaces
const ifMatchHeader = "If-Match"

// ClientConfig holds configuration for the catalog store client
type ClientConfig struct {
	// BaseURL of the catalog store, e.g. http://localhost:3000
	BaseURL string
	// Timeout per request (default: 10s)
	Timeout time.Duration
	// MaxRetries for transient failures; 5xx and transport errors are
	// retried, 4xx are not (default: 2)
	MaxRetries int
	// OptimisticLocking controls whether full replaces send If-Match
	// headers. Disable when the store does not understand preconditions.
	OptimisticLocking bool
}

// Client is the shared JSON HTTP client the typed stores are built on
type Client struct {
	baseURL    string
	httpClient *http.Client
	retrier    *retry.Retrier
	locking    bool
}

// NewClient creates a catalog store client
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg == nil || cfg.BaseURL == "" {
		return nil, fmt.Errorf("catalog store base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	} else if maxRetries == 0 {
		maxRetries = 2
	}

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retrier: retry.New(&retry.Config{
			MaxRetries:      maxRetries,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     2 * time.Second,
		}),
		locking: cfg.OptimisticLocking,
	}, nil
}

// OptimisticLocking reports whether version-checked writes are enabled
func (c *Client) OptimisticLocking() bool {
	return c.locking
}

// Ping checks that the catalog store answers at all
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return c.doJSON(ctx, http.MethodGet, "/courses", nil, nil, nil)
}

// getJSON issues a GET and decodes the response into out
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	return c.withRetry(ctx, http.MethodGet, path, nil, nil, out)
}

// postJSON issues a POST with a JSON body. POSTs are not retried: the
// store offers no idempotency tokens, so a retry could double-write.
func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out)
}

// putJSON issues a full-replace PUT. version > 0 adds an If-Match
// precondition when optimistic locking is enabled.
func (c *Client) putJSON(ctx context.Context, path string, version int64, body, out interface{}) error {
	var headers http.Header
	if c.locking && version > 0 {
		headers = http.Header{}
		headers.Set(ifMatchHeader, strconv.FormatInt(version, 10))
	}
	return c.doJSON(ctx, http.MethodPut, path, headers, body, out)
}

// patchJSON issues a partial-update PATCH
func (c *Client) patchJSON(ctx context.Context, path string, body, out interface{}) error {
	return c.doJSON(ctx, http.MethodPatch, path, nil, body, out)
}

// delete issues a DELETE
func (c *Client) delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}

// withRetry wraps doJSON in the transient-failure retry policy
func (c *Client) withRetry(ctx context.Context, method, path string, headers http.Header, body, out interface{}) error {
	result := c.retrier.Do(ctx, func(ctx context.Context) error {
		err := c.doJSON(ctx, method, path, headers, body, out)
		if err == nil {
			return nil
		}
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode < 500 {
			return retry.Permanent(err)
		}
		return err
	})
	if result.Err != nil {
		if result.LastError != nil {
			return result.LastError
		}
		return result.Err
	}
	return nil
}

// doJSON performs one request/response cycle
func (c *Client) doJSON(ctx context.Context, method, path string, headers http.Header, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Body:       string(data),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
