// Package client calls the site's own /api endpoints. The page loader uses it
// before first render and the terminal pager uses it for page turns.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/liamwears/reelbrowser/internal/models"
)

// APIError is a non-success response from a proxy endpoint
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api request failed with status %d", e.Status)
	}
	return fmt.Sprintf("api request failed with status %d: %s", e.Status, e.Message)
}

// Caller identifies the browser request a loader call is made on behalf of
type Caller struct {
	// ForwardedFor is sent as X-Forwarded-For so the rate limiter sees the
	// visitor rather than the server itself.
	ForwardedFor string
	RequestID    string
}

type callerKey struct{}

// WithCaller attaches caller identity to ctx for requests made with it
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// Client talks to /api/getMovies and /api/getMovieDetails on one base URL
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for baseURL (scheme://host). A nil httpClient gets a
// default with a 15s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// BaseURL returns the address the client calls
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Movies fetches one page of popular movies
func (c *Client) Movies(ctx context.Context, page string) (*models.PageResult, error) {
	var result models.PageResult
	if err := c.get(ctx, "/api/getMovies", url.Values{"page": {page}}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MovieDetails fetches one movie with its cast
func (c *Client) MovieDetails(ctx context.Context, id string) (*models.MovieDetail, error) {
	var movie models.MovieDetail
	if err := c.get(ctx, "/api/getMovieDetails", url.Values{"id": {id}}, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if caller, ok := ctx.Value(callerKey{}).(Caller); ok {
		if caller.ForwardedFor != "" {
			req.Header.Set("X-Forwarded-For", caller.ForwardedFor)
		}
		if caller.RequestID != "" {
			req.Header.Set("X-Request-ID", caller.RequestID)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode}
		var env models.ErrorEnvelope
		if json.Unmarshal(body, &env) == nil {
			apiErr.Message = env.Message
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
