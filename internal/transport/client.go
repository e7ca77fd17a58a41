package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ganot/project-sentry/internal/domain/project"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:5000/api"

// Client talks to the Project Sentry HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a client rooted at baseURL. A zero timeout means none.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health reports the API status from GET /health.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var out HealthStatus
	err := c.getJSON(ctx, "/health", &out)
	return out, err
}

// ListProjects returns every project from GET /projects, never nil.
func (c *Client) ListProjects(ctx context.Context) ([]project.Project, error) {
	var out []project.Project
	if err := c.getJSON(ctx, "/projects", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []project.Project{}
	}
	return out, nil
}

// GetProject returns one project with its validation results.
func (c *Client) GetProject(ctx context.Context, id string) (project.Detail, error) {
	var out project.Detail
	err := c.getJSON(ctx, "/projects/"+url.PathEscape(id), &out)
	return out, err
}

// Dashboard returns the aggregate statistics from GET /dashboard.
func (c *Client) Dashboard(ctx context.Context) (Dashboard, error) {
	var out Dashboard
	err := c.getJSON(ctx, "/dashboard", &out)
	return out, err
}

// Issues lists the issues recorded for a project.
func (c *Client) Issues(ctx context.Context, projectID string) ([]Issue, error) {
	var out []Issue
	if err := c.getJSON(ctx, "/issues/"+url.PathEscape(projectID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

// do executes req and decodes a 2xx body into out. Every failure other than
// caller cancellation comes back as *Error.
func (c *Client) do(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
		}
		c.logger.Error("network error", "method", req.Method, "path", req.URL.Path, "error", err)
		return transportError(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api response", "method", req.Method, "path", req.URL.Path,
		"status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body)
		c.logger.Error("api error", "method", req.Method, "path", req.URL.Path,
			"status", resp.StatusCode, "error", body.Error)
		return serverError(resp.StatusCode, body.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return decodeError(fmt.Errorf("decoding %s: %w", req.URL.Path, err))
	}
	return nil
}
