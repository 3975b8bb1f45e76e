// Package supabase implements backend.Auth and backend.TaskStore against a
// GoTrue auth API and a PostgREST row API.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"taskboard/internal/backend"
	"taskboard/internal/models"
	"taskboard/pkg/logger"
)

const (
	authPath = "/auth/v1"
	restPath = "/rest/v1/" + backend.Collection

	// DefaultTimeout is used when Options.Timeout is zero.
	DefaultTimeout = 10 * time.Second
)

// Options configures a Client.
type Options struct {
	BaseURL string
	AnonKey string
	Timeout time.Duration
	// HTTPClient overrides the transport (tests).
	HTTPClient *http.Client
}

// Client talks to the hosted backend over HTTPS.
type Client struct {
	base    string
	anonKey string
	timeout time.Duration
	http    *http.Client
}

var (
	_ backend.Auth      = (*Client)(nil)
	_ backend.TaskStore = (*Client)(nil)
	_ backend.Pinger    = (*Client)(nil)
)

// New creates a client. BaseURL and AnonKey are required.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("%w: base url is required", backend.ErrUnavailable)
	}
	if opts.AnonKey == "" {
		return nil, fmt.Errorf("%w: anon key is required", backend.ErrUnavailable)
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		base:    strings.TrimRight(opts.BaseURL, "/"),
		anonKey: opts.AnonKey,
		timeout: timeout,
		http:    hc,
	}, nil
}

type tokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"`
	ExpiresAt    int64       `json:"expires_at"`
	User         models.User `json:"user"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn uses the password grant.
func (c *Client) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	var tr tokenResponse
	err := c.do(ctx, http.MethodPost, authPath+"/token?grant_type=password", "", credentials{email, password}, &tr)
	if err != nil {
		return nil, err
	}
	s := &models.Session{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		User:         tr.User,
	}
	switch {
	case tr.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(tr.ExpiresAt, 0)
	case tr.ExpiresIn > 0:
		s.ExpiresAt = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return s, nil
}

// SignUp registers the account; the backend sends the verification email.
func (c *Client) SignUp(ctx context.Context, email, password string) error {
	return c.do(ctx, http.MethodPost, authPath+"/signup", "", credentials{email, password}, nil)
}

// User returns the user for token, or nil when the backend rejects the token.
func (c *Client) User(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	var u models.User
	err := c.do(ctx, http.MethodGet, authPath+"/user", token, nil, &u)
	if s := backend.StatusOf(err); s == http.StatusUnauthorized || s == http.StatusForbidden {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if u.ID == "" {
		return nil, nil
	}
	return &u, nil
}

// SignOut revokes the refresh tokens of the session.
func (c *Client) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return c.do(ctx, http.MethodPost, authPath+"/logout", token, nil, nil)
}

// Ping checks the auth health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, authPath+"/health", "", nil, nil)
}

// ListTasks selects every visible row, newest first. Each call is its own
// round trip so a reload after a write always sees that write.
func (c *Client) ListTasks(ctx context.Context, token string) ([]models.Task, error) {
	var tasks []models.Task
	q := url.Values{"select": {"*"}, "order": {"created_at.desc"}}
	if err := c.do(ctx, http.MethodGet, restPath+"?"+q.Encode(), token, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// InsertTask adds one row.
func (c *Client) InsertTask(ctx context.Context, token string, task models.NewTask) error {
	return c.do(ctx, http.MethodPost, restPath, token, task, nil)
}

// UpdateTask patches the row with id.
func (c *Client) UpdateTask(ctx context.Context, token, id string, fields map[string]any) error {
	return c.do(ctx, http.MethodPatch, restPath+"?"+idFilter(id), token, fields, nil)
}

// DeleteTask removes the row with id.
func (c *Client) DeleteTask(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, restPath+"?"+idFilter(id), token, nil, nil)
}

func idFilter(id string) string {
	return url.Values{"id": {"eq." + id}}.Encode()
}

// do sends one request. token falls back to the anon key for the bearer header.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	if token == "" {
		token = c.anonKey
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=minimal")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &backend.Error{Status: http.StatusGatewayTimeout, Message: "request timed out"}
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		logger.Debug(ctx, "Backend request failed", "method", method, "path", path, "status", resp.StatusCode)
		return &backend.Error{Status: resp.StatusCode, Message: errorMessage(data)}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorBody covers the GoTrue and PostgREST error shapes.
type errorBody struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
	Error            string `json:"error"`
}

func errorMessage(data []byte) string {
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err != nil {
		return strings.TrimSpace(string(data))
	}
	for _, m := range []string{eb.Msg, eb.Message, eb.ErrorDescription, eb.Error} {
		if m != "" {
			return m
		}
	}
	return ""
}
