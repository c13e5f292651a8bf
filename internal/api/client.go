// Package api is the typed client for the FrontDesk backend. Every response
// is parsed into a model at this boundary; nothing loosely typed leaks out.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/frontdeskhq/console/internal/session"
)

type Client struct {
	baseURL string
	http    *http.Client
	store   session.Store

	// OnUnauthorized runs after a 401 on an authenticated call, once the
	// session has been cleared. The UI uses it to jump to the sign-in
	// screen.
	OnUnauthorized func()
}

func New(baseURL string, store session.Store) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		store:   store,
	}
}

// authed marks calls that carry the bearer token and treat a 401 as a dead
// session.
const (
	authed   = true
	unauthed = false
)

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, authed)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out, authed)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, authed)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, withAuth bool) error {
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		rdr = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withAuth {
		if sess, ok := c.store.Session(); ok {
			req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Keeps context.Canceled reachable through errors.Is for callers
		// that abort superseded requests.
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && withAuth {
		c.expireSession()
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		return c.errorFrom(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// raw fetches a non-JSON body, like a recording.
func (c *Client) raw(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if sess, ok := c.store.Session(); ok {
		req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.expireSession()
		return nil, ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		return nil, c.errorFrom(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}

// errorFrom pulls the message out of the backend's {"error": "..."} body.
func (c *Client) errorFrom(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Error
	}
	return apiErr
}

// expireSession clears the stored session and fires the sign-in hook.
func (c *Client) expireSession() {
	if err := c.store.Clear(); err != nil {
		log.Warn().Err(err).Msg("could not clear session after 401")
	}
	if c.OnUnauthorized != nil {
		c.OnUnauthorized()
	}
}
