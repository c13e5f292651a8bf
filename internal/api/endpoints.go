package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/frontdeskhq/console/internal/models"
	"github.com/frontdeskhq/console/internal/session"
)

// Auth

// Login signs in and stores the returned session. A wrong password comes
// back as a plain *APIError, not ErrUnauthorized; there is no session to
// expire yet.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &resp, unauthed); err != nil {
		return models.AuthResponse{}, err
	}
	if err := c.storeAuth(resp); err != nil {
		return models.AuthResponse{}, err
	}
	return resp, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp, unauthed); err != nil {
		return models.AuthResponse{}, err
	}
	if err := c.storeAuth(resp); err != nil {
		return models.AuthResponse{}, err
	}
	return resp, nil
}

// Refresh exchanges the stored refresh token for fresh tokens. A 401 here
// means the session is truly dead, so it expires like any other 401.
func (c *Client) Refresh(ctx context.Context) (models.AuthResponse, error) {
	sess, ok := c.store.Session()
	if !ok || sess.RefreshToken == "" {
		return models.AuthResponse{}, ErrUnauthorized
	}
	var resp models.AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/refresh", models.RefreshRequest{RefreshToken: sess.RefreshToken}, &resp, unauthed)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			c.expireSession()
			return models.AuthResponse{}, ErrUnauthorized
		}
		return models.AuthResponse{}, err
	}
	if err := c.storeAuth(resp); err != nil {
		return models.AuthResponse{}, err
	}
	return resp, nil
}

// EnsureFresh refreshes the access token when it is inside the given window
// of its expiry. Safe to call on a schedule.
func (c *Client) EnsureFresh(ctx context.Context, gap time.Duration) error {
	sess, ok := c.store.Session()
	if !ok {
		return nil
	}
	if !session.ExpiresSoon(sess.AccessToken, gap) {
		return nil
	}
	_, err := c.Refresh(ctx)
	return err
}

func (c *Client) storeAuth(resp models.AuthResponse) error {
	sess := session.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	if resp.User != nil {
		sess.User = *resp.User
	}
	if err := c.store.SetSession(sess); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Me returns the current user for the stored session.
func (c *Client) Me(ctx context.Context) (models.UserInfo, error) {
	var u models.UserInfo
	if err := c.get(ctx, "/me", &u); err != nil {
		return models.UserInfo{}, err
	}
	return u, nil
}

// CompleteOnboarding records that the setup wizard finished.
func (c *Client) CompleteOnboarding(ctx context.Context) (models.UserInfo, error) {
	var u models.UserInfo
	if err := c.post(ctx, "/me/onboarded", nil, &u); err != nil {
		return models.UserInfo{}, err
	}
	return u, nil
}

// Agent profile

func (c *Client) FetchProfile(ctx context.Context) (models.AgentProfile, error) {
	var p models.AgentProfile
	if err := c.get(ctx, "/agent-profile", &p); err != nil {
		return models.AgentProfile{}, err
	}
	return p, nil
}

// SaveProfile replaces the whole profile and returns the server's canonical
// copy.
func (c *Client) SaveProfile(ctx context.Context, p models.AgentProfile) (models.AgentProfile, error) {
	var out models.AgentProfile
	if err := c.put(ctx, "/agent-profile", p, &out); err != nil {
		return models.AgentProfile{}, err
	}
	return out, nil
}

// SaveServices writes only the services list. The narrow write keeps a
// services edit from clobbering a concurrent FAQ edit.
func (c *Client) SaveServices(ctx context.Context, services []string) error {
	return c.put(ctx, "/agent-profile/core-services", models.CoreServicesUpdate{CoreServices: services}, nil)
}

func (c *Client) SaveFAQs(ctx context.Context, entries []models.FAQEntry) error {
	return c.put(ctx, "/agent-profile/faqs", models.FAQUpdate{FAQEntries: entries}, nil)
}

// Calls

type CallListOptions struct {
	Limit      int
	Offset     int
	UnreadOnly bool
}

func (c *Client) ListCalls(ctx context.Context, opts CallListOptions) (models.CallListResult, error) {
	q := url.Values{}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.UnreadOnly {
		q.Set("unread", "true")
	}
	path := "/calls"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var res models.CallListResult
	if err := c.get(ctx, path, &res); err != nil {
		return models.CallListResult{}, err
	}
	return res, nil
}

func (c *Client) GetCall(ctx context.Context, id string) (models.CallDetail, error) {
	var d models.CallDetail
	if err := c.get(ctx, "/calls/"+url.PathEscape(id), &d); err != nil {
		return models.CallDetail{}, err
	}
	return d, nil
}

func (c *Client) MarkCallRead(ctx context.Context, id string) error {
	return c.post(ctx, "/calls/"+url.PathEscape(id)+"/read", nil, nil)
}

func (c *Client) SaveCallNotes(ctx context.Context, id, notes string) error {
	body := map[string]string{"notes": notes}
	return c.put(ctx, "/calls/"+url.PathEscape(id)+"/notes", body, nil)
}

// FetchRecording returns the raw WAV bytes for a call.
func (c *Client) FetchRecording(ctx context.Context, id string) ([]byte, error) {
	return c.raw(ctx, "/calls/"+url.PathEscape(id)+"/recording")
}

// Layout preferences

func (c *Client) FetchCallLayout(ctx context.Context) (models.CallLayoutPreferences, error) {
	var prefs models.CallLayoutPreferences
	if err := c.get(ctx, "/call-layout-preferences", &prefs); err != nil {
		return models.CallLayoutPreferences{}, err
	}
	return prefs, nil
}

func (c *Client) SaveCallLayout(ctx context.Context, prefs models.CallLayoutPreferences) error {
	return c.put(ctx, "/call-layout-preferences", prefs, nil)
}

// Billing

func (c *Client) ListPlans(ctx context.Context) ([]models.Plan, error) {
	var plans []models.Plan
	if err := c.get(ctx, "/billing/plans", &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (c *Client) GetSubscription(ctx context.Context) (models.Subscription, error) {
	var sub models.Subscription
	if err := c.get(ctx, "/billing/subscription", &sub); err != nil {
		return models.Subscription{}, err
	}
	return sub, nil
}

// Integrations

func (c *Client) ListIntegrations(ctx context.Context) ([]models.Integration, error) {
	var items []models.Integration
	if err := c.get(ctx, "/integrations", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) StartPairing(ctx context.Context, integrationID string) (models.PairingSession, error) {
	var ps models.PairingSession
	if err := c.post(ctx, "/integrations/"+url.PathEscape(integrationID)+"/pair", nil, &ps); err != nil {
		return models.PairingSession{}, err
	}
	return ps, nil
}

// Analytics

// FetchCallStats pulls the dashboard summary. The backend sends chart rows
// loosely typed, so they are coerced here at the boundary.
func (c *Client) FetchCallStats(ctx context.Context, days int) (models.CallStats, error) {
	var raw map[string]interface{}
	path := "/analytics/summary?days=" + strconv.Itoa(days)
	if err := c.get(ctx, path, &raw); err != nil {
		return models.CallStats{}, err
	}
	return statsFrom(raw), nil
}
