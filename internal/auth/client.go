package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/edgebook/guestbook-server-go/internal/config"
	apperrors "github.com/edgebook/guestbook-server-go/internal/errors"
)

// Client talks to the external auth service over HTTP, forwarding the
// caller's cookies so the provider can resolve the session itself.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: config.AuthClientTimeout,
		},
	}
}

func (c *Client) GetSession(ctx context.Context, r *http.Request, disableCookieCache bool) (*ProviderSession, error) {
	url := c.baseURL + "/api/auth/get-session"
	if disableCookieCache {
		url += "?disableCookieCache=true"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.External("auth provider", err)
	}
	if cookie := r.Header.Get("Cookie"); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	if authz := r.Header.Get("Authorization"); authz != "" {
		req.Header.Set("Authorization", authz)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.External("auth provider", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.External("auth provider",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.External("auth provider", err)
	}

	// The provider answers 200 with a JSON null when no session exists.
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	var session ProviderSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, apperrors.External("auth provider", err)
	}
	if session.Session.ID == "" || session.User == nil {
		return nil, nil
	}

	return &session, nil
}
