package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-nippo-backend/internal/domain"
	"go-nippo-backend/pkg/apperror"
)

// Client talks to a GoTrue-compatible hosted identity provider. It is the
// only place that knows the provider's wire format; callers receive domain
// types and apperror values carrying the provider's message verbatim.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Compile-time check that Client satisfies the domain contract.
var _ domain.IdentityProvider = (*Client)(nil)

func (c *Client) SignUp(ctx context.Context, email, password string) (*domain.IdentityUser, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
	}

	resp, err := c.post(ctx, "/auth/v1/signup", "", body)
	if err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Registration service unavailable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		// Malformed email, duplicate registration, password policy: the
		// provider's own message is what the user sees.
		return nil, apperror.BadRequest(readProviderError(resp, "Registration failed"))
	}

	var payload struct {
		ID          string `json:"id"`
		Email       string `json:"email"`
		AccessToken string `json:"access_token"`
		User        struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to parse signup response", err)
	}

	user := &domain.IdentityUser{
		ID:          payload.ID,
		Email:       payload.Email,
		AccessToken: payload.AccessToken,
	}
	// Auto-confirm deployments nest the identity under "user".
	if user.ID == "" {
		user.ID = payload.User.ID
		user.Email = payload.User.Email
	}
	if user.ID == "" {
		return nil, apperror.New(http.StatusInternalServerError, "Signup response contained no user", nil)
	}
	return user, nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*domain.IdentitySession, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
	}

	resp, err := c.post(ctx, "/auth/v1/token?grant_type=password", "", body)
	if err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Login service unavailable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, apperror.Unauthorized(readProviderError(resp, "Invalid login credentials"))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresAt   int64  `json:"expires_at"`
		ExpiresIn   int64  `json:"expires_in"`
		User        struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to parse login response", err)
	}

	expiresAt := time.Unix(payload.ExpiresAt, 0)
	if payload.ExpiresAt == 0 {
		expiresAt = time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	}

	return &domain.IdentitySession{
		AccessToken: payload.AccessToken,
		UserID:      payload.User.ID,
		Email:       payload.User.Email,
		ExpiresAt:   expiresAt,
	}, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	resp, err := c.post(ctx, "/auth/v1/logout", accessToken, nil)
	if err != nil {
		return apperror.New(http.StatusInternalServerError, "Logout service unavailable", err)
	}
	defer resp.Body.Close()

	// The provider returns 204 on success. A failed remote logout is not
	// fatal: the local revocation list already blocks the token.
	if resp.StatusCode >= 400 {
		return apperror.New(resp.StatusCode, readProviderError(resp, "Logout failed"), nil)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path, bearer string, body interface{}) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	return c.http.Do(req)
}

// readProviderError extracts the provider's error message. GoTrue responses
// use "msg" or "error_description" depending on the endpoint.
func readProviderError(resp *http.Response, fallback string) string {
	var errResp map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		return fmt.Sprintf("%s (status %d)", fallback, resp.StatusCode)
	}
	if m, ok := errResp["msg"].(string); ok && m != "" {
		return m
	}
	if m, ok := errResp["error_description"].(string); ok && m != "" {
		return m
	}
	return fmt.Sprintf("%s (status %d)", fallback, resp.StatusCode)
}
