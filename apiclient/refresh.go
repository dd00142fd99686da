package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/go-authgate/bet-console/session"
)

// TokenResponse is the body of a successful login or refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
}

// Validate checks the fields the console relies on.
func (t TokenResponse) Validate() error {
	if t.AccessToken == "" {
		return errors.New("access_token is empty")
	}
	if t.ExpiresIn < 0 {
		return fmt.Errorf("expires_in must not be negative, got: %d", t.ExpiresIn)
	}
	// token_type is optional, but if present it has to be Bearer
	if t.TokenType != "" && t.TokenType != "Bearer" && t.TokenType != "bearer" {
		return fmt.Errorf("unexpected token_type: %s (expected Bearer)", t.TokenType)
	}
	return nil
}

// Expiry returns when the access token stops being valid: expires_in when
// the server sent it, the JWT exp claim otherwise, zero if neither exists.
func (t TokenResponse) Expiry(now time.Time) time.Time {
	if t.ExpiresIn > 0 {
		return now.Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return session.TokenExpiry(t.AccessToken)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// refreshToken returns an access token to retry with after sent was
// rejected. Concurrent callers share one exchange.
func (c *Client) refreshToken(ctx context.Context, sent string) (string, error) {
	// The exchange outlives any single caller; a cancelled first caller must
	// not fail everyone who joined it.
	shared := context.WithoutCancel(ctx)

	v, err, joined := c.refreshes.Do("refresh", func() (any, error) {
		return c.exchange(shared, sent)
	})
	if err != nil {
		return "", err
	}
	if joined {
		c.log.Debug("joined in-flight token refresh")
	}
	return v.(string), nil
}

// exchange trades the stored refresh token for a new access token and
// saves the result.
func (c *Client) exchange(ctx context.Context, sent string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	b, err := c.store.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}

	// Another caller's exchange already replaced the token this request was
	// sent with. Retry with that one instead of burning the refresh token.
	if b.AccessToken != "" && b.AccessToken != sent {
		return b.AccessToken, nil
	}
	if b.RefreshToken == "" {
		return "", ErrNoRefreshToken
	}

	c.observer.Refreshing()

	data, err := json.Marshal(refreshRequest{RefreshToken: b.RefreshToken})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+RefreshPath,
		bytes.NewReader(data),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	stampRequestID(req)

	resp, err := c.retry.DoWithContext(ctx, req)
	if err != nil {
		return "", fmt.Errorf("refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		retrieveErr := &oauth2.RetrieveError{Response: resp, Body: body}
		switch resp.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
			return "", fmt.Errorf("%w: %w", ErrRefreshTokenExpired, retrieveErr)
		}
		return "", fmt.Errorf("refresh failed with status %d: %w", resp.StatusCode, retrieveErr)
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if err := tokenResp.Validate(); err != nil {
		return "", fmt.Errorf("invalid token response: %w", err)
	}

	b.AccessToken = tokenResp.AccessToken
	// Rotation mode sends a new refresh token; fixed mode omits it and the
	// old one stays valid.
	if tokenResp.RefreshToken != "" {
		b.RefreshToken = tokenResp.RefreshToken
	}
	b.ExpiresAt = tokenResp.Expiry(time.Now())

	if err := c.store.Save(ctx, b); err != nil {
		return "", fmt.Errorf("failed to save refreshed session: %w", err)
	}

	c.log.Info("access token refreshed", "expires_at", b.ExpiresAt)
	c.observer.RefreshOK()
	return tokenResp.AccessToken, nil
}
