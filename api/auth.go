package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-authgate/bet-console/apiclient"
	"github.com/go-authgate/bet-console/session"
)

// Landing surfaces after login.
const (
	AdminPath     = "/admin"
	DashboardPath = "/dashboard"
)

// ErrAdminRequired is returned by RequireAdmin for non-admin profiles.
var ErrAdminRequired = errors.New("admin role required")

var adminRoles = map[string]bool{
	"ADMIN":      true,
	"MASTER":     true,
	"SUPERADMIN": true,
}

// IsAdmin reports whether p may use the admin console.
func IsAdmin(p *session.Profile) bool {
	if p == nil {
		return false
	}
	return adminRoles[strings.ToUpper(strings.TrimSpace(p.Role))]
}

// RequireAdmin guards admin operations on the cached profile.
func RequireAdmin(p *session.Profile) error {
	if !IsAdmin(p) {
		return ErrAdminRequired
	}
	return nil
}

// LandingPath is where a freshly signed-in user starts.
func LandingPath(p *session.Profile) string {
	if IsAdmin(p) {
		return AdminPath
	}
	return DashboardPath
}

// AuthAPI covers login, logout and the current profile.
type AuthAPI struct {
	c *apiclient.Client
}

type loginRequest struct {
	Usuario string `json:"usuario"`
	Senha   string `json:"senha"`
}

// LoginResponse is the body of POST /auth/login.
type LoginResponse struct {
	apiclient.TokenResponse
	Usuario *session.Profile `json:"usuario"`
}

// Login exchanges credentials for a session, replaces whatever bundle was
// stored and returns the signed-in profile.
func (a AuthAPI) Login(ctx context.Context, usuario, senha string) (*session.Profile, error) {
	usuario = strings.TrimSpace(usuario)
	if usuario == "" || senha == "" {
		return nil, fmt.Errorf("%w: usuario and senha are required", ErrInvalidInput)
	}

	resp, err := a.c.Do(ctx, &apiclient.Request{
		Method:    http.MethodPost,
		Path:      "/auth/login",
		Body:      loginRequest{Usuario: usuario, Senha: senha},
		Anonymous: true,
	})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	var lr LoginResponse
	if err := resp.Decode(&lr); err != nil {
		return nil, err
	}
	if err := lr.Validate(); err != nil {
		return nil, fmt.Errorf("invalid login response: %w", err)
	}
	if lr.Usuario == nil {
		return nil, errors.New("invalid login response: usuario is missing")
	}

	bundle := session.Bundle{
		AccessToken:  lr.AccessToken,
		RefreshToken: lr.RefreshToken,
		ExpiresAt:    lr.Expiry(time.Now()),
		User:         lr.Usuario,
	}
	if err := a.c.Store().Save(ctx, bundle); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return lr.Usuario, nil
}

// Me fetches the current profile and refreshes the cached copy.
func (a AuthAPI) Me(ctx context.Context) (*session.Profile, error) {
	var p session.Profile
	if err := a.c.JSON(ctx, http.MethodGet, "/usuarios/me", nil, nil, &p); err != nil {
		return nil, err
	}

	store := a.c.Store()
	b, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if b.Present() {
		b.User = &p
		if err := store.Save(ctx, b); err != nil {
			return nil, fmt.Errorf("failed to save session: %w", err)
		}
	}
	return &p, nil
}

// Current returns the cached profile without a network call. nil when
// nobody is signed in.
func (a AuthAPI) Current(ctx context.Context) (*session.Profile, error) {
	b, err := a.c.Store().Load(ctx)
	if err != nil {
		return nil, err
	}
	if !b.Present() {
		return nil, nil
	}
	return b.User, nil
}

// Logout drops the stored session and returns to the login surface.
func (a AuthAPI) Logout(ctx context.Context) error {
	return a.c.InvalidateSession(ctx, "logout")
}
