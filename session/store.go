// Package session holds the console's credential bundle behind a small Store
// interface so the HTTP client never touches ambient global state.
package session

import (
	"context"
	"errors"
	"time"

	"golang.org/x/oauth2"
)

// ErrCorrupt is returned when a persisted bundle cannot be decoded.
var ErrCorrupt = errors.New("session data corrupt")

// Profile is the cached user record returned by login and /usuarios/me.
type Profile struct {
	ID      int64  `json:"id"`
	Usuario string `json:"usuario"`
	Nome    string `json:"nome,omitempty"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role"`
}

// Bundle is the full credential state for one signed-in operator.
// The zero value means "signed out".
type Bundle struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitzero"`
	User         *Profile  `json:"usuario,omitempty"`
}

// Present reports whether the bundle carries an access token.
func (b Bundle) Present() bool {
	return b.AccessToken != ""
}

// Token converts the bundle into an oauth2 bearer token.
func (b Bundle) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  b.AccessToken,
		RefreshToken: b.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       b.ExpiresAt,
	}
}

// clone returns a copy that shares no pointers with b.
func (b Bundle) clone() Bundle {
	if b.User != nil {
		u := *b.User
		b.User = &u
	}
	return b
}

// Store persists a single Bundle.
//
// Load returns the zero Bundle and a nil error when nothing is stored.
// Save replaces the stored bundle as a whole. Clear removes every field
// at once and is a no-op when nothing is stored.
type Store interface {
	Load(ctx context.Context) (Bundle, error)
	Save(ctx context.Context, b Bundle) error
	Clear(ctx context.Context) error
}
