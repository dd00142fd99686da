package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/go-authgate/bet-console/session"
)

// backend is a scripted stand-in for the platform API. Handlers for the
// protected routes are supplied per test; the refresh endpoint is shared.
type backend struct {
	srv    *httptest.Server
	router chi.Router

	refreshCalls atomic.Int32

	mu            sync.Mutex
	refreshBodies []string
	// refreshReply answers POST /api/auth/refresh. nil means 401.
	refreshReply func(w http.ResponseWriter, refreshToken string)
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{router: chi.NewRouter()}
	b.router.Post("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		b.refreshCalls.Add(1)
		var body refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("refresh exchange carried an Authorization header")
		}
		b.mu.Lock()
		b.refreshBodies = append(b.refreshBodies, body.RefreshToken)
		reply := b.refreshReply
		b.mu.Unlock()

		if reply == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"erro": "refresh inválido"})
			return
		}
		reply(w, body.RefreshToken)
	})
	b.srv = httptest.NewServer(b.router)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backend) issue(access, refresh string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshReply = func(w http.ResponseWriter, _ string) {
		resp := map[string]any{"access_token": access, "expires_in": 900}
		if refresh != "" {
			resp["refresh_token"] = refresh
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (b *backend) baseURL() string { return b.srv.URL + "/api" }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func bearer(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) < len(prefix) || h[:len(prefix)] != prefix {
		return ""
	}
	return h[len(prefix):]
}

type recordingNavigator struct {
	mu      sync.Mutex
	current string
	visits  []string
}

func (n *recordingNavigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *recordingNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = path
	n.visits = append(n.visits, path)
}

func (n *recordingNavigator) navigations() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.visits...)
}

type recordingObserver struct {
	rejected     atomic.Int32
	refreshing   atomic.Int32
	refreshOK    atomic.Int32
	retrying     atomic.Int32
	invalidated  atomic.Int32
	mu           sync.Mutex
	refreshError error
}

func (o *recordingObserver) AccessTokenRejected()    { o.rejected.Add(1) }
func (o *recordingObserver) Refreshing()             { o.refreshing.Add(1) }
func (o *recordingObserver) RefreshOK()              { o.refreshOK.Add(1) }
func (o *recordingObserver) TokenRefreshedRetrying() { o.retrying.Add(1) }
func (o *recordingObserver) SessionInvalidated(_ string) {
	o.invalidated.Add(1)
}

func (o *recordingObserver) RefreshFailed(err error) {
	o.mu.Lock()
	o.refreshError = err
	o.mu.Unlock()
}

type fixture struct {
	client   *Client
	store    *session.MemoryStore
	nav      *recordingNavigator
	observer *recordingObserver
}

func newFixture(t *testing.T, b *backend, bundle session.Bundle) *fixture {
	t.Helper()
	f := &fixture{
		store:    session.NewMemoryStore(bundle),
		nav:      &recordingNavigator{current: "/admin/usuarios"},
		observer: &recordingObserver{},
	}
	c, err := New(b.baseURL(), f.store, WithNavigator(f.nav), WithObserver(f.observer))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	f.client = c
	return f
}

func (f *fixture) mustLoad(t *testing.T) session.Bundle {
	t.Helper()
	b, err := f.store.Load(context.Background())
	if err != nil {
		t.Fatalf("store Load() error = %v", err)
	}
	return b
}

func signedIn(access, refresh string) session.Bundle {
	return session.Bundle{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         &session.Profile{ID: 1, Usuario: "ops", Role: "ADMIN"},
	}
}

func assertCleared(t *testing.T, b session.Bundle) {
	t.Helper()
	if b.AccessToken != "" || b.RefreshToken != "" || b.User != nil {
		t.Errorf("session not fully cleared: %+v", b)
	}
}
