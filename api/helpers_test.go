package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/go-authgate/bet-console/apiclient"
	"github.com/go-authgate/bet-console/session"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Body   string
	Auth   string
}

// fakeAPI is a chi-routed stand-in for the platform backend that records
// every request it sees.
type fakeAPI struct {
	router chi.Router
	srv    *httptest.Server

	mu   sync.Mutex
	seen []recorded
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{router: chi.NewRouter()}
	f.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			r.Body.Close()
			f.mu.Lock()
			f.seen = append(f.seen, recorded{
				Method: r.Method,
				Path:   r.URL.Path,
				Query:  r.URL.RawQuery,
				Body:   string(body),
				Auth:   r.Header.Get("Authorization"),
			})
			f.mu.Unlock()
			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	})
	f.srv = httptest.NewServer(f.router)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) requests() []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recorded(nil), f.seen...)
}

func (f *fakeAPI) last(t *testing.T) recorded {
	t.Helper()
	reqs := f.requests()
	if len(reqs) == 0 {
		t.Fatal("backend saw no requests")
	}
	return reqs[len(reqs)-1]
}

func (f *fakeAPI) console(t *testing.T, bundle session.Bundle) (*Console, session.Store) {
	t.Helper()
	store := session.NewMemoryStore(bundle)
	c, err := apiclient.New(f.srv.URL+"/api", store)
	if err != nil {
		t.Fatalf("apiclient.New() error = %v", err)
	}
	return New(c), store
}

func reply(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, status, v)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeBody(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("request body %q is not a JSON object: %v", raw, err)
	}
	return m
}

func adminSession() session.Bundle {
	return session.Bundle{
		AccessToken:  "A1",
		RefreshToken: "R1",
		User:         &session.Profile{ID: 1, Usuario: "ops", Role: "ADMIN"},
	}
}

var bg = context.Background()
