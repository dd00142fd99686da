package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-authgate/bet-console/api"
	"github.com/go-authgate/bet-console/apiclient"
	"github.com/go-authgate/bet-console/session"
	"github.com/go-authgate/bet-console/tui"
)

const (
	redisKeyPrefix  = "bet-console"
	redisSessionTTL = 30 * 24 * time.Hour
)

// errNotLoggedIn is returned by protected commands without a session.
var errNotLoggedIn = errors.New("not logged in, run: bet-console login -usuario <usuario>")

// app is everything a command needs.
type app struct {
	cfg   *config
	log   *slog.Logger
	d     tui.Displayer
	nav   *viewRouter
	store session.Store
	con   *api.Console

	closers []func() error
}

// newApp wires the session store, the authenticated client and the
// resource APIs for cfg. A nil store selects one from cfg.SessionBackend.
func newApp(cfg *config, d tui.Displayer, log *slog.Logger, store session.Store) (*app, error) {
	a := &app{cfg: cfg, log: log, d: d, nav: newViewRouter(d)}

	if store == nil {
		var err error
		store, err = a.openStore()
		if err != nil {
			return nil, err
		}
	}
	a.store = store

	client, err := apiclient.New(cfg.baseURL(), store,
		apiclient.WithNavigator(a.nav),
		apiclient.WithObserver(d),
		apiclient.WithLogger(log),
	)
	if err != nil {
		a.close()
		return nil, err
	}
	a.con = api.New(client)
	return a, nil
}

func (a *app) openStore() (session.Store, error) {
	switch a.cfg.SessionBackend {
	case backendRedis:
		rdb, err := session.NewRedisClient(a.cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rdb.Close)
		return session.NewRedisStore(rdb, redisKeyPrefix, a.cfg.SessionProfile, redisSessionTTL), nil
	case backendMemory:
		a.log.Warn("memory session backend: the session ends with this process")
		return session.NewMemoryStore(session.Bundle{}), nil
	default:
		return session.NewFileStore(a.cfg.SessionFile, a.cfg.SessionProfile), nil
	}
}

// ping checks the redis backend is reachable before any command runs.
func (a *app) ping(ctx context.Context) error {
	rs, ok := a.store.(*session.RedisStore)
	if !ok {
		return nil
	}
	if err := rs.Ping(ctx); err != nil {
		return fmt.Errorf("session backend unreachable: %w", err)
	}
	return nil
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}

// profile returns the cached profile, or errNotLoggedIn after sending the
// console back to the entry surface.
func (a *app) profile(ctx context.Context) (*session.Profile, error) {
	p, err := a.con.Auth.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if p == nil {
		a.nav.Navigate(apiclient.EntryPath)
		return nil, errNotLoggedIn
	}
	return p, nil
}

// requireAdmin guards admin commands the way the web console guards its
// admin routes: non-admins are sent to their dashboard.
func (a *app) requireAdmin(ctx context.Context) error {
	p, err := a.profile(ctx)
	if err != nil {
		return err
	}
	if err := api.RequireAdmin(p); err != nil {
		a.nav.Navigate(api.DashboardPath)
		return fmt.Errorf("%w (signed in as %s, role %s)", err, p.Usuario, p.Role)
	}
	return nil
}
