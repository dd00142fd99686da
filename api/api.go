// Package api wraps the platform's REST resources on top of the
// authenticated client. Every list endpoint answers with the same
// {"items": [...], "total": n} envelope.
package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-authgate/bet-console/apiclient"
)

// ErrInvalidInput is wrapped by every client-side validation failure.
var ErrInvalidInput = errors.New("invalid input")

// Console groups the resource APIs.
type Console struct {
	client *apiclient.Client

	Auth        AuthAPI
	Deposits    DepositsAPI
	Withdrawals WithdrawalsAPI
	Users       UsersAPI
	Ledger      LedgerAPI
	Wallet      WalletAPI
	Casino      CasinoAPI
	GamesConfig GamesConfigAPI
	Sports      SportsAPI
}

// New builds the resource APIs around c.
func New(c *apiclient.Client) *Console {
	return &Console{
		client:      c,
		Auth:        AuthAPI{c: c},
		Deposits:    DepositsAPI{c: c},
		Withdrawals: WithdrawalsAPI{c: c},
		Users:       UsersAPI{c: c},
		Ledger:      LedgerAPI{c: c},
		Wallet:      WalletAPI{c: c},
		Casino:      CasinoAPI{c: c},
		GamesConfig: GamesConfigAPI{c: c},
		Sports:      SportsAPI{c: c},
	}
}

// Client returns the underlying authenticated client.
func (con *Console) Client() *apiclient.Client { return con.client }

// Page is the list envelope.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// ListParams are the filters shared by the admin list endpoints. Zero
// fields are left out of the query string.
type ListParams struct {
	Page      int
	PageSize  int
	Status    string
	Query     string
	Tipo      string
	UsuarioID int64
	EventID   int64
	MarketID  int64
	From      time.Time
	To        time.Time
}

func (p ListParams) values() url.Values {
	v := url.Values{}
	setInt := func(key string, n int64) {
		if n > 0 {
			v.Set(key, strconv.FormatInt(n, 10))
		}
	}
	setStr := func(key, s string) {
		if s != "" {
			v.Set(key, s)
		}
	}
	setTime := func(key string, t time.Time) {
		if !t.IsZero() {
			v.Set(key, t.UTC().Format(time.RFC3339))
		}
	}

	setInt("page", int64(p.Page))
	setInt("pageSize", int64(p.PageSize))
	setStr("status", p.Status)
	setStr("q", p.Query)
	setStr("tipo", p.Tipo)
	setInt("usuario_id", p.UsuarioID)
	setInt("event_id", p.EventID)
	setInt("market_id", p.MarketID)
	setTime("from", p.From)
	setTime("to", p.To)
	return v
}

func list[T any](ctx context.Context, c *apiclient.Client, path string, p ListParams) (*Page[T], error) {
	var page Page[T]
	if err := c.JSON(ctx, http.MethodGet, path, p.values(), nil, &page); err != nil {
		return nil, err
	}
	if page.Total == 0 {
		page.Total = len(page.Items)
	}
	return &page, nil
}

func idPath(prefix string, id int64, suffix string) string {
	return prefix + "/" + strconv.FormatInt(id, 10) + suffix
}
