package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-authgate/bet-console/apiclient"
)

// DepositsAPI reviews player deposits.
type DepositsAPI struct {
	c *apiclient.Client
}

// List returns one page of deposits.
func (d DepositsAPI) List(ctx context.Context, p ListParams) (*Page[Deposit], error) {
	return list[Deposit](ctx, d.c, "/admin/depositos", p)
}

type depositStatusRequest struct {
	Status string `json:"status"`
	Motivo string `json:"motivo,omitempty"`
}

// SetStatus approves, rejects or reopens a deposit.
func (d DepositsAPI) SetStatus(ctx context.Context, id int64, status, motivo string) error {
	if !validReviewStatus(status) {
		return fmt.Errorf("%w: unknown deposit status %q", ErrInvalidInput, status)
	}
	return d.c.JSON(ctx, http.MethodPatch,
		idPath("/admin/depositos", id, "/status"), nil,
		depositStatusRequest{Status: status, Motivo: motivo}, nil)
}

// WithdrawalsAPI reviews payout requests.
type WithdrawalsAPI struct {
	c *apiclient.Client
}

// List returns one page of withdrawals.
func (w WithdrawalsAPI) List(ctx context.Context, p ListParams) (*Page[Withdrawal], error) {
	return list[Withdrawal](ctx, w.c, "/admin/saques", p)
}

type withdrawalStatusRequest struct {
	Status       string `json:"status"`
	MotivoRecusa string `json:"motivo_recusa,omitempty"`
}

// SetStatus changes a withdrawal's status. The rejection reason is only
// sent when rejecting.
func (w WithdrawalsAPI) SetStatus(ctx context.Context, id int64, status, motivo string) error {
	if !validReviewStatus(status) {
		return fmt.Errorf("%w: unknown withdrawal status %q", ErrInvalidInput, status)
	}
	body := withdrawalStatusRequest{Status: status}
	if status == StatusRecusado {
		body.MotivoRecusa = motivo
	}
	return w.c.JSON(ctx, http.MethodPatch, idPath("/saques", id, "/status"), nil, body, nil)
}

// UsersAPI manages player accounts.
type UsersAPI struct {
	c *apiclient.Client
}

// List returns one page of users.
func (u UsersAPI) List(ctx context.Context, p ListParams) (*Page[User], error) {
	return list[User](ctx, u.c, "/admin/usuarios", p)
}

type blockRequest struct {
	Motivo string `json:"motivo"`
}

// Block suspends an account.
func (u UsersAPI) Block(ctx context.Context, id int64, motivo string) error {
	if strings.TrimSpace(motivo) == "" {
		return fmt.Errorf("%w: a reason is required to block a user", ErrInvalidInput)
	}
	return u.c.JSON(ctx, http.MethodPatch,
		idPath("/admin/usuarios", id, "/bloquear"), nil, blockRequest{Motivo: motivo}, nil)
}

// Unblock lifts a suspension.
func (u UsersAPI) Unblock(ctx context.Context, id int64) error {
	return u.c.JSON(ctx, http.MethodPatch, idPath("/admin/usuarios", id, "/desbloquear"), nil, nil, nil)
}

// Movements returns a user's ledger lines.
func (u UsersAPI) Movements(ctx context.Context, id int64, p ListParams) (*Page[Movement], error) {
	return list[Movement](ctx, u.c, idPath("/admin/usuarios", id, "/movimentos"), p)
}

// FilterUsers keeps users whose login, name or email contains query,
// case-insensitively.
func FilterUsers(users []User, query string) []User {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return users
	}
	var out []User
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Usuario), query) ||
			strings.Contains(strings.ToLower(u.Nome), query) ||
			strings.Contains(strings.ToLower(u.Email), query) {
			out = append(out, u)
		}
	}
	return out
}

// LedgerAPI is the platform-wide ledger.
type LedgerAPI struct {
	c *apiclient.Client
}

// List returns one page of movements across all users.
func (l LedgerAPI) List(ctx context.Context, p ListParams) (*Page[Movement], error) {
	return list[Movement](ctx, l.c, "/admin/financeiro/movimentos", p)
}

// ClearFilter selects the movements removed by Clear.
type ClearFilter struct {
	Query string `json:"q,omitempty"`
	Tipo  string `json:"tipo,omitempty"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
}

// ClearResult reports how many movements were removed.
type ClearResult struct {
	Removidos int `json:"removidos"`
}

// Clear deletes the movements matching f.
func (l LedgerAPI) Clear(ctx context.Context, f ClearFilter) (*ClearResult, error) {
	var res ClearResult
	if err := l.c.JSON(ctx, http.MethodPost, "/admin/financeiro/movimentos/clear", nil, f, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Summary pages through every movement matching p (ignoring p.Page and
// p.Tipo) and totals the cash flow.
func (l LedgerAPI) Summary(ctx context.Context, p ListParams) (CashSummary, error) {
	const pageSize = 500

	p.Tipo = ""
	p.PageSize = pageSize

	var all []Movement
	for page := 1; ; page++ {
		p.Page = page
		res, err := l.List(ctx, p)
		if err != nil {
			return CashSummary{}, err
		}
		all = append(all, res.Items...)
		if len(res.Items) < pageSize || len(all) >= res.Total {
			break
		}
	}
	return SummarizeCash(all), nil
}
