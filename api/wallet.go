package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-authgate/bet-console/apiclient"
)

// WalletAPI is the player's own balance, ledger, deposits and payouts.
// Older backend builds expose some of these under legacy paths, tried in
// order when the current path is missing.
type WalletAPI struct {
	c *apiclient.Client
}

// Balance returns the current balance.
func (w WalletAPI) Balance(ctx context.Context) (*Balance, error) {
	resp, err := w.c.DoFallback(ctx,
		&apiclient.Request{Method: http.MethodGet},
		"/financeiro/saldo", "/saldo")
	if err != nil {
		return nil, err
	}
	var b Balance
	if err := resp.Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Movements returns the player's ledger.
func (w WalletAPI) Movements(ctx context.Context, p ListParams) (*Page[Movement], error) {
	resp, err := w.c.DoFallback(ctx,
		&apiclient.Request{Method: http.MethodGet, Query: p.values()},
		"/financeiro/movimentos", "/movimentos")
	if err != nil {
		return nil, err
	}
	var page Page[Movement]
	if err := resp.Decode(&page); err != nil {
		return nil, err
	}
	if page.Total == 0 {
		page.Total = len(page.Items)
	}
	return &page, nil
}

// DepositRequest opens a deposit ticket. Metodo defaults to PIX.
type DepositRequest struct {
	Valor      float64 `json:"valor"`
	Metodo     string  `json:"metodo"`
	Referencia string  `json:"referencia"`
}

// Deposit opens a deposit ticket to be reviewed by an operator.
func (w WalletAPI) Deposit(ctx context.Context, req DepositRequest) (*Deposit, error) {
	if req.Valor <= 0 {
		return nil, fmt.Errorf("%w: deposit amount must be positive", ErrInvalidInput)
	}
	if req.Metodo == "" {
		req.Metodo = "PIX"
	}

	resp, err := w.c.DoFallback(ctx,
		&apiclient.Request{Method: http.MethodPost, Body: req},
		"/depositos", "/financeiro/deposito")
	if err != nil {
		return nil, err
	}
	var d Deposit
	if err := resp.Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

type withdrawRequest struct {
	Valor    float64 `json:"valor"`
	PixChave string  `json:"pix_chave"`
}

// Withdraw requests a PIX payout to chavePix.
func (w WalletAPI) Withdraw(ctx context.Context, valor float64, chavePix string) (*Withdrawal, error) {
	chavePix = strings.TrimSpace(chavePix)
	if valor <= 0 {
		return nil, fmt.Errorf("%w: withdrawal amount must be positive", ErrInvalidInput)
	}
	if chavePix == "" {
		return nil, fmt.Errorf("%w: a PIX key is required", ErrInvalidInput)
	}

	var out Withdrawal
	err := w.c.JSON(ctx, http.MethodPost, "/saques", nil,
		withdrawRequest{Valor: valor, PixChave: chavePix}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
