package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/go-authgate/bet-console/api"
	"github.com/go-authgate/bet-console/tui"
)

func init() {
	register(
		command{"admin overview", "pending reviews, users and cash at a glance", api.AdminPath, admin, cmdAdminOverview},
		command{"admin deposits", "list deposits (-status, -page)", "/admin/depositos", admin, cmdAdminDeposits},
		command{"admin deposit-status", "review a deposit (-id, -status, -motivo)", "/admin/depositos", admin, cmdAdminDepositStatus},
		command{"admin withdrawals", "list withdrawals (-status, -page)", "/admin/saques", admin, cmdAdminWithdrawals},
		command{"admin withdrawal-status", "review a withdrawal (-id, -status, -motivo)", "/admin/saques", admin, cmdAdminWithdrawalStatus},
		command{"admin users", "list users (-q, -page)", "/admin/usuarios", admin, cmdAdminUsers},
		command{"admin block", "block a user (-id, -motivo)", "/admin/usuarios", admin, cmdAdminBlock},
		command{"admin unblock", "unblock a user (-id)", "/admin/usuarios", admin, cmdAdminUnblock},
		command{"admin user-movements", "a user's ledger (-id, -tipo)", "/admin/usuarios", admin, cmdAdminUserMovements},
		command{"admin ledger", "platform ledger (-tipo, -q, -from, -to, -page)", "/admin/financeiro", admin, cmdAdminLedger},
		command{"admin cash", "cash summary over a period (-q, -from, -to)", "/admin/financeiro", admin, cmdAdminCash},
		command{"admin clear-ledger", "delete movements (-tipo, -q, -from, -to, -yes)", "/admin/financeiro", admin, cmdAdminClearLedger},
	)
}

func cmdAdminOverview(ctx context.Context, a *app, _ []string) error {
	a.d.Working("Loading overview")

	var (
		deposits    *api.Page[api.Deposit]
		withdrawals *api.Page[api.Withdrawal]
		users       *api.Page[api.User]
		cash        api.CashSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		deposits, err = a.con.Deposits.List(gctx, api.ListParams{Status: api.StatusPendente})
		return err
	})
	g.Go(func() (err error) {
		withdrawals, err = a.con.Withdrawals.List(gctx, api.ListParams{Status: api.StatusPendente})
		return err
	})
	g.Go(func() (err error) {
		users, err = a.con.Users.List(gctx, api.ListParams{})
		return err
	})
	g.Go(func() (err error) {
		cash, err = a.con.Ledger.Summary(gctx, api.ListParams{})
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	a.d.Table(tui.Table{
		Title:   "Painel",
		Headers: []string{"Indicador", "Valor"},
		Rows: [][]string{
			{"Depósitos pendentes", strconv.Itoa(deposits.Total)},
			{"Saques pendentes", strconv.Itoa(withdrawals.Total)},
			{"Usuários", strconv.Itoa(users.Total)},
			{"Entradas", tui.BRL(cash.Entradas)},
			{"Saídas", tui.BRL(cash.Saidas)},
			{"Resultado", tui.BRL(cash.Resultado)},
		},
	})
	return nil
}

func cmdAdminDeposits(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("admin deposits")
	status := fs.String("status", api.StatusPendente, "pendente, aprovado or recusado (empty for all)")
	page := fs.Int("page", 1, "page")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	a.d.Working("Loading deposits")
	res, err := a.con.Deposits.List(ctx, api.ListParams{Status: *status, Page: *page})
	if err != nil {
		return err
	}
	t := tui.Table{
		Title:   fmt.Sprintf("Depósitos (%d)", res.Total),
		Headers: []string{"ID", "Data", "Usuário", "Valor", "Método", "Referência", "Status"},
	}
	for _, d := range res.Items {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(d.ID, 10), d.CreatedAt, d.Usuario, tui.BRL(d.Valor), d.Metodo, d.Referencia, d.Status,
		})
	}
	a.d.Table(t)
	return nil
}

func reviewFlags(name string, args []string) (id int64, status, motivo string, err error) {
	fs := newFlagSet(name)
	fs.Int64Var(&id, "id", 0, "ticket id")
	fs.StringVar(&status, "status", "", "aprovado, recusado or pendente")
	fs.StringVar(&motivo, "motivo", "", "reason, sent when rejecting")
	if err = parseFlags(fs, args); err != nil {
		return
	}
	err = requireID("id", id)
	return
}

func cmdAdminDepositStatus(ctx context.Context, a *app, args []string) error {
	id, status, motivo, err := reviewFlags("admin deposit-status", args)
	if err != nil {
		return err
	}
	a.d.Working("Updating deposit")
	if err := a.con.Deposits.SetStatus(ctx, id, status, motivo); err != nil {
		return err
	}
	a.d.APICallOK(fmt.Sprintf("Depósito #%d: %s", id, status))
	return nil
}

func cmdAdminWithdrawals(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("admin withdrawals")
	status := fs.String("status", api.StatusPendente, "pendente, aprovado or recusado (empty for all)")
	page := fs.Int("page", 1, "page")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	a.d.Working("Loading withdrawals")
	res, err := a.con.Withdrawals.List(ctx, api.ListParams{Status: *status, Page: *page})
	if err != nil {
		return err
	}
	t := tui.Table{
		Title:   fmt.Sprintf("Saques (%d)", res.Total),
		Headers: []string{"ID", "Data", "Usuário", "Valor", "Chave PIX", "Status", "Motivo"},
	}
	for _, w := range res.Items {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(w.ID, 10), w.CreatedAt, w.Usuario, tui.BRL(w.Valor), w.PixChave, w.Status, w.MotivoRecusa,
		})
	}
	a.d.Table(t)
	return nil
}

func cmdAdminWithdrawalStatus(ctx context.Context, a *app, args []string) error {
	id, status, motivo, err := reviewFlags("admin withdrawal-status", args)
	if err != nil {
		return err
	}
	a.d.Working("Updating withdrawal")
	if err := a.con.Withdrawals.SetStatus(ctx, id, status, motivo); err != nil {
		return err
	}
	a.d.APICallOK(fmt.Sprintf("Saque #%d: %s", id, status))
	return nil
}

func cmdAdminUsers(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("admin users")
	q := fs.String("q", "", "filter by login, name or email")
	page := fs.Int("page", 1, "page")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	a.d.Working("Loading users")
	res, err := a.con.Users.List(ctx, api.ListParams{Query: *q, Page: *page})
	if err != nil {
		return err
	}
	users := api.FilterUsers(res.Items, *q)
	t := tui.Table{
		Title:   fmt.Sprintf("Usuários (%d de %d)", len(users), res.Total),
		Headers: []string{"ID", "Usuário", "Nome", "Email", "Perfil", "Saldo", "Bloqueado"},
	}
	for _, u := range users {
		blocked := ""
		if u.Bloqueado {
			blocked = "sim"
		}
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(u.ID, 10), u.Usuario, u.Nome, u.Email, u.Role, tui.BRL(u.Saldo), blocked,
		})
	}
	a.d.Table(t)
	return nil
}

func cmdAdminBlock(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("admin block")
	id := fs.Int64("id", 0, "user id")
	motivo := fs.String("motivo", "", "reason (required)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireID("id", *id); err != nil {
		return err
	}

	a.d.Working("Blocking user")
	if err := a.con.Users.Block(ctx, *id, *motivo); err != nil {
		return err
	}
	a.d.APICallOK(fmt.Sprintf("Usuário #%d bloqueado", *id))
	return nil
}

func cmdAdminUnblock(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("admin unblock")
	id := fs.Int64("id", 0, "user id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireID("id", *id); err != nil {
		return err
	}

	a.d.Working("Unblocking user")
	if err := a.con.Users.Unblock(ctx, *id); err != nil {
		return err
	}
	a.d.APICallOK(fmt.Sprintf("Usuário #%d desbloqueado", *id))
	return nil
}

func cmdAdminUserMovements(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("admin user-movements")
	id := fs.Int64("id", 0, "user id")
	tipo := fs.String("tipo", "", "only this movement type")
	page := fs.Int("page", 1, "page")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireID("id", *id); err != nil {
		return err
	}

	a.d.Working("Loading movements")
	res, err := a.con.Users.Movements(ctx, *id, api.ListParams{Page: *page})
	if err != nil {
		return err
	}
	items := api.FilterMovements(res.Items, *tipo)
	a.d.Table(movementsTable(fmt.Sprintf("Movimentos do usuário #%d (%d)", *id, len(items)), items))
	a.d.Info("Variação: " + tui.BRL(api.NetDelta(items)))
	return nil
}

type periodFlags struct {
	q, from, to string
}

func (p *periodFlags) bind(fs *flag.FlagSet) {
	fs.StringVar(&p.q, "q", "", "free-text filter")
	fs.StringVar(&p.from, "from", "", "first day, YYYY-MM-DD")
	fs.StringVar(&p.to, "to", "", "last day, YYYY-MM-DD")
}

func (p periodFlags) params() (api.ListParams, error) {
	from, err := parseDay(p.from)
	if err != nil {
		return api.ListParams{}, err
	}
	to, err := parseDay(p.to)
	if err != nil {
		return api.ListParams{}, err
	}
	if !to.IsZero() {
		// inclusive: up to the end of that day
		to = to.AddDate(0, 0, 1).Add(-1)
	}
	return api.ListParams{Query: p.q, From: from, To: to}, nil
}

func cmdAdminLedger(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("admin ledger")
	var period periodFlags
	period.bind(fs)
	tipo := fs.String("tipo", "", "only this movement type")
	page := fs.Int("page", 1, "page")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	p, err := period.params()
	if err != nil {
		return err
	}
	p.Tipo = *tipo
	p.Page = *page

	a.d.Working("Loading ledger")
	res, err := a.con.Ledger.List(ctx, p)
	if err != nil {
		return err
	}
	items := api.FilterMovements(res.Items, *tipo)
	a.d.Table(movementsTable(fmt.Sprintf("Movimentos (%d de %d)", len(items), res.Total), items))
	sum := api.SummarizeCash(items)
	a.d.Info(fmt.Sprintf("Nesta página: entradas %s, saídas %s, resultado %s",
		tui.BRL(sum.Entradas), tui.BRL(sum.Saidas), tui.BRL(sum.Resultado)))
	return nil
}

func cmdAdminCash(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("admin cash")
	var period periodFlags
	period.bind(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	p, err := period.params()
	if err != nil {
		return err
	}

	a.d.Working("Summarizing cash")
	sum, err := a.con.Ledger.Summary(ctx, p)
	if err != nil {
		return err
	}
	a.d.Table(tui.Table{
		Title:   "Caixa",
		Headers: []string{"", ""},
		Rows: [][]string{
			{"Movimentos", strconv.Itoa(sum.Count)},
			{"Entradas", tui.BRL(sum.Entradas)},
			{"Saídas", tui.BRL(sum.Saidas)},
			{"Resultado", tui.BRL(sum.Resultado)},
		},
	})
	return nil
}

func cmdAdminClearLedger(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("admin clear-ledger")
	var period periodFlags
	period.bind(fs)
	tipo := fs.String("tipo", "", "only this movement type")
	yes := fs.Bool("yes", false, "confirm the deletion")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if !*yes {
		return fmt.Errorf("%w: clear-ledger deletes movements permanently, pass -yes to confirm", errUsage)
	}
	if _, err := period.params(); err != nil {
		return err
	}

	a.d.Working("Clearing movements")
	res, err := a.con.Ledger.Clear(ctx, api.ClearFilter{
		Query: period.q,
		Tipo:  *tipo,
		From:  period.from,
		To:    period.to,
	})
	if err != nil {
		return err
	}
	a.d.APICallOK(fmt.Sprintf("%d movimentos removidos", res.Removidos))
	return nil
}
