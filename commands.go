package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-authgate/bet-console/api"
	"github.com/go-authgate/bet-console/apiclient"
	"github.com/go-authgate/bet-console/session"
	"github.com/go-authgate/bet-console/tui"
)

// errUsage is returned for unknown commands and bad arguments.
var errUsage = errors.New("usage error")

type access int

const (
	public access = iota // no session needed
	player               // any signed-in user
	admin                // ADMIN, MASTER or SUPERADMIN
)

// command is one console action. name may hold a group and a verb
// ("admin deposits").
type command struct {
	name    string
	summary string
	surface string
	access  access
	run     func(ctx context.Context, a *app, args []string) error
}

var registry = map[string]command{}

func register(cmds ...command) {
	for _, c := range cmds {
		registry[c.name] = c
	}
}

func init() {
	register(
		command{"login", "sign in (-usuario, -senha or CONSOLE_SENHA)", apiclient.EntryPath, public, cmdLogin},
		command{"logout", "end the session", apiclient.EntryPath, public, cmdLogout},
		command{"whoami", "show the cached profile", "", player, cmdWhoami},
		command{"me", "fetch the profile from the server", "", player, cmdMe},
		command{"status", "show session backend and token expiry", "", public, cmdStatus},
		command{"balance", "show the wallet balance", api.DashboardPath, player, cmdBalance},
		command{"movements", "list wallet movements (-tipo, -page)", "/financeiro", player, cmdMovements},
		command{"deposit", "open a deposit (-valor, -metodo, -referencia)", "/financeiro", player, cmdDeposit},
		command{"withdraw", "request a PIX payout (-valor, -pix)", "/financeiro", player, cmdWithdraw},
	)
}

// lookup resolves the longest registered command name at the start of args.
func lookup(args []string) (command, []string, bool) {
	if len(args) >= 2 {
		if c, ok := registry[args[0]+" "+args[1]]; ok {
			return c, args[2:], true
		}
	}
	if len(args) >= 1 {
		if c, ok := registry[args[0]]; ok {
			return c, args[1:], true
		}
	}
	return command{}, nil, false
}

// dispatch runs the command named by args after checking access.
func dispatch(ctx context.Context, a *app, args []string) error {
	cmd, rest, ok := lookup(args)
	if !ok {
		return fmt.Errorf("%w: unknown command %q\n\n%s", errUsage, strings.Join(args, " "), usage())
	}

	switch cmd.access {
	case admin:
		if err := a.requireAdmin(ctx); err != nil {
			return err
		}
	case player:
		if _, err := a.profile(ctx); err != nil {
			return err
		}
	}
	if cmd.surface != "" {
		a.nav.show(cmd.surface)
	}
	a.log.Debug("running command", "command", cmd.name, "surface", a.nav.Current())
	return cmd.run(ctx, a, rest)
}

func usage() string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Usage: bet-console [flags] <command> [command flags]\n\nCommands:\n")
	for _, n := range names {
		c := registry[n]
		fmt.Fprintf(&b, "  %-24s %s\n", n, c.summary)
	}
	return b.String()
}

// newFlagSet returns a FlagSet for a command. Parse errors surface as
// errUsage instead of exiting.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	return nil
}

func requireID(name string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: -%s is required", errUsage, name)
	}
	return nil
}

// parseDay accepts YYYY-MM-DD in local time.
func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q (want YYYY-MM-DD)", errUsage, s)
	}
	return t, nil
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("login")
	usuario := fs.String("usuario", "", "login")
	senha := fs.String("senha", "", "password (prefer CONSOLE_SENHA)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *senha == "" {
		*senha = os.Getenv("CONSOLE_SENHA")
	}

	a.d.Working("Signing in")
	p, err := a.con.Auth.Login(ctx, *usuario, *senha)
	if err != nil {
		return err
	}
	landing := api.LandingPath(p)
	a.d.LoggedIn(p.Usuario, p.Role, landing)
	a.nav.Navigate(landing)
	return nil
}

func cmdLogout(ctx context.Context, a *app, _ []string) error {
	if err := a.con.Auth.Logout(ctx); err != nil {
		return err
	}
	a.d.APICallOK("Logged out")
	return nil
}

func profileTable(title string, p *session.Profile) tui.Table {
	return tui.Table{
		Title:   title,
		Headers: []string{"Campo", "Valor"},
		Rows: [][]string{
			{"ID", strconv.FormatInt(p.ID, 10)},
			{"Usuário", p.Usuario},
			{"Nome", p.Nome},
			{"Email", p.Email},
			{"Perfil", p.Role},
		},
	}
}

func cmdWhoami(ctx context.Context, a *app, _ []string) error {
	p, err := a.profile(ctx)
	if err != nil {
		return err
	}
	a.d.Table(profileTable("Sessão", p))
	return nil
}

func cmdMe(ctx context.Context, a *app, _ []string) error {
	a.d.Working("Loading profile")
	p, err := a.con.Auth.Me(ctx)
	if err != nil {
		return err
	}
	a.d.Table(profileTable("Perfil", p))
	return nil
}

func cmdStatus(ctx context.Context, a *app, _ []string) error {
	b, err := a.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	rows := [][]string{
		{"Backend", a.cfg.SessionBackend},
		{"Profile", a.cfg.SessionProfile},
		{"API", a.cfg.baseURL()},
	}
	if !b.Present() {
		rows = append(rows, []string{"Sessão", "nenhuma"})
		a.d.Table(tui.Table{Title: "Status", Headers: []string{"", ""}, Rows: rows})
		return nil
	}

	user := "?"
	if b.User != nil {
		user = b.User.Usuario + " (" + b.User.Role + ")"
	}
	expiry := b.ExpiresAt
	if expiry.IsZero() {
		expiry = session.TokenExpiry(b.AccessToken)
	}
	expires := "desconhecido"
	if !expiry.IsZero() {
		if left := time.Until(expiry); left > 0 {
			expires = "em " + tui.FormatDuration(left)
		} else {
			expires = "expirado (será renovado no próximo uso)"
		}
	}
	refresh := "não"
	if b.RefreshToken != "" {
		refresh = "sim"
	}
	rows = append(rows,
		[]string{"Usuário", user},
		[]string{"Access token", expires},
		[]string{"Refresh token", refresh},
	)
	a.d.Table(tui.Table{Title: "Status", Headers: []string{"", ""}, Rows: rows})
	return nil
}

func cmdBalance(ctx context.Context, a *app, _ []string) error {
	a.d.Working("Loading balance")
	b, err := a.con.Wallet.Balance(ctx)
	if err != nil {
		return err
	}
	a.d.Info("Saldo: " + tui.BRL(b.Saldo))
	return nil
}

func movementsTable(title string, items []api.Movement) tui.Table {
	t := tui.Table{
		Title:   title,
		Headers: []string{"ID", "Data", "Usuário", "Tipo", "Valor", "Saldo antes", "Saldo depois"},
	}
	for _, m := range items {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(m.ID, 10),
			m.CreatedAt,
			m.Usuario,
			m.Tipo,
			tui.BRL(m.Valor),
			tui.BRL(m.SaldoAntes),
			tui.BRL(m.SaldoDepois),
		})
	}
	return t
}

func cmdMovements(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("movements")
	tipo := fs.String("tipo", "", "only this movement type")
	page := fs.Int("page", 1, "page")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	a.d.Working("Loading movements")
	res, err := a.con.Wallet.Movements(ctx, api.ListParams{Page: *page})
	if err != nil {
		return err
	}
	items := api.FilterMovements(res.Items, *tipo)
	a.d.Table(movementsTable(fmt.Sprintf("Movimentos (%d de %d)", len(items), res.Total), items))
	a.d.Info("Variação: " + tui.BRL(api.NetDelta(items)))
	return nil
}

func cmdDeposit(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("deposit")
	valor := fs.Float64("valor", 0, "amount in BRL")
	metodo := fs.String("metodo", "PIX", "payment method")
	ref := fs.String("referencia", "", "payment reference")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	a.d.Working("Opening deposit")
	dep, err := a.con.Wallet.Deposit(ctx, api.DepositRequest{Valor: *valor, Metodo: *metodo, Referencia: *ref})
	if err != nil {
		return err
	}
	a.d.APICallOK(fmt.Sprintf("Depósito #%d de %s aberto (%s)", dep.ID, tui.BRL(dep.Valor), dep.Status))
	return nil
}

func cmdWithdraw(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("withdraw")
	valor := fs.Float64("valor", 0, "amount in BRL")
	pix := fs.String("pix", "", "PIX key")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	a.d.Working("Requesting withdrawal")
	w, err := a.con.Wallet.Withdraw(ctx, *valor, *pix)
	if err != nil {
		return err
	}
	a.d.APICallOK(fmt.Sprintf("Saque #%d solicitado (%s)", w.ID, w.Status))
	return nil
}
