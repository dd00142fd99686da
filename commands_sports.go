package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-authgate/bet-console/api"
	"github.com/go-authgate/bet-console/tui"
)

const sportsSurface = "/admin/sports"

func init() {
	register(
		command{"sports upcoming", "fixtures open for betting", "/sports", player, cmdSportsUpcoming},
		command{"sports events", "list fixtures (-status)", sportsSurface, admin, cmdSportsEvents},
		command{"sports event-add", "add a fixture (-league, -home, -away, -start)", sportsSurface, admin, cmdSportsEventAdd},
		command{"sports markets", "list markets of a fixture (-event)", sportsSurface, admin, cmdSportsMarkets},
		command{"sports market-add", "add a market (-event, -code, -line)", sportsSurface, admin, cmdSportsMarketAdd},
		command{"sports selections", "list selections of a market (-market)", sportsSurface, admin, cmdSportsSelections},
		command{"sports selection-add", "add a selection (-market, -name, -odds)", sportsSurface, admin, cmdSportsSelectionAdd},
		command{"sports delete", "delete an event, market or selection (-kind, -id)", sportsSurface, admin, cmdSportsDelete},
		command{"sports settle", "settle a selection (-selection, -result won|lost|void)", sportsSurface, admin, cmdSportsSettle},
		command{"sports margins", "list pricing margins", "/admin/sports/margens", admin, cmdSportsMargins},
		command{"sports margin-set", "upsert a margin (-league, -market, -margin)", "/admin/sports/margens", admin, cmdSportsMarginSet},
		command{"sports margin-rm", "remove a margin (-id)", "/admin/sports/margens", admin, cmdSportsMarginRm},
		command{"sports price", "quote odds (-league, -market, -probs 0.45,0.3,0.25)", sportsSurface, admin, cmdSportsPrice},
	)
}

func eventsTable(title string, events []api.Event) tui.Table {
	t := tui.Table{Title: title, Headers: []string{"ID", "Liga", "Mandante", "Visitante", "Início", "Status"}}
	for _, e := range events {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(e.ID, 10), e.LeagueCode, e.HomeName, e.AwayName, e.StartTime, e.Status,
		})
	}
	return t
}

func cmdSportsUpcoming(ctx context.Context, a *app, _ []string) error {
	a.d.Working("Loading fixtures")
	res, err := a.con.Sports.Upcoming(ctx, api.ListParams{})
	if err != nil {
		return err
	}
	a.d.Table(eventsTable(fmt.Sprintf("Próximos jogos (%d)", res.Total), res.Items))
	return nil
}

func cmdSportsEvents(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("sports events")
	status := fs.String("status", "", "scheduled, live, finished...")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	a.d.Working("Loading fixtures")
	res, err := a.con.Sports.Events(ctx, api.ListParams{Status: *status})
	if err != nil {
		return err
	}
	a.d.Table(eventsTable(fmt.Sprintf("Eventos (%d)", res.Total), res.Items))
	return nil
}

func cmdSportsEventAdd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("sports event-add")
	var e api.Event
	fs.StringVar(&e.LeagueCode, "league", "", "league code")
	fs.StringVar(&e.HomeName, "home", "", "home team")
	fs.StringVar(&e.AwayName, "away", "", "away team")
	fs.StringVar(&e.StartTime, "start", "", "kick-off, RFC 3339")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	a.d.Working("Creating fixture")
	out, err := a.con.Sports.CreateEvent(ctx, e)
	if err != nil {
		return err
	}
	a.d.APICallOK(fmt.Sprintf("Evento #%d criado", out.ID))
	return nil
}

func cmdSportsMarkets(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("sports markets")
	event := fs.Int64("event", 0, "event id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireID("event", *event); err != nil {
		return err
	}
	a.d.Working("Loading markets")
	res, err := a.con.Sports.Markets(ctx, api.ListParams{EventID: *event})
	if err != nil {
		return err
	}
	t := tui.Table{
		Title:   fmt.Sprintf("Mercados do evento #%d", *event),
		Headers: []string{"ID", "Mercado", "Linha", "Status"},
	}
	for _, m := range res.Items {
		t.Rows = append(t.Rows, []string{strconv.FormatInt(m.ID, 10), m.MarketCode, optFloat(m.Line), m.Status})
	}
	a.d.Table(t)
	return nil
}

func cmdSportsMarketAdd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("sports market-add")
	event := fs.Int64("event", 0, "event id")
	code := fs.String("code", "", "market code, e.g. 1X2, OU")
	line := fs.String("line", "", "handicap or total line")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	m := api.Market{EventID: *event, MarketCode: *code}
	if *line != "" {
		v, err := strconv.ParseFloat(*line, 64)
		if err != nil {
			return fmt.Errorf("%w: invalid -line %q", errUsage, *line)
		}
		m.Line = &v
	}
	a.d.Working("Creating market")
	out, err := a.con.Sports.CreateMarket(ctx, m)
	if err != nil {
		return err
	}
	a.d.APICallOK(fmt.Sprintf("Mercado #%d criado", out.ID))
	return nil
}

func cmdSportsSelections(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("sports selections")
	market := fs.Int64("market", 0, "market id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireID("market", *market); err != nil {
		return err
	}
	a.d.Working("Loading selections")
	res, err := a.con.Sports.Selections(ctx, api.ListParams{MarketID: *market})
	if err != nil {
		return err
	}
	t := tui.Table{
		Title:   fmt.Sprintf("Seleções do mercado #%d", *market),
		Headers: []string{"ID", "Nome", "Odd", "Status", "Resultado"},
	}
	for _, s := range res.Items {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(s.ID, 10), s.Name, strconv.FormatFloat(s.Odds, 'f', 2, 64), s.Status, s.Result,
		})
	}
	a.d.Table(t)
	return nil
}

func cmdSportsSelectionAdd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("sports selection-add")
	var s api.Selection
	fs.Int64Var(&s.MarketID, "market", 0, "market id")
	fs.StringVar(&s.Name, "name", "", "selection name")
	fs.Float64Var(&s.Odds, "odds", 0, "decimal odds")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	a.d.Working("Creating selection")
	out, err := a.con.Sports.CreateSelection(ctx, s)
	if err != nil {
		return err
	}
	a.d.APICallOK(fmt.Sprintf("Seleção #%d criada", out.ID))
	return nil
}

func cmdSportsDelete(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("sports delete")
	kind := fs.String("kind", "", "event, market or selection")
	id := fs.Int64("id", 0, "id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireID("id", *id); err != nil {
		return err
	}

	var del func(context.Context, int64) error
	switch *kind {
	case "event":
		del = a.con.Sports.DeleteEvent
	case "market":
		del = a.con.Sports.DeleteMarket
	case "selection":
		del = a.con.Sports.DeleteSelection
	default:
		return fmt.Errorf("%w: -kind must be event, market or selection", errUsage)
	}
	a.d.Working("Deleting " + *kind)
	if err := del(ctx, *id); err != nil {
		return err
	}
	a.d.APICallOK(fmt.Sprintf("%s #%d removido", *kind, *id))
	return nil
}

func cmdSportsSettle(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("sports settle")
	sel := fs.Int64("selection", 0, "selection id")
	result := fs.String("result", "", "won, lost or void")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireID("selection", *sel); err != nil {
		return err
	}
	a.d.Working("Settling selection")
	if err := a.con.Sports.Settle(ctx, *sel, *result); err != nil {
		return err
	}
	a.d.APICallOK(fmt.Sprintf("Seleção #%d liquidada: %s", *sel, *result))
	return nil
}

func cmdSportsMargins(ctx context.Context, a *app, _ []string) error {
	a.d.Working("Loading margins")
	res, err := a.con.Sports.Margins(ctx)
	if err != nil {
		return err
	}
	t := tui.Table{Title: "Margens", Headers: []string{"ID", "Liga", "Mercado", "Margem"}}
	for _, m := range res.Items {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(m.ID, 10), m.LeagueCode, m.MarketCode, tui.Percent(m.Margin),
		})
	}
	a.d.Table(t)
	return nil
}

func cmdSportsMarginSet(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("sports margin-set")
	var m api.Margin
	fs.StringVar(&m.LeagueCode, "league", "", "league code")
	fs.StringVar(&m.MarketCode, "market", "1X2", "market code")
	fs.Float64Var(&m.Margin, "margin", 0.06, "margin, 0.06 = 6%")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	a.d.Working("Saving margin")
	if err := a.con.Sports.UpsertMargins(ctx, m); err != nil {
		return err
	}
	a.d.APICallOK(fmt.Sprintf("Margem %s/%s: %s", m.LeagueCode, m.MarketCode, tui.Percent(m.Margin)))
	return nil
}

func cmdSportsMarginRm(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("sports margin-rm")
	id := fs.Int64("id", 0, "margin id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireID("id", *id); err != nil {
		return err
	}
	a.d.Working("Removing margin")
	if err := a.con.Sports.RemoveMargin(ctx, *id); err != nil {
		return err
	}
	a.d.APICallOK(fmt.Sprintf("Margem #%d removida", *id))
	return nil
}

func parseProbs(s string) ([]float64, error) {
	var probs []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid probability %q", errUsage, part)
		}
		probs = append(probs, v)
	}
	return probs, nil
}

func cmdSportsPrice(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("sports price")
	league := fs.String("league", "", "league code")
	market := fs.String("market", "1X2", "market code")
	rawProbs := fs.String("probs", "", "comma-separated fair probabilities")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	probs, err := parseProbs(*rawProbs)
	if err != nil {
		return err
	}

	a.d.Working("Pricing")
	res, err := a.con.Sports.Price(ctx, api.PriceRequest{Probs: probs, LeagueCode: *league, MarketCode: *market})
	if err != nil {
		return err
	}
	t := tui.Table{
		Title:   fmt.Sprintf("Cotação %s/%s (margem %s)", *league, *market, tui.Percent(res.Margin)),
		Headers: []string{"#", "Probabilidade", "Odd"},
	}
	for i, o := range res.Odds {
		p := ""
		if i < len(probs) {
			p = tui.Percent(probs[i])
		}
		t.Rows = append(t.Rows, []string{strconv.Itoa(i + 1), p, strconv.FormatFloat(o, 'f', 2, 64)})
	}
	a.d.Table(t)
	return nil
}
