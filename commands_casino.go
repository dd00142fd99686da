package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-authgate/bet-console/api"
	"github.com/go-authgate/bet-console/tui"
)

func init() {
	register(
		command{"casino play", "play one round (-game, -stake, -bet, -target, -choice)", "/cassino", player, cmdCasinoPlay},
		command{"casino history", "your recent rounds (-game)", "/cassino", player, cmdCasinoHistory},
		command{"casino configs", "list game configurations", "/admin/cassino", admin, cmdCasinoConfigs},
		command{"casino config-set", "tune a game (-game, -rtp, -min, -max, -active)", "/admin/cassino", admin, cmdCasinoConfigSet},
		command{"casino config-off", "switch a game off (-game)", "/admin/cassino", admin, cmdCasinoConfigOff},
	)
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func cmdCasinoPlay(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("casino play")
	gameName := fs.String("game", "", "coinflip, dice, hilo, scratch, slots/common or slots/premium")
	stake := fs.Float64("stake", 0, "stake in BRL")
	bet := fs.String("bet", "", "coinflip side")
	target := fs.Float64("target", -1, "dice target")
	choice := fs.String("choice", "", "hi-lo guess")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	game, err := api.ParseGame(*gameName)
	if err != nil {
		return err
	}

	req := api.PlayRequest{Stake: *stake, Bet: *bet, Choice: *choice}
	if *target >= 0 {
		req.Target = target
	}

	a.d.Working("Playing " + string(game))
	res, err := a.con.Casino.Play(ctx, game, req)
	if err != nil {
		return err
	}
	outcome := "perdeu"
	if res.Win {
		outcome = "ganhou"
	}
	a.d.Table(tui.Table{
		Title:   "Rodada " + string(game),
		Headers: []string{"", ""},
		Rows: [][]string{
			{"Resultado", res.Result},
			{"Rolagem", optFloat(res.Roll)},
			{"Multiplicador", optFloat(res.Mult)},
			{"Aposta", tui.BRL(*stake)},
			{"Pagamento", tui.BRL(res.Payout)},
			{"Saldo", tui.BRL(res.Saldo)},
		},
	})
	a.d.Info("Você " + outcome + ".")
	return nil
}

func cmdCasinoHistory(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("casino history")
	gameName := fs.String("game", "", "game")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	game, err := api.ParseGame(*gameName)
	if err != nil {
		return err
	}

	a.d.Working("Loading history")
	res, err := a.con.Casino.History(ctx, game)
	if err != nil {
		return err
	}
	t := tui.Table{
		Title:   fmt.Sprintf("Histórico %s (%d)", game, res.Total),
		Headers: []string{"ID", "Data", "Resultado", "Aposta", "Pagamento"},
	}
	for _, r := range res.Items {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(r.ID, 10), r.CreatedAt, r.Result, tui.BRL(r.Stake), tui.BRL(r.Payout),
		})
	}
	a.d.Table(t)
	return nil
}

func cmdCasinoConfigs(ctx context.Context, a *app, _ []string) error {
	a.d.Working("Loading game configs")
	res, err := a.con.GamesConfig.List(ctx)
	if err != nil {
		return err
	}
	t := tui.Table{
		Title:   "Jogos",
		Headers: []string{"Jogo", "Ativo", "RTP", "Aposta mín.", "Aposta máx.", ""},
	}
	for _, c := range res.Items {
		active := "não"
		if c.Ativo {
			active = "sim"
		}
		warn := ""
		if api.ExtremeRTP(c.RTPTarget) {
			warn = "⚠ RTP extremo"
		}
		t.Rows = append(t.Rows, []string{
			c.GameSlug, active, tui.Percent(c.RTPTarget), tui.BRL(c.MinStake), tui.BRL(c.MaxStake), warn,
		})
	}
	a.d.Table(t)
	return nil
}

func cmdCasinoConfigSet(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("casino config-set")
	gameName := fs.String("game", "", "game")
	rtp := fs.Float64("rtp", 0.96, "target return to player, 0..1")
	minStake := fs.Float64("min", 1, "minimum stake")
	maxStake := fs.Float64("max", 1000, "maximum stake")
	active := fs.Bool("active", true, "game enabled")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	game, err := api.ParseGame(*gameName)
	if err != nil {
		return err
	}

	in := api.GameConfigInput{Ativo: *active, RTPTarget: *rtp, MinStake: *minStake, MaxStake: *maxStake}
	if api.ExtremeRTP(in.RTPTarget) {
		a.log.Warn("extreme RTP target", "game", game.Slug(), "rtp", in.RTPTarget)
		a.d.Info("⚠ RTP " + tui.Percent(in.RTPTarget) + " fora da faixa usual (60% a 99%)")
	}

	a.d.Working("Saving " + game.Slug())
	cfg, err := a.con.GamesConfig.Upsert(ctx, game.Slug(), in)
	if err != nil {
		return err
	}
	a.d.APICallOK(fmt.Sprintf("%s: RTP %s, apostas %s a %s",
		cfg.GameSlug, tui.Percent(cfg.RTPTarget), tui.BRL(cfg.MinStake), tui.BRL(cfg.MaxStake)))
	return nil
}

func cmdCasinoConfigOff(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("casino config-off")
	gameName := fs.String("game", "", "game")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	game, err := api.ParseGame(*gameName)
	if err != nil {
		return err
	}

	a.d.Working("Deactivating " + game.Slug())
	if err := a.con.GamesConfig.Deactivate(ctx, game.Slug()); err != nil {
		return err
	}
	a.d.APICallOK(game.Slug() + " desativado")
	return nil
}
