package api

import (
	"errors"
	"net/http"
	"testing"
)

func TestParseGame(t *testing.T) {
	tests := []struct {
		in   string
		want Game
		ok   bool
	}{
		{"dice", Dice, true},
		{"HiLo", HiLo, true},
		{"slots_common", SlotsCommon, true},
		{"slots/premium", SlotsPremium, true},
		{"roulette", "", false},
	}
	for _, tt := range tests {
		got, err := ParseGame(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseGame(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParseGame(%q) error = %v, want ErrInvalidInput", tt.in, err)
		}
	}
	if got := SlotsPremium.Slug(); got != "slots_premium" {
		t.Errorf("Slug() = %q", got)
	}
}

func TestCasino_Play(t *testing.T) {
	f := newFakeAPI(t)
	f.router.Post("/api/cassino/dice/play", reply(http.StatusOK, map[string]any{
		"roll": 42.5, "win": true, "payout": 19.6, "saldo": 119.6,
	}))
	f.router.Post("/api/cassino/slots/common/play", reply(http.StatusOK, map[string]any{
		"result": "🍒🍒🍋", "payout": 0, "saldo": 90,
	}))
	con, _ := f.console(t, adminSession())

	target := 50.0
	res, err := con.Casino.Play(bg, Dice, PlayRequest{Stake: 10, Target: &target})
	if err != nil {
		t.Fatalf("Play(dice) error = %v", err)
	}
	if !res.Win || res.Roll == nil || *res.Roll != 42.5 {
		t.Errorf("result = %+v", res)
	}
	body := decodeBody(t, f.last(t).Body)
	if body["target"] != float64(50) || body["stake"] != float64(10) {
		t.Errorf("body = %v", body)
	}
	if _, ok := body["bet"]; ok {
		t.Errorf("unused fields sent: %v", body)
	}

	if _, err := con.Casino.Play(bg, SlotsCommon, PlayRequest{Stake: 10}); err != nil {
		t.Fatalf("Play(slots) error = %v", err)
	}
	if p := f.last(t).Path; p != "/api/cassino/slots/common/play" {
		t.Errorf("path = %q", p)
	}
}

func TestCasino_PlayValidation(t *testing.T) {
	f := newFakeAPI(t)
	con, _ := f.console(t, adminSession())

	tests := []struct {
		game Game
		req  PlayRequest
	}{
		{Coinflip, PlayRequest{Stake: 0, Bet: "cara"}},
		{Coinflip, PlayRequest{Stake: 1}},
		{Dice, PlayRequest{Stake: 1}},
		{HiLo, PlayRequest{Stake: 1}},
	}
	for _, tt := range tests {
		if _, err := con.Casino.Play(bg, tt.game, tt.req); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Play(%s, %+v) error = %v, want ErrInvalidInput", tt.game, tt.req, err)
		}
	}
	if n := len(f.requests()); n != 0 {
		t.Errorf("backend saw %d requests for invalid bets", n)
	}
}

func TestCasino_History(t *testing.T) {
	f := newFakeAPI(t)
	f.router.Get("/api/cassino/hilo/minhas", reply(http.StatusOK, map[string]any{
		"items": []map[string]any{{"id": 1}, {"id": 2}, {"id": 3}},
	}))
	con, _ := f.console(t, adminSession())

	page, err := con.Casino.History(bg, HiLo)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if page.Total != 3 {
		t.Errorf("Total = %d", page.Total)
	}
}

func TestGameConfigInput_Validate(t *testing.T) {
	valid := GameConfigInput{Ativo: true, RTPTarget: 0.96, MinStake: 1, MaxStake: 100}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	tests := []struct {
		name string
		mod  func(*GameConfigInput)
	}{
		{"zero rtp", func(in *GameConfigInput) { in.RTPTarget = 0 }},
		{"rtp above one", func(in *GameConfigInput) { in.RTPTarget = 1.2 }},
		{"zero min stake", func(in *GameConfigInput) { in.MinStake = 0 }},
		{"max below min", func(in *GameConfigInput) { in.MaxStake = 0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mod(&in)
			if err := in.Validate(); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Validate() = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestExtremeRTP(t *testing.T) {
	for rtp, want := range map[float64]bool{0.5: true, 0.6: true, 0.61: false, 0.96: false, 0.99: true} {
		if got := ExtremeRTP(rtp); got != want {
			t.Errorf("ExtremeRTP(%v) = %v, want %v", rtp, got, want)
		}
	}
}

func TestGamesConfig_Writes(t *testing.T) {
	f := newFakeAPI(t)
	f.router.Put("/api/cassino/games-config/{slug}", reply(http.StatusOK, map[string]any{"game_slug": "dice", "ativo": true}))
	f.router.Patch("/api/cassino/games-config/{slug}", reply(http.StatusOK, map[string]any{"game_slug": "dice", "ativo": false}))
	f.router.Delete("/api/cassino/games-config/{slug}", reply(http.StatusNoContent, nil))
	con, _ := f.console(t, adminSession())

	in := GameConfigInput{Ativo: true, RTPTarget: 0.97, MinStake: 1, MaxStake: 500}
	cfg, err := con.GamesConfig.Upsert(bg, "dice", in)
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if cfg.GameSlug != "dice" {
		t.Errorf("cfg = %+v", cfg)
	}
	if m := f.last(t).Method; m != http.MethodPut {
		t.Errorf("method = %s", m)
	}

	in.Ativo = false
	if _, err := con.GamesConfig.Patch(bg, "dice", in); err != nil {
		t.Fatalf("Patch() error = %v", err)
	}
	if body := decodeBody(t, f.last(t).Body); body["ativo"] != false || body["rtp_target"] != 0.97 {
		t.Errorf("patch body = %v", body)
	}

	if err := con.GamesConfig.Deactivate(bg, "dice"); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}
	if req := f.last(t); req.Method != http.MethodDelete || req.Path != "/api/cassino/games-config/dice" {
		t.Errorf("request = %s %s", req.Method, req.Path)
	}

	if _, err := con.GamesConfig.Upsert(bg, "", in); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty slug error = %v", err)
	}
}
