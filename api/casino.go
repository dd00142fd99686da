package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-authgate/bet-console/apiclient"
)

// Game identifies a casino game by its URL segment.
type Game string

const (
	Coinflip     Game = "coinflip"
	Dice         Game = "dice"
	HiLo         Game = "hilo"
	Scratch      Game = "scratch"
	SlotsCommon  Game = "slots/common"
	SlotsPremium Game = "slots/premium"
)

// Games lists every playable game.
var Games = []Game{Coinflip, Dice, HiLo, Scratch, SlotsCommon, SlotsPremium}

// ParseGame accepts the URL form ("slots/common") or the config slug form
// ("slots_common").
func ParseGame(s string) (Game, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", "/")
	for _, g := range Games {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: unknown game %q", ErrInvalidInput, s)
}

// Slug is the games-config identifier for g.
func (g Game) Slug() string {
	return strings.ReplaceAll(string(g), "/", "_")
}

// PlayRequest is one bet. Bet is used by coinflip, Target by dice, Choice
// by hi-lo; the rest only need a stake.
type PlayRequest struct {
	Stake  float64  `json:"stake"`
	Bet    string   `json:"bet,omitempty"`
	Target *float64 `json:"target,omitempty"`
	Choice string   `json:"choice,omitempty"`
}

func (r PlayRequest) validate(g Game) error {
	if r.Stake <= 0 {
		return fmt.Errorf("%w: stake must be positive", ErrInvalidInput)
	}
	switch g {
	case Coinflip:
		if r.Bet == "" {
			return fmt.Errorf("%w: coinflip needs a bet", ErrInvalidInput)
		}
	case Dice:
		if r.Target == nil {
			return fmt.Errorf("%w: dice needs a target", ErrInvalidInput)
		}
	case HiLo:
		if r.Choice == "" {
			return fmt.Errorf("%w: hi-lo needs a choice", ErrInvalidInput)
		}
	}
	return nil
}

// PlayResult is the outcome of one round.
type PlayResult struct {
	ID     int64    `json:"id"`
	Result string   `json:"result,omitempty"`
	Roll   *float64 `json:"roll,omitempty"`
	Mult   *float64 `json:"mult,omitempty"`
	Win    bool     `json:"win"`
	Stake  float64  `json:"stake"`
	Payout float64  `json:"payout"`
	Saldo  float64  `json:"saldo"`
	// CreatedAt is only filled in history listings.
	CreatedAt string `json:"created_at,omitempty"`
}

// CasinoAPI is the player side of the casino.
type CasinoAPI struct {
	c *apiclient.Client
}

func gamePath(g Game, action string) string {
	return "/cassino/" + string(g) + "/" + action
}

// Play places one bet.
func (ca CasinoAPI) Play(ctx context.Context, g Game, req PlayRequest) (*PlayResult, error) {
	if err := req.validate(g); err != nil {
		return nil, err
	}
	var res PlayResult
	if err := ca.c.JSON(ctx, http.MethodPost, gamePath(g, "play"), nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// History lists the caller's recent rounds of g.
func (ca CasinoAPI) History(ctx context.Context, g Game) (*Page[PlayResult], error) {
	return list[PlayResult](ctx, ca.c, gamePath(g, "minhas"), ListParams{})
}

// GameConfig is the operator-side tuning of one game.
type GameConfig struct {
	GameSlug  string         `json:"game_slug"`
	Ativo     bool           `json:"ativo"`
	RTPTarget float64        `json:"rtp_target"`
	MinStake  float64        `json:"min_stake"`
	MaxStake  float64        `json:"max_stake"`
	Extra     map[string]any `json:"extra,omitempty"`
	UpdatedAt string         `json:"updated_at,omitempty"`
}

// GameConfigInput is the writable part of GameConfig.
type GameConfigInput struct {
	Ativo     bool           `json:"ativo"`
	RTPTarget float64        `json:"rtp_target"`
	MinStake  float64        `json:"min_stake"`
	MaxStake  float64        `json:"max_stake"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// Validate checks the ranges the backend would reject anyway.
func (in GameConfigInput) Validate() error {
	if in.RTPTarget <= 0 || in.RTPTarget > 1 {
		return fmt.Errorf("%w: rtp_target must be in (0, 1], got %v", ErrInvalidInput, in.RTPTarget)
	}
	if in.MinStake <= 0 {
		return fmt.Errorf("%w: min_stake must be positive", ErrInvalidInput)
	}
	if in.MaxStake < in.MinStake {
		return fmt.Errorf("%w: max_stake %v is below min_stake %v", ErrInvalidInput, in.MaxStake, in.MinStake)
	}
	return nil
}

// ExtremeRTP flags RTP targets that make payouts swing abnormally.
func ExtremeRTP(rtp float64) bool {
	return rtp <= 0.6 || rtp >= 0.99
}

// GamesConfigAPI tunes casino games.
type GamesConfigAPI struct {
	c *apiclient.Client
}

func configPath(slug string) string {
	return "/cassino/games-config/" + url.PathEscape(slug)
}

// List returns every game configuration.
func (gc GamesConfigAPI) List(ctx context.Context) (*Page[GameConfig], error) {
	return list[GameConfig](ctx, gc.c, "/cassino/games-config", ListParams{})
}

// Get returns one configuration.
func (gc GamesConfigAPI) Get(ctx context.Context, slug string) (*GameConfig, error) {
	var cfg GameConfig
	if err := gc.c.JSON(ctx, http.MethodGet, configPath(slug), nil, nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Upsert creates or replaces the configuration for slug.
func (gc GamesConfigAPI) Upsert(ctx context.Context, slug string, in GameConfigInput) (*GameConfig, error) {
	return gc.write(ctx, http.MethodPut, slug, in)
}

// Patch updates the configuration for slug.
func (gc GamesConfigAPI) Patch(ctx context.Context, slug string, in GameConfigInput) (*GameConfig, error) {
	return gc.write(ctx, http.MethodPatch, slug, in)
}

func (gc GamesConfigAPI) write(ctx context.Context, method, slug string, in GameConfigInput) (*GameConfig, error) {
	if slug == "" {
		return nil, fmt.Errorf("%w: game slug is required", ErrInvalidInput)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var cfg GameConfig
	if err := gc.c.JSON(ctx, method, configPath(slug), nil, in, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Deactivate switches a game off.
func (gc GamesConfigAPI) Deactivate(ctx context.Context, slug string) error {
	return gc.c.JSON(ctx, http.MethodDelete, configPath(slug), nil, nil, nil)
}
