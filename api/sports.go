package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-authgate/bet-console/apiclient"
)

const sportsAdminPath = "/admin/sports"

// Event is a fixture.
type Event struct {
	ID         int64  `json:"id"`
	LeagueCode string `json:"league_code"`
	HomeName   string `json:"home_name"`
	AwayName   string `json:"away_name"`
	StartTime  string `json:"start_time"`
	Status     string `json:"status"`
}

// Market belongs to an event. Line is set for handicap and totals markets.
type Market struct {
	ID         int64    `json:"id"`
	EventID    int64    `json:"event_id"`
	MarketCode string   `json:"market_code"`
	Line       *float64 `json:"line,omitempty"`
	Status     string   `json:"status"`
}

// Selection is one priced outcome of a market.
type Selection struct {
	ID       int64   `json:"id"`
	MarketID int64   `json:"market_id"`
	Name     string  `json:"name"`
	Odds     float64 `json:"odds"`
	Status   string  `json:"status"`
	Result   string  `json:"result,omitempty"`
}

// Margin is the bookmaker margin for a league and market pair.
type Margin struct {
	ID         int64   `json:"id,omitempty"`
	LeagueCode string  `json:"league_code"`
	MarketCode string  `json:"market_code"`
	Margin     float64 `json:"margin"`
}

// Settlement results.
const (
	ResultWon  = "won"
	ResultLost = "lost"
	ResultVoid = "void"
)

// SportsAPI manages the sportsbook catalogue and pricing.
type SportsAPI struct {
	c *apiclient.Client
}

// Events lists fixtures.
func (s SportsAPI) Events(ctx context.Context, p ListParams) (*Page[Event], error) {
	return list[Event](ctx, s.c, sportsAdminPath+"/events", p)
}

// CreateEvent adds a fixture.
func (s SportsAPI) CreateEvent(ctx context.Context, e Event) (*Event, error) {
	if strings.TrimSpace(e.HomeName) == "" || strings.TrimSpace(e.AwayName) == "" {
		return nil, fmt.Errorf("%w: home and away names are required", ErrInvalidInput)
	}
	if e.Status == "" {
		e.Status = "scheduled"
	}
	var out Event
	if err := s.c.JSON(ctx, http.MethodPost, sportsAdminPath+"/events", nil, e, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PatchEvent updates the fields present in patch.
func (s SportsAPI) PatchEvent(ctx context.Context, id int64, patch map[string]any) error {
	return s.c.JSON(ctx, http.MethodPatch, idPath(sportsAdminPath+"/events", id, ""), nil, patch, nil)
}

// DeleteEvent removes a fixture.
func (s SportsAPI) DeleteEvent(ctx context.Context, id int64) error {
	return s.c.JSON(ctx, http.MethodDelete, idPath(sportsAdminPath+"/events", id, ""), nil, nil, nil)
}

// Markets lists markets, usually filtered by EventID.
func (s SportsAPI) Markets(ctx context.Context, p ListParams) (*Page[Market], error) {
	return list[Market](ctx, s.c, sportsAdminPath+"/markets", p)
}

// CreateMarket adds a market to an event.
func (s SportsAPI) CreateMarket(ctx context.Context, m Market) (*Market, error) {
	if m.EventID <= 0 || m.MarketCode == "" {
		return nil, fmt.Errorf("%w: event_id and market_code are required", ErrInvalidInput)
	}
	if m.Status == "" {
		m.Status = "open"
	}
	var out Market
	if err := s.c.JSON(ctx, http.MethodPost, sportsAdminPath+"/markets", nil, m, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PatchMarket updates the fields present in patch.
func (s SportsAPI) PatchMarket(ctx context.Context, id int64, patch map[string]any) error {
	return s.c.JSON(ctx, http.MethodPatch, idPath(sportsAdminPath+"/markets", id, ""), nil, patch, nil)
}

// DeleteMarket removes a market.
func (s SportsAPI) DeleteMarket(ctx context.Context, id int64) error {
	return s.c.JSON(ctx, http.MethodDelete, idPath(sportsAdminPath+"/markets", id, ""), nil, nil, nil)
}

// Selections lists selections, usually filtered by MarketID.
func (s SportsAPI) Selections(ctx context.Context, p ListParams) (*Page[Selection], error) {
	return list[Selection](ctx, s.c, sportsAdminPath+"/selections", p)
}

// CreateSelection adds a priced outcome to a market.
func (s SportsAPI) CreateSelection(ctx context.Context, sel Selection) (*Selection, error) {
	if sel.MarketID <= 0 || strings.TrimSpace(sel.Name) == "" {
		return nil, fmt.Errorf("%w: market_id and name are required", ErrInvalidInput)
	}
	if sel.Odds <= 1 {
		return nil, fmt.Errorf("%w: odds must be above 1, got %v", ErrInvalidInput, sel.Odds)
	}
	if sel.Status == "" {
		sel.Status = "open"
	}
	var out Selection
	if err := s.c.JSON(ctx, http.MethodPost, sportsAdminPath+"/selections", nil, sel, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PatchSelection updates the fields present in patch.
func (s SportsAPI) PatchSelection(ctx context.Context, id int64, patch map[string]any) error {
	return s.c.JSON(ctx, http.MethodPatch, idPath(sportsAdminPath+"/selections", id, ""), nil, patch, nil)
}

// DeleteSelection removes a selection.
func (s SportsAPI) DeleteSelection(ctx context.Context, id int64) error {
	return s.c.JSON(ctx, http.MethodDelete, idPath(sportsAdminPath+"/selections", id, ""), nil, nil, nil)
}

type settleRequest struct {
	SelectionID int64  `json:"selection_id"`
	Result      string `json:"result"`
}

// Settle grades every open bet on a selection.
func (s SportsAPI) Settle(ctx context.Context, selectionID int64, result string) error {
	switch result {
	case ResultWon, ResultLost, ResultVoid:
	default:
		return fmt.Errorf("%w: settle result must be won, lost or void, got %q", ErrInvalidInput, result)
	}
	return s.c.JSON(ctx, http.MethodPost, sportsAdminPath+"/settle-by-selection", nil,
		settleRequest{SelectionID: selectionID, Result: result}, nil)
}

// Margins lists the configured margins.
func (s SportsAPI) Margins(ctx context.Context) (*Page[Margin], error) {
	return list[Margin](ctx, s.c, "/sports/margins", ListParams{})
}

// UpsertMargins replaces margins matching the same league and market.
func (s SportsAPI) UpsertMargins(ctx context.Context, margins ...Margin) error {
	if len(margins) == 0 {
		return fmt.Errorf("%w: no margins given", ErrInvalidInput)
	}
	for i := range margins {
		m := &margins[i]
		m.LeagueCode = strings.TrimSpace(m.LeagueCode)
		m.MarketCode = strings.TrimSpace(m.MarketCode)
		if m.LeagueCode == "" || m.MarketCode == "" {
			return fmt.Errorf("%w: league_code and market_code are required", ErrInvalidInput)
		}
		if m.Margin < 0 || m.Margin >= 1 {
			return fmt.Errorf("%w: margin must be in [0, 1), got %v", ErrInvalidInput, m.Margin)
		}
	}
	return s.c.JSON(ctx, http.MethodPut, "/sports/margins", nil, margins, nil)
}

// PatchMargin changes one margin value.
func (s SportsAPI) PatchMargin(ctx context.Context, id int64, margin float64) error {
	if margin < 0 || margin >= 1 {
		return fmt.Errorf("%w: margin must be in [0, 1), got %v", ErrInvalidInput, margin)
	}
	return s.c.JSON(ctx, http.MethodPatch, idPath("/sports/margins", id, ""), nil,
		map[string]float64{"margin": margin}, nil)
}

// RemoveMargin deletes a margin.
func (s SportsAPI) RemoveMargin(ctx context.Context, id int64) error {
	return s.c.JSON(ctx, http.MethodDelete, idPath("/sports/margins", id, ""), nil, nil, nil)
}

// Upcoming lists fixtures open for betting.
func (s SportsAPI) Upcoming(ctx context.Context, p ListParams) (*Page[Event], error) {
	return list[Event](ctx, s.c, "/sports/events/upcoming", p)
}

// PriceRequest asks the pricing engine to turn fair probabilities into odds.
type PriceRequest struct {
	Probs      []float64 `json:"probs"`
	LeagueCode string    `json:"league_code"`
	MarketCode string    `json:"market_code"`
}

// PriceResult carries the odds with the margin applied.
type PriceResult struct {
	Odds   []float64 `json:"odds"`
	Margin float64   `json:"margin"`
}

// Price quotes odds for req.
func (s SportsAPI) Price(ctx context.Context, req PriceRequest) (*PriceResult, error) {
	if len(req.Probs) == 0 {
		return nil, fmt.Errorf("%w: at least one probability is required", ErrInvalidInput)
	}
	var sum float64
	for _, p := range req.Probs {
		if p <= 0 || p >= 1 {
			return nil, fmt.Errorf("%w: probability %v out of range (0, 1)", ErrInvalidInput, p)
		}
		sum += p
	}
	if sum > 1.0001 {
		return nil, fmt.Errorf("%w: probabilities add up to %.4f", ErrInvalidInput, sum)
	}
	var out PriceResult
	if err := s.c.JSON(ctx, http.MethodPost, "/sports/price", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
