package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestSports_CatalogueCRUD(t *testing.T) {
	f := newFakeAPI(t)
	f.router.Post("/api/admin/sports/events", reply(http.StatusCreated, map[string]any{"id": 1, "status": "scheduled"}))
	f.router.Get("/api/admin/sports/markets", reply(http.StatusOK, map[string]any{"items": []map[string]any{{"id": 4, "event_id": 1}}}))
	f.router.Post("/api/admin/sports/selections", reply(http.StatusCreated, map[string]any{"id": 8, "odds": 2.1}))
	f.router.Patch("/api/admin/sports/selections/{id}", reply(http.StatusOK, nil))
	f.router.Delete("/api/admin/sports/events/{id}", reply(http.StatusNoContent, nil))
	con, _ := f.console(t, adminSession())

	ev, err := con.Sports.CreateEvent(bg, Event{LeagueCode: "BRA1", HomeName: "Flamengo", AwayName: "Palmeiras"})
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}
	if ev.ID != 1 {
		t.Errorf("event = %+v", ev)
	}
	if body := decodeBody(t, f.last(t).Body); body["status"] != "scheduled" {
		t.Errorf("default status not sent: %v", body)
	}

	markets, err := con.Sports.Markets(bg, ListParams{EventID: 1})
	if err != nil {
		t.Fatalf("Markets() error = %v", err)
	}
	if len(markets.Items) != 1 || f.last(t).Query != "event_id=1" {
		t.Errorf("markets = %+v, query %q", markets, f.last(t).Query)
	}

	if _, err := con.Sports.CreateSelection(bg, Selection{MarketID: 4, Name: "Casa", Odds: 1}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("odds of 1 accepted: %v", err)
	}
	if _, err := con.Sports.CreateSelection(bg, Selection{MarketID: 4, Name: "Casa", Odds: 2.1}); err != nil {
		t.Fatalf("CreateSelection() error = %v", err)
	}
	if err := con.Sports.PatchSelection(bg, 8, map[string]any{"odds": 2.3}); err != nil {
		t.Fatalf("PatchSelection() error = %v", err)
	}
	if p := f.last(t).Path; p != "/api/admin/sports/selections/8" {
		t.Errorf("patch path = %q", p)
	}
	if err := con.Sports.DeleteEvent(bg, 1); err != nil {
		t.Fatalf("DeleteEvent() error = %v", err)
	}
}

func TestSports_Settle(t *testing.T) {
	f := newFakeAPI(t)
	f.router.Post("/api/admin/sports/settle-by-selection", reply(http.StatusOK, map[string]int{"liquidadas": 3}))
	con, _ := f.console(t, adminSession())

	if err := con.Sports.Settle(bg, 8, "draw"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Settle(draw) error = %v", err)
	}
	for _, result := range []string{ResultWon, ResultLost, ResultVoid} {
		if err := con.Sports.Settle(bg, 8, result); err != nil {
			t.Fatalf("Settle(%s) error = %v", result, err)
		}
		body := decodeBody(t, f.last(t).Body)
		if body["selection_id"] != float64(8) || body["result"] != result {
			t.Errorf("body = %v", body)
		}
	}
}

func TestSports_Margins(t *testing.T) {
	f := newFakeAPI(t)
	f.router.Put("/api/sports/margins", reply(http.StatusOK, nil))
	f.router.Patch("/api/sports/margins/{id}", reply(http.StatusOK, nil))
	f.router.Delete("/api/sports/margins/{id}", reply(http.StatusOK, nil))
	con, _ := f.console(t, adminSession())

	err := con.Sports.UpsertMargins(bg, Margin{LeagueCode: " BRA1 ", MarketCode: "1X2", Margin: 0.06})
	if err != nil {
		t.Fatalf("UpsertMargins() error = %v", err)
	}
	var sent []Margin
	if err := json.Unmarshal([]byte(f.last(t).Body), &sent); err != nil {
		t.Fatalf("upsert body is not an array: %v", err)
	}
	if len(sent) != 1 || sent[0].LeagueCode != "BRA1" || sent[0].Margin != 0.06 {
		t.Errorf("sent = %+v", sent)
	}

	if err := con.Sports.UpsertMargins(bg, Margin{LeagueCode: "BRA1", MarketCode: "1X2", Margin: 1}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("margin of 1 accepted: %v", err)
	}
	if err := con.Sports.UpsertMargins(bg); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty upsert accepted: %v", err)
	}

	if err := con.Sports.PatchMargin(bg, 3, 0.05); err != nil {
		t.Fatalf("PatchMargin() error = %v", err)
	}
	if body := decodeBody(t, f.last(t).Body); body["margin"] != 0.05 {
		t.Errorf("patch body = %v", body)
	}
	if err := con.Sports.RemoveMargin(bg, 3); err != nil {
		t.Fatalf("RemoveMargin() error = %v", err)
	}
}

func TestSports_Price(t *testing.T) {
	f := newFakeAPI(t)
	f.router.Post("/api/sports/price", reply(http.StatusOK, map[string]any{
		"odds": []float64{2.4, 3.1, 2.9}, "margin": 0.06,
	}))
	con, _ := f.console(t, adminSession())

	res, err := con.Sports.Price(bg, PriceRequest{Probs: []float64{0.4, 0.3, 0.3}, LeagueCode: "BRA1", MarketCode: "1X2"})
	if err != nil {
		t.Fatalf("Price() error = %v", err)
	}
	if len(res.Odds) != 3 || res.Margin != 0.06 {
		t.Errorf("result = %+v", res)
	}

	bad := [][]float64{nil, {0.5, 0}, {0.7, 0.6}}
	for _, probs := range bad {
		if _, err := con.Sports.Price(bg, PriceRequest{Probs: probs}); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Price(%v) error = %v, want ErrInvalidInput", probs, err)
		}
	}
}
