package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"
)

func TestListParams_Values(t *testing.T) {
	p := ListParams{
		Page:      2,
		PageSize:  50,
		Status:    StatusPendente,
		Query:     "maria",
		UsuarioID: 9,
		From:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("BRT", -3*3600)),
	}
	v := p.values()
	want := url.Values{
		"page":       {"2"},
		"pageSize":   {"50"},
		"status":     {"pendente"},
		"q":          {"maria"},
		"usuario_id": {"9"},
		"from":       {"2024-03-01T15:00:00Z"},
	}
	if v.Encode() != want.Encode() {
		t.Errorf("values() = %s, want %s", v.Encode(), want.Encode())
	}
	if got := (ListParams{}).values().Encode(); got != "" {
		t.Errorf("zero params encoded as %q", got)
	}
}

func TestDeposits_ListAndSetStatus(t *testing.T) {
	f := newFakeAPI(t)
	f.router.Get("/api/admin/depositos", reply(http.StatusOK, map[string]any{
		"items": []map[string]any{
			{"id": 1, "valor": 50, "status": "pendente"},
			{"id": 2, "valor": 20, "status": "pendente"},
		},
	}))
	f.router.Patch("/api/admin/depositos/{id}/status", reply(http.StatusOK, map[string]bool{"ok": true}))

	con, _ := f.console(t, adminSession())
	page, err := con.Deposits.List(bg, ListParams{Status: StatusPendente})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page.Items) != 2 || page.Total != 2 {
		t.Errorf("page = %+v, want 2 items with total defaulted to 2", page)
	}
	if q := f.last(t).Query; q != "status=pendente" {
		t.Errorf("query = %q", q)
	}

	if err := con.Deposits.SetStatus(bg, 1, StatusRecusado, "comprovante ilegível"); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	req := f.last(t)
	if req.Method != http.MethodPatch || req.Path != "/api/admin/depositos/1/status" {
		t.Errorf("request = %s %s", req.Method, req.Path)
	}
	body := decodeBody(t, req.Body)
	if body["status"] != "recusado" || body["motivo"] != "comprovante ilegível" {
		t.Errorf("body = %v", body)
	}

	if err := con.Deposits.SetStatus(bg, 1, "pago", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown status: error = %v, want ErrInvalidInput", err)
	}
}

func TestWithdrawals_RejectionReasonOnlyWhenRejecting(t *testing.T) {
	f := newFakeAPI(t)
	f.router.Patch("/api/saques/{id}/status", reply(http.StatusOK, map[string]bool{"ok": true}))
	con, _ := f.console(t, adminSession())

	tests := []struct {
		status     string
		wantReason bool
	}{
		{StatusAprovado, false},
		{StatusPendente, false},
		{StatusRecusado, true},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if err := con.Withdrawals.SetStatus(bg, 42, tt.status, "chave inválida"); err != nil {
				t.Fatalf("SetStatus() error = %v", err)
			}
			req := f.last(t)
			if req.Path != "/api/saques/42/status" {
				t.Errorf("path = %q", req.Path)
			}
			body := decodeBody(t, req.Body)
			_, has := body["motivo_recusa"]
			if has != tt.wantReason {
				t.Errorf("motivo_recusa present = %v, want %v (body %v)", has, tt.wantReason, body)
			}
		})
	}
}

func TestUsers_BlockUnblockMovements(t *testing.T) {
	f := newFakeAPI(t)
	f.router.Patch("/api/admin/usuarios/{id}/bloquear", reply(http.StatusOK, nil))
	f.router.Patch("/api/admin/usuarios/{id}/desbloquear", reply(http.StatusOK, nil))
	f.router.Get("/api/admin/usuarios/{id}/movimentos", reply(http.StatusOK, map[string]any{
		"items": []map[string]any{{"id": 1, "tipo": "deposito", "valor": 10}},
		"total": 31,
	}))
	con, _ := f.console(t, adminSession())

	if err := con.Users.Block(bg, 3, "  "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Block() without reason error = %v", err)
	}
	if err := con.Users.Block(bg, 3, "fraude"); err != nil {
		t.Fatalf("Block() error = %v", err)
	}
	if body := decodeBody(t, f.last(t).Body); body["motivo"] != "fraude" {
		t.Errorf("block body = %v", body)
	}
	if err := con.Users.Unblock(bg, 3); err != nil {
		t.Fatalf("Unblock() error = %v", err)
	}
	if p := f.last(t).Path; p != "/api/admin/usuarios/3/desbloquear" {
		t.Errorf("unblock path = %q", p)
	}

	page, err := con.Users.Movements(bg, 3, ListParams{Page: 1})
	if err != nil {
		t.Fatalf("Movements() error = %v", err)
	}
	if page.Total != 31 {
		t.Errorf("Total = %d, want server value 31", page.Total)
	}
}

func TestFilterUsers(t *testing.T) {
	users := []User{
		{Usuario: "maria", Nome: "Maria Silva"},
		{Usuario: "joao", Email: "joao@SILVA.com"},
		{Usuario: "ana"},
	}
	if got := FilterUsers(users, "silva"); len(got) != 2 {
		t.Errorf("FilterUsers(silva) = %d users, want 2", len(got))
	}
	if got := FilterUsers(users, " "); len(got) != 3 {
		t.Errorf("empty query dropped users: %d", len(got))
	}
	if got := FilterUsers(users, "zé"); len(got) != 0 {
		t.Errorf("FilterUsers(zé) = %v", got)
	}
}

func TestLedger_SummaryPagesThroughEverything(t *testing.T) {
	f := newFakeAPI(t)
	f.router.Get("/api/admin/financeiro/movimentos", func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if r.URL.Query().Get("tipo") != "" {
			t.Errorf("summary forwarded tipo filter")
		}
		var items []Movement
		n := 500
		if page == 2 {
			n = 100
		}
		for i := 0; i < n; i++ {
			items = append(items, Movement{Tipo: "deposito", Valor: 1})
		}
		if page == 2 {
			items = append(items, Movement{Tipo: "saque", Valor: -40})
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": 601})
	})
	con, _ := f.console(t, adminSession())

	sum, err := con.Ledger.Summary(bg, ListParams{Tipo: "saque", Page: 9})
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if sum.Count != 601 || sum.Entradas != 600 || sum.Saidas != 40 || sum.Resultado != 560 {
		t.Errorf("Summary() = %+v", sum)
	}
	if n := len(f.requests()); n != 2 {
		t.Errorf("pages fetched = %d, want 2", n)
	}
}

func TestLedger_Clear(t *testing.T) {
	f := newFakeAPI(t)
	f.router.Post("/api/admin/financeiro/movimentos/clear", reply(http.StatusOK, map[string]int{"removidos": 12}))
	con, _ := f.console(t, adminSession())

	res, err := con.Ledger.Clear(bg, ClearFilter{Tipo: "credito"})
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if res.Removidos != 12 {
		t.Errorf("Removidos = %d", res.Removidos)
	}
	body := decodeBody(t, f.last(t).Body)
	if body["tipo"] != "credito" {
		t.Errorf("body = %v", body)
	}
	if _, ok := body["q"]; ok {
		t.Errorf("empty filter fields were sent: %v", body)
	}
}
