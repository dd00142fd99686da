package api

// Deposit is a player deposit ticket as the admin console sees it.
type Deposit struct {
	ID         int64   `json:"id"`
	UsuarioID  int64   `json:"usuario_id"`
	Usuario    string  `json:"usuario,omitempty"`
	Valor      float64 `json:"valor"`
	Metodo     string  `json:"metodo"`
	Referencia string  `json:"referencia,omitempty"`
	Status     string  `json:"status"`
	Motivo     string  `json:"motivo,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

// Withdrawal is a PIX payout request.
type Withdrawal struct {
	ID           int64   `json:"id"`
	UsuarioID    int64   `json:"usuario_id"`
	Usuario      string  `json:"usuario,omitempty"`
	Valor        float64 `json:"valor"`
	PixChave     string  `json:"pix_chave"`
	Status       string  `json:"status"`
	MotivoRecusa string  `json:"motivo_recusa,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// User is a platform account.
type User struct {
	ID        int64   `json:"id"`
	Usuario   string  `json:"usuario"`
	Nome      string  `json:"nome,omitempty"`
	Email     string  `json:"email,omitempty"`
	Role      string  `json:"role"`
	Bloqueado bool    `json:"bloqueado"`
	Saldo     float64 `json:"saldo"`
	CreatedAt string  `json:"created_at"`
}

// Movement is one ledger line. SaldoAntes/SaldoDepois are the account
// balance around the movement.
type Movement struct {
	ID          int64   `json:"id"`
	UsuarioID   int64   `json:"usuario_id"`
	Usuario     string  `json:"usuario,omitempty"`
	Tipo        string  `json:"tipo"`
	Descricao   string  `json:"descricao,omitempty"`
	Valor       float64 `json:"valor"`
	SaldoAntes  float64 `json:"saldo_antes"`
	SaldoDepois float64 `json:"saldo_depois"`
	CreatedAt   string  `json:"created_at"`
}

// Balance is the player's wallet balance.
type Balance struct {
	Saldo float64 `json:"saldo"`
}

// Deposit statuses.
const (
	StatusPendente = "pendente"
	StatusAprovado = "aprovado"
	StatusRecusado = "recusado"
)

func validReviewStatus(s string) bool {
	switch s {
	case StatusPendente, StatusAprovado, StatusRecusado:
		return true
	}
	return false
}
