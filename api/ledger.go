package api

import (
	"math"
	"strings"
)

var (
	inflowTypes = map[string]bool{
		"deposito":          true,
		"credito":           true,
		"deposito_aprovado": true,
	}
	outflowTypes = map[string]bool{
		"pagamento_saque": true,
		"saque_pago":      true,
		"saque":           true,
	}
)

// CashSummary is the company cash position over a set of movements.
type CashSummary struct {
	Entradas  float64
	Saidas    float64
	Resultado float64
	Count     int
}

// SummarizeCash totals inflows and outflows. A movement counts with the
// absolute value of its amount; when the amount is zero, the balance delta
// is used instead if it points the right way. Other types are ignored.
func SummarizeCash(movements []Movement) CashSummary {
	var s CashSummary
	for _, m := range movements {
		tipo := strings.ToLower(m.Tipo)
		delta := m.SaldoDepois - m.SaldoAntes

		switch {
		case inflowTypes[tipo]:
			amount := m.Valor
			if amount == 0 && delta > 0 {
				amount = delta
			}
			s.Entradas += math.Abs(amount)
		case outflowTypes[tipo]:
			amount := m.Valor
			if amount == 0 && delta < 0 {
				amount = delta
			}
			s.Saidas += math.Abs(amount)
		default:
			continue
		}
		s.Count++
	}
	s.Resultado = s.Entradas - s.Saidas
	return s
}

// FilterMovements keeps movements of the given type (case-insensitive).
// An empty tipo keeps everything.
func FilterMovements(movements []Movement, tipo string) []Movement {
	tipo = strings.ToLower(strings.TrimSpace(tipo))
	if tipo == "" {
		return movements
	}
	var out []Movement
	for _, m := range movements {
		if strings.ToLower(m.Tipo) == tipo {
			out = append(out, m)
		}
	}
	return out
}

// NetDelta sums the balance change across movements.
func NetDelta(movements []Movement) float64 {
	var total float64
	for _, m := range movements {
		total += m.SaldoDepois - m.SaldoAntes
	}
	return total
}
