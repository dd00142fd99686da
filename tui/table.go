package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Table is a titled grid of cells.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Render lays the table out in columns, padding by display width so
// accented names and symbols line up.
func (t Table) Render() string {
	cols := len(t.Headers)
	for _, r := range t.Rows {
		cols = max(cols, len(r))
	}
	if cols == 0 {
		return t.Title
	}

	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	measure(t.Headers)
	for _, r := range t.Rows {
		measure(r)
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString(t.Title)
		b.WriteString("\n")
	}
	writeRow := func(row []string) {
		for i := range cols {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if i == cols-1 {
				b.WriteString(cell)
			} else {
				b.WriteString(runewidth.FillRight(cell, widths[i]))
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}
	if len(t.Headers) > 0 {
		writeRow(t.Headers)
		sep := make([]string, cols)
		for i, w := range widths {
			sep[i] = strings.Repeat("-", w)
		}
		writeRow(sep)
	}
	for _, r := range t.Rows {
		writeRow(r)
	}
	if len(t.Rows) == 0 {
		b.WriteString("(nenhum registro)\n")
	}
	return strings.TrimRight(b.String(), " \n")
}

var brl = message.NewPrinter(language.BrazilianPortuguese)

// BRL formats v as Brazilian reais, e.g. "R$ 1.234,50".
func BRL(v float64) string {
	if v < 0 {
		return "-" + brl.Sprintf("R$ %.2f", -v)
	}
	return brl.Sprintf("R$ %.2f", v)
}

// Percent formats a ratio as a percentage with two decimals.
func Percent(v float64) string {
	return brl.Sprintf("%.2f%%", v*100)
}
