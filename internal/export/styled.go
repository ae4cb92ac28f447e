package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/core"
)

// StyleRule assigns a CSS class to rows matching a predicate. Rules are
// evaluated in order; all matching classes are applied.
type StyleRule[T any] struct {
	Class string
	When  func(T) bool
}

// TableHeader is the institutional block printed above a styled export.
type TableHeader struct {
	ChurchName string
	CNPJ       string
	Title      string
	Period     string
}

// styles mirrors the workbook the treasury is used to: inflow rows green,
// outflow rows red, balance colored by sign.
const styles = `<style>
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #999; padding: 4px 8px; font-size: 12px; }
th { background-color: #e0e0e0; font-weight: bold; }
.cabecalho { font-size: 14px; font-weight: bold; border: none; }
.entrada { color: #1a7f37; }
.saida { color: #b42318; }
.saldo-positivo { color: #1a7f37; font-weight: bold; }
.saldo-negativo { color: #b42318; font-weight: bold; }
.total { background-color: #f0f0f0; font-weight: bold; }
</style>`

// StyledTable renders rows as an HTML table document that spreadsheet
// tools accept under the application/vnd.ms-excel MIME type. Style rules
// are applied per row; cell text is HTML-escaped.
func StyledTable[T any](header TableHeader, rows []T, columns []Column[T], rules []StyleRule[T]) string {
	var b strings.Builder
	b.WriteString("<html><head><meta charset=\"UTF-8\">")
	b.WriteString(styles)
	b.WriteString("</head><body>")
	writeHeaderBlock(&b, header, len(columns))
	b.WriteString("<table><thead><tr>")
	for _, col := range columns {
		b.WriteString("<th>")
		b.WriteString(html.EscapeString(col.Label))
		b.WriteString("</th>")
	}
	b.WriteString("</tr></thead><tbody>")
	for _, row := range rows {
		writeStyledRow(&b, row, columns, rules)
	}
	b.WriteString("</tbody></table></body></html>")
	return b.String()
}

func writeHeaderBlock(b *strings.Builder, header TableHeader, width int) {
	if header.ChurchName == "" && header.Title == "" {
		return
	}
	b.WriteString("<table>")
	line := func(text string) {
		if text == "" {
			return
		}
		fmt.Fprintf(b, `<tr><td class="cabecalho" colspan="%d">%s</td></tr>`, width, html.EscapeString(text))
	}
	line(header.ChurchName)
	if header.CNPJ != "" {
		line("CNPJ: " + header.CNPJ)
	}
	line(header.Title)
	line(header.Period)
	b.WriteString("</table>")
}

func writeStyledRow[T any](b *strings.Builder, row T, columns []Column[T], rules []StyleRule[T]) {
	var classes []string
	for _, rule := range rules {
		if rule.When(row) {
			classes = append(classes, rule.Class)
		}
	}
	if len(classes) > 0 {
		fmt.Fprintf(b, `<tr class="%s">`, strings.Join(classes, " "))
	} else {
		b.WriteString("<tr>")
	}
	for _, col := range columns {
		b.WriteString("<td>")
		b.WriteString(html.EscapeString(col.Value(row)))
		b.WriteString("</td>")
	}
	b.WriteString("</tr>")
}

// CashBookRow is one line of the daily cash book: a transaction plus the
// balance after it. The balance is synthesized at export time from the row
// set actually being exported, never from a precomputed value.
type CashBookRow struct {
	Tx           core.Transaction
	BalanceCents int64
	TotalsRow    bool
	TotalsLabel  string
}

// CashBookRows pairs each transaction with its running balance and appends
// a totals row. Transactions are taken in the order given (callers sort by
// date upstream).
func CashBookRows(txs []core.Transaction, openingCents int64) []CashBookRow {
	rows := make([]CashBookRow, 0, len(txs)+1)
	balance := openingCents
	var totalIn, totalOut int64
	for _, tx := range txs {
		switch tx.Kind {
		case core.Inflow:
			balance += tx.Amount.Cents
			totalIn += tx.Amount.Cents
		case core.Outflow:
			balance -= tx.Amount.Cents
			totalOut += tx.Amount.Cents
		}
		rows = append(rows, CashBookRow{Tx: tx, BalanceCents: balance})
	}
	rows = append(rows, CashBookRow{
		TotalsRow:   true,
		TotalsLabel: fmt.Sprintf("Totais — Entradas: %s | Saídas: %s", core.FormatBRL(totalIn), core.FormatBRL(totalOut)),
		BalanceCents: balance,
	})
	return rows
}

// CashBookColumns is the daily cash book layout: date, description,
// category, inflow, outflow, balance.
func CashBookColumns() []Column[CashBookRow] {
	cell := func(f func(CashBookRow) string) func(CashBookRow) string {
		return func(r CashBookRow) string {
			if r.TotalsRow {
				return ""
			}
			return f(r)
		}
	}
	return []Column[CashBookRow]{
		{Label: "Data", Value: cell(func(r CashBookRow) string {
			return fmt.Sprintf("%02d/%02d/%04d", r.Tx.Date.Day(), r.Tx.Date.Month(), r.Tx.Date.Year())
		})},
		{Label: "Descrição", Value: func(r CashBookRow) string {
			if r.TotalsRow {
				return r.TotalsLabel
			}
			return r.Tx.Description
		}},
		{Label: "Categoria", Value: cell(func(r CashBookRow) string { return r.Tx.Category })},
		{Label: "Entrada", Value: cell(func(r CashBookRow) string {
			if r.Tx.Kind != core.Inflow {
				return ""
			}
			return core.FormatBRL(r.Tx.Amount.Cents)
		})},
		{Label: "Saída", Value: cell(func(r CashBookRow) string {
			if r.Tx.Kind != core.Outflow {
				return ""
			}
			return core.FormatBRL(r.Tx.Amount.Cents)
		})},
		{Label: "Saldo", Value: func(r CashBookRow) string { return core.FormatBRL(r.BalanceCents) }},
	}
}

// CashBookRules colors inflow and outflow rows and the balance sign.
func CashBookRules() []StyleRule[CashBookRow] {
	return []StyleRule[CashBookRow]{
		{Class: "entrada", When: func(r CashBookRow) bool { return !r.TotalsRow && r.Tx.Kind == core.Inflow }},
		{Class: "saida", When: func(r CashBookRow) bool { return !r.TotalsRow && r.Tx.Kind == core.Outflow }},
		{Class: "saldo-positivo", When: func(r CashBookRow) bool { return r.BalanceCents >= 0 }},
		{Class: "saldo-negativo", When: func(r CashBookRow) bool { return r.BalanceCents < 0 }},
		{Class: "total", When: func(r CashBookRow) bool { return r.TotalsRow }},
	}
}

// CashBook renders the full daily cash book for one month.
func CashBook(header TableHeader, txs []core.Transaction, openingCents int64) string {
	return StyledTable(header, CashBookRows(txs, openingCents), CashBookColumns(), CashBookRules())
}
