// Package export renders aggregated report rows as downloadable artifacts:
// semicolon-delimited text for CSV imports and styled table markup that
// spreadsheet tools open as a workbook.
//
// Formatting is pure and deterministic: the same row set always produces
// byte-identical output.
package export

import "strings"

// Column maps one report field to an exported column. Label is the
// human-readable header; Value renders the cell for a row.
type Column[T any] struct {
	Label string
	Value func(T) string
}

// bom is prefixed to delimited output so spreadsheet tools auto-detect
// UTF-8 instead of falling back to the platform codepage.
const bom = "\uFEFF"

const delimiter = ';'

// Delimited renders rows as semicolon-separated text with a UTF-8 BOM.
// The header row carries the column labels. Cells containing the
// delimiter, quotes, or newlines are quoted. Empty input produces a
// header-only document.
func Delimited[T any](rows []T, columns []Column[T]) string {
	var b strings.Builder
	b.WriteString(bom)
	for i, col := range columns {
		if i > 0 {
			b.WriteByte(byte(delimiter))
		}
		b.WriteString(escapeField(col.Label))
	}
	b.WriteByte('\n')
	for _, row := range rows {
		for i, col := range columns {
			if i > 0 {
				b.WriteByte(byte(delimiter))
			}
			b.WriteString(escapeField(col.Value(row)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func escapeField(s string) string {
	if !strings.ContainsAny(s, ";\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
