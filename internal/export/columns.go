package export

import (
	"strconv"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/core"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/report"
)

// MonthlyReportColumns is the monthly summary layout the treasury reports
// use: Mês, Dízimos, Ofertas, Total Entradas, Total Saídas, Saldo.
func MonthlyReportColumns() []Column[report.MonthBucket] {
	return []Column[report.MonthBucket]{
		{Label: "Mês", Value: func(mb report.MonthBucket) string { return mb.Label }},
		{Label: "Dízimos", Value: func(mb report.MonthBucket) string { return core.FormatBRL(mb.TithesCents) }},
		{Label: "Ofertas", Value: func(mb report.MonthBucket) string { return core.FormatBRL(mb.OfferingsCents) }},
		{Label: "Total Entradas", Value: func(mb report.MonthBucket) string { return core.FormatBRL(mb.IncomeCents) }},
		{Label: "Total Saídas", Value: func(mb report.MonthBucket) string { return core.FormatBRL(mb.ExpenseCents) }},
		{Label: "Saldo", Value: func(mb report.MonthBucket) string { return core.FormatBRL(mb.BalanceCents) }},
	}
}

// MergedSeriesColumns extends the monthly layout with attendance fields
// for the combined export.
func MergedSeriesColumns() []Column[report.MergedRow] {
	return []Column[report.MergedRow]{
		{Label: "Mês", Value: func(r report.MergedRow) string { return r.Label }},
		{Label: "Total Entradas", Value: func(r report.MergedRow) string { return core.FormatBRL(r.IncomeCents) }},
		{Label: "Total Saídas", Value: func(r report.MergedRow) string { return core.FormatBRL(r.ExpenseCents) }},
		{Label: "Saldo", Value: func(r report.MergedRow) string { return core.FormatBRL(r.BalanceCents) }},
		{Label: "Membros Presentes", Value: func(r report.MergedRow) string { return strconv.Itoa(r.MembersPresent) }},
		{Label: "Visitantes", Value: func(r report.MergedRow) string { return strconv.Itoa(r.Visitors) }},
		{Label: "Frequência Total", Value: func(r report.MergedRow) string { return strconv.Itoa(r.AttendanceTotal) }},
	}
}
