package report

import "sort"

// MergedRow joins the financial and attendance series for one month.
// A month present in only one series keeps zeroes on the other side.
type MergedRow struct {
	MonthKey       string  `json:"monthKey"`
	Label          string  `json:"label"`
	IncomeCents    int64   `json:"incomeCents"`
	ExpenseCents   int64   `json:"expenseCents"`
	TithesCents    int64   `json:"tithesCents"`
	OfferingsCents int64   `json:"offeringsCents"`
	BalanceCents   int64   `json:"balanceCents"`
	MembersPresent int     `json:"membersPresent"`
	Visitors       int     `json:"visitors"`
	AttendanceTotal int    `json:"attendanceTotal"`
	GrowthRatePct  float64 `json:"growthRatePct"`
}

// Merge full-outer-joins the two series on month key: the union of keys,
// sorted ascending, with all-zero defaults for whichever side is absent.
// The label comes from whichever side has the month, falling back to the
// bare key. No month is ever dropped because one series lacks data for it.
func Merge(financial []MonthBucket, attendance []AttendanceBucket) []MergedRow {
	fin := make(map[string]MonthBucket, len(financial))
	att := make(map[string]AttendanceBucket, len(attendance))
	keySet := make(map[string]struct{}, len(financial)+len(attendance))
	for _, mb := range financial {
		fin[mb.MonthKey] = mb
		keySet[mb.MonthKey] = struct{}{}
	}
	for _, ab := range attendance {
		att[ab.MonthKey] = ab
		keySet[ab.MonthKey] = struct{}{}
	}

	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]MergedRow, 0, len(keys))
	prevTotal := 0
	for i, key := range keys {
		row := MergedRow{MonthKey: key, Label: key}
		if mb, ok := fin[key]; ok {
			row.Label = mb.Label
			row.IncomeCents = mb.IncomeCents
			row.ExpenseCents = mb.ExpenseCents
			row.TithesCents = mb.TithesCents
			row.OfferingsCents = mb.OfferingsCents
			row.BalanceCents = mb.BalanceCents
		}
		if ab, ok := att[key]; ok {
			if row.Label == key && ab.Label != "" {
				row.Label = ab.Label
			}
			row.MembersPresent = ab.MembersPresent
			row.Visitors = ab.Visitors
			row.AttendanceTotal = ab.Total
		}
		// Growth against the previous month's attendance; a zero previous
		// total yields 0 rather than dividing.
		if i > 0 && prevTotal > 0 {
			row.GrowthRatePct = float64(row.AttendanceTotal-prevTotal) / float64(prevTotal) * 100
		}
		prevTotal = row.AttendanceTotal
		rows = append(rows, row)
	}
	return rows
}
