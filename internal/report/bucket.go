package report

import (
	"sort"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/core"
)

// BucketTransactionsByMonth groups transactions into calendar-month buckets
// keyed by "YYYY-MM". Input order is irrelevant; an empty slice yields an
// empty map.
func BucketTransactionsByMonth(records []core.Transaction) map[string][]core.Transaction {
	buckets := make(map[string][]core.Transaction, len(records)/4+1)
	for _, tx := range records {
		key := tx.Date.MonthKey()
		buckets[key] = append(buckets[key], tx)
	}
	return buckets
}

// BucketAttendanceByMonth groups attendance reports the same way.
func BucketAttendanceByMonth(reports []core.AttendanceReport) map[string][]core.AttendanceReport {
	buckets := make(map[string][]core.AttendanceReport, len(reports)/4+1)
	for _, rep := range reports {
		key := rep.Date.MonthKey()
		buckets[key] = append(buckets[key], rep)
	}
	return buckets
}

// sortedKeys returns the bucket keys in ascending (chronological) order.
func sortedKeys[T any](buckets map[string]T) []string {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
