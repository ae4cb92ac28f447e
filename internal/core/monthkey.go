package core

import (
	"fmt"
	"strconv"
)

// months abbreviated the way the reports render them (pt-BR).
var monthAbbrev = [12]string{
	"Jan", "Fev", "Mar", "Abr", "Mai", "Jun",
	"Jul", "Ago", "Set", "Out", "Nov", "Dez",
}

// FormatMonthKey renders the canonical zero-padded "YYYY-MM" key.
// Keys sort lexicographically in chronological order.
func FormatMonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ValidMonthKey reports whether s is a well-formed "YYYY-MM" key.
func ValidMonthKey(s string) bool {
	_, _, err := ParseMonthKey(s)
	return err == nil
}

// ParseMonthKey splits a "YYYY-MM" key into year and month.
func ParseMonthKey(s string) (year, month int, err error) {
	if len(s) != 7 || s[4] != '-' {
		return 0, 0, ErrInvalidMonthKey
	}
	year, err = strconv.Atoi(s[:4])
	if err != nil || year < 1 {
		return 0, 0, ErrInvalidMonthKey
	}
	month, err = strconv.Atoi(s[5:])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, ErrInvalidMonthKey
	}
	return year, month, nil
}

// MonthLabel renders the human label for a month key, e.g. "Jan/24".
// A malformed key is returned unchanged so a bad label never breaks a
// report row.
func MonthLabel(monthKey string) string {
	year, month, err := ParseMonthKey(monthKey)
	if err != nil {
		return monthKey
	}
	return fmt.Sprintf("%s/%02d", monthAbbrev[month-1], year%100)
}
