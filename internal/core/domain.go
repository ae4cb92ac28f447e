package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Inflow  Kind = "inflow"
	Outflow Kind = "outflow"
)

type (
	// Kind distinguishes money entering the ledger from money leaving it.
	Kind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is an immutable ledger record. The engine only reads
	// snapshots; the source-of-truth store owns the records.
	Transaction struct {
		ID          int64
		Date        Date
		Kind        Kind
		Category    string
		Amount      Money
		Description string
		CreatedAt   time.Time
	}

	// AttendanceReport is one cell/meeting report. Many reports may share
	// a date or a month.
	AttendanceReport struct {
		ID             int64
		Date           Date
		MembersPresent int
		Visitors       int
		Adults         int
		Youth          int
		Children       int
	}

	// BudgetTarget is the configured spend limit for one (category, month)
	// pair. Upsert semantics, last write wins.
	BudgetTarget struct {
		Category    string
		MonthKey    string
		AmountLimit Money
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidKind     = errors.New("invalid kind")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyCategory   = errors.New("empty category")
	ErrInvalidMonthKey = errors.New("invalid month key")
	ErrNegativeCount   = errors.New("negative count")
)

func (k Kind) Validate() error {
	switch k {
	case Inflow, Outflow:
		return nil
	default:
		return ErrInvalidKind
	}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// IsEmpty returns true if the date is zero (for optional dates)
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// MonthKey renders the sortable "YYYY-MM" key from the date's own calendar
// fields. No timezone conversion happens here: the year and month are read
// exactly as stored, so records near midnight never shift buckets.
func (d Date) MonthKey() string {
	return FormatMonthKey(d.Year(), d.Month())
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	return nil
}

func (a AttendanceReport) Validate() error {
	if err := a.Date.Validate(); err != nil {
		return err
	}
	if a.MembersPresent < 0 || a.Visitors < 0 {
		return ErrNegativeCount
	}
	if a.Adults < 0 || a.Youth < 0 || a.Children < 0 {
		return ErrNegativeCount
	}
	return nil
}

func (b BudgetTarget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if !ValidMonthKey(b.MonthKey) {
		return ErrInvalidMonthKey
	}
	if err := b.AmountLimit.Validate(); err != nil {
		return err
	}
	return nil
}
