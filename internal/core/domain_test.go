package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2024, 1, 1), true},
		{NewDate(2024, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestKindValidate(t *testing.T) {
	if err := Inflow.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := Outflow.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := Kind("transfer").Validate(); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err != nil {
		t.Fatalf("zero is a valid amount, got %v", err)
	}
	if err := (Money{Cents: -1}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:        NewDate(2024, 1, 5),
		Kind:        Inflow,
		Category:    "Dízimos",
		Amount:      Money{Cents: 10000},
		Description: "culto domingo",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Date: Date{}, Kind: Inflow, Category: "c", Amount: Money{Cents: 1}},
		{Date: NewDate(2024, 1, 5), Kind: Kind("other"), Category: "c", Amount: Money{Cents: 1}},
		{Date: NewDate(2024, 1, 5), Kind: Inflow, Category: "", Amount: Money{Cents: 1}},
		{Date: NewDate(2024, 1, 5), Kind: Inflow, Category: "c", Amount: Money{Cents: -5}},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestAttendanceReportValidate(t *testing.T) {
	good := AttendanceReport{Date: NewDate(2024, 3, 10), MembersPresent: 12, Visitors: 3}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bad := AttendanceReport{Date: NewDate(2024, 3, 10), MembersPresent: -1}
	if err := bad.Validate(); !errors.Is(err, ErrNegativeCount) {
		t.Fatalf("expected ErrNegativeCount, got %v", err)
	}
}

func TestBudgetTargetValidate(t *testing.T) {
	good := BudgetTarget{Category: "Energia Elétrica", MonthKey: "2024-01", AmountLimit: Money{Cents: 50000}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []BudgetTarget{
		{Category: "", MonthKey: "2024-01", AmountLimit: Money{Cents: 1}},
		{Category: "c", MonthKey: "2024-1", AmountLimit: Money{Cents: 1}},
		{Category: "c", MonthKey: "2024-13", AmountLimit: Money{Cents: 1}},
		{Category: "c", MonthKey: "2024-01", AmountLimit: Money{Cents: -1}},
	}
	for i, b := range bads {
		if err := b.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestMonthKey(t *testing.T) {
	cases := []struct {
		d    Date
		want string
	}{
		{NewDate(2024, 1, 31), "2024-01"},
		{NewDate(2024, 12, 1), "2024-12"},
		{NewDate(999, 9, 9), "0999-09"},
	}
	for i, tc := range cases {
		if got := tc.d.MonthKey(); got != tc.want {
			t.Fatalf("case %d got %q want %q", i, got, tc.want)
		}
	}
}

func TestMonthLabel(t *testing.T) {
	cases := []struct {
		key  string
		want string
	}{
		{"2024-01", "Jan/24"},
		{"2024-02", "Fev/24"},
		{"2025-12", "Dez/25"},
		{"garbage", "garbage"}, // malformed keys pass through
	}
	for i, tc := range cases {
		if got := MonthLabel(tc.key); got != tc.want {
			t.Fatalf("case %d got %q want %q", i, got, tc.want)
		}
	}
}
