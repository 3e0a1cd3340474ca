// Package report buckets closed budgets (revenue) and investments (expense)
// into calendar months.
package report

import (
	"sort"
	"time"

	"oficina-backend/internal/models"

	"github.com/shopspring/decimal"
)

// UnknownKey collects records without a usable date.
const UnknownKey = "unknown"

const (
	keyLayout    = "2006-01"
	WindowMonths = 12
)

type Bucket struct {
	Key     string          `json:"key"`
	Revenue decimal.Decimal `json:"revenue"`
	Expense decimal.Decimal `json:"expense"`
	Profit  decimal.Decimal `json:"profit"`
}

type Report struct {
	Buckets []Bucket `json:"buckets"`
	Totals  Bucket   `json:"totals"`
}

// BucketKey is the month key of t in its own location; callers convert to
// the shop's location first.
func BucketKey(t time.Time) string {
	if t.IsZero() {
		return UnknownKey
	}
	return t.Format(keyLayout)
}

type entry struct {
	at      time.Time
	revenue decimal.Decimal
	expense decimal.Decimal
}

// entries keeps closed budgets only; a budget's revenue is the sum of its
// item prices.
func entries(budgets []models.Budget, investments []models.Investment) []entry {
	out := make([]entry, 0, len(budgets)+len(investments))
	for _, b := range budgets {
		if b.Status != models.BudgetStatusClosed {
			continue
		}
		out = append(out, entry{at: b.CreatedAt, revenue: b.LineItems.Total()})
	}
	for _, inv := range investments {
		out = append(out, entry{at: inv.CreatedAt, expense: inv.Amount})
	}
	return out
}

// WindowStart is the first instant of the oldest month in the trailing window
// ending at now's month.
func WindowStart(now time.Time) time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.AddDate(0, -(WindowMonths - 1), 0)
}

// FixedWindow reports the 12 months ending at now's month, oldest first.
// Every month is present even when empty; records outside the window or
// without a date are dropped.
func FixedWindow(now time.Time, budgets []models.Budget, investments []models.Investment) Report {
	start := WindowStart(now)
	keys := make([]string, 0, WindowMonths)
	for i := 0; i < WindowMonths; i++ {
		keys = append(keys, start.AddDate(0, i, 0).Format(keyLayout))
	}

	acc := make(map[string]*Bucket, len(keys))
	for _, k := range keys {
		acc[k] = &Bucket{Key: k}
	}
	for _, e := range entries(budgets, investments) {
		if e.at.IsZero() {
			continue
		}
		b, ok := acc[BucketKey(e.at.In(now.Location()))]
		if !ok {
			continue
		}
		b.Revenue = b.Revenue.Add(e.revenue)
		b.Expense = b.Expense.Add(e.expense)
	}
	return build(keys, acc)
}

// DynamicWindow reports every month that has data in loc, ascending, with
// the unknown bucket last.
func DynamicWindow(loc *time.Location, budgets []models.Budget, investments []models.Investment) Report {
	acc := make(map[string]*Bucket)
	keys := make([]string, 0)
	for _, e := range entries(budgets, investments) {
		k := UnknownKey
		if !e.at.IsZero() {
			k = BucketKey(e.at.In(loc))
		}
		b, ok := acc[k]
		if !ok {
			b = &Bucket{Key: k}
			acc[k] = b
			keys = append(keys, k)
		}
		b.Revenue = b.Revenue.Add(e.revenue)
		b.Expense = b.Expense.Add(e.expense)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == UnknownKey || keys[j] == UnknownKey {
			return keys[j] == UnknownKey && keys[i] != UnknownKey
		}
		return keys[i] < keys[j]
	})
	return build(keys, acc)
}

func build(keys []string, acc map[string]*Bucket) Report {
	r := Report{Buckets: make([]Bucket, 0, len(keys)), Totals: Bucket{Key: "total"}}
	for _, k := range keys {
		b := *acc[k]
		b.Profit = b.Revenue.Sub(b.Expense)
		r.Buckets = append(r.Buckets, b)

		r.Totals.Revenue = r.Totals.Revenue.Add(b.Revenue)
		r.Totals.Expense = r.Totals.Expense.Add(b.Expense)
	}
	r.Totals.Profit = r.Totals.Revenue.Sub(r.Totals.Expense)
	return r
}
