// Package calendar resolves reference dates against an exchange trading
// calendar: yearly lists of open-market dates in YYYYMMDD form.
package calendar

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrInvalidDate is returned when a zero or unparseable reference date
// reaches the resolver.
var ErrInvalidDate = errors.New("calendar: reference date is empty or not a valid YYYYMMDD date")

// GapError indicates that a resolution query needed a year that is not
// present in the calendar table. The table is an externally supplied
// artifact, so a missing year is a configuration error, not a recoverable
// condition.
type GapError struct {
	Year int
}

// Error implements the error interface for GapError.
func (e *GapError) Error() string {
	return fmt.Sprintf("calendar: no trading-day list for year %d", e.Year)
}

// Table maps a year to its ascending list of trading days (YYYYMMDD).
type Table map[int][]int

// yearKeyFormat is the document key shape holding one year's trading days.
const yearKeyFormat = "trd_date_%d_list"

// TableFromDocument extracts a Table from a decoded calendar document whose
// keys have the shape "trd_date_{year}_list". Keys of any other shape are
// ignored; a matching key with a malformed day list is an error.
func TableFromDocument(doc map[string]any) (Table, error) {
	table := make(Table)
	for key, raw := range doc {
		var year int
		if n, err := fmt.Sscanf(key, yearKeyFormat, &year); n != 1 || err != nil {
			continue
		}
		days, err := toDayList(raw)
		if err != nil {
			return nil, fmt.Errorf("calendar: key %q: %w", key, err)
		}
		sort.Ints(days)
		table[year] = days
	}
	return table, nil
}

// toDayList converts a decoded fragment value into a list of YYYYMMDD ints.
// YAML decodes the entries as int, JSON as float64.
func toDayList(raw any) ([]int, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list of dates, got %T", raw)
	}
	days := make([]int, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case int:
			days = append(days, v)
		case int64:
			days = append(days, int(v))
		case float64:
			days = append(days, int(v))
		default:
			return nil, fmt.Errorf("expected an integer date, got %T", item)
		}
	}
	return days, nil
}

// Resolver answers trading-day queries against a Table. All methods are pure
// functions of the table and the argument date.
type Resolver struct {
	table Table
}

// NewResolver returns a Resolver over the given table.
func NewResolver(table Table) Resolver {
	return Resolver{table: table}
}

// IsTradingDay reports whether date is a member of its year's trading-day
// list. A missing year is a GapError: the table must cover every year a
// query references.
func (r Resolver) IsTradingDay(date int) (bool, error) {
	if date == 0 {
		return false, ErrInvalidDate
	}
	days, ok := r.table[date/10000]
	if !ok || len(days) == 0 {
		return false, &GapError{Year: date / 10000}
	}
	_, member := search(days, date)
	return member, nil
}

// NextTradingDay returns the smallest trading day strictly greater than
// date. When date is at or past its year's last entry the query rolls over
// to the following year's first entry; the following year must then be
// present in the table. A member resolves to its neighbor by index; a
// non-trading date steps one calendar day at a time until it lands on an
// entry.
func (r Resolver) NextTradingDay(date int) (int, error) {
	if date == 0 {
		return 0, ErrInvalidDate
	}
	year := date / 10000
	days, ok := r.table[year]
	if !ok || len(days) == 0 {
		return 0, &GapError{Year: year}
	}
	if date >= days[len(days)-1] {
		next, ok := r.table[year+1]
		if !ok || len(next) == 0 {
			return 0, &GapError{Year: year + 1}
		}
		return next[0], nil
	}
	if i, member := search(days, date); member {
		return days[i+1], nil
	}
	// date lies strictly inside the year's span, so stepping forward must
	// reach an entry at or before the year's last trading day.
	for {
		stepped, err := step(date, 1)
		if err != nil {
			return 0, err
		}
		date = stepped
		if _, member := search(days, date); member {
			return date, nil
		}
	}
}

// PreviousTradingDay returns the largest trading day strictly less than
// date. The mirror image of NextTradingDay: at or before the year's first
// entry it rolls over to the preceding year's last entry.
func (r Resolver) PreviousTradingDay(date int) (int, error) {
	if date == 0 {
		return 0, ErrInvalidDate
	}
	year := date / 10000
	days, ok := r.table[year]
	if !ok || len(days) == 0 {
		return 0, &GapError{Year: year}
	}
	if date <= days[0] {
		prev, ok := r.table[year-1]
		if !ok || len(prev) == 0 {
			return 0, &GapError{Year: year - 1}
		}
		return prev[len(prev)-1], nil
	}
	if i, member := search(days, date); member {
		return days[i-1], nil
	}
	for {
		stepped, err := step(date, -1)
		if err != nil {
			return 0, err
		}
		date = stepped
		if _, member := search(days, date); member {
			return date, nil
		}
	}
}

// search locates date in the ascending list, reporting its index and
// membership.
func search(days []int, date int) (int, bool) {
	i := sort.SearchInts(days, date)
	return i, i < len(days) && days[i] == date
}

// step moves date by delta calendar days, honoring month and year lengths.
func step(date int, delta int) (int, error) {
	t, err := time.Parse("20060102", fmt.Sprintf("%08d", date))
	if err != nil {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDate, date)
	}
	stepped := t.AddDate(0, 0, delta)
	return stepped.Year()*10000 + int(stepped.Month())*100 + stepped.Day(), nil
}
