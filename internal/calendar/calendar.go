// Package calendar holds the day-granular date arithmetic shared by the price
// log day keys and the dividend month stepping.
package calendar

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateFormat is the canonical ISO-8601 day format used for storage keys.
const DateFormat = "2006-01-02"

// MonthFormat is the bucket label format for monthly aggregates.
const MonthFormat = "2006-01"

// readDateFormat also accepts single digit month/day, e.g. 2024-3-1.
const readDateFormat = "2006-1-2"

// Date is a calendar day with no time-of-day and no location.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date, so New(2024, 1, 32) is 2024-02-01.
func New(year int, month time.Month, day int) Date {
	y, m, d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Date()
	return Date{y, m, d}
}

// On returns the calendar day of t as seen in loc.
func On(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	return New(t.In(loc).Date())
}

// Parse parses YYYY-MM-DD (single digit month and day are tolerated).
func Parse(str string) (Date, error) {
	t, err := time.Parse(readDateFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, DateFormat, err)
	}
	return New(t.Date()), nil
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

func (d Date) Year() int          { return d.y }
func (d Date) Month() time.Month  { return d.m }
func (d Date) Day() int           { return d.d }
func (d Date) IsZero() bool       { return d == Date{} }
func (d Date) String() string     { return d.utc().Format(DateFormat) }
func (d Date) MonthKey() string   { return d.utc().Format(MonthFormat) }
func (d Date) Before(x Date) bool { return d.utc().Before(x.utc()) }
func (d Date) After(x Date) bool  { return d.utc().After(x.utc()) }

func (d Date) utc() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Midnight returns the instant the day starts in loc.
func (d Date) Midnight(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, loc)
}

// AddDays returns the date n days later (n may be negative).
func (d Date) AddDays(n int) Date { return New(d.y, d.m, d.d+n) }

// AddMonths moves the date by n months keeping the day of month when the
// target month has it, and clamping to the target month's last day otherwise:
// 2024-01-31 + 1 month is 2024-02-29, not 2024-03-02.
func (d Date) AddMonths(n int) Date {
	first := New(d.y, d.m+time.Month(n), 1)
	day := min(d.d, DaysIn(first.y, first.m))
	return Date{first.y, first.m, day}
}

// FirstOfMonth returns the first day of d's month.
func (d Date) FirstOfMonth() Date { return Date{d.y, d.m, 1} }

// DaysIn returns the number of days of the month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthKeys returns n consecutive YYYY-MM labels starting at from's month.
func MonthKeys(from Date, n int) []string {
	keys := make([]string, 0, n)
	first := from.FirstOfMonth()
	for i := 0; i < n; i++ {
		keys = append(keys, first.AddMonths(i).MonthKey())
	}
	return keys
}

func (d *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	if str == "" {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(str)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.String())
}

var _ json.Marshaler = Date{}
var _ json.Unmarshaler = (*Date)(nil)
