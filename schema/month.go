package schema

import (
	"fmt"
	"time"
)

// MonthLayout is the canonical text form of a calendar month.
const MonthLayout = "2006-01"

// Month is a calendar month. It is comparable and safe to use as a map key.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month containing t, evaluated in UTC.
func MonthOf(t time.Time) Month {
	u := t.UTC()
	return Month{Year: u.Year(), Month: u.Month()}
}

// ParseMonth parses a "YYYY-MM" string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q (expected YYYY-MM): %w", s, err)
	}
	return MonthOf(t), nil
}

// Start returns midnight UTC on the first day of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths returns the month n months after m (n may be negative).
func (m Month) AddMonths(n int) Month {
	return MonthOf(m.Start().AddDate(0, n, 0))
}

// Next returns the following calendar month.
func (m Month) Next() Month {
	return m.AddMonths(1)
}

// Before reports whether m is strictly earlier than o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// Compare returns -1, 0 or +1 depending on whether m is before, equal to or after o.
func (m Month) Compare(o Month) int {
	switch {
	case m.Before(o):
		return -1
	case o.Before(m):
		return 1
	}
	return 0
}

// IsZero reports whether m is the zero Month.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// String renders the month as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Label renders the month as a short column header such as "Jan 2025".
func (m Month) Label() string {
	return m.Start().Format("Jan 2006")
}

// MarshalText implements encoding.TextMarshaler.
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Month) UnmarshalText(b []byte) error {
	parsed, err := ParseMonth(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MonthRange returns n consecutive months starting at start.
func MonthRange(start Month, n int) []Month {
	months := make([]Month, 0, max(n, 0))
	for i := range n {
		months = append(months, start.AddMonths(i))
	}
	return months
}
