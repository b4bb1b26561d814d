package schema

import (
	"fmt"
	"strings"
	"time"
)

// Period scopes one processing run: a calendar month, or a single day when Day > 0.
type Period struct {
	Year  int
	Month time.Month
	Day   int
}

// ParsePeriod accepts YYYYMM, YYYY-MM, YYYYMMDD and YYYY-MM-DD.
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	compact := strings.ReplaceAll(s, "-", "")
	switch len(compact) {
	case 6:
		t, err := time.Parse("200601", compact)
		if err != nil {
			return Period{}, fmt.Errorf("period %q: %w", s, err)
		}
		return Period{Year: t.Year(), Month: t.Month()}, nil
	case 8:
		t, err := time.Parse("20060102", compact)
		if err != nil {
			return Period{}, fmt.Errorf("period %q: %w", s, err)
		}
		return Period{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
	}
	return Period{}, fmt.Errorf("period %q: want YYYYMM or YYYYMMDD", s)
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// String renders the storage-key form of the period.
func (p Period) String() string {
	if p.Day > 0 {
		return fmt.Sprintf("%04d%02d%02d", p.Year, int(p.Month), p.Day)
	}
	return fmt.Sprintf("%04d%02d", p.Year, int(p.Month))
}

func (p Period) IsZero() bool { return p.Year == 0 }

// Contains compares calendar fields only, ignoring the time's location.
func (p Period) Contains(t time.Time) bool {
	if t.Year() != p.Year || t.Month() != p.Month {
		return false
	}
	return p.Day == 0 || t.Day() == p.Day
}

// Previous steps back one month (or one day for daily periods).
func (p Period) Previous() Period {
	if p.Day > 0 {
		t := time.Date(p.Year, p.Month, p.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
		return Period{Year: t.Year(), Month: t.Month(), Day: t.Day()}
	}
	t := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return MonthOf(t)
}
