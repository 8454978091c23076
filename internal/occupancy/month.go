package occupancy

import (
	"fmt"
	"time"
)

// Month is the calendar month the board is looking at.
type Month struct {
	Year  int
	Month time.Month
}

func MonthOf(t time.Time) Month {
	y, m, _ := t.Date()
	return Month{Year: y, Month: m}
}

// ParseMonth parses "2006-01".
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return MonthOf(t), nil
}

func (m Month) String() string {
	return m.First().Format("2006-01")
}

func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Last is midnight of the last day of the month.
func (m Month) Last() time.Time {
	return m.First().AddDate(0, 1, -1)
}

func (m Month) DaysIn() int {
	return m.Last().Day()
}

// Date returns midnight of day in this month.
func (m Month) Date(day int) time.Time {
	return time.Date(m.Year, m.Month, day, 0, 0, 0, 0, time.UTC)
}

func (m Month) Contains(t time.Time) bool {
	y, mo, _ := t.Date()
	return y == m.Year && mo == m.Month
}

func (m Month) Add(months int) Month {
	return MonthOf(m.First().AddDate(0, months, 0))
}

func (m Month) Days() []int {
	n := m.DaysIn()
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func (m Month) ValidDay(day int) bool {
	return day >= 1 && day <= m.DaysIn()
}
