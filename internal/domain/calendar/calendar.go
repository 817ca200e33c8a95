// Package calendar computes the calendar days reports are filed against.
// All keys are taken in a fixed UTC+9 zone regardless of the host timezone.
package calendar

import (
	"fmt"
	"time"
)

// DateKeyLayout is the layout of a date key (YYYY-MM-DD).
const DateKeyLayout = "2006-01-02"

// JST is the fixed zone every date key is computed in.
var JST = time.FixedZone("JST", 9*60*60)

// DateKey returns the JST calendar day of t.
func DateKey(t time.Time) string {
	return t.In(JST).Format(DateKeyLayout)
}

// Day is one selectable calendar day, Offset days before today.
type Day struct {
	Key    string
	Offset int
	date   time.Time
}

// Title is the human readable date, e.g. 2024年06月10日.
func (d Day) Title() string {
	return fmt.Sprintf("%d年%02d月%02d日", d.date.Year(), int(d.date.Month()), d.date.Day())
}

// Relative is the label relative to today: 今日, 昨日 or N日前.
func (d Day) Relative() string {
	switch d.Offset {
	case 0:
		return "今日"
	case 1:
		return "昨日"
	default:
		return fmt.Sprintf("%d日前", d.Offset)
	}
}

// RecentDays returns today and the n-1 days before it, newest first.
func RecentDays(now time.Time, n int) []Day {
	today := now.In(JST)
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, JST)

	days := make([]Day, 0, n)
	for i := 0; i < n; i++ {
		d := today.AddDate(0, 0, -i)
		days = append(days, Day{Key: d.Format(DateKeyLayout), Offset: i, date: d})
	}
	return days
}

// Keys returns the date keys of days in order.
func Keys(days []Day) []string {
	keys := make([]string, len(days))
	for i, d := range days {
		keys[i] = d.Key
	}
	return keys
}
