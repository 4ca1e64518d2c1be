// Package format holds the display-text helpers shared by the chart pages.
package format

import (
	"fmt"
	"time"
)

// GridDateLayout is the layout of absolute dates shown in grid columns.
const GridDateLayout = "2006-01-02 15:04"

// DaysHoursMinutes renders the absolute distance between start and end as
// "<d> d, <h> h, <m> m". Seconds are truncated.
func DaysHoursMinutes(start, end time.Time) string {
	return daysHoursMinutes(absDuration(end.Sub(start)))
}

// RelativeOffset renders t as an offset from origin, e.g. "T+1 d, 2 h, 0 m".
func RelativeOffset(origin, t time.Time) string {
	d := t.Sub(origin)
	sign := "+"
	if d < 0 {
		sign = "-"
	}
	return "T" + sign + daysHoursMinutes(absDuration(d))
}

// GridDate renders t in UTC for a grid column.
func GridDate(t time.Time) string {
	return t.UTC().Format(GridDateLayout)
}

func daysHoursMinutes(d time.Duration) string {
	total := int64(d / time.Second)
	days := total / 86400
	hours := total % 86400 / 3600
	minutes := total % 86400 % 3600 / 60
	return fmt.Sprintf("%d d, %d h, %d m", days, hours, minutes)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
