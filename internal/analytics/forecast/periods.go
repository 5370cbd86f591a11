package forecast

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

const (
	monthLayout = "2006-01"
	dayLayout   = "2006-01-02"
)

// NextPeriods continues a sequence of period labels n steps. Monthly
// (YYYY-MM), daily (YYYY-MM-DD) and RFC3339 labels step by the gap between the
// last two labels; integer labels step by their difference. Anything else gets
// "<last>+h".
func NextPeriods(periods []string, n int) []string {
	if n <= 0 {
		return []string{}
	}
	labels := make([]string, n)
	if len(periods) == 0 {
		for h := 1; h <= n; h++ {
			labels[h-1] = fmt.Sprintf("+%d", h)
		}
		return labels
	}

	last := periods[len(periods)-1]
	prev := ""
	if len(periods) > 1 {
		prev = periods[len(periods)-2]
	}

	if next, ok := nextMonths(prev, last, n); ok {
		return next
	}
	if next, ok := nextTimes(dayLayout, prev, last, n); ok {
		return next
	}
	if next, ok := nextTimes(time.RFC3339, prev, last, n); ok {
		return next
	}
	if next, ok := nextIntegers(prev, last, n); ok {
		return next
	}

	for h := 1; h <= n; h++ {
		labels[h-1] = fmt.Sprintf("%s+%d", last, h)
	}
	return labels
}

func nextMonths(prev, last string, n int) ([]string, bool) {
	lastT, err := time.Parse(monthLayout, last)
	if err != nil {
		return nil, false
	}
	step := 1
	if prevT, err := time.Parse(monthLayout, prev); err == nil {
		diff := monthsBetween(prevT, lastT)
		if diff > 0 {
			step = diff
		}
	}

	labels := make([]string, n)
	for h := 1; h <= n; h++ {
		labels[h-1] = lastT.AddDate(0, step*h, 0).Format(monthLayout)
	}
	return labels, true
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

func nextTimes(layout, prev, last string, n int) ([]string, bool) {
	lastT, err := time.Parse(layout, last)
	if err != nil {
		return nil, false
	}
	step := 24 * time.Hour
	if prevT, err := time.Parse(layout, prev); err == nil {
		if gap := lastT.Sub(prevT); gap > 0 {
			step = gap
		}
	}

	labels := make([]string, n)
	for h := 1; h <= n; h++ {
		labels[h-1] = lastT.Add(time.Duration(h) * step).Format(layout)
	}
	return labels, true
}

// nextIntegers declines labels whose continuation would overflow int64
func nextIntegers(prev, last string, n int) ([]string, bool) {
	lastN, err := strconv.ParseInt(last, 10, 64)
	if err != nil {
		return nil, false
	}
	step := int64(1)
	if prevN, err := strconv.ParseInt(prev, 10, 64); err == nil && lastN > prevN {
		if d := lastN - prevN; d > 0 {
			step = d
		}
	}
	if step > (math.MaxInt64-max(lastN, 0))/int64(n) {
		return nil, false
	}

	labels := make([]string, n)
	for h := 1; h <= n; h++ {
		labels[h-1] = strconv.FormatInt(lastN+step*int64(h), 10)
	}
	return labels, true
}
