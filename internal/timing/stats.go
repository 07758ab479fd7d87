package timing

import (
	"fmt"
	"time"
)

// Durations is a history of measurements, oldest first.
//
// Averages are computed on whole milliseconds and truncated.
type Durations []time.Duration

// Min returns the shortest duration.
func (d Durations) Min() (time.Duration, bool) {
	if len(d) == 0 {
		return 0, false
	}
	best := d[0]
	for _, v := range d[1:] {
		best = min(best, v)
	}
	return best, true
}

// Avg returns the mean of every duration.
func (d Durations) Avg() (time.Duration, bool) {
	return avg(d)
}

// RollingAvg returns the mean of the n most recent durations, or of all of
// them when there are fewer than n.
func (d Durations) RollingAvg(n int) (time.Duration, bool) {
	if n <= 0 {
		return 0, false
	}
	if n < len(d) {
		return avg(d[len(d)-n:])
	}
	return avg(d)
}

func avg(d []time.Duration) (time.Duration, bool) {
	if len(d) == 0 {
		return 0, false
	}
	var sum int64
	for _, v := range d {
		sum += v.Milliseconds()
	}
	return time.Duration(sum/int64(len(d))) * time.Millisecond, true
}

// Verdict classifies next against the best duration so far.
func (d Durations) Verdict(next time.Duration) Verdict {
	best, ok := d.Min()
	return Classify(next, best, ok)
}

// FormatDuration renders seconds with millisecond precision, e.g. "20.134".
func FormatDuration(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	ms := d.Round(time.Millisecond).Milliseconds()
	return fmt.Sprintf("%s%d.%03d", sign, ms/1000, ms%1000)
}
